// Package services implements the driving port interfaces.
// Services contain the core business logic - the hybrid retrieval engine,
// the confidence estimator and the ingestion pipeline - and orchestrate
// calls to driven ports (adapters).
package services
