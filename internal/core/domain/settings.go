package domain

// EmbeddingProviderKind identifies an embedding backend.
type EmbeddingProviderKind string

// Available embedding providers.
const (
	// EmbeddingProviderOpenAI is the remote OpenAI-compatible API.
	EmbeddingProviderOpenAI EmbeddingProviderKind = "openai"

	// EmbeddingProviderFallback is the deterministic offline hash projection.
	EmbeddingProviderFallback EmbeddingProviderKind = "fallback"
)

// IsValid returns true if the provider kind is recognised.
func (p EmbeddingProviderKind) IsValid() bool {
	switch p {
	case EmbeddingProviderOpenAI, EmbeddingProviderFallback:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p EmbeddingProviderKind) String() string {
	return string(p)
}

// VectorBackend identifies the in-process ANN backend.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendFlat is an exact full scan.
	VectorBackendFlat VectorBackend = "flat"

	// VectorBackendIVF partitions vectors and probes a subset per query.
	VectorBackendIVF VectorBackend = "ivf"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	return b == VectorBackendFlat || b == VectorBackendIVF
}

// ChunkingSettings controls how documents are cut into chunks.
type ChunkingSettings struct {
	// Window is the target chunk length in tokens.
	Window int `toml:"window"`

	// Overlap is the token overlap between adjacent prose chunks.
	// Must be smaller than Window.
	Overlap int `toml:"overlap"`
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider selects the backend.
	Provider EmbeddingProviderKind `toml:"provider"`

	// Model is the embedding model name (remote provider).
	Model string `toml:"model"`

	// BaseURL is the API endpoint (remote provider).
	BaseURL string `toml:"base_url"`

	// APIKey is the API key (remote provider).
	APIKey string `toml:"api_key"`

	// Dimensions is the embedding vector size. Persisted vectors must
	// match or index load refuses to serve.
	Dimensions int `toml:"dimensions"`

	// TimeoutSeconds bounds one remote batch call.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// FusionSettings holds the score fusion weights.
//
// The non-reranked path fuses vector and lexical scores with alpha, then
// blends in the fuzzy score at a fixed ratio. The reranked path uses its own
// three-way weights. The two paths are deliberately kept distinct.
type FusionSettings struct {
	// AlphaReal is the vector weight when a real embedding backend is active.
	AlphaReal float64 `toml:"alpha_real"`

	// AlphaFallback is the vector weight when the deterministic fallback
	// is active; its geometry is weaker, so lexical signal is trusted more.
	AlphaFallback float64 `toml:"alpha_fallback"`

	// FuzzBlend is the fuzzy share of the final non-reranked blend.
	FuzzBlend float64 `toml:"fuzz_blend"`

	// RerankVector, RerankLexical and RerankFuzz are the reranked-path weights.
	RerankVector  float64 `toml:"rerank_vector"`
	RerankLexical float64 `toml:"rerank_lexical"`
	RerankFuzz    float64 `toml:"rerank_fuzz"`
}

// RetrievalSettings holds query-time engine configuration.
type RetrievalSettings struct {
	// CacheSize bounds the LRU query cache (entries).
	CacheSize int `toml:"cache_size"`

	// Backend selects the ANN backend.
	Backend VectorBackend `toml:"backend"`

	// Rerank enables the reranked fusion path by default.
	Rerank bool `toml:"rerank"`
}

// ConfidenceSettings holds confidence estimation configuration.
type ConfidenceSettings struct {
	// MaxContextChunks caps how many top results feed the estimate.
	MaxContextChunks int `toml:"max_context_chunks"`

	// EscalationThreshold marks queries below it for escalation.
	EscalationThreshold float64 `toml:"escalation_threshold"`
}

// Settings holds all application settings.
type Settings struct {
	Chunking   ChunkingSettings   `toml:"chunking"`
	Embedding  EmbeddingSettings  `toml:"embedding"`
	Fusion     FusionSettings     `toml:"fusion"`
	Retrieval  RetrievalSettings  `toml:"retrieval"`
	Confidence ConfidenceSettings `toml:"confidence"`
}

// DefaultSettings returns settings with sensible defaults. The fallback
// embedding provider is active until a remote provider is configured, so a
// fresh install works offline.
func DefaultSettings() Settings {
	return Settings{
		Chunking: ChunkingSettings{
			Window:  256,
			Overlap: 32,
		},
		Embedding: EmbeddingSettings{
			Provider:       EmbeddingProviderFallback,
			Dimensions:     384,
			TimeoutSeconds: 30,
		},
		Fusion: FusionSettings{
			AlphaReal:     0.7,
			AlphaFallback: 0.35,
			FuzzBlend:     0.2,
			RerankVector:  0.55,
			RerankLexical: 0.25,
			RerankFuzz:    0.20,
		},
		Retrieval: RetrievalSettings{
			CacheSize: 128,
			Backend:   VectorBackendFlat,
		},
		Confidence: ConfidenceSettings{
			MaxContextChunks:    5,
			EscalationThreshold: 0.55,
		},
	}
}
