package driven

import "github.com/custodia-labs/docqa/internal/core/domain"

// ConfigStore persists application settings.
type ConfigStore interface {
	// Load reads the persisted settings. A missing file yields defaults.
	Load() (domain.Settings, error)

	// Save writes the settings.
	Save(settings domain.Settings) error

	// Path returns the backing file path, for diagnostics.
	Path() string
}
