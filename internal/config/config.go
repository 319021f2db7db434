package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Search   SearchConfig   `mapstructure:"search" validate:"required"`
	Translit TranslitConfig `mapstructure:"translit"`
	Enrich   EnrichConfig   `mapstructure:"enrich" validate:"required"`
	Curation CurationConfig `mapstructure:"curation" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeoutSeconds bounds graceful shutdown of in-flight streams.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains the record store connection settings.
type DatabaseConfig struct {
	// Driver selects the database/sql driver: "pgx" for PostgreSQL or
	// "sqlite" for a local file (or ":memory:").
	Driver string `mapstructure:"driver" validate:"required,oneof=pgx sqlite"`
	URL    string `mapstructure:"url" validate:"required"`
}

// SearchConfig contains settings for the external search index.
type SearchConfig struct {
	URL            string `mapstructure:"url" validate:"required,url"`
	Core           string `mapstructure:"core" validate:"required"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gt=0"`
	Rows           int    `mapstructure:"rows" validate:"gt=0"`
}

// TranslitConfig points at the transliteration profile used by the
// candidate generator. An empty ProfilePath selects the built-in profile.
type TranslitConfig struct {
	ProfilePath string `mapstructure:"profile_path"`
}

// EnrichConfig tunes the enrichment pipeline.
type EnrichConfig struct {
	// WorkerCount sizes the CPU-bound worker pool. Zero means runtime.NumCPU().
	WorkerCount int `mapstructure:"worker_count" validate:"gte=0"`
	// MaxInflightQueries caps concurrent index queries per batch. Zero means unbounded.
	MaxInflightQueries int `mapstructure:"max_inflight_queries" validate:"gte=0"`
}

// CurationConfig contains settings for the manual curation queue.
type CurationConfig struct {
	// SeedFile is a newline-delimited list of identifiers. When empty the
	// queue is seeded from the record store.
	SeedFile string `mapstructure:"seed_file"`
	// Store selects the payload storage: "memory" or "badger".
	Store string `mapstructure:"store" validate:"required,oneof=memory badger"`
	// BadgerPath is the badger directory. Empty runs badger in memory.
	BadgerPath string `mapstructure:"badger_path"`
	// CuratorKeyHash is a bcrypt hash of the key curators must present.
	// Empty leaves the queue routes open.
	CuratorKeyHash string `mapstructure:"curator_key_hash"`
}
