package config

import "path/filepath"

// DefaultModels maps each provider to the model used when none is set.
var DefaultModels = map[ProviderType]string{
	ProviderGoogle: "gemini-1.5-flash",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3",
}

// DefaultEmbeddingModels maps each provider to its default embedding model.
var DefaultEmbeddingModels = map[ProviderType]string{
	ProviderGoogle: "text-embedding-004",
	ProviderOpenAI: "text-embedding-3-small",
	ProviderOllama: "nomic-embed-text",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderGoogle,
		Model:             DefaultModels[ProviderGoogle],
		RequestsPerMinute: 15,
		Port:              8080,
		RequestTimeout:    "5m",
		DataDir:           ".ytnotes",
		DownloadDir:       ".",
		Languages:         []string{"en"},
		CacheTTL:          "24h",
		CacheMaxEntries:   500,
	}
}

// DatabasePath returns the history database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// SearchDir returns the directory holding the persisted search index.
func (c *Config) SearchDir() string {
	return filepath.Join(c.DataDir, "search")
}
