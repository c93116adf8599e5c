package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderGoogle ProviderType = "google"
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level ytnotes configuration, corresponding to .ytnotes.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`

	Port            int    `yaml:"port" koanf:"port"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	RequestTimeout  string `yaml:"request_timeout" koanf:"request_timeout"`
	ServerURL       string `yaml:"server_url" koanf:"server_url"`

	DataDir         string   `yaml:"data_dir" koanf:"data_dir"`
	DownloadDir     string   `yaml:"download_dir" koanf:"download_dir"`
	Languages       []string `yaml:"languages" koanf:"languages"`
	RedisURL        string   `yaml:"redis_url" koanf:"redis_url"`
	CacheTTL        string   `yaml:"cache_ttl" koanf:"cache_ttl"`
	CacheMaxEntries int      `yaml:"cache_max_entries" koanf:"cache_max_entries"`
}
