package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// DefaultPath is where the wizard writes its result.
const DefaultPath = ".ytnotes.yml"

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to ytnotes! Let's configure note generation.")
	fmt.Println()

	cfg := DefaultConfig()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"google", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: DefaultModels[cfg.Provider],
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	embedPrompt := promptui.Select{
		Label: "Semantic search over your notes",
		Items: []string{
			"off",
			"google - text-embedding-004",
			"openai - text-embedding-3-small",
			"ollama - nomic-embed-text (local)",
		},
	}
	embedIdx, _, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding selection: %w", err)
	}
	if embedIdx > 0 {
		p := []ProviderType{ProviderGoogle, ProviderOpenAI, ProviderOllama}[embedIdx-1]
		cfg.EmbeddingProvider = p
		cfg.EmbeddingModel = DefaultEmbeddingModels[p]
	}

	portPrompt := promptui.Prompt{
		Label:    "Server port",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	redisPrompt := promptui.Prompt{
		Label:   "Redis URL for the transcript cache (blank for in-memory only)",
		Default: "",
	}
	redisURL, err := redisPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	cfg.RedisURL = strings.TrimSpace(redisURL)

	langPrompt := promptui.Prompt{
		Label:   "Preferred transcript languages (comma-separated)",
		Default: strings.Join(cfg.Languages, ","),
	}
	langStr, err := langPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("languages: %w", err)
	}
	if langs := splitAndTrim(langStr); len(langs) > 0 {
		cfg.Languages = langs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment (or .env) before running ytnotes.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and drops empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
