// Package config loads service configuration from environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Provider identifies an LLM or embedding backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	Port string

	// LLM extraction backend
	LLMProvider     Provider
	LLMModel        string
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Embedding backend
	EmbedProvider  Provider
	EmbedModel     string
	EmbedDimension int

	// Raw candidate tagger. Empty URL selects the built-in pattern tagger.
	TaggerURL string

	// Ontology seed file, loaded at startup when set.
	OntologyFile string

	// Default database scope stamped on results when requests omit one.
	DefaultDatabase string

	// Max concurrently in-flight documents per batch request.
	BatchConcurrency int

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		Port: getEnv("ONTOGRAPH_PORT", "8000"),

		LLMProvider:     Provider(getEnv("ONTOGRAPH_LLM_PROVIDER", string(ProviderOllama))),
		LLMModel:        getEnv("ONTOGRAPH_LLM_MODEL", "llama3"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		EmbedProvider:  Provider(getEnv("ONTOGRAPH_EMBED_PROVIDER", string(ProviderOllama))),
		EmbedModel:     getEnv("ONTOGRAPH_EMBED_MODEL", "all-minilm:l6-v2"),
		EmbedDimension: getEnvInt("ONTOGRAPH_EMBED_DIMENSION", 384),

		TaggerURL:    os.Getenv("ONTOGRAPH_TAGGER_URL"),
		OntologyFile: os.Getenv("ONTOGRAPH_ONTOLOGY_FILE"),

		DefaultDatabase: getEnv("ONTOGRAPH_DEFAULT_DATABASE", "default"),

		BatchConcurrency: getEnvInt("ONTOGRAPH_BATCH_CONCURRENCY", 4),

		LogFile:  getEnv("ONTOGRAPH_LOG_FILE", "/tmp/ontograph.log"),
		LogLevel: parseLogLevel(getEnv("ONTOGRAPH_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
