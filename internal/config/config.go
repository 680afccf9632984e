package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the service reads at startup.
type Config struct {
	Server   ServerConfig
	GenAI    GenAIConfig
	Database DatabaseConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	genai, err := loadGenAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		GenAI:    genai,
		Database: DatabaseConfig{URL: strings.TrimSpace(os.Getenv("DATABASE_URL"))},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// GenAIConfig describes the outbound generation endpoint. The API key is
// mandatory: the process refuses to start without it.
type GenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func loadGenAIConfig() (GenAIConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("GENAI_API_KEY"))
	if apiKey == "" {
		return GenAIConfig{}, fmt.Errorf("GENAI_API_KEY is required")
	}

	timeoutSeconds := 30
	if raw := strings.TrimSpace(os.Getenv("GENAI_TIMEOUT_SECONDS")); raw != "" {
		parsed, err := parsePositiveInt("GENAI_TIMEOUT_SECONDS", raw)
		if err != nil {
			return GenAIConfig{}, err
		}
		timeoutSeconds = parsed
	}

	return GenAIConfig{
		APIKey:  apiKey,
		BaseURL: getEnvOrDefault("GENAI_BASE_URL", "https://api.openai.com/v1/responses"),
		Model:   getEnvOrDefault("GENAI_MODEL", "gpt-4o-mini"),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// DatabaseConfig is optional; when URL is empty the in-memory session store
// is used.
type DatabaseConfig struct {
	URL string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parsePositiveInt(key, raw string) (int, error) {
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return 0, fmt.Errorf("invalid %s value: %q", key, raw)
	}
	return val, nil
}
