package main

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	// TempoAPIBaseURL is the default base URL for the Tempo AI API.
	TempoAPIBaseURL = "https://api.jointempo.ai/api/v1"

	// UserAgent identifies this client on every outbound request.
	UserAgent = "tempoai-mcp-server/" + Version

	// Version is the server version reported to MCP clients and the API.
	Version = "1.0"
)

// Config holds the process-wide settings loaded once at startup.
// It is read-only after LoadConfig returns.
type Config struct {
	APIKey  string
	BaseURL string
}

// LoadConfig reads configuration from the environment, loading a .env
// file first if one is present. A missing API key is not an error here:
// tools may supply a per-call key, and the gateway reports the absence
// as an auth failure at request time.
func LoadConfig() *Config {
	// Best effort; absence of a .env file is the normal case.
	_ = godotenv.Load()

	baseURL := os.Getenv("TEMPO_AI_API_BASE_URL")
	if baseURL == "" {
		baseURL = TempoAPIBaseURL
	}

	return &Config{
		APIKey:  os.Getenv("API_KEY"),
		BaseURL: baseURL,
	}
}
