// Package config holds global settings for the honeypot service. Everything
// is configurable via environment variables; a .env file in the working
// directory is loaded first when present.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults mirrored by NewDefaultConfig. The callback endpoint and thresholds
// are fixed by the reporting platform contract.
const (
	DefaultCallbackURL        = "https://hackathon.guvi.in/api/updateHoneyPotFinalResult"
	DefaultCallbackRetries    = 3
	DefaultCallbackTimeout    = 5 * time.Second
	DefaultCallbackRetryDelay = 1 * time.Second
	DefaultMinTurns           = 5
	DefaultLLMModel           = "gpt-4o-mini"

	// Fallback replies. The non-scam line answers messages the detector
	// passed over; the error line answers anything that failed internally.
	FallbackReplyNonScam    = "Can you explain what you mean?"
	FallbackReplyAgentError = "I'm not sure, could you please explain?"
)

// Config holds all runtime settings.
type Config struct {
	// === Core ===
	Port   string // HTTP listen port
	APIKey string // Required: must match the x-api-key request header

	// === Notification callback ===
	CallbackURL        string
	CallbackRetries    int
	CallbackTimeout    time.Duration
	CallbackRetryDelay time.Duration
	MinTurns           int // Scam turns required before a report is dispatched

	// === Reply generation (optional - falls back to canned replies) ===
	LLMAPIKey  string
	LLMModel   string
	LLMBaseURL string // OpenAI-compatible endpoint; default api.openai.com

	// === Detection extras (optional) ===
	PatternsFile    string // YAML keyword table overrides
	EnableSemantics bool   // Advisory embedding-similarity layer
	EmbedBaseURL    string // Ollama base URL for embeddings
	EmbedModel      string

	// === Report archive (optional - enabled when DSN set) ===
	ArchiveDSN string // Postgres DSN for the append-only report archive
}

// NewDefaultConfig loads .env if present and builds a Config from the
// environment with sensible defaults.
func NewDefaultConfig() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("[STARTUP] Loaded environment from .env")
	}

	return &Config{
		Port:   GetEnv("PORT", "8000"),
		APIKey: strings.TrimSpace(os.Getenv("API_KEY")),

		CallbackURL:        GetEnv("HONEYPOT_CALLBACK_URL", DefaultCallbackURL),
		CallbackRetries:    GetEnvInt("HONEYPOT_CALLBACK_RETRIES", DefaultCallbackRetries),
		CallbackTimeout:    time.Duration(GetEnvInt("HONEYPOT_CALLBACK_TIMEOUT_SECONDS", 5)) * time.Second,
		CallbackRetryDelay: DefaultCallbackRetryDelay,
		MinTurns:           GetEnvInt("HONEYPOT_MIN_TURNS", DefaultMinTurns),

		LLMAPIKey:  strings.TrimSpace(GetEnv("OPENAI_API_KEY", "")),
		LLMModel:   GetEnv("LLM_MODEL", DefaultLLMModel),
		LLMBaseURL: GetEnv("LLM_BASE_URL", ""),

		PatternsFile:    GetEnv("HONEYPOT_PATTERNS_FILE", ""),
		EnableSemantics: GetEnvBool("HONEYPOT_ENABLE_SEMANTICS", false),
		EmbedBaseURL:    GetEnv("HONEYPOT_EMBED_BASE_URL", "http://localhost:11434"),
		EmbedModel:      GetEnv("HONEYPOT_EMBED_MODEL", "nomic-embed-text"),

		ArchiveDSN: GetEnv("HONEYPOT_ARCHIVE_DSN", ""),
	}
}

// Validate checks required settings. The API key is always required: without
// it every inbound request would be rejected.
func (c *Config) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "API_KEY (shared secret for the x-api-key header)")
	}
	if c.CallbackURL == "" {
		missing = append(missing, "HONEYPOT_CALLBACK_URL")
	}
	if c.MinTurns < 1 {
		return fmt.Errorf("HONEYPOT_MIN_TURNS must be >= 1, got %d", c.MinTurns)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// MustValidate calls Validate and fatally exits on failure. Call at startup
// before serving.
func (c *Config) MustValidate() {
	if err := c.Validate(); err != nil {
		log.Fatalf("[STARTUP] FATAL: configuration validation failed: %v", err)
	}
	log.Println("[STARTUP] Configuration validated successfully")
}

// Helper functions for environment variable parsing.

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
