package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// ErrMissingAPIKey is returned when no Gemini credential is available.
// It is checked before any network call is attempted.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY environment variable is not set")

type Config struct {
	GeminiApiKey       string
	DatabaseURL        string
	DebriefModel       string
	ResearchModel      string
	EmbeddingModel     string
	MinTaskPriority    int
	MinConfidence      int
	MaxRetries         int
	RequestTimeout     time.Duration
	ResearchWorkers    int
	MaxTranscriptChars int
}

func Load() *Config {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}

	return &Config{
		GeminiApiKey:       apiKey,
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DebriefModel:       getEnv("DEBRIEF_MODEL", "gemini-3-flash-preview"),
		ResearchModel:      getEnv("RESEARCH_MODEL", "gemini-3-flash-preview"),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "gemini-embedding-001"),
		MinTaskPriority:    getEnvAsInt("MIN_TASK_PRIORITY", 6),
		MinConfidence:      getEnvAsInt("MIN_CONFIDENCE", 6),
		MaxRetries:         getEnvAsInt("MAX_RETRIES", 3),
		RequestTimeout:     time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 120)) * time.Second,
		ResearchWorkers:    getEnvAsInt("RESEARCH_WORKERS", 3),
		MaxTranscriptChars: getEnvAsInt("MAX_TRANSCRIPT_CHARS", 60000),
	}
}

// RequireAPIKey enforces the credential precondition before the first
// model call.
func (c *Config) RequireAPIKey() error {
	if c.GeminiApiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
