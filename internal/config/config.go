package config

import (
	"github.com/caresight/caresight-backend/internal/platform/envutil"
)

// AIConfig is resolved once at process start and injected into the completion
// client. A missing API key is a first-class state: the service starts, and every
// completion call reports a structured failure instead of reaching the provider.
type AIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	MaxTokens      int
	Temperature    float64
	TopP           float64
	TimeoutSeconds int
}

func (c AIConfig) Configured() bool {
	return c.APIKey != ""
}

func LoadAI() AIConfig {
	return AIConfig{
		APIKey:         envutil.String("OPENAI_API_KEY", ""),
		BaseURL:        envutil.String("OPENAI_BASE_URL", "https://api.openai.com"),
		Model:          envutil.String("AI_MODEL", "gpt-4o-mini"),
		MaxTokens:      envutil.Int("AI_MAX_TOKENS", 4000),
		Temperature:    envutil.Float("AI_TEMPERATURE", 0.3),
		TopP:           envutil.Float("AI_TOP_P", 0.9),
		TimeoutSeconds: envutil.Int("AI_TIMEOUT_SECONDS", 60),
	}
}
