package config

import (
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

type Config struct {
	HTTPPort        string
	ShutdownTimeout time.Duration
	Transcript      TranscriptConfig
	Translation     TranslationConfig
}

type TranscriptConfig struct {
	// Languages is the caption language preference, most preferred first.
	Languages []string
	Timeout   time.Duration
}

type TranslationConfig struct {
	Provider string
	Timeout  time.Duration
	DeepL    DeepLConfig
	OpenAI   OpenAIConfig
}

type DeepLConfig struct {
	AuthKey   string
	ServerURL string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func Load() Config {
	providerTimeout := env.Duration("PROVIDER_HTTP_TIMEOUT", 30*time.Second)

	var languages []string
	for _, lang := range env.List("TRANSCRIPT_LANGUAGES", "en") {
		if lang = strings.TrimSpace(lang); lang != "" {
			languages = append(languages, lang)
		}
	}
	if len(languages) == 0 {
		languages = []string{"en"}
	}

	return Config{
		HTTPPort:        env.Str("HTTP_PORT", "5000"),
		ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		Transcript: TranscriptConfig{
			Languages: languages,
			Timeout:   providerTimeout,
		},
		Translation: TranslationConfig{
			Provider: env.Str("TRANSLATION_PROVIDER", "deepl"),
			Timeout:  providerTimeout,
			DeepL: DeepLConfig{
				AuthKey:   env.Str("DEEPL_AUTH_KEY", ""),
				ServerURL: env.Str("DEEPL_SERVER_URL", ""),
			},
			OpenAI: OpenAIConfig{
				APIKey:  env.Str("OPENAI_API_KEY", ""),
				BaseURL: env.Str("OPENAI_BASE_URL", ""),
				Model:   env.Str("OPENAI_MODEL", "gpt-4o-mini"),
			},
		},
	}
}
