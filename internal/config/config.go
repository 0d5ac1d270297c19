// Package config reads ytnote settings from the environment.
package config

import (
	"time"

	"github.com/anatolykoptev/go-kit/env"

	"github.com/zudsniper/ytnote/internal/transcribe"
)

type Config struct {
	DeepgramAPIKey string
	DeepgramModel  string
	OpenAIAPIKey   string
	OpenAIModel    string
	CFAccountID    string
	CFAPIToken     string
	CFModel        string
	SpeechBackend  string
	SpeechTimeout  time.Duration
	FFmpegTimeout  time.Duration
	TmpDir         string
	Language       string
}

// Load reads the configuration. Call LoadDefaultEnv first to pick up .env files.
func Load() Config {
	return Config{
		DeepgramAPIKey: env.Str("DEEPGRAM_API_KEY", ""),
		DeepgramModel:  env.Str("DEEPGRAM_MODEL", "nova-2"),
		OpenAIAPIKey:   env.Str("OPENAI_API_KEY", ""),
		OpenAIModel:    env.Str("OPENAI_TRANSCRIBE_MODEL", "whisper-1"),
		CFAccountID:    env.Str("CLOUDFLARE_ACCOUNT_ID", ""),
		CFAPIToken:     env.Str("CLOUDFLARE_API_TOKEN", ""),
		CFModel:        env.Str("CLOUDFLARE_WHISPER_MODEL", "@cf/openai/whisper"),
		SpeechBackend:  env.Str("YTNOTE_SPEECH_BACKEND", "deepgram"),
		SpeechTimeout:  env.Duration("YTNOTE_SPEECH_TIMEOUT", 5*time.Minute),
		FFmpegTimeout:  env.Duration("YTNOTE_FFMPEG_TIMEOUT", 10*time.Minute),
		TmpDir:         env.Str("YTNOTE_TMPDIR", ""),
		Language:       env.Str("YTNOTE_LANGUAGE", "en"),
	}
}

// Speech returns the backend settings.
func (c Config) Speech() transcribe.Settings {
	return transcribe.Settings{
		DeepgramAPIKey: c.DeepgramAPIKey,
		DeepgramModel:  c.DeepgramModel,
		OpenAIAPIKey:   c.OpenAIAPIKey,
		OpenAIModel:    c.OpenAIModel,
		CFAccountID:    c.CFAccountID,
		CFAPIToken:     c.CFAPIToken,
		CFModel:        c.CFModel,
		Timeout:        c.SpeechTimeout,
	}
}
