package transcribe

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/zudsniper/ytnote/internal/transcript"
)

// ErrMissingCredential is returned when a backend's API credential is not configured.
var ErrMissingCredential = errors.New("missing speech-recognition credential")

// CredentialError names the environment variable a backend needs.
type CredentialError struct {
	Backend string
	EnvVar  string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("missing speech-recognition credential: %s backend requires %s", e.Backend, e.EnvVar)
}

func (e *CredentialError) Is(target error) bool { return target == ErrMissingCredential }

// Transcript bundles the recognized segments.
type Transcript struct {
	Language string
	Segments []transcript.Segment
	Duration time.Duration
}

// Backend is a pluggable speech-recognition backend.
type Backend interface {
	Transcribe(ctx context.Context, audioPath, language string) (Transcript, error)
}

// Settings carries the credentials and tuning for every backend.
type Settings struct {
	DeepgramAPIKey string
	DeepgramModel  string
	OpenAIAPIKey   string
	OpenAIModel    string
	CFAccountID    string
	CFAPIToken     string
	CFModel        string
	Timeout        time.Duration
}

// NewBackend builds the named backend. A missing credential yields a
// *CredentialError so callers can tell it apart from transport failures.
func NewBackend(name string, s Settings) (Backend, error) {
	switch strings.ToLower(name) {
	case "", "deepgram":
		if s.DeepgramAPIKey == "" {
			return nil, &CredentialError{Backend: "deepgram", EnvVar: "DEEPGRAM_API_KEY"}
		}
		return NewDeepgramBackend(s.DeepgramAPIKey, s.DeepgramModel, s.Timeout), nil
	case "openai":
		if s.OpenAIAPIKey == "" {
			return nil, &CredentialError{Backend: "openai", EnvVar: "OPENAI_API_KEY"}
		}
		return NewOpenAIBackend(s.OpenAIAPIKey, s.OpenAIModel, s.Timeout), nil
	case "cloudflare":
		if s.CFAccountID == "" {
			return nil, &CredentialError{Backend: "cloudflare", EnvVar: "CLOUDFLARE_ACCOUNT_ID"}
		}
		if s.CFAPIToken == "" {
			return nil, &CredentialError{Backend: "cloudflare", EnvVar: "CLOUDFLARE_API_TOKEN"}
		}
		return NewCloudflareBackend(s.CFAccountID, s.CFAPIToken, s.CFModel, s.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown speech backend: %s", name)
	}
}

func audioContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".webm":
		return "audio/webm"
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}

// redact removes secret from s.
func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}
