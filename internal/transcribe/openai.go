package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zudsniper/ytnote/internal/transcript"
)

// OpenAI speech-to-text via audio.transcriptions
type openAIBackend struct {
	apiKey   string
	model    string
	endpoint string
	hc       *http.Client
}

func NewOpenAIBackend(apiKey, model string, timeout time.Duration) Backend {
	if model == "" {
		model = "whisper-1"
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &openAIBackend{
		apiKey:   apiKey,
		model:    model,
		endpoint: "https://api.openai.com/v1/audio/transcriptions",
		hc:       &http.Client{Timeout: timeout},
	}
}

// verbose_json carries per-segment timings.
type openAIResp struct {
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (o *openAIBackend) Transcribe(ctx context.Context, audioPath, language string) (Transcript, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return Transcript{}, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", o.model); err != nil {
		return Transcript{}, err
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return Transcript{}, err
	}
	if language != "" {
		// whisper wants ISO-639-1; zh-Hant -> zh
		base, _, _ := strings.Cut(language, "-")
		if err := mw.WriteField("language", base); err != nil {
			return Transcript{}, err
		}
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return Transcript{}, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return Transcript{}, err
	}
	if err := mw.Close(); err != nil {
		return Transcript{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, &body)
	if err != nil {
		return Transcript{}, err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := o.hc.Do(req)
	if err != nil {
		return Transcript{}, errors.New(redact(fmt.Sprintf("openai request: %v", err), o.apiKey))
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Transcript{}, errors.New(redact(fmt.Sprintf("openai http %d: %s", resp.StatusCode, strings.TrimSpace(string(b))), o.apiKey))
	}
	var or openAIResp
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return Transcript{}, err
	}

	tr := Transcript{Language: language, Duration: time.Duration(or.Duration * float64(time.Second))}
	for _, s := range or.Segments {
		tr.Segments = append(tr.Segments, transcript.Segment{Start: s.Start, End: s.End, Text: strings.TrimSpace(s.Text)})
	}
	// Models without segment output still return the full text.
	if len(tr.Segments) == 0 && strings.TrimSpace(or.Text) != "" {
		tr.Segments = []transcript.Segment{{Start: 0, End: or.Duration, Text: strings.TrimSpace(or.Text)}}
	}
	return tr, nil
}
