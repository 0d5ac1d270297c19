package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/zudsniper/ytnote/internal/segment"
	"github.com/zudsniper/ytnote/internal/transcript"
)

// Deepgram pre-recorded transcription.
// POST https://api.deepgram.com/v1/listen with the raw audio as body.
type deepgramBackend struct {
	apiKey   string
	model    string
	endpoint string
	hc       *http.Client
}

func NewDeepgramBackend(apiKey, model string, timeout time.Duration) Backend {
	if model == "" {
		model = "nova-2"
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &deepgramBackend{
		apiKey:   apiKey,
		model:    model,
		endpoint: "https://api.deepgram.com/v1/listen",
		hc:       &http.Client{Timeout: timeout},
	}
}

type dgResp struct {
	Metadata struct {
		Duration float64 `json:"duration"`
	} `json:"metadata"`
	Results struct {
		Utterances []struct {
			Start      float64 `json:"start"`
			End        float64 `json:"end"`
			Transcript string  `json:"transcript"`
		} `json:"utterances"`
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string `json:"transcript"`
				Words      []struct {
					Word           string  `json:"word"`
					PunctuatedWord string  `json:"punctuated_word"`
					Start          float64 `json:"start"`
					End            float64 `json:"end"`
				} `json:"words"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (d *deepgramBackend) Transcribe(ctx context.Context, audioPath, language string) (Transcript, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return Transcript{}, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return Transcript{}, err
	}

	q := url.Values{}
	q.Set("model", d.model)
	if language != "" {
		q.Set("language", language)
	}
	q.Set("smart_format", "true")
	q.Set("punctuate", "true")
	q.Set("paragraphs", "true")
	q.Set("utterances", "true")
	q.Set("utt_split", "0.8")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint+"?"+q.Encode(), f)
	if err != nil {
		return Transcript{}, err
	}
	req.ContentLength = fi.Size()
	req.Header.Set("Authorization", "Token "+d.apiKey)
	req.Header.Set("Content-Type", audioContentType(audioPath))

	resp, err := d.hc.Do(req)
	if err != nil {
		return Transcript{}, errors.New(redact(fmt.Sprintf("deepgram request: %v", err), d.apiKey))
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Transcript{}, errors.New(redact(fmt.Sprintf("deepgram http %d: %s", resp.StatusCode, strings.TrimSpace(string(b))), d.apiKey))
	}

	var dr dgResp
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return Transcript{}, fmt.Errorf("decode deepgram response: %w", err)
	}

	tr := Transcript{
		Language: language,
		Duration: time.Duration(dr.Metadata.Duration * float64(time.Second)),
	}
	if len(dr.Results.Channels) > 0 && dr.Results.Channels[0].DetectedLanguage != "" {
		tr.Language = dr.Results.Channels[0].DetectedLanguage
	}

	// Utterances give the most natural breaks; word grouping is the fallback.
	if len(dr.Results.Utterances) > 0 {
		for _, u := range dr.Results.Utterances {
			tr.Segments = append(tr.Segments, transcript.Segment{Start: u.Start, End: u.End, Text: strings.TrimSpace(u.Transcript)})
		}
		return tr, nil
	}
	if len(dr.Results.Channels) > 0 && len(dr.Results.Channels[0].Alternatives) > 0 {
		var words []segment.Word
		for _, w := range dr.Results.Channels[0].Alternatives[0].Words {
			text := w.PunctuatedWord
			if text == "" {
				text = w.Word
			}
			words = append(words, segment.Word{Text: text, Start: w.Start, End: w.End})
		}
		tr.Segments = segment.Words(words, segment.DefaultOptions)
	}
	return tr, nil
}
