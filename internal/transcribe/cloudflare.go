package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zudsniper/ytnote/internal/segment"
	"github.com/zudsniper/ytnote/internal/transcript"
)

// Cloudflare Workers AI backend.
// POST https://api.cloudflare.com/client/v4/accounts/{account_id}/ai/run/{model}
// with the raw audio as body and a bearer API token.
type cloudflareBackend struct {
	accountID string
	apiToken  string
	model     string
	baseURL   string
	hc        *http.Client
}

func NewCloudflareBackend(accountID, apiToken, model string, timeout time.Duration) Backend {
	if model == "" {
		model = "@cf/openai/whisper"
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &cloudflareBackend{
		accountID: accountID,
		apiToken:  apiToken,
		model:     model,
		baseURL:   "https://api.cloudflare.com/client/v4",
		hc:        &http.Client{Timeout: timeout},
	}
}

type cfResp struct {
	Success bool `json:"success"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Result json.RawMessage `json:"result"`
}

type cfWhisperResult struct {
	Text  string `json:"text"`
	Words []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
}

func (c *cloudflareBackend) Transcribe(ctx context.Context, audioPath, language string) (Transcript, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return Transcript{}, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return Transcript{}, err
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", c.baseURL, c.accountID, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, f)
	if err != nil {
		return Transcript{}, err
	}
	req.ContentLength = fi.Size()
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", audioContentType(audioPath))

	resp, err := c.hc.Do(req)
	if err != nil {
		return Transcript{}, errors.New(redact(fmt.Sprintf("cloudflare request: %v", err), c.apiToken))
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Transcript{}, errors.New(redact(fmt.Sprintf("cloudflare http %d: %s", resp.StatusCode, strings.TrimSpace(string(b))), c.apiToken))
	}

	var cr cfResp
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Transcript{}, fmt.Errorf("decode cloudflare response: %w", err)
	}
	if !cr.Success {
		msgs := make([]string, 0, len(cr.Errors))
		for _, e := range cr.Errors {
			msgs = append(msgs, e.Message)
		}
		return Transcript{}, fmt.Errorf("cloudflare response not successful: %s", strings.Join(msgs, "; "))
	}
	var wr cfWhisperResult
	if err := json.Unmarshal(cr.Result, &wr); err != nil {
		return Transcript{}, fmt.Errorf("cloudflare unexpected result: %w", err)
	}

	tr := Transcript{Language: language}
	if len(wr.Words) > 0 {
		words := make([]segment.Word, 0, len(wr.Words))
		for _, w := range wr.Words {
			words = append(words, segment.Word{Text: strings.TrimSpace(w.Word), Start: w.Start, End: w.End})
		}
		tr.Segments = segment.Words(words, segment.DefaultOptions)
		tr.Duration = time.Duration(wr.Words[len(wr.Words)-1].End * float64(time.Second))
		return tr, nil
	}
	// no timings: one segment so the text is not lost
	if text := strings.TrimSpace(wr.Text); text != "" {
		tr.Segments = []transcript.Segment{{Text: text}}
	}
	return tr, nil
}
