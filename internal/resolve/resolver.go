// Package resolve obtains a transcript by trying an ordered list of
// acquisition strategies, fastest and cheapest first.
package resolve

import (
	"context"
	"log/slog"

	"github.com/zudsniper/ytnote/internal/transcript"
	"github.com/zudsniper/ytnote/internal/youtube"
)

// Request describes the video to transcribe and any local artifacts the
// caller already has.
type Request struct {
	Locator   string
	VideoID   string
	Language  string
	AudioPath string
	VideoPath string
}

// NewRequest validates locator and fills in the video ID.
func NewRequest(locator, language string) (Request, error) {
	id, err := youtube.ParseLocator(locator)
	if err != nil {
		return Request{}, err
	}
	if language == "" {
		language = "en"
	}
	return Request{Locator: locator, VideoID: id, Language: language}, nil
}

// URL is the canonical watch URL, or "" when no video is known.
func (r Request) URL() string {
	if r.VideoID == "" {
		return ""
	}
	return youtube.WatchURL(r.VideoID)
}

// Strategy is one way of acquiring a transcript.
type Strategy interface {
	Source() transcript.Source
	Attempt(ctx context.Context, req Request) (transcript.Result, error)
}

// Attempt records the outcome of one strategy.
type Attempt struct {
	Source transcript.Source
	Err    error
}

func (a Attempt) OK() bool { return a.Err == nil }

// Resolver tries its strategies in order, each exactly once.
type Resolver struct {
	strategies []Strategy
}

func New(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Sources lists the strategies in the order they are tried.
func (r *Resolver) Sources() []transcript.Source {
	out := make([]transcript.Source, len(r.strategies))
	for i, s := range r.strategies {
		out[i] = s.Source()
	}
	return out
}

// Resolve returns the first non-empty transcript. Strategy failures are
// recorded and the next strategy is tried; when every strategy fails the
// error is an *ExhaustedError listing each attempt. Cancellation of ctx
// stops the chain and is returned as is.
func (r *Resolver) Resolve(ctx context.Context, req Request) (transcript.Result, error) {
	attempts := make([]Attempt, 0, len(r.strategies))
	for _, s := range r.strategies {
		if err := ctx.Err(); err != nil {
			return transcript.Result{}, err
		}

		src := s.Source()
		slog.Info("trying transcript strategy", slog.String("source", string(src)), slog.String("id", req.VideoID))
		res, err := s.Attempt(ctx, req)
		if err == nil && res.Empty() {
			err = ErrEmptyTranscript
		}
		attempts = append(attempts, Attempt{Source: src, Err: err})
		if err != nil {
			slog.Warn("transcript strategy failed", slog.String("source", string(src)), slog.Any("err", err))
			continue
		}

		res.Source = src
		if res.Language == "" {
			res.Language = req.Language
		}
		slog.Info("transcript acquired",
			slog.String("source", string(src)),
			slog.Int("segments", res.SegmentCount()),
			slog.Float64("duration", res.TotalDuration()))
		return res, nil
	}
	return transcript.Result{}, &ExhaustedError{Attempts: attempts}
}
