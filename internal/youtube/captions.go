package youtube

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript"
	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript_models"

	"github.com/zudsniper/ytnote/internal/transcript"
)

// ErrNoCaptions means the video exposes no caption track in a requested language.
var ErrNoCaptions = errors.New("no captions available")

var tagRe = regexp.MustCompile(`<[^>]+>`)

// Captions is a caption track fetched from YouTube.
type Captions struct {
	Language  string
	Generated bool
	Segments  []transcript.Segment
}

// transcriptLister is the part of yt_transcript.YtTranscriptClient we use.
type transcriptLister interface {
	GetTranscripts(videoID string, languages []string) ([]yt_transcript_models.Transcript, error)
}

// CaptionsClient fetches caption tracks keyed by video ID.
type CaptionsClient struct {
	lister transcriptLister
}

func NewCaptionsClient() *CaptionsClient {
	return &CaptionsClient{lister: yt_transcript.NewClient()}
}

// Fetch returns the best caption track for langs, manual tracks preferred
// over auto-generated ones.
func (c *CaptionsClient) Fetch(ctx context.Context, videoID string, langs []string) (Captions, error) {
	type result struct {
		tracks []yt_transcript_models.Transcript
		err    error
	}
	// the library call takes no context
	done := make(chan result, 1)
	go func() {
		tracks, err := c.lister.GetTranscripts(videoID, queryLangs(langs))
		done <- result{tracks, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return Captions{}, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return Captions{}, fmt.Errorf("%w: %v", ErrNoCaptions, res.err)
	}

	track, ok := pickTrack(res.tracks, langs)
	if !ok {
		return Captions{}, fmt.Errorf("%w for %s in %s", ErrNoCaptions, videoID, strings.Join(langs, ","))
	}
	segs := toSegments(track.Lines)
	if len(segs) == 0 {
		return Captions{}, fmt.Errorf("%w: track %s is empty", ErrNoCaptions, track.LanguageCode)
	}
	return Captions{Language: track.LanguageCode, Generated: track.IsGenerated, Segments: segs}, nil
}

// queryLangs adds the bare base code of each tagged language so that a
// zh-TW request can still find a plain zh track.
func queryLangs(langs []string) []string {
	out := make([]string, 0, len(langs)*2)
	seen := map[string]bool{}
	add := func(l string) {
		if !seen[strings.ToLower(l)] {
			seen[strings.ToLower(l)] = true
			out = append(out, l)
		}
	}
	for _, l := range langs {
		add(l)
	}
	for _, l := range langs {
		add(baseLang(l))
	}
	return out
}

func toSegments(lines []yt_transcript_models.TranscriptLine) []transcript.Segment {
	segs := make([]transcript.Segment, 0, len(lines))
	for _, l := range lines {
		if text := cleanCaption(l.Text); text != "" {
			segs = append(segs, transcript.Segment{Start: l.Start, End: l.Start + l.Duration, Text: text})
		}
	}
	return segs
}

func cleanCaption(s string) string {
	s = html.UnescapeString(s)
	s = tagRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// pickTrack selects a track for langs: manual exact match, then any exact
// match, then a related code where one side is the bare base language
// (zh for zh-TW, en-GB for en). Codes with differing subtags, such as
// zh-Hant and zh-Hans, never match.
func pickTrack(tracks []yt_transcript_models.Transcript, langs []string) (yt_transcript_models.Transcript, bool) {
	for _, lang := range langs {
		for _, t := range tracks {
			if strings.EqualFold(t.LanguageCode, lang) && !t.IsGenerated {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range tracks {
			if strings.EqualFold(t.LanguageCode, lang) {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range tracks {
			if relatedLang(t.LanguageCode, lang) {
				return t, true
			}
		}
	}
	return yt_transcript_models.Transcript{}, false
}

func relatedLang(a, b string) bool {
	if !strings.EqualFold(baseLang(a), baseLang(b)) {
		return false
	}
	return !strings.Contains(a, "-") || !strings.Contains(b, "-")
}

func baseLang(code string) string {
	base, _, _ := strings.Cut(code, "-")
	return base
}
