package transcript

import (
	"math"
	"strings"
)

// Source identifies which acquisition strategy produced a transcript.
type Source string

const (
	SourceAPI               Source = "api"
	SourceDownload          Source = "download"
	SourceSpeechRecognition Source = "speech-recognition"
)

// Segment is one timed piece of transcript text. Times are in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is the normalized, source-tagged transcript handed to callers.
type Result struct {
	Source   Source
	Language string
	Segments []Segment
}

// NewResult copies segs, trims their text and rounds times to milliseconds.
// Segments with no text are dropped.
func NewResult(src Source, lang string, segs []Segment) Result {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		out = append(out, Segment{Start: Round(s.Start), End: Round(s.End), Text: text})
	}
	return Result{Source: src, Language: lang, Segments: out}
}

func (r Result) SegmentCount() int { return len(r.Segments) }

// TotalDuration is the end time of the last segment.
func (r Result) TotalDuration() float64 {
	if len(r.Segments) == 0 {
		return 0
	}
	return r.Segments[len(r.Segments)-1].End
}

func (r Result) Empty() bool { return len(r.Segments) == 0 }

// Round rounds seconds to millisecond precision.
func Round(sec float64) float64 {
	return math.Round(sec*1000) / 1000
}
