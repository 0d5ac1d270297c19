package segment

import (
	"strings"

	"github.com/zudsniper/ytnote/internal/transcript"
)

// Word is a single recognized word with its timing.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// Options bounds the size of a grouped segment.
type Options struct {
	MaxWords    int
	MaxDuration float64 // seconds
}

var DefaultOptions = Options{MaxWords: 12, MaxDuration: 5.0}

var sentenceEndings = []string{".", "?", "!", "。", "？", "！"}

// Words groups word-level recognizer output into segments. A segment closes
// when it reaches MaxWords, spans MaxDuration, or a word ends a sentence.
func Words(words []Word, opts Options) []transcript.Segment {
	if opts.MaxWords <= 0 {
		opts.MaxWords = DefaultOptions.MaxWords
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = DefaultOptions.MaxDuration
	}

	var (
		out   []transcript.Segment
		cur   []string
		start float64
		end   float64
	)
	for _, w := range words {
		if len(cur) == 0 {
			start = w.Start
		}
		cur = append(cur, w.Text)
		end = w.End

		if len(cur) >= opts.MaxWords || end-start >= opts.MaxDuration || endsSentence(w.Text) {
			out = append(out, transcript.Segment{Start: start, End: end, Text: strings.Join(cur, " ")})
			cur = cur[:0]
		}
	}
	if len(cur) > 0 {
		out = append(out, transcript.Segment{Start: start, End: end, Text: strings.Join(cur, " ")})
	}
	return out
}

func endsSentence(word string) bool {
	w := strings.TrimRight(word, `"')>」』”’`)
	for _, e := range sentenceEndings {
		if strings.HasSuffix(w, e) {
			return true
		}
	}
	return false
}

// DropAdjacentDuplicates removes a segment whose text repeats the previous
// segment's text. Repeats further apart are kept.
func DropAdjacentDuplicates(segs []transcript.Segment) []transcript.Segment {
	out := make([]transcript.Segment, 0, len(segs))
	for _, s := range segs {
		if n := len(out); n > 0 && out[n-1].Text == s.Text {
			continue
		}
		out = append(out, s)
	}
	return out
}
