// Package output renders a transcript result for stdout.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/zudsniper/ytnote/internal/transcript"
)

// Document is the JSON shape printed on stdout.
type Document struct {
	Source        transcript.Source    `json:"source"`
	Language      string               `json:"language"`
	Segments      []transcript.Segment `json:"segments"`
	SegmentCount  int                  `json:"segment_count"`
	TotalDuration float64              `json:"total_duration"`
}

func NewDocument(r transcript.Result) Document {
	segs := r.Segments
	if segs == nil {
		segs = []transcript.Segment{}
	}
	return Document{
		Source:        r.Source,
		Language:      r.Language,
		Segments:      segs,
		SegmentCount:  r.SegmentCount(),
		TotalDuration: transcript.Round(r.TotalDuration()),
	}
}

// WriteJSON writes r as one indented JSON document. Non-ASCII text is kept
// as is rather than \u-escaped.
func WriteJSON(w io.Writer, r transcript.Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(r))
}

// RenderText renders one "[start-end] text" line per segment under a short header.
func RenderText(r transcript.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# source: %s\n", r.Source)
	if r.Language != "" {
		fmt.Fprintf(&b, "# language: %s\n", r.Language)
	}
	fmt.Fprintf(&b, "# segments: %d, duration: %s\n\n", r.SegmentCount(), transcript.FormatTimestamp(r.TotalDuration()))
	for _, s := range r.Segments {
		fmt.Fprintf(&b, "[%s-%s] %s\n",
			transcript.FormatTimestamp(s.Start), transcript.FormatTimestamp(s.End), strings.TrimSpace(s.Text))
	}
	return b.String()
}
