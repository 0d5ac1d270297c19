// Package subtitle parses downloaded subtitle files into transcript segments.
package subtitle

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/zudsniper/ytnote/internal/segment"
	"github.com/zudsniper/ytnote/internal/transcript"
)

var (
	cueTimingRe = regexp.MustCompile(`^(\d{1,2}(?::\d{2}){1,2}\.\d{1,3})\s*-->\s*(\d{1,2}(?::\d{2}){1,2}\.\d{1,3})`)
	tagRe       = regexp.MustCompile(`<[^>]+>`)
)

// ParseVTT reads WebVTT cues. Inline tags are stripped, multi-line cue text is
// joined with spaces, and a cue repeating the previous cue's text is dropped
// (YouTube auto captions roll each line through two cues).
func ParseVTT(r io.Reader) ([]transcript.Segment, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		segs  []transcript.Segment
		inCue bool
		cur   transcript.Segment
		lines []string
		flush = func() {
			if inCue {
				cur.Text = strings.TrimSpace(strings.Join(lines, " "))
				if cur.Text != "" {
					segs = append(segs, cur)
				}
			}
			inCue = false
			lines = lines[:0]
		}
	)

	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if m := cueTimingRe.FindStringSubmatch(line); m != nil {
			flush()
			start, err := transcript.ParseTimestamp(m[1])
			if err != nil {
				return nil, err
			}
			end, err := transcript.ParseTimestamp(m[2])
			if err != nil {
				return nil, err
			}
			cur = transcript.Segment{Start: start, End: end}
			inCue = true
			continue
		}
		if line == "" {
			flush()
			continue
		}
		if inCue {
			if text := cleanCueText(line); text != "" {
				lines = append(lines, text)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vtt: %w", err)
	}
	flush()

	return segment.DropAdjacentDuplicates(segs), nil
}

// ParseVTTFile parses the WebVTT file at path.
func ParseVTTFile(path string) ([]transcript.Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseVTT(f)
}

func cleanCueText(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}
