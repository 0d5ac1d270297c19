package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DefaultExtractTimeout bounds a single ffmpeg audio extraction.
const DefaultExtractTimeout = 10 * time.Minute

// runFFmpeg is swapped out in tests.
var runFFmpeg = func(ctx context.Context, args []string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, tail(stderr.String(), 500))
	}
	return nil
}

// extractArgs builds: ffmpeg -i input -ac 1 -acodec pcm_s16le -ar 16000 -f wav output -y
func extractArgs(videoPath, outPath string) []string {
	return ffmpeg.Input(videoPath).
		Output(outPath, ffmpeg.KwArgs{
			"ac":     1,
			"ar":     16000,
			"acodec": "pcm_s16le",
			"f":      "wav",
		}).
		OverWriteOutput().
		GetArgs()
}

// ExtractAudio uses ffmpeg to write mono 16kHz WAV from a video (or any
// audio container) to outPath. A partial output is removed on failure.
func ExtractAudio(ctx context.Context, videoPath, outPath string, timeout time.Duration) error {
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("input media: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultExtractTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := runFFmpeg(ctx, extractArgs(videoPath, outPath)); err != nil {
		os.Remove(outPath)
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("ffmpeg timed out after %s", timeout)
		}
		return err
	}
	if fi, err := os.Stat(outPath); err != nil || fi.Size() == 0 {
		os.Remove(outPath)
		return fmt.Errorf("ffmpeg produced no audio at %s", outPath)
	}
	return nil
}

type probeOut struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// AudioDuration reports the media duration via ffprobe. It is informational
// only and returns 0 when probing fails.
func AudioDuration(path string) time.Duration {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0
	}
	var p probeOut
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		return 0
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(p.Format.Duration), 64)
	if err != nil {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
