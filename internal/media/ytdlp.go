package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// ErrNoSubtitles means the downloader produced no subtitle file.
var ErrNoSubtitles = errors.New("no subtitle file produced")

// Downloader fetches media for a video URL into a directory.
type Downloader interface {
	Subtitles(ctx context.Context, url, dir string, langs []string) error
	Audio(ctx context.Context, url, dir string) error
}

// YTDLP drives the yt-dlp binary found on PATH.
type YTDLP struct{}

func outputTemplate(dir string) string {
	return filepath.Join(dir, "%(id)s.%(ext)s")
}

// Subtitles downloads manual and automatic VTT subtitles without the video.
func (YTDLP) Subtitles(ctx context.Context, url, dir string, langs []string) error {
	_, err := ytdlp.New().
		SkipDownload().
		WriteSubs().
		WriteAutoSubs().
		SubLangs(strings.Join(langs, ",")).
		SubFormat("vtt").
		NoPlaylist().
		Quiet().
		NoWarnings().
		Output(outputTemplate(dir)).
		Run(ctx, url)
	if err != nil {
		return fmt.Errorf("yt-dlp subtitles: %w", err)
	}
	return nil
}

// Audio downloads the best audio-only stream.
func (YTDLP) Audio(ctx context.Context, url, dir string) error {
	_, err := ytdlp.New().
		Format("bestaudio/best").
		NoPlaylist().
		Quiet().
		NoWarnings().
		Output(outputTemplate(dir)).
		Run(ctx, url)
	if err != nil {
		return fmt.Errorf("yt-dlp audio: %w", err)
	}
	return nil
}

// FindSubtitle picks the .vtt file in dir for lang, else the first one.
func FindSubtitle(dir, lang string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.vtt"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", ErrNoSubtitles
	}
	sort.Strings(matches)
	for _, m := range matches {
		if strings.Contains(filepath.Base(m), "."+lang+".") {
			return m, nil
		}
	}
	return matches[0], nil
}

// FindDownload returns the single finished media file in dir, skipping
// yt-dlp partials.
func FindDownload(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") || strings.HasSuffix(name, ".vtt") {
			continue
		}
		return filepath.Join(dir, name), nil
	}
	return "", fmt.Errorf("no downloaded media in %s", dir)
}
