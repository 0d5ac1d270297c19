package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Audio is an audio file handed to speech recognition. Files produced by
// Acquire live in a private WorkDir and are removed by Release; a file the
// caller supplied is never touched.
type Audio struct {
	Path string
	work *WorkDir
}

// Owned reports whether Release will delete the file.
func (a *Audio) Owned() bool { return a != nil && a.work != nil }

func (a *Audio) Release() error {
	if a == nil {
		return nil
	}
	return a.work.Release()
}

// AudioRequest lists the inputs Acquire may use, in priority order.
type AudioRequest struct {
	AudioPath string // pre-extracted audio, used as is
	VideoPath string // local video, audio extracted from it
	URL       string // remote video, audio downloaded then extracted
}

// ExtractFunc converts media at in to 16kHz mono WAV at out.
type ExtractFunc func(ctx context.Context, in, out string, timeout time.Duration) error

// AudioSource acquires recognizer-ready audio.
type AudioSource struct {
	Downloader     Downloader
	Extract        ExtractFunc
	TmpDir         string
	ExtractTimeout time.Duration
}

func NewAudioSource(tmpDir string, extractTimeout time.Duration) *AudioSource {
	return &AudioSource{
		Downloader:     YTDLP{},
		Extract:        ExtractAudio,
		TmpDir:         tmpDir,
		ExtractTimeout: extractTimeout,
	}
}

// Acquire returns audio for req. On error nothing produced here is left on disk.
func (s *AudioSource) Acquire(ctx context.Context, req AudioRequest) (*Audio, error) {
	if req.AudioPath != "" {
		if _, err := os.Stat(req.AudioPath); err != nil {
			return nil, fmt.Errorf("audio file: %w", err)
		}
		return &Audio{Path: req.AudioPath}, nil
	}
	if req.VideoPath == "" && req.URL == "" {
		return nil, errors.New("no audio, video or url to acquire audio from")
	}

	work, err := NewWorkDir(s.TmpDir)
	if err != nil {
		return nil, err
	}
	audio, err := s.produce(ctx, work, req)
	if err != nil {
		work.Release()
		return nil, err
	}
	return audio, nil
}

func (s *AudioSource) produce(ctx context.Context, work *WorkDir, req AudioRequest) (*Audio, error) {
	src := req.VideoPath
	if src != "" {
		if _, err := os.Stat(src); err != nil {
			return nil, fmt.Errorf("video file: %w", err)
		}
	} else {
		dl := work.Join("download")
		if err := os.MkdirAll(dl, 0o755); err != nil {
			return nil, err
		}
		slog.Info("downloading audio", slog.String("url", req.URL))
		if err := s.Downloader.Audio(ctx, req.URL, dl); err != nil {
			return nil, err
		}
		p, err := FindDownload(dl)
		if err != nil {
			return nil, err
		}
		src = p
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	out := work.Join(base + "_audio_16k.wav")
	slog.Info("extracting audio", slog.String("from", src), slog.String("to", out))
	if err := s.Extract(ctx, src, out, s.ExtractTimeout); err != nil {
		return nil, err
	}
	return &Audio{Path: out, work: work}, nil
}
