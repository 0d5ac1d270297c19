package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/zudsniper/ytnote/internal/media"
	"github.com/zudsniper/ytnote/internal/subtitle"
	"github.com/zudsniper/ytnote/internal/transcribe"
	"github.com/zudsniper/ytnote/internal/transcript"
	"github.com/zudsniper/ytnote/internal/youtube"
)

// CaptionsFetcher looks up published captions by video ID.
type CaptionsFetcher interface {
	Fetch(ctx context.Context, videoID string, langs []string) (youtube.Captions, error)
}

// CaptionsAPI reads captions straight from YouTube.
type CaptionsAPI struct {
	Fetcher CaptionsFetcher
}

func (CaptionsAPI) Source() transcript.Source { return transcript.SourceAPI }

func (c CaptionsAPI) Attempt(ctx context.Context, req Request) (transcript.Result, error) {
	if req.VideoID == "" {
		return transcript.Result{}, ErrNoVideo
	}
	caps, err := c.Fetcher.Fetch(ctx, req.VideoID, []string{req.Language})
	if err != nil {
		return transcript.Result{}, err
	}
	return transcript.NewResult(transcript.SourceAPI, caps.Language, caps.Segments), nil
}

// SubtitleDownload asks yt-dlp for the subtitle track only and parses the
// resulting VTT. The download directory never outlives the attempt.
type SubtitleDownload struct {
	Downloader media.Downloader
	TmpDir     string
}

func (*SubtitleDownload) Source() transcript.Source { return transcript.SourceDownload }

func (s *SubtitleDownload) Attempt(ctx context.Context, req Request) (transcript.Result, error) {
	if req.VideoID == "" {
		return transcript.Result{}, ErrNoVideo
	}
	work, err := media.NewWorkDir(s.TmpDir)
	if err != nil {
		return transcript.Result{}, err
	}
	defer work.Release()

	if err := s.Downloader.Subtitles(ctx, req.URL(), work.Path, subtitleLangs(req.Language)); err != nil {
		return transcript.Result{}, err
	}
	path, err := media.FindSubtitle(work.Path, req.Language)
	if err != nil {
		return transcript.Result{}, err
	}
	segs, err := subtitle.ParseVTTFile(path)
	if err != nil {
		return transcript.Result{}, err
	}
	return transcript.NewResult(transcript.SourceDownload, subtitleLanguage(path, req.Language), segs), nil
}

func subtitleLangs(lang string) []string {
	if lang == "" || lang == "en" {
		return []string{"en"}
	}
	return []string{lang, "en"}
}

// subtitleLanguage reads the language tag yt-dlp puts in <id>.<lang>.vtt.
func subtitleLanguage(path, fallback string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return fallback
}

// BackendFunc builds the speech backend. It fails with a
// *transcribe.CredentialError when no API key is configured.
type BackendFunc func() (transcribe.Backend, error)

// SpeechRecognition sends the video's audio to a hosted recognizer. The
// credential is checked before any audio is acquired, and audio produced
// here is removed before Attempt returns.
type SpeechRecognition struct {
	Backend BackendFunc
	Audio   *media.AudioSource
}

func (*SpeechRecognition) Source() transcript.Source { return transcript.SourceSpeechRecognition }

func (s *SpeechRecognition) Attempt(ctx context.Context, req Request) (transcript.Result, error) {
	backend, err := s.Backend()
	if err != nil {
		return transcript.Result{}, err
	}

	audio, err := s.Audio.Acquire(ctx, media.AudioRequest{
		AudioPath: req.AudioPath,
		VideoPath: req.VideoPath,
		URL:       req.URL(),
	})
	if err != nil {
		return transcript.Result{}, fmt.Errorf("acquire audio: %w", err)
	}
	defer func() {
		if err := audio.Release(); err != nil {
			slog.Warn("failed to remove temporary audio", slog.String("path", audio.Path), slog.Any("err", err))
		}
	}()

	slog.Info("sending audio to speech recognition",
		slog.String("path", audio.Path),
		slog.Duration("duration", media.AudioDuration(audio.Path)))
	tr, err := backend.Transcribe(ctx, audio.Path, req.Language)
	if err != nil {
		return transcript.Result{}, err
	}
	lang := tr.Language
	if lang == "" {
		lang = req.Language
	}
	return transcript.NewResult(transcript.SourceSpeechRecognition, lang, tr.Segments), nil
}

// FromSubtitleFile parses a subtitle file the caller already downloaded.
func FromSubtitleFile(path, language string) (transcript.Result, error) {
	segs, err := subtitle.ParseVTTFile(path)
	if err != nil {
		return transcript.Result{}, err
	}
	res := transcript.NewResult(transcript.SourceDownload, language, segs)
	if res.Empty() {
		return transcript.Result{}, fmt.Errorf("%s: %w", path, ErrEmptyTranscript)
	}
	return res, nil
}
