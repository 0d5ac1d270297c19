package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zudsniper/ytnote/internal/config"
	"github.com/zudsniper/ytnote/internal/media"
	"github.com/zudsniper/ytnote/internal/output"
	"github.com/zudsniper/ytnote/internal/resolve"
	"github.com/zudsniper/ytnote/internal/transcribe"
	"github.com/zudsniper/ytnote/internal/transcript"
	"github.com/zudsniper/ytnote/internal/youtube"
)

type transcriptOpts struct {
	language      string
	audioFile     string
	videoPath     string
	subtitleFile  string
	format        string
	outPath       string
	speechBackend string
	tmpDir        string
}

func (o *transcriptOpts) hasLocalInput() bool {
	return o.audioFile != "" || o.videoPath != "" || o.subtitleFile != ""
}

func addTranscriptFlags(cmd *cobra.Command, cfg config.Config, o *transcriptOpts) {
	f := cmd.Flags()
	f.StringVarP(&o.language, "language", "l", cfg.Language, "Transcript language code (e.g. en, zh-Hant)")
	f.StringVar(&o.audioFile, "audio-file", "", "Pre-extracted audio file to use for speech recognition")
	f.StringVar(&o.videoPath, "video-path", "", "Downloaded video to extract audio from for speech recognition")
	f.StringVar(&o.subtitleFile, "subtitle-file", "", "Parse this VTT file instead of contacting YouTube")
	f.StringVarP(&o.format, "format", "f", "json", "Output format: json, text")
	f.StringVarP(&o.outPath, "output", "o", "", "Output file (default: stdout)")
	f.StringVar(&o.speechBackend, "speech-backend", cfg.SpeechBackend, "Speech recognition backend: deepgram, openai, cloudflare")
	f.StringVar(&o.tmpDir, "tmpdir", cfg.TmpDir, "Directory for temporary files (default: system temp)")
}

func newTranscriptCmd(cfg config.Config) *cobra.Command {
	opts := &transcriptOpts{}
	cmd := &cobra.Command{
		Use:   "transcript [url-or-id]",
		Short: "Fetch the transcript of a video",
		Long: `Fetch the transcript of a video.

Examples:
  ytnote transcript https://www.youtube.com/watch?v=dQw4w9WgXcQ
  ytnote transcript dQw4w9WgXcQ --language zh-Hant --format text
  ytnote transcript dQw4w9WgXcQ --video-path ./talk.mp4
  ytnote transcript --audio-file ./talk_audio_16k.wav`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscript(cmd, cfg, opts, args)
		},
	}
	addTranscriptFlags(cmd, cfg, opts)
	return cmd
}

// newResolver assembles the strategy chain. Tests replace it.
var newResolver = func(cfg config.Config, o *transcriptOpts, withVideo bool) *resolve.Resolver {
	settings := cfg.Speech()
	speech := &resolve.SpeechRecognition{
		Backend: func() (transcribe.Backend, error) {
			return transcribe.NewBackend(o.speechBackend, settings)
		},
		Audio: media.NewAudioSource(o.tmpDir, cfg.FFmpegTimeout),
	}
	if !withVideo {
		return resolve.New(speech)
	}
	return resolve.New(
		resolve.CaptionsAPI{Fetcher: youtube.NewCaptionsClient()},
		&resolve.SubtitleDownload{Downloader: media.YTDLP{}, TmpDir: o.tmpDir},
		speech,
	)
}

func runTranscript(cmd *cobra.Command, cfg config.Config, o *transcriptOpts, args []string) error {
	st := status{w: cmd.ErrOrStderr()}
	if o.format != "json" && o.format != "text" {
		return usageErr("unknown format %q (want json or text)", o.format)
	}
	switch strings.ToLower(o.speechBackend) {
	case "", "deepgram", "openai", "cloudflare":
	default:
		return usageErr("unknown speech backend %q (want deepgram, openai or cloudflare)", o.speechBackend)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var (
		res transcript.Result
		err error
	)
	if o.subtitleFile != "" {
		st.info("Parsing subtitle file %s", o.subtitleFile)
		if res, err = resolve.FromSubtitleFile(o.subtitleFile, o.language); err != nil {
			return failure(err)
		}
	} else if res, err = resolveTranscript(ctx, cfg, o, args, st); err != nil {
		return err
	}

	st.ok("Transcript from %s: %d segments, %s", res.Source, res.SegmentCount(), transcript.FormatTimestamp(res.TotalDuration()))
	return writeResult(cmd.OutOrStdout(), res, o, st)
}

func resolveTranscript(ctx context.Context, cfg config.Config, o *transcriptOpts, args []string, st status) (transcript.Result, error) {
	var req resolve.Request
	if len(args) == 1 {
		r, err := resolve.NewRequest(args[0], o.language)
		if err != nil {
			return transcript.Result{}, usageErr("%v", err)
		}
		req = r
		st.info("Video ID: %s", req.VideoID)
	} else {
		if o.audioFile == "" && o.videoPath == "" {
			return transcript.Result{}, usageErr("missing video url or id")
		}
		req = resolve.Request{Language: o.language}
	}
	req.AudioPath = o.audioFile
	req.VideoPath = o.videoPath

	r := newResolver(cfg, o, req.VideoID != "")
	st.info("Trying %s", joinSources(r.Sources()))
	res, err := r.Resolve(ctx, req)
	if err != nil {
		var ex *resolve.ExhaustedError
		if errors.As(err, &ex) {
			if ce, missing := ex.MissingCredential(); missing {
				st.warn("Speech recognition needs %s; set it in the environment or ~/.ytnote.env", ce.EnvVar)
			}
		}
		return transcript.Result{}, failure(err)
	}
	return res, nil
}

// createOutput opens the -o destination. Tests replace it.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func writeResult(stdout io.Writer, res transcript.Result, o *transcriptOpts, st status) error {
	if o.outPath == "" {
		return render(stdout, res, o.format)
	}

	f, err := createOutput(o.outPath)
	if err != nil {
		return failure(fmt.Errorf("create output: %w", err))
	}
	if err := render(f, res, o.format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return failure(fmt.Errorf("close output: %w", err))
	}
	st.ok("Wrote %s", o.outPath)
	return nil
}

func render(w io.Writer, res transcript.Result, format string) error {
	var err error
	if format == "text" {
		_, err = io.WriteString(w, output.RenderText(res))
	} else {
		err = output.WriteJSON(w, res)
	}
	if err != nil {
		return failure(fmt.Errorf("write output: %w", err))
	}
	return nil
}

func joinSources(srcs []transcript.Source) string {
	names := make([]string, len(srcs))
	for i, s := range srcs {
		names[i] = string(s)
	}
	return strings.Join(names, " -> ")
}
