// Command ytnote prints the transcript of a YouTube video as JSON, trying
// published captions, then downloaded subtitles, then speech recognition.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zudsniper/ytnote/internal/config"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit code for an error returned by a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErr(format string, a ...any) error {
	return &exitError{code: exitUsage, err: fmt.Errorf(format, a...)}
}

func failure(err error) error {
	return &exitError{code: exitFailure, err: err}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	config.LoadDefaultEnv()
	cfg := config.Load()

	root := newRootCmd(cfg, stdout, stderr)
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitOK
	}

	st := status{w: stderr}
	st.fail("%v", err)
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.code == exitUsage {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.Name())
		}
		return ee.code
	}
	// flag and argument errors come straight from cobra
	fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.Name())
	return exitUsage
}

func newRootCmd(cfg config.Config, stdout, stderr io.Writer) *cobra.Command {
	var verbose bool
	opts := &transcriptOpts{}

	root := &cobra.Command{
		Use:   "ytnote [url-or-id]",
		Short: "Fetch a YouTube transcript with caption, subtitle and speech fallbacks",
		Long: `ytnote obtains a timed transcript for a YouTube video.

It tries, in order and once each:
  1. published captions (api)
  2. subtitles downloaded with yt-dlp (download)
  3. hosted speech recognition on the audio (speech-recognition)

The result is printed to stdout as one JSON document. Speech recognition
needs DEEPGRAM_API_KEY (or OPENAI_API_KEY with --speech-backend openai,
or CLOUDFLARE_ACCOUNT_ID and CLOUDFLARE_API_TOKEN with --speech-backend cloudflare).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(stderr, verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !opts.hasLocalInput() {
				cmd.SetOut(cmd.ErrOrStderr())
				_ = cmd.Help()
				return usageErr("missing video url or id")
			}
			return runTranscript(cmd, cfg, opts, args)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging on stderr")
	addTranscriptFlags(root, cfg, opts)

	root.AddCommand(newTranscriptCmd(cfg), newVTTCmd(cfg))
	return root
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
