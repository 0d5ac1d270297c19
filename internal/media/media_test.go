package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDownloader struct {
	audioErr  error
	subsErr   error
	subFiles  []string
	audioName string
	calls     []string
}

func (f *fakeDownloader) Subtitles(_ context.Context, _ string, dir string, _ []string) error {
	f.calls = append(f.calls, "subtitles")
	if f.subsErr != nil {
		return f.subsErr
	}
	for _, name := range f.subFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("WEBVTT\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeDownloader) Audio(_ context.Context, _ string, dir string) error {
	f.calls = append(f.calls, "audio")
	if f.audioErr != nil {
		return f.audioErr
	}
	name := f.audioName
	if name == "" {
		name = "abc.webm"
	}
	return os.WriteFile(filepath.Join(dir, name), []byte("media"), 0o644)
}

func fakeExtract(err error) ExtractFunc {
	return func(_ context.Context, in, out string, _ time.Duration) error {
		if err != nil {
			return err
		}
		return os.WriteFile(out, []byte("wav from "+filepath.Base(in)), 0o644)
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWorkDirRelease(t *testing.T) {
	base := t.TempDir()
	w, err := NewWorkDir(base)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(w.Join("x.wav"), []byte("x"), 0o644))

	require.NoError(t, w.Release())
	require.NoError(t, w.Release())
	assertEmptyDir(t, base)

	var nilDir *WorkDir
	assert.NoError(t, nilDir.Release())
}

func TestAcquireSuppliedAudioIsNotOwned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "given.wav")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	s := &AudioSource{Downloader: &fakeDownloader{}, Extract: fakeExtract(nil), TmpDir: t.TempDir()}
	a, err := s.Acquire(context.Background(), AudioRequest{AudioPath: path, URL: "https://youtu.be/dQw4w9WgXcQ"})
	require.NoError(t, err)

	assert.False(t, a.Owned())
	require.NoError(t, a.Release())
	assert.FileExists(t, path)
}

func TestAcquireSuppliedAudioMissing(t *testing.T) {
	s := &AudioSource{Downloader: &fakeDownloader{}, Extract: fakeExtract(nil), TmpDir: t.TempDir()}
	_, err := s.Acquire(context.Background(), AudioRequest{AudioPath: filepath.Join(t.TempDir(), "nope.wav")})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAcquireFromVideo(t *testing.T) {
	video := filepath.Join(t.TempDir(), "talk.mp4")
	require.NoError(t, os.WriteFile(video, []byte("mp4"), 0o644))
	tmp := t.TempDir()
	dl := &fakeDownloader{}

	s := &AudioSource{Downloader: dl, Extract: fakeExtract(nil), TmpDir: tmp}
	a, err := s.Acquire(context.Background(), AudioRequest{VideoPath: video, URL: "https://youtu.be/dQw4w9WgXcQ"})
	require.NoError(t, err)

	assert.True(t, a.Owned())
	assert.Equal(t, "talk_audio_16k.wav", filepath.Base(a.Path))
	assert.Empty(t, dl.calls, "local video wins over download")
	assert.FileExists(t, a.Path)

	require.NoError(t, a.Release())
	assert.NoFileExists(t, a.Path)
	assertEmptyDir(t, tmp)
	assert.FileExists(t, video)
}

func TestAcquireDownloadsWhenNothingLocal(t *testing.T) {
	tmp := t.TempDir()
	dl := &fakeDownloader{}
	s := &AudioSource{Downloader: dl, Extract: fakeExtract(nil), TmpDir: tmp}

	a, err := s.Acquire(context.Background(), AudioRequest{URL: "https://youtu.be/dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.Equal(t, []string{"audio"}, dl.calls)
	assert.Equal(t, "abc_audio_16k.wav", filepath.Base(a.Path))

	require.NoError(t, a.Release())
	assertEmptyDir(t, tmp)
}

func TestAcquireCleansUpOnFailure(t *testing.T) {
	tests := []struct {
		name string
		dl   *fakeDownloader
		ext  ExtractFunc
	}{
		{"download fails", &fakeDownloader{audioErr: errors.New("http 403")}, fakeExtract(nil)},
		{"extract fails", &fakeDownloader{}, fakeExtract(errors.New("ffmpeg exit 1"))},
		{"only partial download", &fakeDownloader{audioName: "abc.webm.part"}, fakeExtract(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			s := &AudioSource{Downloader: tt.dl, Extract: tt.ext, TmpDir: tmp}
			_, err := s.Acquire(context.Background(), AudioRequest{URL: "https://youtu.be/dQw4w9WgXcQ"})
			require.Error(t, err)
			assertEmptyDir(t, tmp)
		})
	}
}

func TestAcquireNothingToUse(t *testing.T) {
	s := &AudioSource{Downloader: &fakeDownloader{}, Extract: fakeExtract(nil), TmpDir: t.TempDir()}
	_, err := s.Acquire(context.Background(), AudioRequest{})
	assert.Error(t, err)
}

func TestFindSubtitle(t *testing.T) {
	dir := t.TempDir()
	_, err := FindSubtitle(dir, "en")
	assert.True(t, errors.Is(err, ErrNoSubtitles))

	for _, name := range []string{"abc.en.vtt", "abc.zh-Hant.vtt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("WEBVTT"), 0o644))
	}
	got, err := FindSubtitle(dir, "zh-Hant")
	require.NoError(t, err)
	assert.Equal(t, "abc.zh-Hant.vtt", filepath.Base(got))

	got, err = FindSubtitle(dir, "ja")
	require.NoError(t, err)
	assert.Equal(t, "abc.en.vtt", filepath.Base(got))
}

func TestExtractArgs(t *testing.T) {
	args := extractArgs("in.mp4", "out.wav")
	assert.Contains(t, args, "in.mp4")
	assert.Contains(t, args, "out.wav")
	assert.Contains(t, args, "16000")
	assert.Contains(t, args, "pcm_s16le")
	assert.Contains(t, args, "-y")
}

func TestExtractAudio(t *testing.T) {
	orig := runFFmpeg
	t.Cleanup(func() { runFFmpeg = orig })

	dir := t.TempDir()
	in := filepath.Join(dir, "in.mp4")
	out := filepath.Join(dir, "out.wav")
	require.NoError(t, os.WriteFile(in, []byte("mp4"), 0o644))

	runFFmpeg = func(_ context.Context, args []string) error {
		assert.Contains(t, args, out)
		return os.WriteFile(out, []byte("wav"), 0o644)
	}
	require.NoError(t, ExtractAudio(context.Background(), in, out, time.Second))
	assert.FileExists(t, out)

	runFFmpeg = func(_ context.Context, _ []string) error {
		_ = os.WriteFile(out, []byte("partial"), 0o644)
		return errors.New("ffmpeg: exit status 1")
	}
	require.Error(t, ExtractAudio(context.Background(), in, out, time.Second))
	assert.NoFileExists(t, out)

	err := ExtractAudio(context.Background(), filepath.Join(dir, "missing.mp4"), out, time.Second)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
