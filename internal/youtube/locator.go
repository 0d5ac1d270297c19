package youtube

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidLocator is returned for input that is neither a YouTube URL nor a video ID.
var ErrInvalidLocator = errors.New("invalid youtube url or video id")

var (
	videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	pathIDRe  = regexp.MustCompile(`^/(?:embed|shorts|v|live)/([A-Za-z0-9_-]{11})/?$`)
	shortIDRe = regexp.MustCompile(`^/([A-Za-z0-9_-]{11})/?$`)
)

// ParseLocator returns the video ID for a bare ID or a supported YouTube URL.
func ParseLocator(s string) (string, error) {
	s = strings.TrimSpace(s)
	if videoIDRe.MatchString(s) {
		return s, nil
	}
	if id, ok := idFromURL(s); ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLocator, s)
}

// ValidURL reports whether s is a YouTube video URL ParseLocator accepts.
func ValidURL(s string) bool {
	_, ok := idFromURL(s)
	return ok
}

func idFromURL(s string) (string, bool) {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	switch strings.ToLower(u.Hostname()) {
	case "youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com":
		if u.Path == "/watch" {
			v := u.Query().Get("v")
			return v, videoIDRe.MatchString(v)
		}
		if m := pathIDRe.FindStringSubmatch(u.Path); m != nil {
			return m[1], true
		}
	case "youtu.be", "www.youtu.be":
		if m := shortIDRe.FindStringSubmatch(u.Path); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// WatchURL returns the canonical watch page URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// TimestampLink sets (or replaces) the t= parameter on a video URL.
func TimestampLink(videoURL string, seconds float64) (string, error) {
	if seconds < 0 {
		seconds = 0
	}
	u, err := url.Parse(videoURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("t", strconv.Itoa(int(seconds))+"s")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
