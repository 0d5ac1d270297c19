package transcript

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp converts HH:MM:SS.mmm, MM:SS.mmm or SS.mmm to seconds.
func ParseTimestamp(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q: too many colons", s)
	}

	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	mult := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		secs += float64(n) * mult
		mult *= 60
	}
	return secs, nil
}

// FormatTimestamp renders seconds as MM:SS, or HH:MM:SS past the hour.
func FormatTimestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	d := time.Duration(sec*1000) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
