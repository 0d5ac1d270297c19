package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"01:23:45.678", 5025.678},
		{"23:45.678", 1425.678},
		{"45.678", 45.678},
		{"00:00:00.000", 0},
		{" 00:01.5 ", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0005)
		})
	}
}

func TestParseTimestampErrors(t *testing.T) {
	for _, in := range []string{"", "1:2:3:4", "aa:10.0", "10:bb"} {
		_, err := ParseTimestamp(in)
		assert.Error(t, err, in)
	}
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "02:05", FormatTimestamp(125.5))
	assert.Equal(t, "01:02:05", FormatTimestamp(3725.5))
	assert.Equal(t, "00:00", FormatTimestamp(-3))
}

func TestNewResultNormalizes(t *testing.T) {
	in := []Segment{
		{Start: 0.12345, End: 1.98765, Text: "  hello  "},
		{Start: 2, End: 3, Text: "   "},
		{Start: 3.0004, End: 4.5, Text: "world"},
	}
	r := NewResult(SourceAPI, "en", in)

	require.Equal(t, 2, r.SegmentCount())
	assert.Equal(t, Segment{Start: 0.123, End: 1.988, Text: "hello"}, r.Segments[0])
	assert.Equal(t, 3.0, r.Segments[1].Start)
	assert.Equal(t, 4.5, r.TotalDuration())
	assert.Equal(t, SourceAPI, r.Source)

	// input slice untouched
	assert.Equal(t, "  hello  ", in[0].Text)
}

func TestEmptyResult(t *testing.T) {
	r := NewResult(SourceDownload, "en", nil)
	assert.True(t, r.Empty())
	assert.Equal(t, 0.0, r.TotalDuration())
}
