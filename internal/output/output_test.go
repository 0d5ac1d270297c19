package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zudsniper/ytnote/internal/transcript"
)

func sample() transcript.Result {
	return transcript.NewResult(transcript.SourceAPI, "zh-Hant", []transcript.Segment{
		{Start: 0.5, End: 2.75, Text: "大家好 <Go> & 歡迎"},
		{Start: 62, End: 65.25, Text: "second"},
	})
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample()))

	out := buf.String()
	assert.Contains(t, out, `"大家好 <Go> & 歡迎"`, "no unicode or html escaping")
	assert.Contains(t, out, `"source": "api"`)

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 2, doc.SegmentCount)
	assert.Equal(t, 65.25, doc.TotalDuration)
	assert.Equal(t, "zh-Hant", doc.Language)
}

func TestWriteJSONEmptySegmentsIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, transcript.Result{Source: transcript.SourceDownload}))
	assert.Contains(t, buf.String(), `"segments": []`)
}

func TestRenderText(t *testing.T) {
	got := RenderText(sample())
	assert.Equal(t, "# source: api\n# language: zh-Hant\n# segments: 2, duration: 01:05\n\n"+
		"[00:00-00:02] 大家好 <Go> & 歡迎\n"+
		"[01:02-01:05] second\n", got)
}
