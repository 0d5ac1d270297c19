package transcribe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cloudflareTo(t *testing.T, handler http.HandlerFunc) *cloudflareBackend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewCloudflareBackend("acct-1", "cf-token", "", 0).(*cloudflareBackend)
	c.baseURL = srv.URL + "/client/v4"
	c.hc = srv.Client()
	return c
}

func TestCloudflareWordsGrouped(t *testing.T) {
	c := cloudflareTo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/client/v4/accounts/acct-1/ai/run/@cf/openai/whisper", r.URL.Path)
		assert.Equal(t, "Bearer cf-token", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "RIFF....WAVEfmt fake", string(body))

		io.WriteString(w, `{"success":true,"errors":[],"result":{
			"text":"Hello there. How are you",
			"words":[
				{"word":"Hello","start":0.1,"end":0.4},
				{"word":"there.","start":0.4,"end":0.9},
				{"word":"How","start":1.2,"end":1.4},
				{"word":"are","start":1.4,"end":1.5},
				{"word":"you","start":1.5,"end":1.8}],
			"vtt":"WEBVTT"}}`)
	})

	tr, err := c.Transcribe(context.Background(), writeAudio(t), "en")
	require.NoError(t, err)

	require.Len(t, tr.Segments, 2)
	assert.Equal(t, "Hello there.", tr.Segments[0].Text)
	assert.Equal(t, 0.1, tr.Segments[0].Start)
	assert.Equal(t, 0.9, tr.Segments[0].End)
	assert.Equal(t, "How are you", tr.Segments[1].Text)
	assert.Equal(t, 1.8, tr.Segments[1].End)
	assert.Equal(t, "en", tr.Language)
}

func TestCloudflareTextOnly(t *testing.T) {
	c := cloudflareTo(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"result":{"text":" just text "}}`)
	})
	tr, err := c.Transcribe(context.Background(), writeAudio(t), "en")
	require.NoError(t, err)
	require.Len(t, tr.Segments, 1)
	assert.Equal(t, "just text", tr.Segments[0].Text)
}

func TestCloudflareErrors(t *testing.T) {
	c := cloudflareTo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"success":false,"errors":[{"message":"bad token cf-token"}]}`)
	})
	_, err := c.Transcribe(context.Background(), writeAudio(t), "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cloudflare http 401")
	assert.NotContains(t, err.Error(), "cf-token")

	c = cloudflareTo(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":false,"errors":[{"message":"model overloaded"}],"result":null}`)
	})
	_, err = c.Transcribe(context.Background(), writeAudio(t), "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestNewBackendCloudflareCredentials(t *testing.T) {
	_, err := NewBackend("cloudflare", Settings{CFAPIToken: "tok"})
	assert.True(t, errors.Is(err, ErrMissingCredential))
	assert.Contains(t, err.Error(), "CLOUDFLARE_ACCOUNT_ID")

	_, err = NewBackend("cloudflare", Settings{CFAccountID: "acct"})
	var ce *CredentialError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "CLOUDFLARE_API_TOKEN", ce.EnvVar)

	b, err := NewBackend("Cloudflare", Settings{CFAccountID: "acct", CFAPIToken: "tok"})
	require.NoError(t, err)
	assert.IsType(t, &cloudflareBackend{}, b)
}
