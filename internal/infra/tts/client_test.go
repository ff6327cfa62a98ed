package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_ReturnsAudio(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/voice-1", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("xi-api-key"))
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1", "voice-1")
	audio, err := c.Synthesize(context.Background(), "привет")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), audio)
}

func TestSynthesize_NotConfigured(t *testing.T) {
	t.Parallel()

	c := NewClient("", "", "")
	assert.False(t, c.Configured())

	_, err := c.Synthesize(context.Background(), "привет")
	require.ErrorIs(t, err, ErrUnavailable)
	// Маркеры для цепочки запасного синтеза.
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "не настроен")
}

func TestSynthesize_ServiceUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "voice")
	_, err := c.Synthesize(context.Background(), "привет")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSynthesize_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad voice", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "voice")
	_, err := c.Synthesize(context.Background(), "привет")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestSynthesize_EmptyText(t *testing.T) {
	t.Parallel()

	c := NewClient("http://unused", "key", "voice")
	_, err := c.Synthesize(context.Background(), strings.Repeat(" ", 3))
	assert.Error(t, err)
}
