package blurb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovieBlurb(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, defaultModel, req.Model)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Contains(t, req.Messages[0].Content, "Some Movie", "expected the title in the prompt")
		}

		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "A gripping tale."}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	text, err := c.MovieBlurb(context.Background(), "Some Movie")
	assert.NoError(t, err, "expected no error")
	assert.Equal(t, "A gripping tale.", text)
}

func TestMovieBlurb_emptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	_, err := c.MovieBlurb(context.Background(), "Some Movie")
	assert.Error(t, err, "expected error on empty response")
}

func TestMovieBlurb_unexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	_, err := c.MovieBlurb(context.Background(), "Some Movie")
	assert.Error(t, err, "expected error on non-200 status")
	assert.Contains(t, err.Error(), "unexpected status 429")
}

func TestMovieBlurb_notConfigured(t *testing.T) {
	c := NewClient("http://localhost", "")
	assert.False(t, c.Enabled(), "expected client to report disabled without a key")

	_, err := c.MovieBlurb(context.Background(), "Some Movie")
	assert.Error(t, err, "expected error when no API key is configured")
}
