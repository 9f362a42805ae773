package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSendsChatRequest(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		assert.Equal(t, "tafsir", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"themes\": [\"mercy\"]}  "}}]}`))
	}))
	defer srv.Close()

	c, err := New(Options{
		URL:         srv.URL + "/v1/chat/completions",
		Model:       "deepseek-reasoner",
		APIKey:      "key-123",
		Temperature: 0.4,
		MaxTokens:   800,
		Headers:     map[string]string{"X-Title": "tafsir"},
	})
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), "extract themes")
	require.NoError(t, err)
	assert.Equal(t, `{"themes": ["mercy"]}`, reply)

	assert.Equal(t, "deepseek-reasoner", got.Model)
	assert.Equal(t, 800, got.MaxTokens)
	assert.InDelta(t, 0.4, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "extract themes", got.Messages[0].Content)
}

func TestChatWithSystemMessage(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Similar"}}]}`))
	}))
	defer srv.Close()

	c, err := New(Options{URL: srv.URL, Model: "m"})
	require.NoError(t, err)

	reply, err := c.Chat(context.Background(), "You are a theme analyzer.", "compare")
	require.NoError(t, err)
	assert.Equal(t, "Similar", reply)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
}

func TestCompleteAcceptsAnySuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Complementary"}}]}`))
	}))
	defer srv.Close()

	c, err := New(Options{URL: srv.URL, Model: "m"})
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "Complementary", reply)
}

func TestCompleteErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		is     error
	}{
		{"http status", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, nil},
		{"server error", http.StatusInternalServerError, `{"choices":[{"message":{"content":"x"}}]}`, nil},
		{"api error", http.StatusOK, `{"error":{"message":"bad model"}}`, nil},
		{"no choices", http.StatusOK, `{"choices":[]}`, ErrEmptyReply},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`, ErrEmptyReply},
		{"not json", http.StatusOK, `<html>oops</html>`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c, err := New(Options{URL: srv.URL, Model: "m"})
			require.NoError(t, err)

			_, err = c.Complete(context.Background(), "p")
			require.Error(t, err)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
		})
	}
}

func TestCompleteHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, err := New(Options{URL: srv.URL, Model: "m"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.Complete(ctx, "p")
	require.Error(t, err)
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(Options{Model: "m"})
	require.Error(t, err)
	_, err = New(Options{URL: "http://localhost"})
	require.Error(t, err)
}
