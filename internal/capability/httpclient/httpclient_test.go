package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/krema-build/krema/internal/capability/httpclient"
	"github.com/krema-build/krema/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestReturnsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c := httpclient.New(5 * time.Second)
	resp, err := c.Request(context.Background(), httpclient.Request{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "hello", resp.Body)
	assert.Equal(t, "yes", resp.Headers["X-Test"])
}

func TestFetchJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"count":3}`))
	}))
	defer srv.Close()

	c := httpclient.New(5 * time.Second)
	result, err := c.FetchJSON(context.Background(), httpclient.Request{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)

	decoded, ok := result.(map[string]any)
	require.True(t, ok)
	body, ok := decoded["body"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, body["ok"])
}

func TestFetchJSONMalformedBodyIsSerializationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := httpclient.New(5 * time.Second)
	_, err := c.FetchJSON(context.Background(), httpclient.Request{Method: http.MethodGet, URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.SerializationError))
}

func TestRequestTimeoutIsTimeoutKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	c := httpclient.New(0)
	_, err := c.Request(context.Background(), httpclient.Request{
		Method:  http.MethodGet,
		URL:     srv.URL,
		Timeout: 5 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.Timeout))
}
