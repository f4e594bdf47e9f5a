package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/defidash/internal/domain"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/thing", r.URL.Path)
		assert.Equal(t, "b", r.URL.Query().Get("a"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{"value":"42","ignored":true}`))
	}))
	defer srv.Close()

	c := New(Config{Service: "test", BaseURL: srv.URL + "/", BearerToken: "secret"})
	var out struct {
		Value string `json:"value"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "/v1/thing", url.Values{"a": {"b"}}, &out))
	assert.Equal(t, "42", out.Value)
}

func TestGetJSONUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Bad Request","description":"insufficient liquidity","statusCode":400}`))
	}))
	defer srv.Close()

	err := New(Config{Service: "test", BaseURL: srv.URL}).GetJSON(context.Background(), "/", nil, &struct{}{})
	var upErr *domain.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusBadRequest, upErr.Status)
	assert.Equal(t, "insufficient liquidity", upErr.Message)
}

func TestGetJSONMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	err := New(Config{Service: "test", BaseURL: srv.URL}).GetJSON(context.Background(), "/", nil, &struct{}{})
	require.Error(t, err)
	var upErr *domain.UpstreamError
	assert.False(t, errors.As(err, &upErr))
	assert.Contains(t, err.Error(), "decode response")
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", ErrorMessage([]byte(`{"message":"boom"}`)))
	assert.Equal(t, "a; b", ErrorMessage([]byte(`{"message":["a","b"]}`)))
	assert.Equal(t, "nope", ErrorMessage([]byte(`{"errorMsg":"nope"}`)))
	assert.Equal(t, "", ErrorMessage([]byte(`not json`)))
	assert.Equal(t, "", ErrorMessage([]byte(`{"statusCode":500}`)))
}

func TestUpstreamErrorSentinels(t *testing.T) {
	assert.ErrorIs(t, &domain.UpstreamError{Status: 429}, domain.ErrRateLimited)
	assert.ErrorIs(t, &domain.UpstreamError{Status: 401}, domain.ErrUnauthorized)
	assert.ErrorIs(t, &domain.UpstreamError{Status: 404}, domain.ErrNotFound)
}
