// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent/0.1", r.Header.Get("User-Agent"))
		assert.Equal(t, "hello world", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count": 3}`))
	}))
	defer ts.Close()

	var out struct {
		Count int `json:"count"`
	}
	params := url.Values{"q": {"hello world"}}
	err := GetJSON(context.Background(), ts.Client(), ts.URL, params, "test-agent/0.1", &out)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Count)
}

func TestGetJSONNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	var out map[string]any
	err := GetJSON(context.Background(), ts.Client(), ts.URL, nil, "", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestGetJSONMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":`))
	}))
	defer ts.Close()

	var out map[string]any
	err := GetJSON(context.Background(), ts.Client(), ts.URL, nil, "", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}
