package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "agripull-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"crop":"rice"}`))
	}))
	defer srv.Close()

	c := NewClient(WithUserAgent("agripull-test"))
	var out struct {
		Crop string `json:"crop"`
	}
	require.NoError(t, c.PostJSON(context.Background(), srv.URL, map[string]int{"N": 90}, &out))
	assert.Equal(t, "rice", out.Crop)
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ph out of range", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewClient().GetJSON(context.Background(), srv.URL, nil)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnprocessableEntity, se.Code)
	assert.Equal(t, "ph out of range", se.Body)
	assert.False(t, Retryable(err))
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&StatusError{Code: 502}, true},
		{fmt.Errorf("post: %w", &StatusError{Code: 429}), true},
		{&StatusError{Code: 400}, false},
		{context.Canceled, false},
		{errors.New("connection refused"), true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Retryable(c.err), "%v", c.err)
	}
}
