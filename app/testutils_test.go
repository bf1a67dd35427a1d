package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func newTestConfig() *Config {
	return &Config{
		Port:           "4000",
		Environment:    "testing",
		Version:        "test",
		Store:          "memory",
		TrustedOrigins: []string{"http://localhost:3000"},
	}
}

func newTestApplication(t *testing.T) *application {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app, cleanup, err := newApplication(newTestConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	return app
}

// request sends payload as JSON (when non-nil) with an optional bearer token.
func (ts *testServer) request(t *testing.T, method, path, token string, payload any) (int, http.Header, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		js, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(js)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, res.Header, responseBody
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()

	status, _, body := ts.request(t, http.MethodPost, "/v1/sessions", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, status, string(body))

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &session))

	return session.Token
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}
