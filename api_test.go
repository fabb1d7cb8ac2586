package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *sessionStore {
	t.Helper()
	store, err := openSessionStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestClient(t *testing.T, baseURL string, session *sessionStore) *apiClient {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return newAPIClient(apiConfig{BaseURL: baseURL, Timeout: 5 * time.Second}, session, log)
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer srv.Close()

	session := newTestSession(t)
	require.NoError(t, session.SetPair("token-a", "refresh-a"))

	client := newTestClient(t, srv.URL, session)
	var out struct {
		ID int `json:"id"`
	}
	require.NoError(t, client.get("/core/users/me/", &out))
	assert.Equal(t, "Bearer token-a", gotAuth)
	assert.Equal(t, 1, out.ID)
}

func TestClientRefreshesOnUnauthorized(t *testing.T) {
	var refreshCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token/refresh/" {
			refreshCalls.Add(1)
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-a", body["refresh"])
			_, _ = w.Write([]byte(`{"access": "token-b"}`))
			return
		}
		if r.Header.Get("Authorization") != "Bearer token-b" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	session := newTestSession(t)
	require.NoError(t, session.SetPair("token-a", "refresh-a"))

	client := newTestClient(t, srv.URL, session)
	var out []Deal
	require.NoError(t, client.get("/crm/deals/", &out))

	assert.Equal(t, int32(1), refreshCalls.Load())
	access, refresh := session.Tokens()
	assert.Equal(t, "token-b", access, "rotated token must be persisted")
	assert.Equal(t, "refresh-a", refresh)
	assert.False(t, client.consumeAuthExpired())
}

func TestClientRefreshFailureExpiresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token/refresh/" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	session := newTestSession(t)
	require.NoError(t, session.SetPair("token-a", "refresh-dead"))

	var callbackFired bool
	client := newTestClient(t, srv.URL, session)
	client.onAuthExpired = func() { callbackFired = true }

	err := client.get("/crm/deals/", nil)
	require.Error(t, err)

	// The caller sees the original request failure, not the refresh error.
	var reqErr *apiError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusUnauthorized, reqErr.Status)

	access, refresh := session.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
	assert.True(t, callbackFired)
	assert.True(t, client.consumeAuthExpired())
	assert.False(t, client.consumeAuthExpired(), "flag is one-shot")
}

func TestClientMissingRefreshTokenExpiresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	session := newTestSession(t)
	require.NoError(t, session.SetAccess("token-a"))

	client := newTestClient(t, srv.URL, session)
	err := client.get("/crm/leads/", nil)
	require.Error(t, err)
	assert.True(t, client.consumeAuthExpired())
}

func TestClientDoesNotRefreshOnOtherErrors(t *testing.T) {
	var refreshCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token/refresh/" {
			refreshCalls.Add(1)
			_, _ = w.Write([]byte(`{"access": "token-b"}`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	session := newTestSession(t)
	require.NoError(t, session.SetPair("token-a", "refresh-a"))

	client := newTestClient(t, srv.URL, session)
	err := client.get("/crm/deals/", nil)

	var reqErr *apiError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusBadGateway, reqErr.Status)
	assert.Equal(t, int32(0), refreshCalls.Load())
	assert.False(t, client.consumeAuthExpired())
}

func TestClientParallelUnauthorizedRefreshesOnce(t *testing.T) {
	var refreshCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token/refresh/" {
			refreshCalls.Add(1)
			_, _ = w.Write([]byte(`{"access": "token-b"}`))
			return
		}
		if r.Header.Get("Authorization") != "Bearer token-b" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	session := newTestSession(t)
	require.NoError(t, session.SetPair("token-a", "refresh-a"))

	client := newTestClient(t, srv.URL, session)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out []Deal
			errs[i] = client.get("/crm/deals/", &out)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), refreshCalls.Load(), "stale-token check must collapse concurrent refreshes")
}

func TestAPIErrorMessageTruncation(t *testing.T) {
	short := &apiError{Status: 404, Body: `{"detail": "not found"}`}
	assert.Contains(t, short.Error(), "404")
	assert.Contains(t, short.Error(), "not found")

	long := &apiError{Status: 500, Body: strings.Repeat("x", 500)}
	assert.LessOrEqual(t, len(long.Error()), 250)

	empty := &apiError{Status: 503}
	assert.Equal(t, "api: status 503", empty.Error())
}
