package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// apiError is any non-2xx backend response.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, body)
}

// apiClient issues JSON requests against the backend, attaching the stored
// access token as a bearer credential and recovering from 401 responses with
// a single refresh-and-retry. The refresh path is serialized so two requests
// failing at once rotate the credential only once.
type apiClient struct {
	baseURL string
	http    *http.Client
	session *sessionStore
	log     *logrus.Logger

	refreshMu sync.Mutex
	expired   atomic.Bool

	// onAuthExpired fires after an unrecoverable 401 clears the stored
	// tokens; the UI uses it to fall back to the login screen.
	onAuthExpired func()
}

func newAPIClient(cfg apiConfig, session *sessionStore, log *logrus.Logger) *apiClient {
	return &apiClient{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		session: session,
		log:     log,
	}
}

func (c *apiClient) get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *apiClient) post(path string, body, out any) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *apiClient) patch(path string, body, out any) error {
	return c.do(http.MethodPatch, path, body, out)
}

func (c *apiClient) put(path string, body, out any) error {
	return c.do(http.MethodPut, path, body, out)
}

func (c *apiClient) delete(path string) error {
	return c.do(http.MethodDelete, path, nil, nil)
}

func (c *apiClient) do(method, path string, body, out any) error {
	access, _ := c.session.Tokens()
	err := c.doOnce(method, path, access, body, out)
	var reqErr *apiError
	if err == nil || !errors.As(err, &reqErr) || reqErr.Status != http.StatusUnauthorized {
		return err
	}

	if refreshErr := c.refreshAccessToken(access); refreshErr != nil {
		c.expireSession(refreshErr)
		return err
	}

	access, _ = c.session.Tokens()
	return c.doOnce(method, path, access, body, out)
}

func (c *apiClient) doOnce(method, path, access string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apiError{Status: resp.StatusCode, Body: string(data)}
	}
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}

// refreshAccessToken exchanges the stored refresh token for a new access
// token. stale is the access token the failing request carried; if another
// request already rotated the credential, the exchange is skipped.
func (c *apiClient) refreshAccessToken(stale string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	access, refresh := c.session.Tokens()
	if access != "" && access != stale {
		return nil
	}
	if refresh == "" {
		return errors.New("no refresh token stored")
	}

	payload := map[string]string{"refresh": refresh}
	var result struct {
		Access string `json:"access"`
	}
	if err := c.doOnce(http.MethodPost, "/token/refresh/", "", payload, &result); err != nil {
		return fmt.Errorf("token refresh: %w", err)
	}
	if strings.TrimSpace(result.Access) == "" {
		return errors.New("token refresh: empty access token")
	}
	if err := c.session.SetAccess(result.Access); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}
	return nil
}

func (c *apiClient) expireSession(cause error) {
	if err := c.session.Clear(); err != nil && c.log != nil {
		c.log.WithError(err).Warn("failed to clear session store")
	}
	if c.log != nil {
		c.log.WithError(cause).Info("session expired, forcing login")
	}
	c.expired.Store(true)
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}

// consumeAuthExpired reports whether the session died since the last check.
// The transport runs inside command goroutines, so the UI polls this flag
// when their result messages arrive.
func (c *apiClient) consumeAuthExpired() bool {
	return c.expired.Swap(false)
}
