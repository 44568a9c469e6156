// Package authclient is a Go client for the auth service HTTP API. It holds
// the session's token pair and transparently refreshes the access token when
// a request fails with TOKEN_EXPIRED, coordinating concurrent callers so the
// single active refresh token is spent exactly once.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/taskmaster/auth-service/pkg/errors"
	"github.com/taskmaster/auth-service/pkg/httpclient"
)

const refreshCookieName = "refresh_token"

// sessionEnvelope is the server's response envelope for session endpoints.
// This client drives the cookie flow, so only the access token is read from
// the body.
type sessionEnvelope struct {
	Data struct {
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

// Config holds client configuration.
type Config struct {
	// BaseURL is the auth service root, e.g. "https://auth.internal:8080".
	BaseURL string

	// HTTP is the underlying transport. Defaults to httpclient.New with
	// default config when nil.
	HTTP *httpclient.Client

	Logger *slog.Logger

	// OnSessionExpired is invoked once when a refresh attempt fails and the
	// session cannot be recovered. The callback fires outside the client's
	// internal locks.
	OnSessionExpired func()
}

// Client is a session-holding HTTP client. All methods are safe for
// concurrent use.
type Client struct {
	baseURL string
	http    *httpclient.Client
	logger  *slog.Logger

	onSessionExpired func()

	mu            sync.RWMutex
	accessToken   string
	refreshCookie *http.Cookie

	refreshGroup singleflight.Group
}

// New creates a new auth service client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.DefaultConfig())
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:          cfg.BaseURL,
		http:             httpClient,
		logger:           logger,
		onSessionExpired: cfg.OnSessionExpired,
	}
}

// AccessToken returns the current access token, or "" when logged out.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// Login authenticates with email and password and stores the resulting
// session. The refresh token arrives as an HTTP-only cookie and is retained
// for later refresh calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return fmt.Errorf("marshal login request: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp)
	}
	defer resp.Body.Close()

	var payload sessionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	c.storeSession(payload.Data.AccessToken, findRefreshCookie(resp))
	return nil
}

// Logout revokes the server-side refresh token and clears the local session.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/logout", http.NoBody)
	if err != nil {
		return fmt.Errorf("create logout request: %w", err)
	}

	c.mu.RLock()
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	if c.refreshCookie != nil {
		req.AddCookie(c.refreshCookie)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(ctx, req)

	// The local session is gone regardless of what the server said.
	c.storeSession("", nil)

	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("logout returned status %d", resp.StatusCode)
	}
	return nil
}

// Do executes an authenticated request against the auth service. When the
// response carries TOKEN_EXPIRED the client refreshes the access token and
// replays the request once; a second TOKEN_EXPIRED is returned to the caller
// as-is. Requests with a body must set req.GetBody so the replay can rewind
// it (http.NewRequest does this for common body types).
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	token := c.AccessToken()
	resp, err := c.doWithToken(ctx, req, token)
	if err != nil {
		return nil, err
	}

	parsed := c.checkExpired(resp)
	if parsed == nil {
		return resp, nil
	}

	// Another caller may have already refreshed while this request was in
	// flight. Reuse the newer token instead of spending another refresh.
	newToken := c.AccessToken()
	if newToken == "" || newToken == token {
		var refreshErr error
		newToken, refreshErr = c.refresh(ctx)
		if refreshErr != nil {
			c.expireSession()
			return nil, fmt.Errorf("session refresh failed: %w", refreshErr)
		}
	}

	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, fmt.Errorf("rewind request body for replay: %w", bodyErr)
		}
		req.Body = body
	}
	return c.doWithToken(ctx, req, newToken)
}

func (c *Client) doWithToken(ctx context.Context, req *http.Request, token string) (*http.Response, error) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.http.Do(ctx, req)
}

// checkExpired returns the parsed error when resp is a TOKEN_EXPIRED
// rejection, consuming the body. Any other response, including other 401s,
// returns nil and leaves resp untouched.
func (c *Client) checkExpired(resp *http.Response) error {
	if resp.StatusCode != http.StatusUnauthorized {
		return nil
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		return nil
	}

	// Peek the error code without losing the body for non-expired errors.
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
	if err != nil {
		resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		return nil
	}
	resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var envelope httpclient.ErrorEnvelope
	if json.Unmarshal(bodyBytes, &envelope) != nil || envelope.Error == nil {
		return nil
	}
	if envelope.Error.Code != "TOKEN_EXPIRED" {
		return nil
	}
	return apperrors.TokenExpired()
}

// refresh exchanges the stored refresh cookie for a new token pair. All
// concurrent callers share a single in-flight refresh; the refresh token is
// single-use on the server, so a second simultaneous POST would be rejected.
func (c *Client) refresh(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		c.mu.RLock()
		cookie := c.refreshCookie
		c.mu.RUnlock()
		if cookie == nil {
			return "", apperrors.TokenInvalid()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/refresh", http.NoBody)
		if err != nil {
			return "", fmt.Errorf("create refresh request: %w", err)
		}
		req.AddCookie(cookie)

		resp, err := c.http.Do(ctx, req)
		if err != nil {
			return "", fmt.Errorf("refresh request: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return "", httpclient.ParseResponseError(resp)
		}
		defer resp.Body.Close()

		var payload sessionEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return "", fmt.Errorf("decode refresh response: %w", err)
		}

		c.storeSession(payload.Data.AccessToken, findRefreshCookie(resp))
		c.logger.Debug("access token refreshed")
		return payload.Data.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// storeSession replaces the held token pair. A nil cookie keeps the current
// one, since the server only re-issues the refresh cookie on rotation.
func (c *Client) storeSession(accessToken string, cookie *http.Cookie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
	if cookie != nil || accessToken == "" {
		c.refreshCookie = cookie
	}
}

func (c *Client) expireSession() {
	c.storeSession("", nil)
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

func findRefreshCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == refreshCookieName {
			return cookie
		}
	}
	return nil
}
