package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/auth-service/pkg/httpclient"
)

// authServer is a fake auth service tracking refresh traffic and the set of
// access tokens it considers live.
type authServer struct {
	mu           sync.Mutex
	refreshCalls int
	validTokens  map[string]bool
	refreshToken string
	failRefresh  bool
}

func newAuthServer() *authServer {
	return &authServer{
		validTokens:  map[string]bool{},
		refreshToken: "refresh-1",
	}
}

func (s *authServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.validTokens["access-1"] = true
		refresh := s.refreshToken
		s.mu.Unlock()

		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: refresh, HttpOnly: true})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"access_token": "access-1"}})
	})

	mux.HandleFunc("POST /api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.refreshCalls++
		fail := s.failRefresh
		cookie, err := r.Cookie("refresh_token")
		tokenOK := err == nil && cookie.Value == s.refreshToken
		if !fail && tokenOK {
			// Rotate: the presented refresh token is spent.
			s.refreshToken = "refresh-" + time.Now().Format("150405.000000000")
			s.validTokens["access-refreshed"] = true
		}
		refresh := s.refreshToken
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if fail || !tokenOK {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"code": "TOKEN_INVALID", "message": "token is not valid"},
			})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: refresh, HttpOnly: true})
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"access_token": "access-refreshed"}})
	})

	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		token := trimBearer(r.Header.Get("Authorization"))
		s.mu.Lock()
		ok := s.validTokens[token]
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"code": "TOKEN_EXPIRED", "message": "token has expired"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"email": "a@x.com"}})
	})

	return mux
}

func trimBearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return header
}

func (s *authServer) expireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.validTokens {
		if k != "access-refreshed" {
			delete(s.validTokens, k)
		}
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, onExpired func()) *Client {
	t.Helper()
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	return New(Config{
		BaseURL:          srv.URL,
		HTTP:             httpclient.New(cfg),
		OnSessionExpired: onExpired,
	})
}

func TestClient_LoginStoresSession(t *testing.T) {
	fake := newAuthServer()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	client := newTestClient(t, srv, nil)
	require.NoError(t, client.Login(context.Background(), "a@x.com", "pw"))

	assert.Equal(t, "access-1", client.AccessToken())
}

func TestClient_TransparentRefreshOnExpiry(t *testing.T) {
	fake := newAuthServer()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	client := newTestClient(t, srv, nil)
	require.NoError(t, client.Login(context.Background(), "a@x.com", "pw"))

	fake.expireAccessTokens()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	require.NoError(t, err)
	resp, err := client.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "access-refreshed", client.AccessToken())
	assert.Equal(t, 1, fake.refreshCalls)
}

func TestClient_ConcurrentExpiry_SingleRefresh(t *testing.T) {
	fake := newAuthServer()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	client := newTestClient(t, srv, nil)
	require.NoError(t, client.Login(context.Background(), "a@x.com", "pw"))

	fake.expireAccessTokens()

	const workers = 8
	var failures atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
			if err != nil {
				failures.Add(1)
				return
			}
			resp, err := client.Do(context.Background(), req)
			if err != nil || resp.StatusCode != http.StatusOK {
				failures.Add(1)
				return
			}
			resp.Body.Close()
		}()
	}
	close(start)
	wg.Wait()

	assert.Zero(t, failures.Load())
	assert.Equal(t, 1, fake.refreshCalls, "all expired callers must share one refresh")
}

func TestClient_RefreshFailure_ExpiresSession(t *testing.T) {
	fake := newAuthServer()
	fake.failRefresh = true
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	var expired atomic.Int32
	client := newTestClient(t, srv, func() { expired.Add(1) })
	require.NoError(t, client.Login(context.Background(), "a@x.com", "pw"))

	fake.expireAccessTokens()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	require.NoError(t, err)
	_, err = client.Do(context.Background(), req)

	require.Error(t, err)
	assert.Equal(t, int32(1), expired.Load())
	assert.Empty(t, client.AccessToken())
}

func TestClient_NonExpiredErrorsPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "FORBIDDEN", "message": "no"},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/whatever", nil)
	require.NoError(t, err)
	resp, err := client.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
