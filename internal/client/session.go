// Package client is a Go client for the task tracker HTTP API. A Session keeps the access token
// in memory and renews it from the refresh cookie when needed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	userdomain "tasktracker/backend/internal/user/domain"
)

const (
	refreshCookieName = "refreshToken"
	refreshKey        = "refresh"
)

// ErrNoSession is returned when the server holds no valid refresh session for this client.
var ErrNoSession = errors.New("client: no active session")

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
	Details map[string][]string
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d: %s %v", e.Status, e.Message, e.Details)
}

type authResponse struct {
	User        userdomain.PublicUser `json:"user"`
	AccessToken string                `json:"accessToken"`
}

// Session talks to one API base URL. It is safe for concurrent use.
type Session struct {
	base *url.URL
	http *http.Client

	mu    sync.Mutex
	token string

	group singleflight.Group
}

// New returns a Session for baseURL (for example "http://localhost:8080"). A nil httpClient gets
// a default client. A cookie jar is attached when the client has none.
func New(baseURL string, httpClient *http.Client) (*Session, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		httpClient.Jar = jar
	}
	return &Session{base: u, http: httpClient}, nil
}

// Token returns the cached access token, or "".
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// dropToken clears the cached token if it is still stale.
func (s *Session) dropToken(stale string) {
	s.mu.Lock()
	if s.token == stale {
		s.token = ""
	}
	s.mu.Unlock()
}

// RefreshCookie returns the refresh cookie held in the jar, or "".
func (s *Session) RefreshCookie() string {
	for _, c := range s.http.Jar.Cookies(s.base) {
		if c.Name == refreshCookieName {
			return c.Value
		}
	}
	return ""
}

// SetRefreshCookie seeds the jar with a refresh cookie saved by an earlier run.
func (s *Session) SetRefreshCookie(value string) {
	if value == "" {
		return
	}
	s.http.Jar.SetCookies(s.base, []*http.Cookie{{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.base.Scheme == "https",
	}})
}

// ValidToken returns the cached access token, refreshing it first when none is held.
// Concurrent callers share a single refresh request.
func (s *Session) ValidToken(ctx context.Context) (string, error) {
	if t := s.Token(); t != "" {
		return t, nil
	}
	ch := s.group.DoChan(refreshKey, func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *Session) refresh(ctx context.Context) (string, error) {
	var out authResponse
	status, err := s.send(ctx, http.MethodPost, "/api/auth/refresh", "", nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && status == http.StatusUnauthorized {
			s.setToken("")
			return "", fmt.Errorf("%w: %s", ErrNoSession, apiErr.Message)
		}
		return "", err
	}
	s.setToken(out.AccessToken)
	return out.AccessToken, nil
}

// Do sends a JSON request with the access token attached and decodes a 2xx body into out.
// After a 401 it refreshes once and retries once. in and out may be nil.
func (s *Session) Do(ctx context.Context, method, path string, in, out any) error {
	token, err := s.ValidToken(ctx)
	if err != nil && !errors.Is(err, ErrNoSession) {
		return err
	}
	status, err := s.send(ctx, method, path, token, in, out)
	if status != http.StatusUnauthorized || token == "" {
		return err
	}
	s.dropToken(token)
	retryToken, rerr := s.ValidToken(ctx)
	if rerr != nil {
		if errors.Is(rerr, ErrNoSession) {
			return err
		}
		return rerr
	}
	_, err = s.send(ctx, method, path, retryToken, in, out)
	return err
}

// Register creates an account and starts a session.
func (s *Session) Register(ctx context.Context, name, email, password string) (*userdomain.PublicUser, error) {
	return s.authenticate(ctx, "/api/auth/register", map[string]string{"name": name, "email": email, "password": password})
}

// Login starts a session.
func (s *Session) Login(ctx context.Context, email, password string) (*userdomain.PublicUser, error) {
	return s.authenticate(ctx, "/api/auth/login", map[string]string{"email": email, "password": password})
}

func (s *Session) authenticate(ctx context.Context, path string, body any) (*userdomain.PublicUser, error) {
	var out authResponse
	if _, err := s.send(ctx, http.MethodPost, path, "", body, &out); err != nil {
		return nil, err
	}
	s.setToken(out.AccessToken)
	return &out.User, nil
}

// Logout ends the session on the server. The in-memory token is dropped even when the call fails.
func (s *Session) Logout(ctx context.Context) error {
	defer s.setToken("")
	_, err := s.send(ctx, http.MethodPost, "/api/auth/logout", "", nil, nil)
	return err
}

// send performs one request and returns the response status. Non-2xx responses yield *APIError.
func (s *Session) send(ctx context.Context, method, path, token string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.base.String()+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error   string              `json:"error"`
		Details map[string][]string `json:"details"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
