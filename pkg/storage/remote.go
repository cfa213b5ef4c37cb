package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RemoteStore talks to the authenticated file API: one JSON document
// per name under /api/files/, gated by a session cookie.
type RemoteStore struct {
	baseURL string
	client  *http.Client
	cookie  string
}

// NewRemoteStore builds a client for the file API at baseURL
// (e.g. "https://example.com"). cookie is an existing session cookie in
// "name=value" form, or empty for a fresh unauthenticated client.
func NewRemoteStore(baseURL, cookie string) (*RemoteStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	return &RemoteStore{
		baseURL: strings.TrimRight(u.String(), "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		cookie:  cookie,
	}, nil
}

// Cookie returns the current session cookie so callers can persist it
// between invocations.
func (s *RemoteStore) Cookie() string { return s.cookie }

func (s *RemoteStore) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.cookie != "" {
		req.Header.Set("Cookie", s.cookie)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func (s *RemoteStore) Get(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/files/"+name, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("GET %s: HTTP %d", name, resp.StatusCode)
	}
}

func (s *RemoteStore) Put(ctx context.Context, name string, doc []byte) error {
	resp, err := s.do(ctx, http.MethodPut, "/api/files/"+name, doc)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("PUT %s: HTTP %d", name, resp.StatusCode)
	}
}

// Login opens a session and captures the session cookie for later calls.
func (s *RemoteStore) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	resp, err := s.do(ctx, http.MethodPost, "/api/files/login", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login: HTTP %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if strings.Contains(strings.ToUpper(c.Name), "SESSID") || s.cookie == "" {
			s.cookie = c.Name + "=" + c.Value
		}
	}
	if s.cookie == "" {
		return fmt.Errorf("login: no session cookie in response")
	}
	return nil
}

// Logout tears down the server-side session and drops the cookie.
func (s *RemoteStore) Logout(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodPost, "/api/files/logout", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	s.cookie = ""
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("logout: HTTP %d", resp.StatusCode)
	}
	return nil
}

// SessionAlive asks the API whether the captured cookie still maps to an
// authenticated session.
func (s *RemoteStore) SessionAlive(ctx context.Context) (bool, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/files/session", nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	var payload struct {
		Authed bool `json:"authed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, nil
	}
	return payload.Authed, nil
}
