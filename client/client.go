// Package client is the session adapter consumed by UI code: a thin
// cache of the session proxy's view of the current user. It only
// calls the proxy and reacts to its responses — a UserGone answer
// clears the local identity, upstream failures leave it untouched so
// the caller can retry.
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
)

var (
	// ErrUnauthenticated means the proxy holds no session for us and
	// the user must log in again.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrUserGone means the identity no longer exists at the source of
	// truth; local identity state has been cleared.
	ErrUserGone = errors.New("user no longer exists")
	// ErrUpstream means the proxy could not reach its backend; the
	// operation is retryable and local state is unchanged.
	ErrUpstream = errors.New("upstream failure")
)

// APIError is a non-2xx proxy response that maps to none of the
// sentinel errors above.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("session proxy error %d: %s", e.Status, e.Message)
}

type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	EmailValidated bool   `json:"emailValidated"`
}

type EmailStatus struct {
	IsValidated       bool   `json:"isValidated"`
	Message           string `json:"message"`
	NeedsVerification bool   `json:"needsVerification"`
}

type Dashboard struct {
	User           User        `json:"user"`
	EmailStatus    EmailStatus `json:"emailStatus"`
	Timestamp      string      `json:"timestamp"`
	WelcomeMessage string      `json:"welcomeMessage"`
}

// Client talks to the session proxy, carrying the session cookie in a
// jar and caching the proxy's latest view of the current user.
type Client struct {
	baseURL string
	http    *http.Client

	mu   sync.RWMutex
	user *User
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
	}, nil
}

// CurrentUser returns the cached snapshot, or nil when logged out.
func (c *Client) CurrentUser() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	user := *c.user
	return &user
}

func (c *Client) setUser(user *User) {
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
}

func (c *Client) request(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, err
}

type errorResponse struct {
	Error        string `json:"error"`
	ShouldLogout bool   `json:"shouldLogout"`
}

func parseError(body []byte) errorResponse {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	if er.Error == "" {
		er.Error = strings.TrimSpace(string(body))
	}
	return er
}

// Session asks the proxy who we are. Returns the user, or nil when the
// session is anonymous. The local cache follows the answer either way.
func (c *Client) Session(ctx context.Context) (*User, error) {
	status, body, err := c.request(ctx, http.MethodGet, "/session", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{Status: status, Message: parseError(body).Error}
	}

	var resp struct {
		Authenticated bool  `json:"authenticated"`
		User          *User `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	if !resp.Authenticated {
		c.setUser(nil)
		return nil, nil
	}
	c.setUser(resp.User)
	return c.CurrentUser(), nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool   `json:"success"`
	User    *User  `json:"user"`
	Message string `json:"message"`
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*User, string, error) {
	status, body, err := c.request(ctx, http.MethodPost, path, credentials{Email: email, Password: password})
	if err != nil {
		return nil, "", err
	}

	switch {
	case status == http.StatusOK:
	case status == http.StatusUnauthorized:
		return nil, "", fmt.Errorf("%w: %s", ErrUnauthenticated, parseError(body).Error)
	case status >= http.StatusInternalServerError:
		return nil, "", fmt.Errorf("%w: %s", ErrUpstream, parseError(body).Error)
	default:
		return nil, "", &APIError{Status: status, Message: parseError(body).Error}
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, "", err
	}
	c.setUser(resp.User)
	return c.CurrentUser(), resp.Message, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, string, error) {
	return c.authenticate(ctx, "/login", email, password)
}

func (c *Client) Signup(ctx context.Context, email, password string) (*User, string, error) {
	return c.authenticate(ctx, "/signup", email, password)
}

// Logout destroys the proxy session. The local identity is cleared
// regardless of the response: once the user asked to leave, nothing
// may keep them looking signed in.
func (c *Client) Logout(ctx context.Context) error {
	status, body, err := c.request(ctx, http.MethodPost, "/logout", nil)
	c.setUser(nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &APIError{Status: status, Message: parseError(body).Error}
	}
	return nil
}

// RefreshUser pulls the proxy's freshly reconciled snapshot. ErrUserGone
// and ErrUnauthenticated both clear the local identity; ErrUpstream
// leaves it in place for a retry.
func (c *Client) RefreshUser(ctx context.Context) (*User, error) {
	status, body, err := c.request(ctx, http.MethodPost, "/refresh-user", nil)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK:
	case status == http.StatusNotFound:
		c.setUser(nil)
		return nil, ErrUserGone
	case status == http.StatusUnauthorized:
		c.setUser(nil)
		return nil, ErrUnauthenticated
	case status >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: %s", ErrUpstream, parseError(body).Error)
	default:
		return nil, &APIError{Status: status, Message: parseError(body).Error}
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	c.setUser(resp.User)
	return c.CurrentUser(), nil
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	status, body, err := c.request(ctx, http.MethodGet, "/verify-email?token="+url.QueryEscape(token), nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &APIError{Status: status, Message: parseError(body).Error}
	}

	var resp messageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}

	// keep the cached flag in step with the proxy's opportunistic update
	c.mu.Lock()
	if c.user != nil {
		c.user.EmailValidated = true
	}
	c.mu.Unlock()

	return resp.Message, nil
}

func (c *Client) ResendVerification(ctx context.Context, email string) (string, error) {
	status, body, err := c.request(ctx, http.MethodPost, "/resend-verification", map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &APIError{Status: status, Message: parseError(body).Error}
	}

	var resp messageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	status, body, err := c.request(ctx, http.MethodGet, "/dashboard", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		c.setUser(nil)
		return nil, ErrUnauthenticated
	}
	if status != http.StatusOK {
		return nil, &APIError{Status: status, Message: parseError(body).Error}
	}

	var dash Dashboard
	if err := json.Unmarshal(body, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}
