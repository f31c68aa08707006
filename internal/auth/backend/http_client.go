package backend

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

// HTTPClient talks to the identity backend over plain HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a backend client for the given base URL. Every
// request is bounded by timeout; there are no retries — a failed call
// surfaces immediately and the browser client decides whether to retry.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPClient) request(ctx context.Context, method, path string, body any) (int, []byte, error) {
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

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Signup(ctx context.Context, email, password string) (*SignupResult, error) {
	status, body, err := c.request(ctx, http.MethodPost, "/users/signup", credentialsRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{Status: status, Message: messageFromBody(body)}
	}

	result := &SignupResult{}
	if err := json.Unmarshal(body, result); err != nil {
		return nil, fmt.Errorf("backend: invalid signup response: %w", err)
	}
	return result, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*UserResult, error) {
	status, body, err := c.request(ctx, http.MethodPost, "/users/login", credentialsRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{Status: status, Message: messageFromBody(body)}
	}

	result := &UserResult{}
	if err := json.Unmarshal(body, result); err != nil {
		return nil, fmt.Errorf("backend: invalid login response: %w", err)
	}
	return result, nil
}

func (c *HTTPClient) LookupUser(ctx context.Context, id int64) (*UserResult, error) {
	status, body, err := c.request(ctx, http.MethodGet, fmt.Sprintf("/users/validate/%d", id), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{Status: status, Message: messageFromBody(body)}
	}

	result := &UserResult{}
	if err := json.Unmarshal(body, result); err != nil {
		return nil, fmt.Errorf("backend: invalid lookup response: %w", err)
	}
	return result, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) (string, error) {
	status, body, err := c.request(ctx, http.MethodGet, "/users/verify?token="+url.QueryEscape(token), nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &StatusError{Status: status, Message: messageFromBody(body)}
	}
	return messageFromBody(body), nil
}

func (c *HTTPClient) ResendVerification(ctx context.Context, email string) (string, error) {
	// the backend takes the address as a query parameter, not a body
	status, body, err := c.request(ctx, http.MethodPost, "/users/resend-verification?email="+url.QueryEscape(email), nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &StatusError{Status: status, Message: messageFromBody(body)}
	}
	return messageFromBody(body), nil
}
