// Package backend is the consumed interface to the identity backend.
// The backend owns credential checks, token generation and persistence;
// this package only forwards operations and normalizes responses, so
// the proxy's error classification stays in one unit-testable place.
package backend

import "context"

// SignupResult mirrors the backend's signup response. EmailValidated
// is absent from that payload and therefore defaults to false.
type SignupResult struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	EmailValidated bool   `json:"emailValidated"`
	Message        string `json:"message"`
	Success        bool   `json:"success"`
}

// UserResult mirrors the backend's login and lookup responses.
type UserResult struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	EmailValidated bool   `json:"emailValidated"`
	Message        string `json:"message"`
	LoginSuccess   bool   `json:"loginSuccess"`
}

// Client defines one method per backend operation the proxy forwards.
// Implementations must bound each call with a request timeout.
//
// Error contract: a response with a non-2xx status yields *StatusError
// carrying the upstream status and message; transport failures
// (unreachable, timeout) yield ordinary errors.
type Client interface {
	Signup(ctx context.Context, email, password string) (*SignupResult, error)
	Login(ctx context.Context, email, password string) (*UserResult, error)
	LookupUser(ctx context.Context, id int64) (*UserResult, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
}
