package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"session-proxy/internal/auth/backend"
	"session-proxy/internal/middleware"
	"session-proxy/internal/session"

	"github.com/gin-gonic/gin"
)

type stubBackend struct {
	mu    sync.Mutex
	calls map[string]int

	signupResult *backend.SignupResult
	signupErr    error

	loginResult *backend.UserResult
	loginErr    error

	lookupResult *backend.UserResult
	lookupErr    error
	lookupDelay  time.Duration

	verifyMessage string
	verifyErr     error

	resendMessage string
	resendErr     error
}

func newStubBackend() *stubBackend {
	return &stubBackend{calls: make(map[string]int)}
}

func (s *stubBackend) record(op string) {
	s.mu.Lock()
	s.calls[op]++
	s.mu.Unlock()
}

func (s *stubBackend) callCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *stubBackend) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.calls {
		n += v
	}
	return n
}

func (s *stubBackend) Signup(ctx context.Context, email, password string) (*backend.SignupResult, error) {
	s.record("signup")
	return s.signupResult, s.signupErr
}

func (s *stubBackend) Login(ctx context.Context, email, password string) (*backend.UserResult, error) {
	s.record("login")
	return s.loginResult, s.loginErr
}

func (s *stubBackend) LookupUser(ctx context.Context, id int64) (*backend.UserResult, error) {
	s.record("lookup")
	if s.lookupDelay > 0 {
		time.Sleep(s.lookupDelay)
	}
	return s.lookupResult, s.lookupErr
}

func (s *stubBackend) VerifyEmail(ctx context.Context, token string) (string, error) {
	s.record("verify")
	return s.verifyMessage, s.verifyErr
}

func (s *stubBackend) ResendVerification(ctx context.Context, email string) (string, error) {
	s.record("resend")
	return s.resendMessage, s.resendErr
}

func newTestRouter(stub backend.Client, store session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(stub, store, time.Hour, session.CookieOptions{})
	r := gin.New()
	h.RegisterRoutes(r, middleware.NewAuthMiddleware(store), true)
	return r
}

func do(router *gin.Engine, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return m
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie in response, headers: %v", w.Header())
	return nil
}

func login(t *testing.T, router *gin.Engine, stub *stubBackend) *http.Cookie {
	t.Helper()
	if stub.loginResult == nil {
		stub.loginResult = &backend.UserResult{
			ID:             1,
			Email:          "a@b.com",
			EmailValidated: false,
			Message:        "Login successful",
			LoginSuccess:   true,
		}
	}
	w := do(router, http.MethodPost, "/login", `{"email":"a@b.com","password":"Secret123"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	return sessionCookie(t, w)
}

func TestGetSessionAnonymous(t *testing.T) {
	router := newTestRouter(newStubBackend(), session.NewMemoryStore())

	w := do(router, http.MethodGet, "/session", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decode(t, w)
	if resp["authenticated"] != false {
		t.Fatalf("authenticated = %v, want false", resp["authenticated"])
	}
	if resp["user"] != nil {
		t.Fatalf("user = %v, want null", resp["user"])
	}
}

func TestSignupCreatesSession(t *testing.T) {
	stub := newStubBackend()
	stub.signupResult = &backend.SignupResult{
		ID:      1,
		Email:   "a@b.com",
		Message: "ok",
		Success: true,
	}
	store := session.NewMemoryStore()
	router := newTestRouter(stub, store)

	w := do(router, http.MethodPost, "/signup", `{"email":"a@b.com","password":"Secret123"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	resp := decode(t, w)
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("no user in response: %v", resp)
	}
	if user["id"] != float64(1) || user["email"] != "a@b.com" || user["emailValidated"] != false {
		t.Fatalf("unexpected snapshot: %v", user)
	}

	// the minted session must answer /session as authenticated
	cookie := sessionCookie(t, w)
	w2 := do(router, http.MethodGet, "/session", "", cookie)
	resp2 := decode(t, w2)
	if resp2["authenticated"] != true {
		t.Fatalf("session not authenticated after signup: %v", resp2)
	}
}

func TestSignupMissingFieldsSkipsBackend(t *testing.T) {
	stub := newStubBackend()
	router := newTestRouter(stub, session.NewMemoryStore())

	w := do(router, http.MethodPost, "/signup", `{"email":"a@b.com"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Email and password are required" {
		t.Fatalf("error = %v", got)
	}
	if stub.totalCalls() != 0 {
		t.Fatalf("backend called %d times for invalid input", stub.totalCalls())
	}
}

func TestSignupBackendStatusPassthrough(t *testing.T) {
	stub := newStubBackend()
	stub.signupErr = &backend.StatusError{Status: http.StatusBadRequest, Message: "User already exists"}
	router := newTestRouter(stub, session.NewMemoryStore())

	w := do(router, http.MethodPost, "/signup", `{"email":"a@b.com","password":"Secret123"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decode(t, w)["error"]; got != "User already exists" {
		t.Fatalf("error = %v, want backend message", got)
	}
}

func TestLoginMissingPasswordSkipsBackend(t *testing.T) {
	stub := newStubBackend()
	router := newTestRouter(stub, session.NewMemoryStore())

	w := do(router, http.MethodPost, "/login", `{"email":"a@b.com"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Email and password are required" {
		t.Fatalf("error = %v", got)
	}
	if stub.totalCalls() != 0 {
		t.Fatalf("backend called %d times for invalid input", stub.totalCalls())
	}
}

func TestLoginSnapshotExactlyMatchesBackend(t *testing.T) {
	stub := newStubBackend()
	stub.loginResult = &backend.UserResult{
		ID:             99,
		Email:          "exact@b.com",
		EmailValidated: true,
		Message:        "Login successful",
		LoginSuccess:   true,
	}
	router := newTestRouter(stub, session.NewMemoryStore())

	w := do(router, http.MethodPost, "/login", `{"email":"exact@b.com","password":"Secret123"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	cookie := sessionCookie(t, w)

	w2 := do(router, http.MethodGet, "/session", "", cookie)
	user := decode(t, w2)["user"].(map[string]any)
	if user["id"] != float64(99) || user["email"] != "exact@b.com" || user["emailValidated"] != true {
		t.Fatalf("session snapshot diverged from backend response: %v", user)
	}
}

func TestLoginFullyReplacesPriorSnapshot(t *testing.T) {
	stub := newStubBackend()
	store := session.NewMemoryStore()
	router := newTestRouter(stub, store)

	stub.loginResult = &backend.UserResult{ID: 1, Email: "old@b.com", EmailValidated: true, LoginSuccess: true}
	w := do(router, http.MethodPost, "/login", `{"email":"old@b.com","password":"pw"}`, nil)
	cookie := sessionCookie(t, w)

	// second login on the same browser replaces everything, no merge
	stub.loginResult = &backend.UserResult{ID: 2, Email: "new@b.com", EmailValidated: false, LoginSuccess: true}
	w2 := do(router, http.MethodPost, "/login", `{"email":"new@b.com","password":"pw"}`, cookie)
	cookie2 := sessionCookie(t, w2)

	w3 := do(router, http.MethodGet, "/session", "", cookie2)
	user := decode(t, w3)["user"].(map[string]any)
	if user["id"] != float64(2) || user["email"] != "new@b.com" || user["emailValidated"] != false {
		t.Fatalf("prior snapshot leaked into new session: %v", user)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	stub := newStubBackend()
	stub.loginErr = &backend.StatusError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	router := newTestRouter(stub, session.NewMemoryStore())

	w := do(router, http.MethodPost, "/login", `{"email":"a@b.com","password":"wrong"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Invalid credentials" {
		t.Fatalf("error = %v", got)
	}
}

func TestLoginBackendRejectionWithoutSuccessFlag(t *testing.T) {
	stub := newStubBackend()
	stub.loginResult = &backend.UserResult{LoginSuccess: false}
	router := newTestRouter(stub, session.NewMemoryStore())

	w := do(router, http.MethodPost, "/login", `{"email":"a@b.com","password":"pw"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLoginUpstreamCollapsesTo500(t *testing.T) {
	stub := newStubBackend()
	stub.loginErr = &backend.StatusError{Status: http.StatusBadGateway, Message: "bad gateway"}
	router := newTestRouter(stub, session.NewMemoryStore())

	w := do(router, http.MethodPost, "/login", `{"email":"a@b.com","password":"pw"}`, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 for non-401 upstream", w.Code)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	stub := newStubBackend()
	store := session.NewMemoryStore()
	router := newTestRouter(stub, store)
	cookie := login(t, router, stub)

	w := do(router, http.MethodPost, "/logout", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["success"] != true {
		t.Fatalf("logout not reported successful: %s", w.Body.String())
	}

	// even with the old cookie presented, the session is gone
	w2 := do(router, http.MethodGet, "/session", "", cookie)
	resp := decode(t, w2)
	if resp["authenticated"] != false || resp["user"] != nil {
		t.Fatalf("session survived logout: %v", resp)
	}
}

func TestLogoutRequiresAuth(t *testing.T) {
	router := newTestRouter(newStubBackend(), session.NewMemoryStore())

	w := do(router, http.MethodPost, "/logout", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

// failingDeleteStore simulates a store whose deletes break while
// reads and writes keep working.
type failingDeleteStore struct {
	session.Store
	mu       sync.Mutex
	failing  bool
	attempts int
}

func (f *failingDeleteStore) Delete(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	failing := f.failing
	if failing {
		f.attempts++
	}
	f.mu.Unlock()
	if failing {
		return context.DeadlineExceeded
	}
	return f.Store.Delete(ctx, sessionID)
}

func TestLogoutSucceedsEvenWhenStoreDeleteFails(t *testing.T) {
	stub := newStubBackend()
	store := &failingDeleteStore{Store: session.NewMemoryStore()}
	router := newTestRouter(stub, store)
	cookie := login(t, router, stub)

	store.mu.Lock()
	store.failing = true
	store.mu.Unlock()

	w := do(router, http.MethodPost, "/logout", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite store failure: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["success"] != true {
		t.Fatalf("logout must report success: %s", w.Body.String())
	}
	if store.attempts == 0 {
		t.Fatal("delete was never attempted")
	}

	// the observable outcome holds unconditionally
	w2 := do(router, http.MethodGet, "/session", "", cookie)
	resp := decode(t, w2)
	if resp["authenticated"] != false || resp["user"] != nil {
		t.Fatalf("session observable after failed-delete logout: %v", resp)
	}
}

func TestRefreshUserReplacesSnapshot(t *testing.T) {
	stub := newStubBackend()
	store := session.NewMemoryStore()
	router := newTestRouter(stub, store)
	cookie := login(t, router, stub) // emailValidated false

	stub.lookupResult = &backend.UserResult{
		ID:             1,
		Email:          "a@b.com",
		EmailValidated: true,
		Message:        "User validated",
		LoginSuccess:   true,
	}

	w := do(router, http.MethodPost, "/refresh-user", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	user := decode(t, w)["user"].(map[string]any)
	if user["emailValidated"] != true {
		t.Fatalf("refresh did not propagate verification: %v", user)
	}

	w2 := do(router, http.MethodGet, "/session", "", cookie)
	user2 := decode(t, w2)["user"].(map[string]any)
	if user2["emailValidated"] != true {
		t.Fatalf("refreshed snapshot not persisted: %v", user2)
	}
}

func TestRefreshUserGoneDetectsButDoesNotDestroy(t *testing.T) {
	stub := newStubBackend()
	store := session.NewMemoryStore()
	router := newTestRouter(stub, store)
	cookie := login(t, router, stub)

	stub.lookupErr = &backend.StatusError{Status: http.StatusNotFound, Message: "User not found"}

	w := do(router, http.MethodPost, "/refresh-user", "", cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	resp := decode(t, w)
	if resp["shouldLogout"] != true {
		t.Fatalf("missing forced-logout signal: %v", resp)
	}

	// detection is not destruction: without an explicit logout the
	// stale session still answers as authenticated
	w2 := do(router, http.MethodGet, "/session", "", cookie)
	if decode(t, w2)["authenticated"] != true {
		t.Fatal("proxy destroyed the session on UserGone; that is the caller's job")
	}
}

func TestRefreshUserUpstreamFailureLeavesSnapshot(t *testing.T) {
	stub := newStubBackend()
	store := session.NewMemoryStore()
	router := newTestRouter(stub, store)
	cookie := login(t, router, stub)

	stub.lookupErr = &backend.StatusError{Status: http.StatusInternalServerError, Message: "boom"}

	w := do(router, http.MethodPost, "/refresh-user", "", cookie)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	// a transient backend failure must not log the user out or touch
	// the cached snapshot
	w2 := do(router, http.MethodGet, "/session", "", cookie)
	resp := decode(t, w2)
	if resp["authenticated"] != true {
		t.Fatalf("transient failure logged the user out: %v", resp)
	}
	user := resp["user"].(map[string]any)
	if user["id"] != float64(1) || user["email"] != "a@b.com" || user["emailValidated"] != false {
		t.Fatalf("snapshot changed on failed refresh: %v", user)
	}
}

func TestConcurrentLogoutAndRefreshNoResurrection(t *testing.T) {
	stub := newStubBackend()
	store := session.NewMemoryStore()
	router := newTestRouter(stub, store)
	cookie := login(t, router, stub)

	stub.lookupResult = &backend.UserResult{
		ID: 1, Email: "a@b.com", EmailValidated: true, LoginSuccess: true,
	}
	stub.lookupDelay = 100 * time.Millisecond

	refreshDone := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		refreshDone <- do(router, http.MethodPost, "/refresh-user", "", cookie)
	}()

	// logout lands while the refresh is parked on the backend call
	time.Sleep(30 * time.Millisecond)
	w := do(router, http.MethodPost, "/logout", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d: %s", w.Code, w.Body.String())
	}

	refresh := <-refreshDone
	if refresh.Code == http.StatusOK {
		t.Fatalf("refresh completed against a destroyed session: %s", refresh.Body.String())
	}

	// once destroyed, the session must never flip back to authenticated
	w2 := do(router, http.MethodGet, "/session", "", cookie)
	resp := decode(t, w2)
	if resp["authenticated"] != false || resp["user"] != nil {
		t.Fatalf("logout was resurrected by a slow refresh: %v", resp)
	}
}

func TestVerifyEmailMissingToken(t *testing.T) {
	stub := newStubBackend()
	router := newTestRouter(stub, session.NewMemoryStore())

	w := do(router, http.MethodGet, "/verify-email", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Verification token is required" {
		t.Fatalf("error = %v", got)
	}
	if stub.totalCalls() != 0 {
		t.Fatal("backend called for missing token")
	}
}

func TestVerifyEmailMarksAuthenticatedSession(t *testing.T) {
	stub := newStubBackend()
	store := session.NewMemoryStore()
	router := newTestRouter(stub, store)
	cookie := login(t, router, stub) // unverified

	stub.verifyMessage = "Email verified successfully! You can now access the portal."

	w := do(router, http.MethodGet, "/verify-email?token=tok-1", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	w2 := do(router, http.MethodGet, "/session", "", cookie)
	user := decode(t, w2)["user"].(map[string]any)
	if user["emailValidated"] != true {
		t.Fatalf("opportunistic verification update missing: %v", user)
	}
}

func TestVerifyEmailAnonymousCallerStillSucceeds(t *testing.T) {
	stub := newStubBackend()
	stub.verifyMessage = "Email verified successfully"
	router := newTestRouter(stub, session.NewMemoryStore())

	w := do(router, http.MethodGet, "/verify-email?token=tok-1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["success"] != true {
		t.Fatalf("verification not reported successful: %s", w.Body.String())
	}
}

func TestVerifyEmailBackendFailurePassthrough(t *testing.T) {
	stub := newStubBackend()
	stub.verifyErr = &backend.StatusError{Status: http.StatusBadRequest, Message: "Invalid or expired verification token"}
	router := newTestRouter(stub, session.NewMemoryStore())

	w := do(router, http.MethodGet, "/verify-email?token=bad", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Invalid or expired verification token" {
		t.Fatalf("error = %v", got)
	}
}

func TestResendVerificationMissingEmail(t *testing.T) {
	stub := newStubBackend()
	router := newTestRouter(stub, session.NewMemoryStore())

	w := do(router, http.MethodPost, "/resend-verification", `{}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Email is required" {
		t.Fatalf("error = %v", got)
	}
	if stub.totalCalls() != 0 {
		t.Fatal("backend called for missing email")
	}
}

func TestResendVerificationForwards(t *testing.T) {
	stub := newStubBackend()
	stub.resendMessage = "Verification email sent successfully"
	router := newTestRouter(stub, session.NewMemoryStore())

	w := do(router, http.MethodPost, "/resend-verification", `{"email":"a@b.com"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp["success"] != true || resp["message"] != "Verification email sent successfully" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if stub.callCount("resend") != 1 {
		t.Fatalf("resend called %d times, want 1", stub.callCount("resend"))
	}
}

func TestDashboardUnverifiedProjection(t *testing.T) {
	stub := newStubBackend()
	store := session.NewMemoryStore()
	router := newTestRouter(stub, store)
	cookie := login(t, router, stub) // unverified
	before := stub.totalCalls()

	w := do(router, http.MethodGet, "/dashboard", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)

	status := resp["emailStatus"].(map[string]any)
	if status["needsVerification"] != true || status["isValidated"] != false {
		t.Fatalf("unexpected email status: %v", status)
	}
	if msg, _ := status["message"].(string); !strings.Contains(msg, "verify your email") {
		t.Fatalf("message lacks verification prompt: %q", msg)
	}
	if welcome, _ := resp["welcomeMessage"].(string); !strings.Contains(welcome, "a@b.com") {
		t.Fatalf("welcome message missing email: %q", welcome)
	}
	if resp["timestamp"] == "" {
		t.Fatal("missing timestamp")
	}

	// dashboard is a pure projection of session state
	if stub.totalCalls() != before {
		t.Fatalf("dashboard called the backend %d times", stub.totalCalls()-before)
	}
}

func TestDashboardRequiresAuth(t *testing.T) {
	router := newTestRouter(newStubBackend(), session.NewMemoryStore())

	w := do(router, http.MethodGet, "/dashboard", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(newStubBackend(), session.NewMemoryStore())

	w := do(router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decode(t, w)
	if resp["status"] != "healthy" || resp["service"] != "session-proxy" {
		t.Fatalf("unexpected health response: %v", resp)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	stub := newStubBackend()
	store := session.NewMemoryStore()
	gin.SetMode(gin.TestMode)
	h := NewHandler(stub, store, 30*time.Millisecond, session.CookieOptions{})
	router := gin.New()
	h.RegisterRoutes(router, middleware.NewAuthMiddleware(store), false)

	stub.loginResult = &backend.UserResult{ID: 1, Email: "a@b.com", LoginSuccess: true}
	w := do(router, http.MethodPost, "/login", `{"email":"a@b.com","password":"pw"}`, nil)
	cookie := sessionCookie(t, w)

	time.Sleep(60 * time.Millisecond)

	w2 := do(router, http.MethodGet, "/session", "", cookie)
	if decode(t, w2)["authenticated"] != false {
		t.Fatal("expired session still authenticated")
	}
	w3 := do(router, http.MethodGet, "/dashboard", "", cookie)
	if w3.Code != http.StatusUnauthorized {
		t.Fatalf("dashboard on expired session = %d, want 401", w3.Code)
	}
}
