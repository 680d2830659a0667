package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/config"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/lock"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/memory"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/logging"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/middleware"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/routes"
)

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"error_code"`
	Data      json.RawMessage `json:"data"`
	Count     int             `json:"count"`
	Total     int64           `json:"total"`
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	store  *memory.Store
	audit  *audit.Dispatcher
}

func newServer(t *testing.T, limiter *middleware.RateLimiter) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DBDriver:        config.DriverMemory,
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		RequestTimeout:  5 * time.Second,
		LockWait:        time.Second,
		Timezone:        "UTC",
	}

	store := memory.New()
	dispatcher := audit.NewDispatcher(store, logging.Discard())
	t.Cleanup(dispatcher.Close)

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		Config:       cfg,
		Logger:       logging.Discard(),
		Appointments: store.Appointments(),
		Barbers:      store.Barbers(),
		Reviews:      store.Reviews(),
		Users:        store.Users(),
		Audit:        dispatcher,
		AuditReader:  store,
		Locker:       lock.NewLocal(cfg.LockWait),
		RateLimiter:  limiter,
	})

	return &server{t: t, engine: r, store: store, audit: dispatcher}
}

func (s *server) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

// expect fails unless the call returns want, and decodes data into out.
func (s *server) expect(want int, method, path, token string, body, out any) envelope {
	s.t.Helper()
	code, env := s.do(method, path, token, body)
	if code != want {
		s.t.Fatalf("%s %s: expected %d, got %d (%s: %s)", method, path, want, code, env.ErrorCode, env.Message)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
	return env
}

type session struct {
	User struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
	Tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"tokens"`
}

func (s *server) register(username string) session {
	s.t.Helper()
	var sess session
	s.expect(http.StatusCreated, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
	}, &sess)
	return sess
}

// staff registers a user and promotes it straight through the store.
func (s *server) staff(username string, role access.Role) session {
	s.t.Helper()
	sess := s.register(username)
	if err := s.store.Users().SetRole(context.Background(), sess.User.ID, role); err != nil {
		s.t.Fatalf("promote %s: %v", username, err)
	}
	return sess
}

type idOnly struct {
	ID uint `json:"id"`
}

func (s *server) barber(token, email string) uint {
	s.t.Helper()
	var b idOnly
	s.expect(http.StatusCreated, http.MethodPost, "/barbers", token, map[string]any{
		"name":  "Rafa",
		"email": email,
		"phone": "555-0100",
	}, &b)
	return b.ID
}

func (s *server) book(token string, barberID uint, slot string) (int, envelope) {
	s.t.Helper()
	return s.do(http.MethodPost, "/appointments", token, map[string]any{
		"customer_name":    "Ana",
		"customer_phone":   "555-0101",
		"barber_id":        barberID,
		"appointment_date": "2026-05-04",
		"time_slot":        slot,
	})
}

// ======================================================
// TESTS
// ======================================================

func TestHealthAndRequestID(t *testing.T) {
	s := newServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	if got := w.Header().Get(middleware.HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id not echoed: %q", got)
	}

	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Header().Get(middleware.HeaderRequestID) == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestAuthGuards(t *testing.T) {
	s := newServer(t, nil)
	ana := s.register("ana")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
		code   string
	}{
		{"no header", http.MethodGet, "/appointments", "", http.StatusUnauthorized, "missing_authorization_header"},
		{"garbage token", http.MethodGet, "/appointments", "nope", http.StatusUnauthorized, "invalid_token"},
		{"refresh token as access", http.MethodGet, "/appointments", ana.Tokens.RefreshToken, http.StatusUnauthorized, "invalid_token"},
		{"user on staff route", http.MethodGet, "/users", ana.Tokens.AccessToken, http.StatusForbidden, "forbidden"},
		{"user creating barber", http.MethodPost, "/barbers", ana.Tokens.AccessToken, http.StatusForbidden, "forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := s.do(tt.method, tt.path, tt.token, nil)
			if code != tt.want || env.ErrorCode != tt.code || env.Success {
				t.Fatalf("expected %d/%s, got %d/%s", tt.want, tt.code, code, env.ErrorCode)
			}
		})
	}
}

func TestRoleChangeAppliesOnNextRequest(t *testing.T) {
	s := newServer(t, nil)
	admin := s.staff("boss", access.RoleAdmin)
	ana := s.register("ana")

	s.expect(http.StatusForbidden, http.MethodGet, "/users", ana.Tokens.AccessToken, nil, nil)

	s.expect(http.StatusOK, http.MethodPatch, fmt.Sprintf("/users/%d/role", ana.User.ID),
		admin.Tokens.AccessToken, map[string]string{"role": "barber"}, nil)

	// same token, new role
	env := s.expect(http.StatusOK, http.MethodGet, "/users", ana.Tokens.AccessToken, nil, nil)
	if env.Total != 2 {
		t.Fatalf("expected 2 users, got %d", env.Total)
	}

	s.expect(http.StatusBadRequest, http.MethodPatch, fmt.Sprintf("/users/%d/role", ana.User.ID),
		admin.Tokens.AccessToken, map[string]string{"role": "owner"}, nil)
}

func TestRefreshAndLogout(t *testing.T) {
	s := newServer(t, nil)
	ana := s.register("ana")

	var next session
	s.expect(http.StatusOK, http.MethodPost, "/auth/refresh", "",
		map[string]string{"refresh_token": ana.Tokens.RefreshToken}, &next)

	_, env := s.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": ana.Tokens.RefreshToken})
	if env.ErrorCode != "invalid_refresh_token" {
		t.Fatalf("rotated token reused: %s", env.ErrorCode)
	}

	var me struct {
		Username string `json:"username"`
	}
	s.expect(http.StatusOK, http.MethodGet, "/auth/me", next.Tokens.AccessToken, nil, &me)
	if me.Username != "ana" {
		t.Fatalf("me: %+v", me)
	}

	s.expect(http.StatusOK, http.MethodPost, "/auth/logout", next.Tokens.AccessToken, nil, nil)
	s.expect(http.StatusUnauthorized, http.MethodPost, "/auth/refresh", "",
		map[string]string{"refresh_token": next.Tokens.RefreshToken}, nil)
}

func TestBookingConflicts(t *testing.T) {
	s := newServer(t, nil)
	admin := s.staff("boss", access.RoleAdmin)
	ana := s.register("ana")
	bob := s.register("bob")
	barberID := s.barber(admin.Tokens.AccessToken, "rafa@shop.com")

	code, env := s.book(ana.Tokens.AccessToken, barberID, "10:00")
	if code != http.StatusCreated {
		t.Fatalf("first booking: %d %s", code, env.ErrorCode)
	}
	var first idOnly
	_ = json.Unmarshal(env.Data, &first)

	if code, env := s.book(ana.Tokens.AccessToken, barberID, "10:00"); code != http.StatusConflict || env.ErrorCode != "slot_taken" {
		t.Fatalf("same user same slot: %d %s", code, env.ErrorCode)
	}
	if code, env := s.book(bob.Tokens.AccessToken, barberID, "10:00"); code != http.StatusConflict || env.ErrorCode != "slot_taken" {
		t.Fatalf("other user same slot: %d %s", code, env.ErrorCode)
	}
	if code, _ := s.book(bob.Tokens.AccessToken, barberID, "10:30"); code != http.StatusCreated {
		t.Fatalf("other slot: %d", code)
	}
	if code, env := s.book(bob.Tokens.AccessToken, 999, "11:00"); code != http.StatusNotFound {
		t.Fatalf("unknown barber: %d %s", code, env.ErrorCode)
	}

	code, env = s.do(http.MethodPost, "/appointments", ana.Tokens.AccessToken, map[string]any{"customer_name": "Ana"})
	if code != http.StatusBadRequest || env.ErrorCode != "invalid_request" {
		t.Fatalf("missing fields: %d %s", code, env.ErrorCode)
	}

	// bob cannot see or cancel ana's booking
	path := fmt.Sprintf("/appointments/%d", first.ID)
	s.expect(http.StatusNotFound, http.MethodGet, path, bob.Tokens.AccessToken, nil, nil)
	s.expect(http.StatusForbidden, http.MethodDelete, path, bob.Tokens.AccessToken, nil, nil)

	env = s.expect(http.StatusOK, http.MethodGet, "/appointments", bob.Tokens.AccessToken, nil, nil)
	if env.Total != 1 {
		t.Fatalf("bob should see only his booking, got %d", env.Total)
	}
	env = s.expect(http.StatusOK, http.MethodGet, "/appointments?date=2026-05-04", admin.Tokens.AccessToken, nil, nil)
	if env.Total != 2 {
		t.Fatalf("staff should see both bookings, got %d", env.Total)
	}

	var cancelled struct {
		Status             string `json:"status"`
		CancellationReason string `json:"cancellation_reason"`
	}
	s.expect(http.StatusOK, http.MethodDelete, path, ana.Tokens.AccessToken,
		map[string]string{"reason": "running late"}, &cancelled)
	if cancelled.Status != "Cancelled" || cancelled.CancellationReason != "running late" {
		t.Fatalf("cancel: %+v", cancelled)
	}
	s.expect(http.StatusConflict, http.MethodDelete, path, ana.Tokens.AccessToken, nil, nil)

	// the freed slot is bookable again
	if code, _ := s.book(bob.Tokens.AccessToken, barberID, "10:00"); code != http.StatusCreated {
		t.Fatalf("rebook cancelled slot: %d", code)
	}
}

func TestServiceLifecycleAndReview(t *testing.T) {
	s := newServer(t, nil)
	admin := s.staff("boss", access.RoleAdmin)
	ana := s.register("ana")
	barberID := s.barber(admin.Tokens.AccessToken, "rafa@shop.com")

	var a1, a2 idOnly
	_, env := s.book(ana.Tokens.AccessToken, barberID, "10:00")
	_ = json.Unmarshal(env.Data, &a1)
	_, env = s.book(ana.Tokens.AccessToken, barberID, "10:30")
	_ = json.Unmarshal(env.Data, &a2)

	base := fmt.Sprintf("/barbers/%d", barberID)
	staffToken := admin.Tokens.AccessToken

	queue := s.expect(http.StatusOK, http.MethodGet, base+"/pending-queue", staffToken, nil, nil)
	if queue.Total != 2 {
		t.Fatalf("pending queue total: %d", queue.Total)
	}
	s.expect(http.StatusForbidden, http.MethodGet, base+"/pending-queue", ana.Tokens.AccessToken, nil, nil)

	s.expect(http.StatusOK, http.MethodPost, base+"/start-appointment", staffToken,
		map[string]any{"appointment_id": a1.ID, "estimated_duration": 40}, nil)

	code, env := s.do(http.MethodPost, base+"/start-appointment", staffToken, map[string]any{"appointment_id": a2.ID})
	if code != http.StatusConflict || env.ErrorCode != "barber_busy" {
		t.Fatalf("second start: %d %s", code, env.ErrorCode)
	}

	var next struct {
		Busy            bool       `json:"busy"`
		NextAvailableAt *time.Time `json:"next_available_at"`
	}
	s.expect(http.StatusOK, http.MethodGet, base+"/next-available", "", nil, &next)
	if !next.Busy || next.NextAvailableAt == nil {
		t.Fatalf("next available while busy: %+v", next)
	}

	s.expect(http.StatusOK, http.MethodPatch, base+"/finish-appointment", staffToken, nil, nil)
	code, env = s.do(http.MethodPatch, base+"/finish-appointment", staffToken, nil)
	if code != http.StatusBadRequest || env.ErrorCode != "nothing_in_progress" {
		t.Fatalf("second finish: %d %s", code, env.ErrorCode)
	}

	// completed appointments are locked
	s.expect(http.StatusBadRequest, http.MethodPatch, fmt.Sprintf("/appointments/%d/status", a1.ID),
		staffToken, map[string]string{"status": "Pending"}, nil)

	s.expect(http.StatusCreated, http.MethodPost, "/reviews", ana.Tokens.AccessToken,
		map[string]any{"appointment_id": a1.ID, "rating": 5, "comment": "sharp"}, nil)
	s.expect(http.StatusConflict, http.MethodPost, "/reviews", ana.Tokens.AccessToken,
		map[string]any{"appointment_id": a1.ID, "rating": 4}, nil)
	s.expect(http.StatusBadRequest, http.MethodPost, "/reviews", ana.Tokens.AccessToken,
		map[string]any{"appointment_id": a2.ID, "rating": 4}, nil)

	var b struct {
		AverageRating float64 `json:"average_rating"`
		TotalReviews  int     `json:"total_reviews"`
	}
	s.expect(http.StatusOK, http.MethodGet, base, "", nil, &b)
	if b.AverageRating != 5 || b.TotalReviews != 1 {
		t.Fatalf("aggregate: %+v", b)
	}

	env = s.expect(http.StatusOK, http.MethodGet, fmt.Sprintf("/reviews/barber/%d", barberID), "", nil, nil)
	if env.Count != 1 {
		t.Fatalf("public review list: %d", env.Count)
	}

	s.expect(http.StatusForbidden, http.MethodPost, base+"/recompute-rating", ana.Tokens.AccessToken, nil, nil)
	s.expect(http.StatusNotFound, http.MethodPost, "/barbers/999/recompute-rating", staffToken, nil, nil)
	var rating struct {
		BarberID      uint    `json:"barber_id"`
		AverageRating float64 `json:"average_rating"`
		TotalReviews  int     `json:"total_reviews"`
	}
	s.expect(http.StatusOK, http.MethodPost, base+"/recompute-rating", staffToken, nil, &rating)
	if rating.BarberID != barberID || rating.AverageRating != 5 || rating.TotalReviews != 1 {
		t.Fatalf("recomputed rating: %+v", rating)
	}
}

func TestBarberAdmin(t *testing.T) {
	s := newServer(t, nil)
	admin := s.staff("boss", access.RoleBarber)
	token := admin.Tokens.AccessToken
	id := s.barber(token, "rafa@shop.com")

	code, env := s.do(http.MethodPost, "/barbers", token, map[string]any{"name": "Other", "email": "RAFA@shop.com", "phone": "1"})
	if code != http.StatusConflict || env.ErrorCode != "barber_email_taken" {
		t.Fatalf("duplicate email: %d %s", code, env.ErrorCode)
	}

	path := fmt.Sprintf("/barbers/%d", id)
	var updated struct {
		BufferTime int `json:"buffer_time"`
	}
	s.expect(http.StatusOK, http.MethodPut, path, token, map[string]any{"buffer_time": 15}, &updated)
	if updated.BufferTime != 15 {
		t.Fatalf("buffer: %d", updated.BufferTime)
	}

	s.expect(http.StatusBadRequest, http.MethodPatch, path+"/toggle-status", token, map[string]any{}, nil)
	var toggled struct {
		IsOpen bool `json:"is_open"`
	}
	s.expect(http.StatusOK, http.MethodPatch, path+"/toggle-status", token, map[string]any{"is_open": false}, &toggled)
	if toggled.IsOpen {
		t.Fatal("expected shop closed")
	}

	var next struct {
		IsOpen          bool       `json:"is_open"`
		NextAvailableAt *time.Time `json:"next_available_at"`
	}
	s.expect(http.StatusOK, http.MethodGet, path+"/next-available", "", nil, &next)
	if next.IsOpen || next.NextAvailableAt != nil {
		t.Fatalf("closed shop: %+v", next)
	}

	code, env = s.do(http.MethodPost, path+"/avatar", token, nil)
	if code != http.StatusBadRequest || env.ErrorCode != "missing_file" {
		t.Fatalf("avatar without file: %d %s", code, env.ErrorCode)
	}

	s.expect(http.StatusOK, http.MethodDelete, path, token, nil, nil)
	s.expect(http.StatusNotFound, http.MethodGet, path, "", nil, nil)
	env = s.expect(http.StatusOK, http.MethodGet, "/barbers", "", nil, nil)
	if env.Total != 0 {
		t.Fatalf("inactive barber still listed: %d", env.Total)
	}

	s.expect(http.StatusBadRequest, http.MethodGet, "/barbers/abc", "", nil, nil)
	s.expect(http.StatusBadRequest, http.MethodGet, "/barbers?skip=-1", "", nil, nil)
}

func TestAuditLogs(t *testing.T) {
	s := newServer(t, nil)
	admin := s.staff("boss", access.RoleAdmin)
	s.barber(admin.Tokens.AccessToken, "rafa@shop.com")

	// flush the async writer before reading
	s.audit.Close()

	env := s.expect(http.StatusOK, http.MethodGet, "/audit-logs?entity=barber", admin.Tokens.AccessToken, nil, nil)
	if env.Total != 1 {
		t.Fatalf("expected one barber event, got %d", env.Total)
	}
	s.expect(http.StatusBadRequest, http.MethodGet, "/audit-logs?from=yesterday", admin.Tokens.AccessToken, nil, nil)
}

func TestAuthRateLimit(t *testing.T) {
	s := newServer(t, middleware.NewRateLimiter(0.001, 2))

	body := map[string]string{"email": "nobody@example.com", "password": "whatever"}
	for i := 0; i < 2; i++ {
		s.expect(http.StatusUnauthorized, http.MethodPost, "/auth/login", "", body, nil)
	}
	code, env := s.do(http.MethodPost, "/auth/login", "", body)
	if code != http.StatusTooManyRequests || env.ErrorCode != "rate_limited" {
		t.Fatalf("expected 429, got %d %s", code, env.ErrorCode)
	}

	// public reads are not limited
	s.expect(http.StatusOK, http.MethodGet, "/barbers", "", nil, nil)
}
