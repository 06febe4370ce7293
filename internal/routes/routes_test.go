package routes_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/klinik/clinic-scheduler/internal/config"
	"github.com/klinik/clinic-scheduler/internal/dbtest"
	"github.com/klinik/clinic-scheduler/internal/infra/lock"
	"github.com/klinik/clinic-scheduler/internal/models"
	"github.com/klinik/clinic-scheduler/internal/routes"
	"github.com/klinik/clinic-scheduler/internal/timezone"
)

const secret = "test-secret"

// 2030-01-07 is a Monday.
const monday = "2030-01-07"

type server struct {
	engine *gin.Engine
	expert models.Expert
	agent  models.Agent
	client models.User
	admin  models.User
}

func newServer(t *testing.T) server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.Open(t)
	s := server{
		expert: dbtest.CreateExpert(t, db, "dr.demir"),
		agent:  dbtest.CreateAgent(t, db, "selin", nil),
		client: dbtest.CreateUser(t, db, "burak", "client"),
		admin:  dbtest.CreateUser(t, db, "root", "admin"),
	}
	dbtest.AssignClient(t, db, s.agent.ID, s.client.ID)
	dbtest.AddAvailability(t, db, s.expert.ID, 0, "09:00", "12:00")

	s.engine = gin.New()
	routes.RegisterRoutes(s.engine, routes.Deps{
		DB:       db,
		Config:   &config.Config{JWTSecret: secret, DefaultPhoneRegion: "TR"},
		Logger:   slog.New(slog.DiscardHandler),
		Locker:   lock.NoopLocker{},
		Clock:    timezone.Fixed(time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)),
		Location: time.UTC,
	})
	return s
}

func token(t *testing.T, key string, userID uint, role string) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  fmt.Sprint(userID),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (s server) do(t *testing.T, method, path, bearer, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w, out
}

func TestHealthAndRequestID(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("request id not echoed, got %q", got)
	}

	w, _ = s.do(t, http.MethodGet, "/health", "", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestAuthentication(t *testing.T) {
	s := newServer(t)

	cases := []struct {
		name   string
		bearer string
		want   string
	}{
		{"no header", "", "missing_authorization_header"},
		{"wrong key", token(t, "other-secret", s.admin.ID, "admin"), "invalid_token"},
		{"unknown role", token(t, secret, s.admin.ID, "root"), "invalid_token_payload"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := s.do(t, http.MethodGet, "/api/me", tc.bearer, "")
			if w.Code != http.StatusUnauthorized || body["error_code"] != tc.want {
				t.Fatalf("got %d %v, want 401 %s", w.Code, body, tc.want)
			}
		})
	}

	w, body := s.do(t, http.MethodGet, "/api/me", token(t, secret, s.agent.UserID, "agent"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", w.Code, body)
	}
	if id, _ := body["agent_id"].(float64); uint(id) != s.agent.ID {
		t.Fatalf("profile not resolved: %v", body)
	}
	if _, warned := body["warning"]; warned {
		t.Fatalf("unexpected warning: %v", body)
	}

	// An expert token for a user without an expert row still authenticates.
	w, body = s.do(t, http.MethodGet, "/api/me", token(t, secret, s.client.ID, "expert"), "")
	if w.Code != http.StatusOK || body["warning"] == nil {
		t.Fatalf("expected a missing profile warning, got %d %v", w.Code, body)
	}
}

func TestAvailableSlotsEndpoint(t *testing.T) {
	s := newServer(t)

	w, body := s.do(t, http.MethodGet, fmt.Sprintf("/api/availability/slots?expert_id=%d&date=%s", s.expert.ID, monday), "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", w.Code, body)
	}
	slots, _ := body["available_slots"].([]any)
	if len(slots) != 12 || slots[0] != "09:00" || slots[11] != "11:45" {
		t.Fatalf("unexpected slots %v", slots)
	}

	w, body = s.do(t, http.MethodGet, "/api/availability/slots?date="+monday, "", "")
	if w.Code != http.StatusBadRequest || body["error_code"] != "missing_params" {
		t.Fatalf("expected missing_params, got %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodGet, "/api/availability/slots?expert_id=999&date="+monday, "", "")
	if w.Code != http.StatusBadRequest || body["error_code"] != "expert_not_found" {
		t.Fatalf("expected expert_not_found, got %d %v", w.Code, body)
	}
}

func TestBookingOverHTTP(t *testing.T) {
	s := newServer(t)
	client := token(t, secret, s.client.ID, "client")

	book := func(clock string) (*httptest.ResponseRecorder, map[string]any) {
		return s.do(t, http.MethodPost, "/api/appointments", client, fmt.Sprintf(
			`{"expert_id": %d, "date": %q, "time": %q, "service_type": "botox"}`,
			s.expert.ID, monday, clock,
		))
	}

	w, body := book("09:30")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", w.Code, body)
	}
	ap, _ := body["appointment"].(map[string]any)
	if id, _ := ap["agent_id"].(float64); uint(id) != s.agent.ID {
		t.Fatalf("agent not auto-assigned: %v", ap)
	}

	w, body = book("09:30")
	if w.Code != http.StatusUnprocessableEntity || body["error_code"] != "conflict" {
		t.Fatalf("expected 422 conflict, got %d %v", w.Code, body)
	}

	w, body = book("14:00")
	if w.Code != http.StatusUnprocessableEntity || body["error_code"] != "unavailable" {
		t.Fatalf("expected 422 unavailable, got %d %v", w.Code, body)
	}
	if reasons, _ := body["reasons"].([]any); len(reasons) != 1 {
		t.Fatalf("expected one reason, got %v", body["reasons"])
	}

	w, body = book("nine")
	if w.Code != http.StatusBadRequest || body["error_code"] != "invalid_date_or_time" {
		t.Fatalf("expected invalid_date_or_time, got %d %v", w.Code, body)
	}

	// The booked slot is gone from the public listing.
	_, body = s.do(t, http.MethodGet, fmt.Sprintf("/api/availability/slots?expert_id=%d&date=%s", s.expert.ID, monday), "", "")
	for _, slot := range body["available_slots"].([]any) {
		if slot == "09:30" {
			t.Fatal("booked slot still listed")
		}
	}
}

func TestErrorMapping(t *testing.T) {
	s := newServer(t)
	expert := token(t, secret, s.expert.UserID, "expert")
	admin := token(t, secret, s.admin.ID, "admin")

	w, body := s.do(t, http.MethodGet, "/api/agents", expert, "")
	if w.Code != http.StatusForbidden || body["error_code"] != "forbidden" {
		t.Fatalf("expected 403, got %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodGet, "/api/appointments/9999", admin, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodPut, fmt.Sprintf("/api/agents/%d/parent", s.agent.ID), admin,
		fmt.Sprintf(`{"parent_id": %d}`, s.agent.ID))
	if w.Code != http.StatusBadRequest || body["error_code"] != "agent_cycle" {
		t.Fatalf("expected agent_cycle, got %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodGet, "/api/reports/monthly", admin, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", w.Code, body)
	}
}
