package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func corsEngine(allowed []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(allowed))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORS(t *testing.T) {
	cases := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"any origin", nil, http.MethodGet, "https://panel.example", "https://panel.example", http.StatusOK},
		{"listed origin", []string{"https://panel.example"}, http.MethodGet, "https://panel.example", "https://panel.example", http.StatusOK},
		{"unlisted origin", []string{"https://panel.example"}, http.MethodGet, "https://evil.example", "", http.StatusOK},
		{"preflight", nil, http.MethodOptions, "https://panel.example", "https://panel.example", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/ping", nil)
			req.Header.Set("Origin", tc.origin)
			w := httptest.NewRecorder()
			corsEngine(tc.allowed).ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("allow origin = %q, want %q", got, tc.wantOrigin)
			}
		})
	}
}

func TestSubjectClaim(t *testing.T) {
	cases := []struct {
		sub  any
		want uint
		ok   bool
	}{
		{float64(12), 12, true},
		{"34", 34, true},
		{"0", 0, false},
		{float64(-1), 0, false},
		{"abc", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := subject(map[string]any{"sub": tc.sub})
		if got != tc.want || ok != tc.ok {
			t.Errorf("subject(%v) = %d, %v", tc.sub, got, ok)
		}
	}
}
