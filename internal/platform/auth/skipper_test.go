package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAuthSkipper(t *testing.T) {
	tests := []struct {
		method, path string
		public       bool
	}{
		{http.MethodGet, "/health", true},
		{http.MethodGet, "/health/db", true},
		{http.MethodGet, "/metrics", true},
		{http.MethodPost, "/api/v1/auth/sign-up", true},
		{http.MethodPost, "/api/v1/auth/sign-in", true},
		{http.MethodGet, "/api/v1/auth/sign-in", false},
		{http.MethodDelete, "/metrics", false},
		{http.MethodGet, "/api/v1/patients", false},
		{http.MethodGet, "/api/v1/patients/:id", false},
		{http.MethodGet, "/api/v1/accounts/me", false},
		{http.MethodPost, "/api/v1/organizations", false},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			c := e.NewContext(req, httptest.NewRecorder())
			c.SetPath(tt.path)

			if got := AuthSkipper(c); got != tt.public {
				t.Errorf("AuthSkipper = %v, want %v", got, tt.public)
			}
		})
	}
}
