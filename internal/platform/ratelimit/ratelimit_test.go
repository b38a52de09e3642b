package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubLimiter struct {
	d     Decision
	err   error
	calls int
}

func (s *stubLimiter) Allow(context.Context, string) (Decision, error) {
	s.calls++
	return s.d, s.err
}

func serve(t *testing.T, primary, fallback Limiter) (*httptest.ResponseRecorder, error, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Middleware(primary, fallback, zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	return rec, err, called
}

func TestMiddleware_Allows(t *testing.T) {
	rec, err, called := serve(t, &stubLimiter{d: Decision{Allowed: true, Limit: 10, Remaining: 9}}, nil)
	if err != nil || !called {
		t.Fatalf("expected request to pass, err=%v", err)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "10" || rec.Header().Get("X-RateLimit-Remaining") != "9" {
		t.Errorf("unexpected headers %v", rec.Header())
	}
}

func TestMiddleware_Denies(t *testing.T) {
	rec, err, called := serve(t, &stubLimiter{d: Decision{Allowed: false, Limit: 10, RetryAfter: 2500 * time.Millisecond}}, nil)
	if called {
		t.Fatal("handler must not run when limited")
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	if got := rec.Header().Get("Retry-After"); got != "3" {
		t.Errorf("expected Retry-After 3, got %q", got)
	}
}

func TestMiddleware_FallbackOnError(t *testing.T) {
	fallback := &stubLimiter{d: Decision{Allowed: false, Limit: 1}}
	_, err, called := serve(t, &stubLimiter{err: errors.New("redis down")}, fallback)
	if called || err == nil {
		t.Fatal("expected the fallback decision to deny the request")
	}
	if fallback.calls != 1 {
		t.Errorf("expected fallback to be consulted once, got %d", fallback.calls)
	}
}

func TestMiddleware_FailsOpenWithoutFallback(t *testing.T) {
	_, err, called := serve(t, &stubLimiter{err: errors.New("redis down")}, nil)
	if err != nil || !called {
		t.Errorf("expected request to pass, err=%v", err)
	}
}

func TestMiddleware_WithMemoryLimiter(t *testing.T) {
	m := NewMemory(Config{RequestsPerSecond: 0.001, BurstSize: 2})
	for i := 0; i < 2; i++ {
		if _, err, _ := serve(t, m, nil); err != nil {
			t.Fatalf("request %d: unexpected error %v", i+1, err)
		}
	}
	if _, err, _ := serve(t, m, nil); err == nil {
		t.Error("expected third request to be limited")
	}
}
