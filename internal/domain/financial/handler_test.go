package financial

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/middleware"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/tenant"
)

// newTestServer mounts the financial routes behind a fake tenant middleware
// that assigns role to every caller.
func newTestServer(svc *Service, orgID uuid.UUID, role auth.Role) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(zerolog.Nop())
	g := e.Group("/api/v1", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := tenant.WithMembership(c.Request().Context(), &tenant.Membership{OrganizationID: orgID, Role: role})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	NewHandler(svc).RegisterRoutes(g)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_RoleEnforced(t *testing.T) {
	svc, _, _ := newTestService()
	orgID := uuid.New()

	tests := []struct {
		role auth.Role
		want int
	}{
		{auth.RoleMember, http.StatusForbidden},
		{auth.RoleBilling, http.StatusOK},
		{auth.RoleAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			e := newTestServer(svc, orgID, tt.role)
			for _, path := range []string{"/api/v1/transactions", "/api/v1/transactions/balance", "/api/v1/transaction-categories"} {
				rec := do(e, http.MethodGet, path, "")
				if rec.Code != tt.want {
					t.Errorf("%s: expected %d, got %d (%s)", path, tt.want, rec.Code, rec.Body.String())
				}
			}
		})
	}
}

func TestRoutes_ForbiddenBody(t *testing.T) {
	svc, _, _ := newTestService()
	e := newTestServer(svc, uuid.New(), auth.RoleMember)
	rec := do(e, http.MethodPost, "/api/v1/transactions", `{}`)
	if !strings.Contains(rec.Body.String(), `"code":"FORBIDDEN"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestRoutes_CreateAndBalance(t *testing.T) {
	svc, _, _ := newTestService()
	e := newTestServer(svc, uuid.New(), auth.RoleBilling)

	rec := do(e, http.MethodPost, "/api/v1/transactions",
		`{"description":"Consultation","amount_cents":15000,"type":"income","status":"paid","due_date":"2024-03-10"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"due_date":"2024-03-10"`) || !strings.Contains(rec.Body.String(), `"paid_at"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/api/v1/transactions/balance", "")
	if !strings.Contains(rec.Body.String(), `"income_cents":15000`) || !strings.Contains(rec.Body.String(), `"balance_cents":15000`) {
		t.Errorf("unexpected balance %s", rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/api/v1/transactions?type=gift", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad type filter, got %d", rec.Code)
	}
}

func TestRoutes_CategoryNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	e := newTestServer(svc, uuid.New(), auth.RoleAdmin)
	rec := do(e, http.MethodGet, "/api/v1/transaction-categories/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
