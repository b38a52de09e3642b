package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
)

func runAudit(t *testing.T, method, path string, handler echo.HandlerFunc) []AuditEntry {
	t.Helper()
	var entries []AuditEntry
	rec := AuditRecorderFunc(func(entry AuditEntry) error {
		entries = append(entries, entry)
		return nil
	})

	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("request_id", "req-123")

	_ = Audit(zerolog.Nop(), rec)(handler)(c)
	return entries
}

func TestAudit_RecordsMutation(t *testing.T) {
	entries := runAudit(t, http.MethodDelete, "/api/v1/patients/7f1f1f5e-2c1e-4d59-9a53-1d2b9c1c0a11", func(c echo.Context) error {
		// set by the auth and tenant middleware deeper in the chain
		c.Set("account_id", "acc-1")
		c.Set("organization_id", "org-1")
		return c.NoContent(http.StatusNoContent)
	})

	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Action != "delete" || got.Resource != "patients" || got.ResourceID != "7f1f1f5e-2c1e-4d59-9a53-1d2b9c1c0a11" {
		t.Errorf("unexpected entry %+v", got)
	}
	if got.AccountID != "acc-1" || got.OrganizationID != "org-1" || got.RequestID != "req-123" {
		t.Errorf("expected caller identity in entry, got %+v", got)
	}
	if got.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", got.StatusCode)
	}
}

func TestAudit_StatusFromError(t *testing.T) {
	entries := runAudit(t, http.MethodPut, "/api/v1/members/1", func(c echo.Context) error {
		return apperr.Forbidden("required role: admin")
	})
	if len(entries) != 1 || entries[0].StatusCode != http.StatusForbidden || entries[0].Action != "update" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestAudit_SkipsReadsAndNonAPI(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if n := len(runAudit(t, http.MethodGet, "/api/v1/patients", ok)); n != 0 {
		t.Errorf("expected reads to be skipped, got %d entries", n)
	}
	if n := len(runAudit(t, http.MethodPost, "/health", ok)); n != 0 {
		t.Errorf("expected non-API paths to be skipped, got %d entries", n)
	}
}

func TestSplitResource(t *testing.T) {
	tests := []struct {
		path, resource, id string
	}{
		{"/api/v1/patients", "patients", ""},
		{"/api/v1/patients/123", "patients", "123"},
		{"/api/v1/accounts/me/providers/9", "accounts", "9"},
		{"/api/v1/", "unknown", ""},
	}
	for _, tt := range tests {
		r, id := splitResource(tt.path)
		if r != tt.resource || id != tt.id {
			t.Errorf("splitResource(%q) = %q, %q; want %q, %q", tt.path, r, id, tt.resource, tt.id)
		}
	}
}
