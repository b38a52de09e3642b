package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/tenant"
)

func tenantRequest(method, target, body string, orgID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := tenant.WithMembership(context.Background(), &tenant.Membership{OrganizationID: orgID, Role: auth.RoleMember})
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req.WithContext(ctx), rec), rec
}

func TestHandler_CreateIgnoresBodyOrganization(t *testing.T) {
	h := NewHandler(NewService(newMockRepo(), time.UTC))
	orgID := uuid.New()
	body := `{"name":"Ana","birth_date":"1990-05-17","organization_id":"` + uuid.NewString() + `"}`

	c, rec := tenantRequest(http.MethodPost, "/", body, orgID)
	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var got map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got["organization_id"] != orgID.String() {
		t.Errorf("expected tenant organization, got %v", got["organization_id"])
	}
	if got["birth_date"] != "1990-05-17" {
		t.Errorf("expected birth_date 1990-05-17, got %v", got["birth_date"])
	}
}

func TestHandler_ListSearch(t *testing.T) {
	svc := NewService(newMockRepo(), time.UTC)
	h := NewHandler(svc)
	orgID := uuid.New()
	_ = svc.Create(context.Background(), orgID, &Patient{Name: "Ana Souza"})
	_ = svc.Create(context.Background(), orgID, &Patient{Name: "Bruno Lima"})

	c, rec := tenantRequest(http.MethodGet, "/patients?q=ana", "", orgID)
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var page struct {
		Data  []Patient `json:"data"`
		Total int       `json:"total"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &page)
	if page.Total != 1 || page.Data[0].Name != "Ana Souza" {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestHandler_WithoutTenant(t *testing.T) {
	h := NewHandler(NewService(newMockRepo(), time.UTC))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	if err := h.List(c); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected NOT_FOUND without tenant, got %v", err)
	}
}

func TestHandler_Metrics(t *testing.T) {
	svc := NewService(newMockRepo(), time.UTC)
	h := NewHandler(svc)
	orgID := uuid.New()
	_ = svc.Create(context.Background(), orgID, &Patient{Name: "Ana"})

	c, rec := tenantRequest(http.MethodGet, "/", "", orgID)
	if err := h.Metrics(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) || !strings.Contains(rec.Body.String(), `"new_this_month":1`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}
