package organization

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/httpx"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/tenant"
	"github.com/guilherme-michels/clinic-up-sub000/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the account-scoped organization endpoints.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/organizations", h.List)
	api.POST("/organizations", h.Create)
	api.GET("/organizations/:id", h.Get)
	api.PUT("/organizations/:id", h.Update)
	api.DELETE("/organizations/:id", h.Delete)
}

// RegisterTenantRoutes mounts endpoints that act on the resolved tenant.
func (h *Handler) RegisterTenantRoutes(g *echo.Group) {
	g.GET("/organizations/current", h.Current)
}

type organizationResponse struct {
	*Organization
	Role auth.Role `json:"role"`
}

func (h *Handler) List(c echo.Context) error {
	accountID, err := auth.RequireAccount(c.Request().Context())
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListForAccount(c.Request().Context(), accountID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Create(c echo.Context) error {
	accountID, err := auth.RequireAccount(c.Request().Context())
	if err != nil {
		return err
	}
	var in CreateInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	org, err := h.svc.CreateWithOwner(c.Request().Context(), accountID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, organizationResponse{Organization: org, Role: auth.RoleAdmin})
}

func (h *Handler) Get(c echo.Context) error {
	accountID, err := auth.RequireAccount(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	org, role, err := h.svc.Get(c.Request().Context(), accountID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, organizationResponse{Organization: org, Role: role})
}

func (h *Handler) Update(c echo.Context) error {
	accountID, err := auth.RequireAccount(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var patch Patch
	if err := httpx.Bind(c, &patch); err != nil {
		return err
	}
	org, err := h.svc.Update(c.Request().Context(), accountID, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, organizationResponse{Organization: org, Role: auth.RoleAdmin})
}

func (h *Handler) Delete(c echo.Context) error {
	accountID, err := auth.RequireAccount(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), accountID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Current(c echo.Context) error {
	m := tenant.FromContext(c.Request().Context())
	if m == nil {
		return tenant.ErrNoOrganization
	}
	org, err := h.svc.GetByID(c.Request().Context(), m.OrganizationID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, organizationResponse{Organization: org, Role: m.Role})
}
