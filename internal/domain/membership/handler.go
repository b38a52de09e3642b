package membership

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

// RegisterRoutes mounts /members on a tenant-scoped group. Writes are admin only.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	admin := auth.RequireRole(auth.RoleAdmin)

	g.GET("/members", h.List)
	g.GET("/members/:id", h.Get)
	g.POST("/members", h.Create, admin)
	g.PUT("/members/:id", h.Update, admin)
	g.DELETE("/members/:id", h.Delete, admin)
}

func (h *Handler) List(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), orgID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.svc.Get(c.Request().Context(), id, orgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Create(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	var in CreateInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	m, err := h.svc.Create(c.Request().Context(), orgID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) Update(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
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
	m, err := h.svc.Update(c.Request().Context(), id, orgID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Delete(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id, orgID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
