package patient

import (
	"net/http"

	"github.com/labstack/echo/v4"

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

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/patients", h.List)
	g.POST("/patients", h.Create)
	g.GET("/patients/metrics", h.Metrics)
	g.GET("/patients/:id", h.Get)
	g.PUT("/patients/:id", h.Update)
	g.DELETE("/patients/:id", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	f := Filter{Q: httpx.QueryString(c, "q")}
	items, total, err := h.svc.List(c.Request().Context(), orgID, f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Create(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	var p Patient
	if err := httpx.Bind(c, &p); err != nil {
		return err
	}
	if err := h.svc.Create(c.Request().Context(), orgID, &p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
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
	p, err := h.svc.Get(c.Request().Context(), id, orgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
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
	p, err := h.svc.Update(c.Request().Context(), id, orgID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
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

func (h *Handler) Metrics(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	m, err := h.svc.Metrics(c.Request().Context(), orgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}
