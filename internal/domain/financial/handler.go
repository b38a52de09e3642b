package financial

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

// RegisterRoutes mounts the financial endpoints. Every route requires the
// admin or billing role.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	billing := auth.RequireRole(auth.RoleAdmin, auth.RoleBilling)

	g.GET("/transaction-categories", h.ListCategories, billing)
	g.POST("/transaction-categories", h.CreateCategory, billing)
	g.GET("/transaction-categories/:id", h.GetCategory, billing)
	g.PUT("/transaction-categories/:id", h.UpdateCategory, billing)
	g.DELETE("/transaction-categories/:id", h.DeleteCategory, billing)

	g.GET("/transactions", h.ListTransactions, billing)
	g.POST("/transactions", h.CreateTransaction, billing)
	g.GET("/transactions/balance", h.Balance, billing)
	g.GET("/transactions/:id", h.GetTransaction, billing)
	g.PUT("/transactions/:id", h.UpdateTransaction, billing)
	g.DELETE("/transactions/:id", h.DeleteTransaction, billing)
}

// -- Category Handlers --

func (h *Handler) ListCategories(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListCategories(c.Request().Context(), orgID, httpx.QueryString(c, "type"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateCategory(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	var cat Category
	if err := httpx.Bind(c, &cat); err != nil {
		return err
	}
	if err := h.svc.CreateCategory(c.Request().Context(), orgID, &cat); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *Handler) GetCategory(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	cat, err := h.svc.GetCategory(c.Request().Context(), id, orgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *Handler) UpdateCategory(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var patch CategoryPatch
	if err := httpx.Bind(c, &patch); err != nil {
		return err
	}
	cat, err := h.svc.UpdateCategory(c.Request().Context(), id, orgID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *Handler) DeleteCategory(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteCategory(c.Request().Context(), id, orgID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Transaction Handlers --

func transactionFilter(c echo.Context) (TransactionFilter, error) {
	f := TransactionFilter{
		Type:   httpx.QueryString(c, "type"),
		Status: httpx.QueryString(c, "status"),
	}
	var err error
	if f.CategoryID, err = httpx.QueryUUID(c, "category_id"); err != nil {
		return f, err
	}
	if f.PatientID, err = httpx.QueryUUID(c, "patient_id"); err != nil {
		return f, err
	}
	if f.From, err = httpx.QueryDate(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = httpx.QueryDate(c, "to"); err != nil {
		return f, err
	}
	return f, nil
}

func (h *Handler) ListTransactions(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	f, err := transactionFilter(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListTransactions(c.Request().Context(), orgID, f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateTransaction(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	var t Transaction
	if err := httpx.Bind(c, &t); err != nil {
		return err
	}
	if err := h.svc.CreateTransaction(c.Request().Context(), orgID, &t); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) GetTransaction(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.svc.GetTransaction(c.Request().Context(), id, orgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) UpdateTransaction(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var patch TransactionPatch
	if err := httpx.Bind(c, &patch); err != nil {
		return err
	}
	t, err := h.svc.UpdateTransaction(c.Request().Context(), id, orgID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTransaction(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteTransaction(c.Request().Context(), id, orgID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Balance(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	f, err := transactionFilter(c)
	if err != nil {
		return err
	}
	b, err := h.svc.Balance(c.Request().Context(), orgID, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}
