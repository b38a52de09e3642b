package account

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public auth endpoints and the /accounts/me family.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/sign-up", h.SignUp)
	api.POST("/auth/sign-in", h.SignIn)

	api.GET("/accounts/me", h.Me)
	api.PUT("/accounts/me", h.UpdateMe)
	api.DELETE("/accounts/me", h.DeleteMe)
	api.GET("/accounts/me/providers", h.ListProviders)
	api.POST("/accounts/me/providers", h.LinkProvider)
	api.DELETE("/accounts/me/providers/:id", h.UnlinkProvider)
}

func (h *Handler) SignUp(c echo.Context) error {
	var in SignUpInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	sess, err := h.svc.SignUp(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *Handler) SignIn(c echo.Context) error {
	var in SignInInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	sess, err := h.svc.SignIn(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) Me(c echo.Context) error {
	id, err := auth.RequireAccount(c.Request().Context())
	if err != nil {
		return err
	}
	acc, err := h.svc.Me(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acc)
}

func (h *Handler) UpdateMe(c echo.Context) error {
	id, err := auth.RequireAccount(c.Request().Context())
	if err != nil {
		return err
	}
	var patch Patch
	if err := httpx.Bind(c, &patch); err != nil {
		return err
	}
	acc, err := h.svc.UpdateMe(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acc)
}

func (h *Handler) DeleteMe(c echo.Context) error {
	id, err := auth.RequireAccount(c.Request().Context())
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMe(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListProviders(c echo.Context) error {
	id, err := auth.RequireAccount(c.Request().Context())
	if err != nil {
		return err
	}
	links, err := h.svc.ListProviders(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if links == nil {
		links = []*ProviderLink{}
	}
	return c.JSON(http.StatusOK, map[string]any{"data": links})
}

func (h *Handler) LinkProvider(c echo.Context) error {
	id, err := auth.RequireAccount(c.Request().Context())
	if err != nil {
		return err
	}
	var in ProviderInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	link, err := h.svc.LinkProvider(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, link)
}

func (h *Handler) UnlinkProvider(c echo.Context) error {
	accountID, err := auth.RequireAccount(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.UnlinkProvider(c.Request().Context(), accountID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
