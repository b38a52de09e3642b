package anamnesis

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
	g.GET("/anamnesis-templates", h.ListTemplates)
	g.POST("/anamnesis-templates", h.CreateTemplate)
	g.GET("/anamnesis-templates/:id", h.GetTemplate)
	g.PUT("/anamnesis-templates/:id", h.UpdateTemplate)
	g.DELETE("/anamnesis-templates/:id", h.DeleteTemplate)

	g.GET("/anamnesis-questions", h.ListQuestions)
	g.POST("/anamnesis-questions", h.CreateQuestion)
	g.GET("/anamnesis-questions/:id", h.GetQuestion)
	g.PUT("/anamnesis-questions/:id", h.UpdateQuestion)
	g.DELETE("/anamnesis-questions/:id", h.DeleteQuestion)

	g.GET("/patient-anamneses", h.ListPatientAnamneses)
	g.POST("/patient-anamneses", h.CreatePatientAnamnesis)
	g.GET("/patient-anamneses/:id", h.GetPatientAnamnesis)
	g.PUT("/patient-anamneses/:id", h.UpdatePatientAnamnesis)
	g.DELETE("/patient-anamneses/:id", h.DeletePatientAnamnesis)
}

// -- Template Handlers --

func (h *Handler) ListTemplates(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListTemplates(c.Request().Context(), orgID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateTemplate(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	var v Template
	if err := httpx.Bind(c, &v); err != nil {
		return err
	}
	if err := h.svc.CreateTemplate(c.Request().Context(), orgID, &v); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) GetTemplate(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	v, err := h.svc.GetTemplate(c.Request().Context(), id, orgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) UpdateTemplate(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var patch TemplatePatch
	if err := httpx.Bind(c, &patch); err != nil {
		return err
	}
	v, err := h.svc.UpdateTemplate(c.Request().Context(), id, orgID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) DeleteTemplate(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteTemplate(c.Request().Context(), id, orgID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Question Handlers --

func (h *Handler) ListQuestions(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	filter, err := httpx.QueryUUID(c, "template_id")
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListQuestions(c.Request().Context(), orgID, filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateQuestion(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	var v Question
	if err := httpx.Bind(c, &v); err != nil {
		return err
	}
	if err := h.svc.CreateQuestion(c.Request().Context(), orgID, &v); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) GetQuestion(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	v, err := h.svc.GetQuestion(c.Request().Context(), id, orgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) UpdateQuestion(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var patch QuestionPatch
	if err := httpx.Bind(c, &patch); err != nil {
		return err
	}
	v, err := h.svc.UpdateQuestion(c.Request().Context(), id, orgID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) DeleteQuestion(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteQuestion(c.Request().Context(), id, orgID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Patient Anamnesis Handlers --

func (h *Handler) ListPatientAnamneses(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	filter, err := httpx.QueryUUID(c, "patient_id")
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatientAnamneses(c.Request().Context(), orgID, filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreatePatientAnamnesis(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	var v PatientAnamnesis
	if err := httpx.Bind(c, &v); err != nil {
		return err
	}
	if err := h.svc.CreatePatientAnamnesis(c.Request().Context(), orgID, &v); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) GetPatientAnamnesis(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	v, err := h.svc.GetPatientAnamnesis(c.Request().Context(), id, orgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) UpdatePatientAnamnesis(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var patch PatientAnamnesisPatch
	if err := httpx.Bind(c, &patch); err != nil {
		return err
	}
	v, err := h.svc.UpdatePatientAnamnesis(c.Request().Context(), id, orgID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) DeletePatientAnamnesis(c echo.Context) error {
	orgID, err := tenant.OrgID(c.Request().Context())
	if err != nil {
		return err
	}
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeletePatientAnamnesis(c.Request().Context(), id, orgID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
