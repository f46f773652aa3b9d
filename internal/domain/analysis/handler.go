package analysis

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/genedetective/genedetective/internal/domain/medical"
	"github.com/genedetective/genedetective/internal/platform/auth"
	"github.com/genedetective/genedetective/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the analysis endpoints. g must already carry the
// token middleware; role gates are applied per route.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	patientOrCounselor := auth.RequireRole(auth.RolePatient, auth.RoleCounselor)
	counselorOnly := auth.RequireRole(auth.RoleCounselor)
	researcherOnly := auth.RequireRole(auth.RoleResearcher)

	g.POST("/analyze", h.Analyze, patientOrCounselor)
	g.GET("/results", h.Results, patientOrCounselor)
	g.POST("/recommendations", h.SaveRecommendations, counselorOnly)
	g.GET("/recommendations", h.Recommendations, patientOrCounselor)
	g.GET("/expressions", h.Expressions, researcherOnly)
}

func domainError(err error) error {
	switch {
	case errors.Is(err, medical.ErrPatientScopeMissing):
		return echo.NewHTTPError(http.StatusNotFound, "Patient record not found")
	case errors.Is(err, medical.ErrPatientIDRequired):
		return echo.NewHTTPError(http.StatusBadRequest, "Patient ID required")
	case errors.Is(err, medical.ErrPatientIDInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid patient ID")
	case errors.Is(err, ErrNoSampleData):
		return echo.NewHTTPError(http.StatusBadRequest, "No genetic data found for analysis")
	case errors.Is(err, ErrCounselorRecordMissing):
		return echo.NewHTTPError(http.StatusNotFound, "Counselor record not found")
	}
	return err
}

type analyzeInput struct {
	PatientID string `json:"patientId"`
}

func (h *Handler) Analyze(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())

	var in analyzeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.svc.Analyze(c.Request().Context(), ident, in.PatientID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Analysis completed successfully",
		"results": result,
	})
}

func (h *Handler) Results(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	p := pagination.FromContext(c)

	results, total, err := h.svc.Results(c.Request().Context(), ident, c.QueryParam("patientId"), p)
	if err != nil {
		return domainError(err)
	}
	if results == nil {
		results = []*GeneExpression{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(results, total, p.Limit, p.Offset))
}

type recommendationsInput struct {
	PatientID       string          `json:"patientId"`
	Recommendations json.RawMessage `json:"recommendations"`
}

func (h *Handler) SaveRecommendations(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())

	var in recommendationsInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.SaveRecommendations(c.Request().Context(), ident, in.PatientID, in.Recommendations); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Recommendations saved successfully"})
}

func (h *Handler) Recommendations(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	p := pagination.FromContext(c)

	recs, total, err := h.svc.Recommendations(c.Request().Context(), ident, c.QueryParam("patientId"), p)
	if err != nil {
		return domainError(err)
	}
	if recs == nil {
		recs = []*Recommendation{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(recs, total, p.Limit, p.Offset))
}

func (h *Handler) Expressions(c echo.Context) error {
	p := pagination.FromContext(c)

	exprs, total, err := h.svc.Expressions(c.Request().Context(), p)
	if err != nil {
		return err
	}
	if exprs == nil {
		exprs = []*Expression{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(exprs, total, p.Limit, p.Offset))
}
