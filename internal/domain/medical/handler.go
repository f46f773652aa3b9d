package medical

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/genedetective/genedetective/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the medical endpoints. g must already carry the
// token middleware; role gates are applied per route.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	patientOnly := auth.RequireRole(auth.RolePatient)
	patientOrCounselor := auth.RequireRole(auth.RolePatient, auth.RoleCounselor)

	g.GET("/history", h.GetHistory, patientOnly)
	g.PUT("/history", h.UpdateHistory, patientOnly)
	g.POST("/genetic-data", h.UploadGeneticData, patientOnly)
	g.GET("/genetic-data", h.GetGeneticData, patientOrCounselor)
}

// scopeError maps ownership resolution failures to their HTTP shape.
func scopeError(err error) error {
	switch {
	case errors.Is(err, ErrPatientScopeMissing):
		return echo.NewHTTPError(http.StatusNotFound, "Patient record not found")
	case errors.Is(err, ErrPatientIDRequired):
		return echo.NewHTTPError(http.StatusBadRequest, "Patient ID required")
	case errors.Is(err, ErrPatientIDInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid patient ID")
	}
	return err
}

func (h *Handler) GetHistory(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())

	history, err := h.svc.GetHistory(c.Request().Context(), ident)
	if err != nil {
		return scopeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"medicalHistory": history})
}

type historyInput struct {
	MedicalHistory string `json:"medicalHistory"`
}

func (h *Handler) UpdateHistory(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())

	var in historyInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.UpdateHistory(c.Request().Context(), ident, in.MedicalHistory); err != nil {
		return scopeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Medical history updated successfully"})
}

type uploadInput struct {
	GeneticDataRaw json.RawMessage `json:"geneticDataRaw"`
	AncestryData   json.RawMessage `json:"ancestryData"`
}

func (h *Handler) UploadGeneticData(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())

	var in uploadInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if _, err := h.svc.UploadSample(c.Request().Context(), ident, in.GeneticDataRaw, in.AncestryData); err != nil {
		return scopeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Genetic data uploaded successfully"})
}

func (h *Handler) GetGeneticData(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())

	sample, err := h.svc.CurrentSample(c.Request().Context(), ident, c.QueryParam("patientId"))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "No genetic data found")
	}
	if err != nil {
		return scopeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"geneticDataRaw": sample.RawData,
		"ancestryData":   sample.AncestryData,
		"createdAt":      sample.CreatedAt,
	})
}
