package analytics

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/analytics", h.GetSummary)
	api.GET("/analytics/report", h.GetReport)
}

func (h *Handler) GetSummary(c echo.Context) error {
	summary, err := h.svc.Summarize(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}

// GetReport renders the summary into the downloadable PDF. The document
// is buffered fully before the first response byte so a rendering
// failure surfaces as an error instead of a truncated file.
func (h *Handler) GetReport(c echo.Context) error {
	summary, err := h.svc.Summarize(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var buf bytes.Buffer
	if err := WriteReport(summary, time.Now(), &buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="patient-analytics.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
