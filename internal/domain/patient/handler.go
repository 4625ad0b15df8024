package patient

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/schoolclinic/cms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)
	api.POST("/patients/bulk-delete", h.BulkDeletePatients)
}

// QueryContextFromRequest maps the filter/sort query parameters onto an
// immutable query context. Unknown values fall back to defaults inside
// the builder, never into the statement.
func QueryContextFromRequest(c echo.Context) QueryContext {
	return QueryContext{
		FilterField: c.QueryParam("filter_field"),
		FilterTerm:  c.QueryParam("q"),
		SortField:   c.QueryParam("sort"),
		SortOrder:   strings.ToUpper(c.QueryParam("order")),
	}.Normalized()
}

func httpError(err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	case errors.Is(err, ErrDuplicateID):
		return echo.NewHTTPError(http.StatusConflict, ErrDuplicateID.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	q := QueryContextFromRequest(c)
	items, total, err := h.svc.List(c.Request().Context(), q, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = c.Param("id")
	if err := h.svc.Update(c.Request().Context(), &p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handler) BulkDeletePatients(c echo.Context) error {
	var req bulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	deleted, err := h.svc.DeleteMany(c.Request().Context(), req.IDs)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"deleted": deleted})
}
