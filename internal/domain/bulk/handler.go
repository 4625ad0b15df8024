package bulk

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/schoolclinic/cms/internal/domain/patient"
)

type Handler struct {
	importer *Importer
	repo     patient.Repository
}

func NewHandler(importer *Importer, repo patient.Repository) *Handler {
	return &Handler{importer: importer, repo: repo}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients/import", h.Import)
	api.GET("/patients/export", h.Export)
}

// Import accepts a multipart upload under the "file" field and
// reconciles it row by row against the patient table.
func (h *Handler) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file upload")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read upload: "+err.Error())
	}
	defer src.Close()

	table, err := ReadTable(fh.Filename, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.importer.Import(c.Request().Context(), table)
	if err != nil {
		// empty files and unresolvable headers are caller mistakes
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// Export dumps the current filtered and sorted view to CSV (default) or
// XLSX. The file is buffered before the first response byte so a failed
// export never leaves a partial download.
func (h *Handler) Export(c echo.Context) error {
	q := patient.QueryContextFromRequest(c)
	rows, err := h.repo.ListFiltered(c.Request().Context(), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}

	var (
		buf  bytes.Buffer
		mime string
	)
	switch format {
	case "csv":
		mime = "text/csv"
		err = WriteCSV(&buf, rows)
	case "xlsx":
		mime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = WriteXLSX(&buf, rows)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", format))
	}
	if errors.Is(err, ErrNoRecords) {
		return echo.NewHTTPError(http.StatusNotFound, "there are no patient records to export")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	name := fmt.Sprintf("patients-%s.%s", time.Now().Format("2006-01-02"), format)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, mime, buf.Bytes())
}
