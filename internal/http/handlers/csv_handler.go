// CSV HTTP handlers.
//
//   - POST /buyers/import   (multipart "file", partial-success report)
//   - GET  /buyers/export   (filtered/sorted CSV attachment, streamed)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-leads-backend/internal/http/middleware"
	"github.com/tbourn/go-leads-backend/internal/services"
)

// ImportBuyers godoc
// @ID          importBuyers
// @Summary     Import buyer leads from CSV
// @Description Validates every row independently and inserts the valid ones in one transaction.
// @Description Invalid rows are reported with their line number (header is row 1).
// @Tags        Buyers
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file  formData  file  true  "CSV file (max 200 rows)"
// @Success     200  {object} services.ImportResult
// @Failure     400  {object} services.ImportResult  "No valid rows"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     413  {object} handlers.ErrorResponse "File too large"
// @Failure     429  {object} handlers.ErrorResponse "Rate limited"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /buyers/import [post]
func (h *Handlers) ImportBuyers(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			serviceError(c, services.ErrTooLarge)
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no file provided")
		return
	}
	if err := h.buyers.CheckUpload(fh.Filename, fh.Header.Get("Content-Type"), fh.Size); err != nil {
		serviceError(c, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "cannot read upload")
		return
	}
	defer f.Close()

	res, err := h.buyers.Import(c.Request.Context(), middleware.UserID(c), f)
	switch {
	case errors.Is(err, services.ErrNoValidRows) && res != nil:
		middleware.ObserveMutation("import", "invalid")
		middleware.ObserveImport(0, len(res.Errors))
		ok(c, http.StatusBadRequest, res)
		return
	case err != nil:
		middleware.ObserveMutation("import", outcome(err))
		serviceError(c, err)
		return
	}

	middleware.ObserveMutation("import", "ok")
	middleware.ObserveImport(res.Imported, len(res.Errors))
	middleware.LoggerFrom(c).Info().
		Int("imported", res.Imported).
		Int("total", res.Total).
		Int("rejected", len(res.Errors)).
		Msg("csv import")
	ok(c, http.StatusOK, res)
}

// ExportBuyers godoc
// @ID          exportBuyers
// @Summary     Export buyer leads as CSV
// @Description Streams every lead matching the filters (pagination ignored) with a fixed 16-column header.
// @Tags        Buyers
// @Produce     text/csv
// @Security    BearerAuth
// @Param       search         query   string  false "Matches name, email or phone"
// @Param       city           query   string  false "City"
// @Param       propertyType   query   string  false "Property type"
// @Param       status         query   string  false "Status"
// @Param       timeline       query   string  false "Timeline"
// @Param       sortBy         query   string  false "Sort key"    Enums(updatedAt, createdAt, fullName) default(updatedAt)
// @Param       sortOrder      query   string  false "Sort order"  Enums(asc, desc) default(desc)
// @Success     200  {file}   file
// @Header      200  {string} Content-Disposition  "attachment; filename=buyers-export-YYYY-MM-DD.csv"
// @Failure     400  {object} handlers.ErrorResponse "Invalid query parameters"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /buyers/export [get]
func (h *Handlers) ExportBuyers(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.ExportFilename(h.now())))
	c.Status(http.StatusOK)

	n, err := h.buyers.Export(c.Request.Context(), c.Writer, q)
	if err != nil {
		if !c.Writer.Written() {
			hdr := c.Writer.Header()
			hdr.Del("Content-Type")
			hdr.Del("Content-Disposition")
			_ = c.Error(err)
			fail(c, http.StatusInternalServerError, ErrCodeExportFailed, "export failed")
			return
		}
		// Headers are gone; all we can do is cut the stream short.
		middleware.LoggerFrom(c).Error().Err(err).Int("rows", n).Msg("csv export aborted")
		c.Abort()
		return
	}
	middleware.ObserveExport(n)
}
