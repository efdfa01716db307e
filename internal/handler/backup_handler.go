package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IBA-HOK/user-attendance-record/internal/facility"
	"github.com/IBA-HOK/user-attendance-record/internal/response"
	"github.com/IBA-HOK/user-attendance-record/internal/service"
)

// maxImportSize caps uploaded backup archives at 64 MiB.
const maxImportSize = 64 << 20

// BackupHandler handles data export and import endpoints.
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// Export godoc
// GET /api/export
// Downloads a ZIP of per-table CSVs.
func (h *BackupHandler) Export(c *gin.Context) {
	data, err := h.backupService.ExportZip(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	filename := fmt.Sprintf("attendance-backup-%s.zip", facility.LocalDate(time.Now()))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/zip", data)
}

// Import godoc
// POST /api/import
// Restores the database from an uploaded backup archive (multipart
// field "file"). The restore is all-or-nothing.
func (h *BackupHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if fileHeader.Size > maxImportSize {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidFile)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidFile)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImportSize))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidFile)
		return
	}

	if err := h.backupService.ImportZip(c.Request.Context(), data); err != nil {
		if errors.Is(err, service.ErrBadArchive) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidFile)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "import completed"})
}

// ExportRoster godoc
// GET /api/export/roster?date=YYYY-MM-DD
// Downloads the merged roster for a date as an Excel sheet.
func (h *BackupHandler) ExportRoster(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = facility.LocalDate(time.Now())
	}

	data, err := h.backupService.ExportRosterExcel(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, facility.ErrInvalidDate) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	filename := fmt.Sprintf("roster-%s.xlsx", date)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
