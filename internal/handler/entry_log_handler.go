package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/IBA-HOK/user-attendance-record/internal/facility"
	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/response"
	"github.com/IBA-HOK/user-attendance-record/internal/service"
	"github.com/IBA-HOK/user-attendance-record/internal/validator"
)

// EntryLogHandler handles check-in record endpoints.
type EntryLogHandler struct {
	entryLogService *service.EntryLogService
}

// NewEntryLogHandler creates a new EntryLogHandler.
func NewEntryLogHandler(entryLogService *service.EntryLogService) *EntryLogHandler {
	return &EntryLogHandler{entryLogService: entryLogService}
}

// List godoc
// GET /api/entry_logs?user_id=&name=&date=
// Lists entry logs, newest first. The date filter matches the
// facility-local calendar date, not the UTC one.
func (h *EntryLogHandler) List(c *gin.Context) {
	f := model.EntryLogFilter{
		UserID: c.Query("user_id"),
		Name:   c.Query("name"),
		Date:   c.Query("date"),
	}

	logs, err := h.entryLogService.List(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, facility.ErrInvalidDate) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"entry_logs": logs})
}

// Create godoc
// POST /api/entry_logs
// Records a check-in manually from the admin UI.
func (h *EntryLogHandler) Create(c *gin.Context) {
	var req model.CreateEntryLogRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	log, err := h.entryLogService.Create(c.Request.Context(), &req)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // Unknown student
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"entry_log": log})
}

// DeleteToday godoc
// DELETE /api/entry_logs/today
// Removes a student's entry logs on the current facility-local date so
// the live dashboard shows them as unaccounted again.
func (h *EntryLogHandler) DeleteToday(c *gin.Context) {
	var req model.DeleteTodayLogsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	n, err := h.entryLogService.DeleteToday(c.Request.Context(), time.Now(), req.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": n})
}
