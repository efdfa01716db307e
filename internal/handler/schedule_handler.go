package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/IBA-HOK/user-attendance-record/internal/facility"
	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/response"
	"github.com/IBA-HOK/user-attendance-record/internal/service"
	"github.com/IBA-HOK/user-attendance-record/internal/validator"
)

// ScheduleHandler handles schedule override endpoints.
type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// List godoc
// GET /api/schedules?user_id=&date=&start_date=&end_date=&status=
// Lists schedule records. 欠席 rows are included here; only the roster
// view hides them.
func (h *ScheduleHandler) List(c *gin.Context) {
	f := model.ScheduleFilter{
		UserID:    c.Query("user_id"),
		Date:      c.Query("date"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Status:    model.ScheduleStatus(c.Query("status")),
	}

	schedules, err := h.scheduleService.List(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, facility.ErrInvalidDate) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"schedules": schedules})
}

// Get godoc
// GET /api/schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	schedule, err := h.scheduleService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"schedule": schedule})
}

// Create godoc
// POST /api/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req model.CreateScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	schedule, err := h.scheduleService.Create(c.Request.Context(), &req)
	if err != nil {
		h.failScheduleWrite(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"schedule": schedule})
}

// Update godoc
// PUT /api/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	n, err := h.scheduleService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.failScheduleWrite(c, err)
		return
	}
	if n == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	schedule, _ := h.scheduleService.GetByID(c.Request.Context(), id)
	response.Success(c, http.StatusOK, gin.H{"schedule": schedule})
}

// UpdateStatus godoc
// PATCH /api/schedules/:id/status
func (h *ScheduleHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateScheduleStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	n, err := h.scheduleService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if n == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "status updated"})
}

// Delete godoc
// DELETE /api/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	n, err := h.scheduleService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if n == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "schedule deleted successfully"})
}

// BulkGenerate godoc
// POST /api/schedules/bulk
// Creates a 通常 schedule for every weekday occurrence of the slot from
// today through term_end_date, all-or-nothing.
func (h *ScheduleHandler) BulkGenerate(c *gin.Context) {
	var req model.BulkScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	n, err := h.scheduleService.BulkGenerate(c.Request.Context(), time.Now(), &req)
	if err != nil {
		if errors.Is(err, service.ErrTermEndInPast) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"term_end_date": err.Error()})
			return
		}
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.failScheduleWrite(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"created": n})
}

// CreateMakeup godoc
// POST /api/schedules/makeup
// Atomically marks the original schedule 欠席 and creates the 振替 record.
func (h *ScheduleHandler) CreateMakeup(c *gin.Context) {
	var req model.MakeupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	makeup, err := h.scheduleService.CreateMakeup(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.failScheduleWrite(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"schedule": makeup})
}

// BulkAbsent godoc
// POST /api/schedules/bulk-absent
// Marks the given schedules 欠席 in one transaction.
func (h *ScheduleHandler) BulkAbsent(c *gin.Context) {
	var req model.BulkAbsentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.scheduleService.BulkAbsent(c.Request.Context(), &req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "schedules marked absent"})
}

// failScheduleWrite maps schedule write failures to API errors.
func (h *ScheduleHandler) failScheduleWrite(c *gin.Context, err error) {
	if errors.Is(err, facility.ErrInvalidDate) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
		return
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" { // Unknown student, slot, or PC
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		return
	}
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
