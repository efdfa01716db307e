package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/response"
	"github.com/IBA-HOK/user-attendance-record/internal/service"
	"github.com/IBA-HOK/user-attendance-record/internal/validator"
)

// MasterHandler handles PC and class slot master data endpoints.
type MasterHandler struct {
	masterService *service.MasterService
}

// NewMasterHandler creates a new MasterHandler.
func NewMasterHandler(masterService *service.MasterService) *MasterHandler {
	return &MasterHandler{masterService: masterService}
}

// ListPCs godoc
// GET /api/pcs
func (h *MasterHandler) ListPCs(c *gin.Context) {
	pcs, err := h.masterService.ListPCs(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pcs": pcs})
}

// GetPC godoc
// GET /api/pcs/:id
func (h *MasterHandler) GetPC(c *gin.Context) {
	pc, err := h.masterService.GetPC(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pc": pc})
}

// CreatePC godoc
// POST /api/pcs
func (h *MasterHandler) CreatePC(c *gin.Context) {
	var req model.CreatePCRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	pc, err := h.masterService.CreatePC(c.Request.Context(), &req)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"pc": pc})
}

// UpdatePC godoc
// PUT /api/pcs/:id
func (h *MasterHandler) UpdatePC(c *gin.Context) {
	var req model.CreatePCRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	n, err := h.masterService.UpdatePC(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if n == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	pc, _ := h.masterService.GetPC(c.Request.Context(), c.Param("id"))
	response.Success(c, http.StatusOK, gin.H{"pc": pc})
}

// DeletePC godoc
// DELETE /api/pcs/:id
func (h *MasterHandler) DeletePC(c *gin.Context) {
	n, err := h.masterService.DeletePC(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if n == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "pc deleted successfully"})
}

// ListClassSlots godoc
// GET /api/class-slots?day_of_week=
func (h *MasterHandler) ListClassSlots(c *gin.Context) {
	var (
		slots []model.ClassSlot
		err   error
	)
	if dowStr := c.Query("day_of_week"); dowStr != "" {
		dow, convErr := strconv.Atoi(dowStr)
		if convErr != nil || dow < 0 || dow > 6 {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"day_of_week": "must be an integer between 0 and 6"})
			return
		}
		slots, err = h.masterService.ListClassSlotsByWeekday(c.Request.Context(), dow)
	} else {
		slots, err = h.masterService.ListClassSlots(c.Request.Context())
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class_slots": slots})
}

// GetClassSlot godoc
// GET /api/class-slots/:id
func (h *MasterHandler) GetClassSlot(c *gin.Context) {
	slotID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	slot, err := h.masterService.GetClassSlot(c.Request.Context(), slotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class_slot": slot})
}

// CreateClassSlot godoc
// POST /api/class-slots
func (h *MasterHandler) CreateClassSlot(c *gin.Context) {
	var req model.CreateClassSlotRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	slot, err := h.masterService.CreateClassSlot(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrSlotTimeOrder) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"end_time": err.Error()})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"class_slot": slot})
}

// UpdateClassSlot godoc
// PUT /api/class-slots/:id
func (h *MasterHandler) UpdateClassSlot(c *gin.Context) {
	slotID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateClassSlotRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	n, err := h.masterService.UpdateClassSlot(c.Request.Context(), slotID, &req)
	if err != nil {
		if errors.Is(err, service.ErrSlotTimeOrder) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"end_time": err.Error()})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if n == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	slot, _ := h.masterService.GetClassSlot(c.Request.Context(), slotID)
	response.Success(c, http.StatusOK, gin.H{"class_slot": slot})
}

// DeleteClassSlot godoc
// DELETE /api/class-slots/:id
// Default assignments and schedule references to the slot are nulled out.
func (h *MasterHandler) DeleteClassSlot(c *gin.Context) {
	slotID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	n, err := h.masterService.DeleteClassSlot(c.Request.Context(), slotID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if n == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "class slot deleted successfully"})
}
