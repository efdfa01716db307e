package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IBA-HOK/user-attendance-record/internal/response"
	"github.com/IBA-HOK/user-attendance-record/internal/service"
	"github.com/IBA-HOK/user-attendance-record/internal/validator"
)

// DeviceHandler handles the QR check-in kiosk endpoint. Events go to
// the Redis queue, not straight to Postgres, so the kiosk ack stays
// fast even when a class of students scans at once.
type DeviceHandler struct {
	entryLogService *service.EntryLogService
}

// NewDeviceHandler creates a new DeviceHandler.
func NewDeviceHandler(entryLogService *service.EntryLogService) *DeviceHandler {
	return &DeviceHandler{entryLogService: entryLogService}
}

// CheckinRequest is the payload a kiosk sends after scanning a card.
type CheckinRequest struct {
	UserID string `json:"user_id" binding:"required,min=1,max=32"`
}

// Checkin godoc
// POST /api/device/checkin
// Enqueues a check-in event. The check-in worker writes it to the
// database shortly after.
func (h *DeviceHandler) Checkin(c *gin.Context) {
	var req CheckinRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.entryLogService.EnqueueCheckin(c.Request.Context(), req.UserID, time.Now()); err != nil {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStoreUnavailable)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"message": "checkin accepted"})
}
