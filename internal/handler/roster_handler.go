package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IBA-HOK/user-attendance-record/internal/facility"
	"github.com/IBA-HOK/user-attendance-record/internal/response"
	"github.com/IBA-HOK/user-attendance-record/internal/service"
)

// RosterHandler exposes the merged roster views: the per-date roster,
// the current class, and the unaccounted list.
type RosterHandler struct {
	rosterService *service.RosterService
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(rosterService *service.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

// DailyRoster godoc
// GET /api/daily-roster?date=YYYY-MM-DD
// Returns the merged roster for a date. The date defaults to today in
// facility-local time. A weekday with no slots returns an empty list.
func (h *RosterHandler) DailyRoster(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = facility.LocalDate(time.Now())
	}

	roster, err := h.rosterService.BuildRoster(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, facility.ErrInvalidDate) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"date": date, "roster": roster})
}

// CurrentClass godoc
// GET /api/live/current-class
// Returns the class in session right now with presence-annotated
// attendees, or the out-of-hours message.
func (h *RosterHandler) CurrentClass(c *gin.Context) {
	view, err := h.rosterService.CurrentClass(c.Request.Context(), time.Now())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Unaccounted godoc
// GET /api/unaccounted?date=YYYY-MM-DD
// Returns scheduled, non-absent students without an entry log on the
// date. Empty is the success case.
func (h *RosterHandler) Unaccounted(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = facility.LocalDate(time.Now())
	}

	unaccounted, err := h.rosterService.Unaccounted(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, facility.ErrInvalidDate) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"date": date, "unaccounted": unaccounted})
}
