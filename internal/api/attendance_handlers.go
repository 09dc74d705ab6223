package api

import (
	"net/http"

	"github.com/UnknownOlympus/chronos/internal/apperr"
	"github.com/UnknownOlympus/chronos/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) checkIn(c *gin.Context) {
	var in service.CheckInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}

	record, err := h.services.Attendance.CheckIn(c.Request.Context(), callerFrom(c).AccountID, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Check in successful", "attendance": record})
}

func (h *Handler) checkOut(c *gin.Context) {
	var in service.CheckInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}

	record, err := h.services.Attendance.CheckOut(c.Request.Context(), callerFrom(c).AccountID, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Check out successful", "attendance": record})
}

func (h *Handler) history(c *gin.Context) {
	var in service.HistoryInput
	if err := c.ShouldBindQuery(&in); err != nil {
		h.fail(c, apperr.Validation("invalid query parameters", map[string]string{"query": err.Error()}))
		return
	}

	records, err := h.services.Attendance.History(c.Request.Context(), callerFrom(c).AccountID, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"attendance": records, "total": len(records)})
}

func (h *Handler) today(c *gin.Context) {
	status, err := h.services.Attendance.Today(c.Request.Context(), callerFrom(c).AccountID)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"isCheckedIn":  status.IsCheckedIn,
		"isCheckedOut": status.IsCheckedOut,
		"attendance":   status.Attendance,
	})
}

func (h *Handler) stats(c *gin.Context) {
	month, year, err := monthYear(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	stats, err := h.services.Attendance.MonthlyStats(c.Request.Context(), callerFrom(c).AccountID, month, year)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"stats": stats})
}
