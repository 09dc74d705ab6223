package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) monthlyReport(c *gin.Context) {
	month, year, err := monthYear(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	report, err := h.services.Reports.MonthlyAttendance(c.Request.Context(), month, year)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"report": report})
}

func (h *Handler) exportReport(c *gin.Context) {
	month, year, err := monthYear(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	buffer, filename, err := h.services.Reports.ExportMonthlyAttendance(c.Request.Context(), month, year)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buffer.Bytes())
}
