package api

import (
	"net/http"

	"github.com/UnknownOlympus/chronos/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) listLeaves(c *gin.Context) {
	requests, err := h.services.Leaves.List(c.Request.Context(), callerFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"requests": requests})
}

func (h *Handler) submitLeave(c *gin.Context) {
	var in service.SubmitLeaveInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}

	request, err := h.services.Leaves.Submit(c.Request.Context(), callerFrom(c).AccountID, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusCreated, gin.H{"message": "Leave request submitted", "request": request})
}

func (h *Handler) decideLeave(c *gin.Context) {
	id, err := pathID(c, "leave request")
	if err != nil {
		h.fail(c, err)
		return
	}

	var in service.DecideLeaveInput
	if err = bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}

	request, err := h.services.Leaves.Decide(c.Request.Context(), callerFrom(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Leave request " + string(request.Status), "request": request})
}
