package api

import (
	"net/http"

	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/UnknownOlympus/chronos/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) listEmployees(c *gin.Context) {
	filter := models.EmployeeFilter{
		Status:     c.Query("status"),
		Department: c.Query("department"),
	}

	employees, err := h.services.Directory.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"employees": employees, "total": len(employees)})
}

func (h *Handler) getEmployee(c *gin.Context) {
	id, err := pathID(c, "employee")
	if err != nil {
		h.fail(c, err)
		return
	}

	employee, err := h.services.Directory.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"employee": employee})
}

func (h *Handler) createEmployee(c *gin.Context) {
	var in service.CreateEmployeeInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}

	employee, err := h.services.Directory.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusCreated, gin.H{"message": "Employee created successfully", "employee": employee})
}

func (h *Handler) updateEmployee(c *gin.Context) {
	id, err := pathID(c, "employee")
	if err != nil {
		h.fail(c, err)
		return
	}

	var in service.UpdateEmployeeInput
	if err = bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}

	employee, err := h.services.Directory.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Employee updated successfully", "employee": employee})
}

// terminateEmployee is a soft delete: the record stays with status terminated.
func (h *Handler) terminateEmployee(c *gin.Context) {
	id, err := pathID(c, "employee")
	if err != nil {
		h.fail(c, err)
		return
	}

	employee, err := h.services.Directory.Terminate(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Employee terminated successfully", "employee": employee})
}
