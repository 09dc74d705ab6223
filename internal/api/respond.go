package api

import (
	"errors"
	"io"
	"strconv"

	"github.com/UnknownOlympus/chronos/internal/apperr"
	"github.com/gin-gonic/gin"
)

var errRouteNotFound = apperr.New(apperr.KindNotFound, apperr.CodeNotFound, "route not found")

type errorBody struct {
	Success bool              `json:"success"`
	Code    apperr.Code       `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// fail answers with the status of the error kind. Internal details are logged, never sent.
func (h *Handler) fail(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.KindInternal {
		h.log.ErrorContext(c.Request.Context(), "Request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
		)
	}

	c.AbortWithStatusJSON(appErr.Kind.HTTPStatus(), errorBody{
		Success: false,
		Code:    appErr.Code,
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

func (h *Handler) recovered(c *gin.Context, recovered any) {
	h.fail(c, apperr.Internal(errors.New("panic recovered")))
	h.log.ErrorContext(c.Request.Context(), "Handler panicked", "panic", recovered)
}

func ok(c *gin.Context, status int, body gin.H) {
	body["success"] = true
	c.JSON(status, body)
}

// bindJSON decodes the request body. An empty body leaves in untouched.
func bindJSON(c *gin.Context, in any) error {
	if err := c.ShouldBindJSON(in); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validation("invalid request body", map[string]string{"body": err.Error()})
	}
	return nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid "+name+" ID", map[string]string{"id": "must be a positive integer"})
	}
	return id, nil
}

// queryInt reads an optional integer query parameter. Missing means zero.
func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("invalid query parameter", map[string]string{key: "must be an integer"})
	}
	return v, nil
}

func monthYear(c *gin.Context) (int, int, error) {
	month, err := queryInt(c, "month")
	if err != nil {
		return 0, 0, err
	}
	year, err := queryInt(c, "year")
	if err != nil {
		return 0, 0, err
	}
	return month, year, nil
}
