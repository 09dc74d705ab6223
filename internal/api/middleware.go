package api

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/chronos/internal/access"
	"github.com/UnknownOlympus/chronos/internal/apperr"
	"github.com/UnknownOlympus/chronos/internal/metrics"
	"github.com/UnknownOlympus/chronos/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
	callerKey       = "caller"
)

// requestID keeps the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.DebugContext(c.Request.Context(), "HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// observe records request durations by route template, so ids do not explode the label set.
func observe(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// authenticate resolves the bearer token into a Caller. The account is re-read on every request.
func (h *Handler) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		token = ""
	}

	caller, err := h.services.Accounts.Authenticate(c.Request.Context(), strings.TrimSpace(token))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Set(callerKey, caller)
	c.Next()
}

// require rejects callers whose role lacks perm.
func (h *Handler) require(perm access.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !access.Can(callerFrom(c).Role, perm) {
			h.fail(c, apperr.ErrForbidden)
			return
		}
		c.Next()
	}
}

func callerFrom(c *gin.Context) service.Caller {
	caller, _ := c.Get(callerKey)
	typed, _ := caller.(service.Caller)
	return typed
}
