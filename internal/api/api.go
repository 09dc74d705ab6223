// Package api exposes the services over HTTP with gin.
package api

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/chronos/internal/access"
	"github.com/UnknownOlympus/chronos/internal/metrics"
	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/UnknownOlympus/chronos/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// AccountService covers registration, login and the caller's own profile.
type AccountService interface {
	Register(ctx context.Context, in service.RegisterInput) (service.Session, error)
	Login(ctx context.Context, in service.LoginInput) (service.Session, error)
	Authenticate(ctx context.Context, token string) (service.Caller, error)
	Profile(ctx context.Context, accountID int64) (models.Profile, error)
	UpdateProfile(ctx context.Context, accountID int64, in service.UpdateProfileInput) (models.Profile, error)
	ChangePassword(ctx context.Context, accountID int64, in service.ChangePasswordInput) error
}

// AttendanceService is the caller's attendance ledger.
type AttendanceService interface {
	CheckIn(ctx context.Context, accountID int64, in service.CheckInput) (models.Attendance, error)
	CheckOut(ctx context.Context, accountID int64, in service.CheckInput) (models.Attendance, error)
	Today(ctx context.Context, accountID int64) (service.TodayStatus, error)
	History(ctx context.Context, accountID int64, in service.HistoryInput) ([]models.Attendance, error)
	MonthlyStats(ctx context.Context, accountID int64, month, year int) (models.AttendanceStats, error)
}

// DirectoryService manages employee records.
type DirectoryService interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	Get(ctx context.Context, id int64) (models.Employee, error)
	Create(ctx context.Context, in service.CreateEmployeeInput) (models.Employee, error)
	Update(ctx context.Context, id int64, in service.UpdateEmployeeInput) (models.Employee, error)
	Terminate(ctx context.Context, id int64) (models.Employee, error)
}

// LeaveService submits, lists and decides leave requests.
type LeaveService interface {
	Submit(ctx context.Context, accountID int64, in service.SubmitLeaveInput) (models.LeaveRequest, error)
	List(ctx context.Context, caller service.Caller) ([]models.LeaveRequest, error)
	Decide(ctx context.Context, caller service.Caller, id int64, in service.DecideLeaveInput) (models.LeaveRequest, error)
}

// ReportService builds monthly attendance reports.
type ReportService interface {
	MonthlyAttendance(ctx context.Context, month, year int) (service.MonthlyReport, error)
	ExportMonthlyAttendance(ctx context.Context, month, year int) (*bytes.Buffer, string, error)
}

// Services are the operations the router dispatches to.
type Services struct {
	Accounts   AccountService
	Attendance AttendanceService
	Directory  DirectoryService
	Leaves     LeaveService
	Reports    ReportService
}

// Handler holds the HTTP handlers.
type Handler struct {
	log      *slog.Logger
	services Services
}

// NewRouter builds the gin engine serving every route under /api.
// An empty origins list allows any origin.
func NewRouter(log *slog.Logger, services Services, m *metrics.Metrics, origins []string) *gin.Engine {
	h := &Handler{log: log, services: services}

	router := gin.New()
	router.Use(
		requestID(),
		requestLogger(log),
		observe(m),
		cors.New(corsConfig(origins)),
		gin.CustomRecovery(h.recovered),
	)

	router.NoRoute(func(c *gin.Context) {
		h.fail(c, errRouteNotFound)
	})

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)

	authed := api.Group("", h.authenticate)
	authed.GET("/auth/profile", h.profile)
	authed.PUT("/auth/profile", h.updateProfile)
	authed.PUT("/auth/change-password", h.changePassword)

	attendance := authed.Group("/attendance", h.require(access.PermissionAttendanceSelf))
	attendance.POST("/check-in", h.checkIn)
	attendance.POST("/check-out", h.checkOut)
	attendance.GET("/history", h.history)
	attendance.GET("/today", h.today)
	attendance.GET("/stats", h.stats)

	employees := authed.Group("/employees", h.require(access.PermissionEmployeeManage))
	employees.GET("", h.listEmployees)
	employees.POST("", h.createEmployee)
	employees.GET("/:id", h.getEmployee)
	employees.PUT("/:id", h.updateEmployee)
	employees.DELETE("/:id", h.terminateEmployee)

	leaves := authed.Group("/leaves")
	leaves.GET("", h.require(access.PermissionLeaveViewOwn), h.listLeaves)
	leaves.POST("", h.require(access.PermissionLeaveSubmit), h.submitLeave)
	leaves.PUT("/:id/approve", h.require(access.PermissionLeaveDecide), h.decideLeave)

	reports := authed.Group("/reports", h.require(access.PermissionReportsView))
	reports.GET("/attendance", h.monthlyReport)
	reports.GET("/attendance/export", h.exportReport)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
