package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/hrms/internal/service"
	"github.com/suteetoe/hrms/internal/store"
)

// Handler serves the /api routes on top of the services
type Handler struct {
	store       *store.Store
	departments *service.DepartmentService
	employees   *service.EmployeeService
	attendance  *service.AttendanceService
	audit       *service.AuditService
	imports     *service.ImportService

	importMaxBytes int64
	seedEnabled    bool
}

// Options carries the request limits and switches the handlers honour
type Options struct {
	ImportMaxBytes int64
	EnableSeed     bool
}

func New(st *store.Store, departments *service.DepartmentService, employees *service.EmployeeService,
	attendance *service.AttendanceService, audit *service.AuditService, imports *service.ImportService, opts Options) *Handler {
	return &Handler{
		store:          st,
		departments:    departments,
		employees:      employees,
		attendance:     attendance,
		audit:          audit,
		imports:        imports,
		importMaxBytes: opts.ImportMaxBytes,
		seedEnabled:    opts.EnableSeed,
	}
}

// Register mounts the health check and every /api route on e
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", Health)

	api := e.Group("/api")

	departments := api.Group("/departments")
	departments.GET("", h.ListDepartments)
	departments.POST("", h.CreateDepartment)
	departments.POST("/bulk", h.BulkCreateDepartments)
	departments.POST("/import", h.ImportDepartments)
	departments.DELETE("/:id", h.DeleteDepartment)

	employees := api.Group("/employees")
	employees.GET("", h.ListEmployees)
	employees.POST("", h.CreateEmployee)
	employees.POST("/bulk", h.BulkCreateEmployees)
	employees.POST("/import", h.ImportEmployees)
	employees.DELETE("/:idOrEmployeeId", h.DeleteEmployee)

	attendance := api.Group("/attendance")
	attendance.GET("", h.ListAttendance)
	attendance.GET("/summary", h.AttendanceSummary)
	attendance.POST("", h.MarkAttendance)
	attendance.POST("/bulk", h.BulkAttendance)

	api.GET("/admin-logs", h.ListAdminLogs)
	api.POST("/seed", h.Seed)
}

// Health is the liveness probe
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
