package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/pkg/logger"
	"go.uber.org/zap"
)

// EmployeeRequest accepts both snake_case and camelCase field names
type EmployeeRequest struct {
	EmployeeID        string `json:"employee_id"`
	EmployeeIDCamel   string `json:"employeeId"`
	FullName          string `json:"full_name"`
	FullNameCamel     string `json:"fullName"`
	Email             string `json:"email"`
	DepartmentID      uint   `json:"department_id"`
	DepartmentIDCamel uint   `json:"departmentId"`
}

func (r EmployeeRequest) input() model.EmployeeInput {
	departmentID := r.DepartmentID
	if departmentID == 0 {
		departmentID = r.DepartmentIDCamel
	}
	return model.EmployeeInput{
		EmployeeID:   firstNonEmpty(r.EmployeeID, r.EmployeeIDCamel),
		FullName:     firstNonEmpty(r.FullName, r.FullNameCamel),
		Email:        r.Email,
		DepartmentID: departmentID,
	}
}

// employeeCreate is what a single create must satisfy once spellings are merged
type employeeCreate struct {
	EmployeeID   string `json:"employee_id" validate:"required"`
	FullName     string `json:"full_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	DepartmentID uint   `json:"department_id" validate:"required"`
}

type EmployeeBulkRequest struct {
	Employees []EmployeeRequest `json:"employees" validate:"required,min=1"`
}

func (h *Handler) ListEmployees(c echo.Context) error {
	employees, err := h.employees.List(c.Request().Context())
	if err != nil {
		return respond(c, err)
	}
	logger.FromEcho(c).Info("Employees retrieved", zap.Int("count", len(employees)))
	return c.JSON(http.StatusOK, employees)
}

func (h *Handler) CreateEmployee(c echo.Context) error {
	var req EmployeeRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, err)
	}
	in := req.input()
	if err := c.Validate(&employeeCreate{
		EmployeeID:   strings.TrimSpace(in.EmployeeID),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.TrimSpace(in.Email),
		DepartmentID: in.DepartmentID,
	}); err != nil {
		return respond(c, err)
	}

	employee, err := h.employees.Create(c.Request().Context(), in)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusCreated, employee)
}

func (h *Handler) BulkCreateEmployees(c echo.Context) error {
	var req EmployeeBulkRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, err)
	}

	items := make([]model.EmployeeInput, 0, len(req.Employees))
	for _, e := range req.Employees {
		items = append(items, e.input())
	}
	result, err := h.employees.BulkCreate(c.Request().Context(), items)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// DeleteEmployee accepts either the surrogate id or the employee_id
func (h *Handler) DeleteEmployee(c echo.Context) error {
	key := strings.TrimSpace(c.Param("idOrEmployeeId"))
	if key == "" {
		return respond(c, apperror.MalformedInput("employee id is required"))
	}
	if err := h.employees.Delete(c.Request().Context(), key); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ImportEmployees bulk-creates employees from an uploaded CSV, JSON or XLSX file
func (h *Handler) ImportEmployees(c echo.Context) error {
	upload, err := h.readUpload(c)
	if err != nil {
		return respond(c, err)
	}
	result, err := h.imports.ImportEmployees(c.Request().Context(), upload.data, upload.format)
	if err != nil {
		return respond(c, err)
	}
	logImport(c, model.EntityEmployee, upload, result)
	return c.JSON(http.StatusOK, result)
}
