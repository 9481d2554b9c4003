package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/pkg/logger"
	"go.uber.org/zap"
)

type DepartmentRequest struct {
	Name string `json:"name" validate:"required"`
}

type DepartmentBulkRequest struct {
	Names []string `json:"names" validate:"required,min=1"`
}

// ListDepartments returns every department with its employees
func (h *Handler) ListDepartments(c echo.Context) error {
	departments, err := h.departments.List(c.Request().Context())
	if err != nil {
		return respond(c, err)
	}
	logger.FromEcho(c).Info("Departments retrieved", zap.Int("count", len(departments)))
	return c.JSON(http.StatusOK, departments)
}

func (h *Handler) CreateDepartment(c echo.Context) error {
	var req DepartmentRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, err)
	}

	department, err := h.departments.Create(c.Request().Context(), req.Name)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusCreated, department.Response())
}

func (h *Handler) BulkCreateDepartments(c echo.Context) error {
	var req DepartmentBulkRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, err)
	}

	result, err := h.departments.BulkCreate(c.Request().Context(), req.Names)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) DeleteDepartment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, apperror.MalformedInput("department id must be a positive integer"))
	}
	if err := h.departments.Delete(c.Request().Context(), uint(id)); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ImportDepartments bulk-creates departments from an uploaded CSV, JSON or XLSX file
func (h *Handler) ImportDepartments(c echo.Context) error {
	upload, err := h.readUpload(c)
	if err != nil {
		return respond(c, err)
	}
	result, err := h.imports.ImportDepartments(c.Request().Context(), upload.data, upload.format)
	if err != nil {
		return respond(c, err)
	}
	logImport(c, model.EntityDepartment, upload, result)
	return c.JSON(http.StatusOK, result)
}
