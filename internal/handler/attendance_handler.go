package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/service"
	"github.com/suteetoe/hrms/pkg/logger"
	"go.uber.org/zap"
)

type AttendanceRequest struct {
	EmployeeID      string `json:"employee_id"`
	EmployeeIDCamel string `json:"employeeId"`
	Date            string `json:"date"`
	Status          string `json:"status"`
}

type attendanceMark struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Status     string `json:"status" validate:"required,oneof=Present Absent"`
}

type AttendanceRecordRequest struct {
	EmployeeID      string `json:"employee_id"`
	EmployeeIDCamel string `json:"employeeId"`
	Status          string `json:"status"`
}

type AttendanceBulkRequest struct {
	Date    string                    `json:"date" validate:"required,datetime=2006-01-02"`
	Records []AttendanceRecordRequest `json:"records" validate:"required,min=1"`
}

// AttendanceMarkResponse tags the stored row with the branch reconciliation took
type AttendanceMarkResponse struct {
	model.AttendanceResponse
	Result model.Outcome `json:"result"`
}

func (h *Handler) ListAttendance(c echo.Context) error {
	filter := model.AttendanceFilter{
		DateFrom: c.QueryParam("date_from"),
		DateTo:   c.QueryParam("date_to"),
	}
	rows, err := h.attendance.List(c.Request().Context(), filter)
	if err != nil {
		return respond(c, err)
	}
	logger.FromEcho(c).Info("Attendance retrieved",
		zap.String("date_from", filter.DateFrom),
		zap.String("date_to", filter.DateTo),
		zap.Int("count", len(rows)))
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) AttendanceSummary(c echo.Context) error {
	summary, err := h.attendance.Summary(c.Request().Context())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// MarkAttendance reconciles one record: 201 when it was created, 200 when an
// existing row was overwritten.
func (h *Handler) MarkAttendance(c echo.Context) error {
	var req AttendanceRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, err)
	}
	mark := attendanceMark{
		EmployeeID: firstNonEmpty(req.EmployeeID, req.EmployeeIDCamel),
		Date:       req.Date,
		Status:     req.Status,
	}
	if err := c.Validate(&mark); err != nil {
		return respond(c, err)
	}

	rec, outcome, err := h.attendance.Reconcile(c.Request().Context(), mark.EmployeeID, mark.Date, mark.Status)
	if err != nil {
		return respond(c, err)
	}
	status := http.StatusOK
	if outcome == model.OutcomeCreated {
		status = http.StatusCreated
	}
	return c.JSON(status, AttendanceMarkResponse{AttendanceResponse: *rec, Result: outcome})
}

func (h *Handler) BulkAttendance(c echo.Context) error {
	var req AttendanceBulkRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, err)
	}

	records := make([]service.BulkRecord, 0, len(req.Records))
	for _, r := range req.Records {
		records = append(records, service.BulkRecord{
			EmployeeID: firstNonEmpty(r.EmployeeID, r.EmployeeIDCamel),
			Status:     r.Status,
		})
	}
	result, err := h.attendance.ReconcileBulk(c.Request().Context(), req.Date, records)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
