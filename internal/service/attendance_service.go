package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/store"
	"github.com/suteetoe/hrms/pkg/logger"
	"github.com/suteetoe/hrms/pkg/metrics"
	"go.uber.org/zap"
)

// BulkRecord is one entry of a bulk attendance submission
type BulkRecord struct {
	EmployeeID string
	Status     string
}

// AttendanceService reconciles attendance by (employee_id, date) and rolls it up
type AttendanceService struct {
	store   *store.Store
	audit   *AuditService
	metrics *metrics.Domain
}

func NewAttendanceService(st *store.Store, audit *AuditService, m *metrics.Domain) *AttendanceService {
	return &AttendanceService{store: st, audit: audit, metrics: m}
}

// ValidateDate accepts only real calendar dates in YYYY-MM-DD form
func ValidateDate(date string) error {
	if len(date) != len(model.DateLayout) {
		return apperror.MalformedInput("date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return apperror.Wrap(apperror.KindMalformedInput, "date must be in YYYY-MM-DD format", err)
	}
	return nil
}

func validStatus(status string) bool {
	return status == model.StatusPresent || status == model.StatusAbsent
}

// Reconcile creates the attendance row for (employeeID, date) or overwrites
// its status, and appends one audit entry naming the branch taken.
func (s *AttendanceService) Reconcile(ctx context.Context, employeeID, date, status string) (*model.AttendanceResponse, model.Outcome, error) {
	log := logger.FromContext(ctx)
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, "", apperror.MalformedInput("employee_id is required")
	}
	if err := ValidateDate(date); err != nil {
		return nil, "", err
	}
	if !validStatus(status) {
		return nil, "", apperror.MalformedInput("status must be Present or Absent")
	}

	var (
		resp    model.AttendanceResponse
		outcome model.Outcome
	)
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		employee, err := tx.EmployeeByEmployeeID(ctx, employeeID)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return apperror.NotFound("employee not found")
			}
			return err
		}

		var departmentName *string
		if department, err := tx.DepartmentByID(ctx, employee.DepartmentID); err == nil {
			departmentName = &department.Name
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return err
		}

		rec, err := tx.AttendanceFor(ctx, employeeID, date)
		var action, details string
		switch {
		case err == nil:
			if err := tx.UpdateAttendanceStatus(ctx, rec, status); err != nil {
				return err
			}
			outcome = model.OutcomeUpdated
			action = model.ActionUpdate
			details = fmt.Sprintf("Updated attendance: %s on %s → %s", employee.FullName, date, status)
		case errors.Is(err, apperror.ErrNotFound):
			rec = &model.Attendance{EmployeeID: employeeID, Date: date, Status: status}
			if err := tx.CreateAttendance(ctx, rec); err != nil {
				return err
			}
			outcome = model.OutcomeCreated
			action = model.ActionCreate
			details = fmt.Sprintf("Marked attendance: %s on %s → %s", employee.FullName, date, status)
		default:
			return err
		}

		resp = model.AttendanceResponse{
			ID:             rec.ID,
			Date:           rec.Date,
			EmployeeID:     rec.EmployeeID,
			EmployeeName:   strPtr(employee.FullName),
			DepartmentName: departmentName,
			Status:         rec.Status,
		}
		return s.audit.Record(ctx, tx, action, model.EntityAttendance, strPtr(employeeID), details)
	})
	if err != nil {
		log.Warn("Attendance reconciliation failed",
			zap.String("employee_id", employeeID),
			zap.String("date", date),
			zap.Error(err))
		return nil, "", err
	}

	s.metrics.RecordReconcile(string(outcome))
	log.Info("Attendance reconciled",
		zap.String("employee_id", employeeID),
		zap.String("date", date),
		zap.String("status", status),
		zap.String("outcome", string(outcome)))
	return &resp, outcome, nil
}

// ReconcileBulk applies every record for one date. Records naming an unknown
// employee or an invalid status are counted as failed and skipped; the rest
// are created or updated. A single summary audit entry is written when at
// least one record was created or updated.
func (s *AttendanceService) ReconcileBulk(ctx context.Context, date string, records []BulkRecord) (model.BulkResult, error) {
	var result model.BulkResult
	if err := ValidateDate(date); err != nil {
		return result, err
	}

	keys := make([]string, 0, len(records))
	for _, r := range records {
		if k := strings.TrimSpace(r.EmployeeID); k != "" {
			keys = append(keys, k)
		}
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		employees, err := tx.EmployeesByEmployeeIDs(ctx, keys)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(employees))
		found := make([]string, 0, len(employees))
		for _, e := range employees {
			known[e.EmployeeID] = true
			found = append(found, e.EmployeeID)
		}

		existing, err := tx.AttendanceOn(ctx, date, found)
		if err != nil {
			return err
		}
		rows := make(map[string]*model.Attendance, len(existing))
		for i := range existing {
			rows[existing[i].EmployeeID] = &existing[i]
		}

		for _, r := range records {
			key := strings.TrimSpace(r.EmployeeID)
			if !known[key] || !validStatus(r.Status) {
				result.Failed++
				continue
			}
			if rec, ok := rows[key]; ok {
				if err := tx.UpdateAttendanceStatus(ctx, rec, r.Status); err != nil {
					return err
				}
				result.Updated++
				continue
			}
			rec := &model.Attendance{EmployeeID: key, Date: date, Status: r.Status}
			if err := tx.CreateAttendance(ctx, rec); err != nil {
				return err
			}
			rows[key] = rec
			result.Created++
		}

		if result.Created+result.Updated == 0 {
			return nil
		}
		return s.audit.Record(ctx, tx, model.ActionBulkCreate, model.EntityAttendance, nil,
			fmt.Sprintf("Bulk attendance for %s: %d created, %d updated", date, result.Created, result.Updated))
	})
	if err != nil {
		return model.BulkResult{}, err
	}

	s.metrics.RecordBulk(model.EntityAttendance, result.Created, result.Updated, result.Failed)
	logger.FromContext(ctx).Info("Bulk attendance reconciled",
		zap.String("date", date),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed))
	return result, nil
}

// List returns attendance rows with employee and department names, optionally bounded by date
func (s *AttendanceService) List(ctx context.Context, filter model.AttendanceFilter) ([]model.AttendanceResponse, error) {
	for _, d := range []string{filter.DateFrom, filter.DateTo} {
		if d == "" {
			continue
		}
		if err := ValidateDate(d); err != nil {
			return nil, err
		}
	}
	rows, err := s.store.ListAttendance(ctx, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.AttendanceResponse{}
	}
	return rows, nil
}

// Summary reports present and absent day counts for every employee, including
// those without any attendance, in employee id order.
func (s *AttendanceService) Summary(ctx context.Context) ([]model.AttendanceSummaryItem, error) {
	var out []model.AttendanceSummaryItem
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		counts, err := tx.CountAttendanceByStatus(ctx)
		if err != nil {
			return err
		}
		type tally struct{ present, absent int }
		byEmployee := make(map[string]*tally)
		for _, c := range counts {
			t := byEmployee[c.EmployeeID]
			if t == nil {
				t = &tally{}
				byEmployee[c.EmployeeID] = t
			}
			switch c.Status {
			case model.StatusPresent:
				t.present += c.Count
			case model.StatusAbsent:
				t.absent += c.Count
			}
		}

		employees, err := tx.ListEmployees(ctx)
		if err != nil {
			return err
		}
		out = make([]model.AttendanceSummaryItem, 0, len(employees))
		for _, e := range employees {
			item := model.AttendanceSummaryItem{EmployeeID: e.EmployeeID, EmployeeName: e.FullName}
			if t := byEmployee[e.EmployeeID]; t != nil {
				item.PresentDays = t.present
				item.AbsentDays = t.absent
			}
			out = append(out, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
