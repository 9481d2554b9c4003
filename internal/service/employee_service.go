package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/store"
	"github.com/suteetoe/hrms/pkg/logger"
	"github.com/suteetoe/hrms/pkg/metrics"
	"go.uber.org/zap"
)

var emailValidator = validator.New()

type EmployeeService struct {
	store   *store.Store
	audit   *AuditService
	metrics *metrics.Domain
}

func NewEmployeeService(st *store.Store, audit *AuditService, m *metrics.Domain) *EmployeeService {
	return &EmployeeService{store: st, audit: audit, metrics: m}
}

// List returns employees by surrogate id with their department names
func (s *EmployeeService) List(ctx context.Context) ([]model.EmployeeResponse, error) {
	var out []model.EmployeeResponse
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		employees, err := tx.ListEmployees(ctx)
		if err != nil {
			return err
		}
		names, err := departmentNames(ctx, tx, employees)
		if err != nil {
			return err
		}
		out = make([]model.EmployeeResponse, 0, len(employees))
		for _, e := range employees {
			out = append(out, e.Response(names[e.DepartmentID]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func departmentNames(ctx context.Context, tx *store.Store, employees []model.Employee) (map[uint]string, error) {
	seen := make(map[uint]bool)
	ids := make([]uint, 0)
	for _, e := range employees {
		if !seen[e.DepartmentID] {
			seen[e.DepartmentID] = true
			ids = append(ids, e.DepartmentID)
		}
	}
	departments, err := tx.DepartmentsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(departments))
	for _, d := range departments {
		names[d.ID] = d.Name
	}
	return names, nil
}

// Create inserts one employee after checking both natural keys and the department
func (s *EmployeeService) Create(ctx context.Context, input model.EmployeeInput) (*model.EmployeeResponse, error) {
	log := logger.FromContext(ctx)
	in := input.Normalized()
	switch {
	case in.EmployeeID == "":
		return nil, apperror.MalformedInput("employee_id is required")
	case in.FullName == "":
		return nil, apperror.MalformedInput("full_name is required")
	case in.Email == "":
		return nil, apperror.MalformedInput("email is required")
	case in.DepartmentID == 0:
		return nil, apperror.MalformedInput("department_id is required")
	}

	var resp model.EmployeeResponse
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.EmployeeByEmployeeID(ctx, in.EmployeeID); err == nil {
			return apperror.Conflict("an employee with this employee ID already exists")
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		if _, err := tx.EmployeeByEmail(ctx, in.Email); err == nil {
			return apperror.Conflict("an employee with this email already exists")
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		department, err := tx.DepartmentByID(ctx, in.DepartmentID)
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.InvalidReference("department not found")
		}
		if err != nil {
			return err
		}

		employee := &model.Employee{
			EmployeeID:   in.EmployeeID,
			FullName:     in.FullName,
			Email:        in.Email,
			DepartmentID: in.DepartmentID,
		}
		if err := tx.CreateEmployee(ctx, employee); err != nil {
			return err
		}
		resp = employee.Response(department.Name)

		return s.audit.Record(ctx, tx, model.ActionCreate, model.EntityEmployee, strPtr(employee.EmployeeID),
			fmt.Sprintf("Created employee: %s (%s) in %s", employee.FullName, employee.EmployeeID, department.Name))
	})
	if err != nil {
		log.Warn("Employee creation failed", zap.String("employee_id", in.EmployeeID), zap.Error(err))
		return nil, err
	}

	log.Info("Employee created",
		zap.Uint("id", resp.ID),
		zap.String("employee_id", resp.EmployeeID),
		zap.Uint("department_id", resp.DepartmentID))
	return &resp, nil
}

// Delete removes an employee addressed by surrogate id or natural key, with its attendance.
// A purely numeric key is tried as a surrogate id first.
func (s *EmployeeService) Delete(ctx context.Context, idOrEmployeeID string) error {
	log := logger.FromContext(ctx)
	var removed int64

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		employee, err := resolveEmployee(ctx, tx, idOrEmployeeID)
		if err != nil {
			return err
		}
		removed, err = tx.CountAttendanceForEmployee(ctx, employee.EmployeeID)
		if err != nil {
			return err
		}
		if err := tx.DeleteEmployee(ctx, employee); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, model.ActionDelete, model.EntityEmployee, strPtr(employee.EmployeeID),
			fmt.Sprintf("Deleted employee: %s (%s), %d attendance records removed",
				employee.FullName, employee.EmployeeID, removed))
	})
	if err != nil {
		return err
	}

	log.Info("Employee deleted",
		zap.String("key", idOrEmployeeID),
		zap.Int64("attendance_removed", removed))
	return nil
}

func resolveEmployee(ctx context.Context, tx *store.Store, key string) (*model.Employee, error) {
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		employee, err := tx.EmployeeByID(ctx, uint(id))
		if err == nil {
			return employee, nil
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
	}
	employee, err := tx.EmployeeByEmployeeID(ctx, key)
	if err != nil {
		return nil, err
	}
	return employee, nil
}

// BulkCreate inserts every acceptable employee in one transaction. An item is
// rejected when employee_id, full_name or email is blank, when the email is
// not a valid address, when its employee_id or email repeats an earlier
// item, when either collides with a stored employee, or when its department
// does not exist.
func (s *EmployeeService) BulkCreate(ctx context.Context, items []model.EmployeeInput) (model.BulkResult, error) {
	var result model.BulkResult
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		result, err = s.bulkCreate(ctx, tx, items)
		return err
	})
	if err != nil {
		return model.BulkResult{}, err
	}
	s.finishBulk(ctx, result)
	return result, nil
}

// bulkCreate is BulkCreate inside a transaction the caller already holds
func (s *EmployeeService) bulkCreate(ctx context.Context, tx *store.Store, items []model.EmployeeInput) (model.BulkResult, error) {
	var result model.BulkResult

	normalized := make([]model.EmployeeInput, len(items))
	var ids, emails []string
	var departmentIDs []uint
	for i, item := range items {
		in := item.Normalized()
		normalized[i] = in
		if in.EmployeeID != "" {
			ids = append(ids, in.EmployeeID)
		}
		if in.Email != "" {
			emails = append(emails, in.Email)
		}
		if in.DepartmentID != 0 {
			departmentIDs = append(departmentIDs, in.DepartmentID)
		}
	}

	stored, err := tx.EmployeesMatching(ctx, ids, emails)
	if err != nil {
		return result, err
	}
	takenIDs := make(map[string]bool, len(stored))
	takenEmails := make(map[string]bool, len(stored))
	for _, e := range stored {
		takenIDs[e.EmployeeID] = true
		takenEmails[e.Email] = true
	}

	departments, err := tx.DepartmentsByIDs(ctx, departmentIDs)
	if err != nil {
		return result, err
	}
	knownDepartments := make(map[uint]bool, len(departments))
	for _, d := range departments {
		knownDepartments[d.ID] = true
	}

	seenIDs := make(map[string]bool, len(items))
	seenEmails := make(map[string]bool, len(items))
	accepted := make([]model.Employee, 0, len(items))
	for _, in := range normalized {
		switch {
		case in.EmployeeID == "", in.FullName == "", !validEmail(in.Email),
			seenIDs[in.EmployeeID], seenEmails[in.Email],
			takenIDs[in.EmployeeID], takenEmails[in.Email],
			!knownDepartments[in.DepartmentID]:
			result.Failed++
			continue
		}
		seenIDs[in.EmployeeID] = true
		seenEmails[in.Email] = true
		accepted = append(accepted, model.Employee{
			EmployeeID:   in.EmployeeID,
			FullName:     in.FullName,
			Email:        in.Email,
			DepartmentID: in.DepartmentID,
		})
	}

	if err := tx.CreateEmployees(ctx, accepted); err != nil {
		return result, err
	}
	result.Created = len(accepted)
	return result, nil
}

func (s *EmployeeService) finishBulk(ctx context.Context, result model.BulkResult) {
	s.metrics.RecordBulk(model.EntityEmployee, result.Created, result.Updated, result.Failed)
	logger.FromContext(ctx).Info("Bulk employee creation finished",
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed))
}

// validEmail applies the same rule as the email tag on single create
func validEmail(email string) bool {
	return emailValidator.Var(email, "required,email") == nil
}
