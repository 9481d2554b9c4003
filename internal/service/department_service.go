package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/store"
	"github.com/suteetoe/hrms/pkg/logger"
	"github.com/suteetoe/hrms/pkg/metrics"
	"go.uber.org/zap"
)

type DepartmentService struct {
	store   *store.Store
	audit   *AuditService
	metrics *metrics.Domain
}

func NewDepartmentService(st *store.Store, audit *AuditService, m *metrics.Domain) *DepartmentService {
	return &DepartmentService{store: st, audit: audit, metrics: m}
}

// List returns departments by name, each with its employees. Two queries, merged here.
func (s *DepartmentService) List(ctx context.Context) ([]model.DepartmentWithEmployees, error) {
	var out []model.DepartmentWithEmployees
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		departments, err := tx.ListDepartments(ctx)
		if err != nil {
			return err
		}
		ids := make([]uint, 0, len(departments))
		for _, d := range departments {
			ids = append(ids, d.ID)
		}
		employees, err := tx.EmployeesByDepartmentIDs(ctx, ids)
		if err != nil {
			return err
		}

		byDepartment := make(map[uint][]model.EmployeeSummary, len(departments))
		for _, e := range employees {
			byDepartment[e.DepartmentID] = append(byDepartment[e.DepartmentID], e.Summary())
		}

		out = make([]model.DepartmentWithEmployees, 0, len(departments))
		for _, d := range departments {
			members := byDepartment[d.ID]
			if members == nil {
				members = []model.EmployeeSummary{}
			}
			out = append(out, model.DepartmentWithEmployees{ID: d.ID, Name: d.Name, Employees: members})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a department. The name is trimmed and must not already exist.
func (s *DepartmentService) Create(ctx context.Context, name string) (*model.Department, error) {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.MalformedInput("department name is required")
	}

	department := &model.Department{Name: name}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		_, err := tx.DepartmentByName(ctx, name)
		if err == nil {
			return apperror.Conflict("a department with this name already exists")
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return err
		}

		if err := tx.CreateDepartment(ctx, department); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, model.ActionCreate, model.EntityDepartment,
			strPtr(strconv.FormatUint(uint64(department.ID), 10)),
			fmt.Sprintf("Created department: %s", department.Name))
	})
	if err != nil {
		log.Warn("Department creation failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	log.Info("Department created", zap.Uint("department_id", department.ID), zap.String("name", department.Name))
	return department, nil
}

// Delete removes a department that has no employees
func (s *DepartmentService) Delete(ctx context.Context, id uint) error {
	log := logger.FromContext(ctx)

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		department, err := tx.DepartmentByID(ctx, id)
		if err != nil {
			return err
		}

		count, err := tx.CountEmployeesInDepartment(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			log.Warn("Cannot delete department that has employees",
				zap.Uint("department_id", id),
				zap.Int64("employee_count", count))
			return apperror.BlockedDelete("cannot delete department that has employees; reassign or remove employees first")
		}

		if err := tx.DeleteDepartment(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, model.ActionDelete, model.EntityDepartment,
			strPtr(strconv.FormatUint(uint64(id), 10)),
			fmt.Sprintf("Deleted department: %s", department.Name))
	})
	if err != nil {
		return err
	}

	log.Info("Department deleted", zap.Uint("department_id", id))
	return nil
}

// BulkCreate inserts every acceptable name in one transaction. A name is
// rejected when it is blank, repeats an earlier name of the batch ignoring
// case, or matches a stored department exactly. Rejections only count.
func (s *DepartmentService) BulkCreate(ctx context.Context, names []string) (model.BulkResult, error) {
	var result model.BulkResult

	trimmed := make([]string, len(names))
	lookup := make([]string, 0, len(names))
	for i, n := range names {
		trimmed[i] = strings.TrimSpace(n)
		if trimmed[i] != "" {
			lookup = append(lookup, trimmed[i])
		}
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		stored, err := tx.DepartmentsByNames(ctx, lookup)
		if err != nil {
			return err
		}
		existing := make(map[string]bool, len(stored))
		for _, d := range stored {
			existing[d.Name] = true
		}

		seen := make(map[string]bool, len(names))
		accepted := make([]model.Department, 0, len(names))
		for _, name := range trimmed {
			key := strings.ToLower(name)
			switch {
			case name == "", seen[key], existing[name]:
				result.Failed++
				continue
			}
			seen[key] = true
			accepted = append(accepted, model.Department{Name: name})
		}

		if err := tx.CreateDepartments(ctx, accepted); err != nil {
			return err
		}
		result.Created = len(accepted)
		return nil
	})
	if err != nil {
		return model.BulkResult{}, err
	}

	s.metrics.RecordBulk(model.EntityDepartment, result.Created, result.Updated, result.Failed)
	logger.FromContext(ctx).Info("Bulk department creation finished",
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed))
	return result, nil
}
