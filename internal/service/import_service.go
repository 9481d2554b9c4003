package service

import (
	"context"

	"github.com/suteetoe/hrms/internal/importer"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/store"
	"github.com/suteetoe/hrms/pkg/logger"
	"github.com/suteetoe/hrms/pkg/metrics"
	"go.uber.org/zap"
)

// ImportService feeds uploaded files through the bulk-create paths
type ImportService struct {
	store       *store.Store
	departments *DepartmentService
	employees   *EmployeeService
	metrics     *metrics.Domain
}

func NewImportService(st *store.Store, departments *DepartmentService, employees *EmployeeService, m *metrics.Domain) *ImportService {
	return &ImportService{store: st, departments: departments, employees: employees, metrics: m}
}

// ImportDepartments bulk-creates the department names found in data. Rows
// dropped during parsing are not part of the result.
func (s *ImportService) ImportDepartments(ctx context.Context, data []byte, format importer.Format) (model.BulkResult, error) {
	names, dropped, err := importer.DepartmentNames(data, format)
	if err != nil {
		return model.BulkResult{}, err
	}
	s.recordDropped(ctx, model.EntityDepartment, dropped)
	return s.departments.BulkCreate(ctx, names)
}

// ImportEmployees bulk-creates the employees found in data after binding
// each row to an existing department. Resolution and insertion share one
// transaction.
func (s *ImportService) ImportEmployees(ctx context.Context, data []byte, format importer.Format) (model.BulkResult, error) {
	rows, dropped, err := importer.EmployeeRows(data, format)
	if err != nil {
		return model.BulkResult{}, err
	}

	ids, names := importer.DepartmentRefs(rows)
	var (
		result     model.BulkResult
		unresolved int
	)
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		byID, err := tx.DepartmentsByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byName, err := tx.DepartmentsByNames(ctx, names)
		if err != nil {
			return err
		}

		var inputs []model.EmployeeInput
		inputs, unresolved = importer.ResolveDepartments(rows, append(byID, byName...))
		result, err = s.employees.bulkCreate(ctx, tx, inputs)
		return err
	})
	if err != nil {
		return model.BulkResult{}, err
	}

	s.recordDropped(ctx, model.EntityEmployee, dropped+unresolved)
	s.employees.finishBulk(ctx, result)
	return result, nil
}

func (s *ImportService) recordDropped(ctx context.Context, entity string, n int) {
	if n == 0 {
		return
	}
	s.metrics.RecordDropped(entity, n)
	logger.FromContext(ctx).Info("Import rows dropped",
		zap.String("entity", entity),
		zap.Int("dropped", n))
}
