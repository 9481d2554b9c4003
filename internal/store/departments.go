package store

import (
	"context"

	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/model"
)

// ListDepartments returns every department ordered by name
func (s *Store) ListDepartments(ctx context.Context) ([]model.Department, error) {
	defer s.track("list_departments")()

	var departments []model.Department
	if err := s.conn(ctx).Order("name").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (s *Store) DepartmentByID(ctx context.Context, id uint) (*model.Department, error) {
	var department model.Department
	if err := s.conn(ctx).First(&department, id).Error; err != nil {
		return nil, apperror.FromStore(err, "department not found", apperror.KindInvalidReference)
	}
	return &department, nil
}

func (s *Store) DepartmentByName(ctx context.Context, name string) (*model.Department, error) {
	var department model.Department
	if err := s.conn(ctx).Where("name = ?", name).First(&department).Error; err != nil {
		return nil, apperror.FromStore(err, "department not found", apperror.KindInvalidReference)
	}
	return &department, nil
}

// DepartmentsByNames returns the stored departments whose name exactly matches one of names
func (s *Store) DepartmentsByNames(ctx context.Context, names []string) ([]model.Department, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var departments []model.Department
	if err := s.conn(ctx).Where("name IN ?", names).Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (s *Store) DepartmentsByIDs(ctx context.Context, ids []uint) ([]model.Department, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var departments []model.Department
	if err := s.conn(ctx).Where("id IN ?", ids).Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (s *Store) CreateDepartment(ctx context.Context, department *model.Department) error {
	defer s.track("create_department")()

	err := s.conn(ctx).Create(department).Error
	return apperror.FromStore(err, "a department with this name already exists", apperror.KindInvalidReference)
}

// CreateDepartments inserts all rows in one statement
func (s *Store) CreateDepartments(ctx context.Context, departments []model.Department) error {
	if len(departments) == 0 {
		return nil
	}
	defer s.track("create_departments")()

	err := s.conn(ctx).Create(&departments).Error
	return apperror.FromStore(err, "a department with this name already exists", apperror.KindInvalidReference)
}

func (s *Store) CountEmployeesInDepartment(ctx context.Context, departmentID uint) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&model.Employee{}).Where("department_id = ?", departmentID).Count(&count).Error
	return count, err
}

// DeleteDepartment removes the row. A foreign key violation surfaces as BlockedDelete.
func (s *Store) DeleteDepartment(ctx context.Context, id uint) error {
	defer s.track("delete_department")()

	result := s.conn(ctx).Delete(&model.Department{}, id)
	if result.Error != nil {
		return apperror.FromStore(result.Error,
			"cannot delete department that has employees; reassign or remove employees first",
			apperror.KindBlockedDelete)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("department not found")
	}
	return nil
}

func (s *Store) CountDepartments(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&model.Department{}).Count(&count).Error
	return count, err
}
