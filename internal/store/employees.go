package store

import (
	"context"

	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/model"
)

// ListEmployees returns every employee ordered by surrogate id
func (s *Store) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	defer s.track("list_employees")()

	var employees []model.Employee
	if err := s.conn(ctx).Order("id").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// EmployeesByDepartmentIDs fetches the employees of several departments in one query
func (s *Store) EmployeesByDepartmentIDs(ctx context.Context, departmentIDs []uint) ([]model.Employee, error) {
	if len(departmentIDs) == 0 {
		return nil, nil
	}
	var employees []model.Employee
	err := s.conn(ctx).Where("department_id IN ?", departmentIDs).Order("id").Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *Store) EmployeeByID(ctx context.Context, id uint) (*model.Employee, error) {
	var employee model.Employee
	if err := s.conn(ctx).First(&employee, id).Error; err != nil {
		return nil, apperror.FromStore(err, "employee not found", apperror.KindInvalidReference)
	}
	return &employee, nil
}

func (s *Store) EmployeeByEmployeeID(ctx context.Context, employeeID string) (*model.Employee, error) {
	var employee model.Employee
	if err := s.conn(ctx).Where("employee_id = ?", employeeID).First(&employee).Error; err != nil {
		return nil, apperror.FromStore(err, "employee not found", apperror.KindInvalidReference)
	}
	return &employee, nil
}

// EmployeeByEmail expects an already normalized (trimmed, lower-cased) address
func (s *Store) EmployeeByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var employee model.Employee
	if err := s.conn(ctx).Where("email = ?", email).First(&employee).Error; err != nil {
		return nil, apperror.FromStore(err, "employee not found", apperror.KindInvalidReference)
	}
	return &employee, nil
}

func (s *Store) EmployeesByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]model.Employee, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	var employees []model.Employee
	if err := s.conn(ctx).Where("employee_id IN ?", employeeIDs).Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// EmployeesMatching returns stored employees colliding with any of the given natural keys or emails
func (s *Store) EmployeesMatching(ctx context.Context, employeeIDs, emails []string) ([]model.Employee, error) {
	if len(employeeIDs) == 0 && len(emails) == 0 {
		return nil, nil
	}
	query := s.conn(ctx)
	switch {
	case len(employeeIDs) == 0:
		query = query.Where("email IN ?", emails)
	case len(emails) == 0:
		query = query.Where("employee_id IN ?", employeeIDs)
	default:
		query = query.Where("employee_id IN ? OR email IN ?", employeeIDs, emails)
	}
	var employees []model.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *Store) CreateEmployee(ctx context.Context, employee *model.Employee) error {
	defer s.track("create_employee")()

	err := s.conn(ctx).Omit("Department", "Attendance").Create(employee).Error
	return apperror.FromStore(err, "an employee with this employee ID or email already exists", apperror.KindInvalidReference)
}

func (s *Store) CreateEmployees(ctx context.Context, employees []model.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	defer s.track("create_employees")()

	err := s.conn(ctx).Omit("Department", "Attendance").Create(&employees).Error
	return apperror.FromStore(err, "an employee with this employee ID or email already exists", apperror.KindInvalidReference)
}

// DeleteEmployee removes the employee and every attendance row it owns.
// Call it inside Transaction so both deletes commit together.
func (s *Store) DeleteEmployee(ctx context.Context, employee *model.Employee) error {
	defer s.track("delete_employee")()

	db := s.conn(ctx)
	if err := db.Where("employee_id = ?", employee.EmployeeID).Delete(&model.Attendance{}).Error; err != nil {
		return err
	}
	result := db.Delete(&model.Employee{}, employee.ID)
	if result.Error != nil {
		return apperror.FromStore(result.Error, "employee could not be deleted", apperror.KindBlockedDelete)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("employee not found")
	}
	return nil
}

func (s *Store) CountEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&model.Employee{}).Count(&count).Error
	return count, err
}
