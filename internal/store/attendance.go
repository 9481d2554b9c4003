package store

import (
	"context"

	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/model"
)

// StatusCount is one group of the attendance rollup
type StatusCount struct {
	EmployeeID string
	Status     string
	Count      int
}

// AttendanceFor looks up the row keyed by (employeeID, date)
func (s *Store) AttendanceFor(ctx context.Context, employeeID, date string) (*model.Attendance, error) {
	var rec model.Attendance
	err := s.conn(ctx).Where("employee_id = ? AND date = ?", employeeID, date).First(&rec).Error
	if err != nil {
		return nil, apperror.FromStore(err, "attendance not found", apperror.KindInvalidReference)
	}
	return &rec, nil
}

// AttendanceOn returns the rows of date for the given employees
func (s *Store) AttendanceOn(ctx context.Context, date string, employeeIDs []string) ([]model.Attendance, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	var recs []model.Attendance
	err := s.conn(ctx).Where("date = ? AND employee_id IN ?", date, employeeIDs).Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *Store) CreateAttendance(ctx context.Context, rec *model.Attendance) error {
	defer s.track("create_attendance")()

	err := s.conn(ctx).Create(rec).Error
	return apperror.FromStore(err, "attendance for this employee and date already exists", apperror.KindNotFound)
}

func (s *Store) UpdateAttendanceStatus(ctx context.Context, rec *model.Attendance, status string) error {
	defer s.track("update_attendance")()

	if err := s.conn(ctx).Model(rec).Update("status", status).Error; err != nil {
		return err
	}
	rec.Status = status
	return nil
}

// ListAttendance joins each row with its employee and department names,
// newest date first.
func (s *Store) ListAttendance(ctx context.Context, filter model.AttendanceFilter) ([]model.AttendanceResponse, error) {
	defer s.track("list_attendance")()

	query := s.conn(ctx).Table("attendance AS a").
		Select("a.id, a.date, a.employee_id, e.full_name AS employee_name, d.name AS department_name, a.status").
		Joins("JOIN employees AS e ON e.employee_id = a.employee_id").
		Joins("LEFT JOIN departments AS d ON d.id = e.department_id")
	if filter.DateFrom != "" {
		query = query.Where("a.date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("a.date <= ?", filter.DateTo)
	}

	var rows []model.AttendanceResponse
	if err := query.Order("a.date DESC").Order("a.id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountAttendanceByStatus is a single grouped count over the whole table
func (s *Store) CountAttendanceByStatus(ctx context.Context) ([]StatusCount, error) {
	defer s.track("count_attendance")()

	var counts []StatusCount
	err := s.conn(ctx).Model(&model.Attendance{}).
		Select("employee_id, status, COUNT(id) AS count").
		Group("employee_id, status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountAttendanceForEmployee counts the rows a delete of employeeID would cascade to
func (s *Store) CountAttendanceForEmployee(ctx context.Context, employeeID string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&model.Attendance{}).Where("employee_id = ?", employeeID).Count(&count).Error
	return count, err
}
