// Package seed loads a small sample organisation into an empty database.
package seed

import (
	"context"
	"fmt"

	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/service"
	"github.com/suteetoe/hrms/internal/store"
	"github.com/suteetoe/hrms/pkg/logger"
	"go.uber.org/zap"
)

var departments = []string{"Engineering", "HR", "Sales", "Finance"}

type sampleEmployee struct {
	employeeID, fullName, email, department string
}

var employees = []sampleEmployee{
	{"EMP001", "Priya Sharma", "priya.sharma@example.com", "Engineering"},
	{"EMP002", "Raj Kumar", "raj.kumar@example.com", "Sales"},
	{"EMP003", "Ananya Singh", "ananya.singh@example.com", "HR"},
	{"EMP004", "Vikram Patel", "vikram.patel@example.com", "Engineering"},
	{"EMP005", "Meera Reddy", "meera.reddy@example.com", "Finance"},
}

var attendance = []model.Attendance{
	{EmployeeID: "EMP001", Date: "2025-02-01", Status: model.StatusPresent},
	{EmployeeID: "EMP002", Date: "2025-02-01", Status: model.StatusPresent},
	{EmployeeID: "EMP003", Date: "2025-02-01", Status: model.StatusAbsent},
	{EmployeeID: "EMP004", Date: "2025-02-01", Status: model.StatusPresent},
	{EmployeeID: "EMP005", Date: "2025-02-01", Status: model.StatusPresent},
	{EmployeeID: "EMP001", Date: "2025-02-02", Status: model.StatusPresent},
	{EmployeeID: "EMP002", Date: "2025-02-02", Status: model.StatusAbsent},
	{EmployeeID: "EMP003", Date: "2025-02-02", Status: model.StatusPresent},
	{EmployeeID: "EMP004", Date: "2025-02-02", Status: model.StatusPresent},
	{EmployeeID: "EMP005", Date: "2025-02-02", Status: model.StatusPresent},
}

// Result counts what a run inserted. Skipped is set when employees already existed.
type Result struct {
	Skipped     bool `json:"skipped"`
	Departments int  `json:"departments"`
	Employees   int  `json:"employees"`
	Attendance  int  `json:"attendance"`
}

// Run inserts the sample data in one transaction unless any employee exists.
// Departments are only added when the table is empty; missing ones are
// created on demand for the sample employees.
func Run(ctx context.Context, st *store.Store, audit *service.AuditService) (Result, error) {
	log := logger.FromContext(ctx)
	var res Result

	err := st.Transaction(ctx, func(tx *store.Store) error {
		count, err := tx.CountEmployees(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			res.Skipped = true
			return nil
		}

		deptCount, err := tx.CountDepartments(ctx)
		if err != nil {
			return err
		}
		if deptCount == 0 {
			rows := make([]model.Department, 0, len(departments))
			for _, name := range departments {
				rows = append(rows, model.Department{Name: name})
			}
			if err := tx.CreateDepartments(ctx, rows); err != nil {
				return err
			}
			res.Departments = len(rows)
		}

		names := make([]string, 0, len(employees))
		for _, e := range employees {
			names = append(names, e.department)
		}
		stored, err := tx.DepartmentsByNames(ctx, names)
		if err != nil {
			return err
		}
		ids := make(map[string]uint, len(stored))
		for _, d := range stored {
			ids[d.Name] = d.ID
		}

		rows := make([]model.Employee, 0, len(employees))
		for _, e := range employees {
			id, ok := ids[e.department]
			if !ok {
				d := &model.Department{Name: e.department}
				if err := tx.CreateDepartment(ctx, d); err != nil {
					return err
				}
				ids[d.Name] = d.ID
				id = d.ID
				res.Departments++
			}
			rows = append(rows, model.Employee{
				EmployeeID:   e.employeeID,
				FullName:     e.fullName,
				Email:        e.email,
				DepartmentID: id,
			})
		}
		if err := tx.CreateEmployees(ctx, rows); err != nil {
			return err
		}
		res.Employees = len(rows)

		for _, a := range attendance {
			rec := a
			if err := tx.CreateAttendance(ctx, &rec); err != nil {
				return err
			}
		}
		res.Attendance = len(attendance)

		return audit.Record(ctx, tx, model.ActionSeed, model.EntityEmployee, nil,
			fmt.Sprintf("Seeded sample data: %d departments, %d employees, %d attendance records",
				res.Departments, res.Employees, res.Attendance))
	})
	if err != nil {
		log.Error("Seed failed", zap.Error(err))
		return Result{}, err
	}

	if res.Skipped {
		log.Info("Employees already exist; skipping seed")
	} else {
		log.Info("Seed completed",
			zap.Int("departments", res.Departments),
			zap.Int("employees", res.Employees),
			zap.Int("attendance", res.Attendance))
	}
	return res, nil
}
