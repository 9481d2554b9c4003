package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/seed"
	"github.com/suteetoe/hrms/internal/service"
	"github.com/suteetoe/hrms/internal/store/storetest"
)

func TestRun_SeedsOnceThenSkips(t *testing.T) {
	st := storetest.New(t)
	audit := service.NewAuditService(st)
	ctx := context.Background()

	res, err := seed.Run(ctx, st, audit)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Departments: 4, Employees: 5, Attendance: 10}, res)

	summary, err := service.NewAttendanceService(st, audit, nil).Summary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 5)
	assert.Equal(t, model.AttendanceSummaryItem{EmployeeID: "EMP001", EmployeeName: "Priya Sharma", PresentDays: 2}, summary[0])
	assert.Equal(t, model.AttendanceSummaryItem{EmployeeID: "EMP003", EmployeeName: "Ananya Singh", PresentDays: 1, AbsentDays: 1}, summary[2])

	again, err := seed.Run(ctx, st, audit)
	require.NoError(t, err)
	assert.True(t, again.Skipped)

	logs, err := audit.List(ctx, model.AdminLogFilter{Action: model.ActionSeed})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestRun_KeepsExistingDepartments(t *testing.T) {
	st := storetest.New(t)
	audit := service.NewAuditService(st)
	ctx := context.Background()
	require.NoError(t, st.CreateDepartment(ctx, &model.Department{Name: "Engineering"}))

	res, err := seed.Run(ctx, st, audit)
	require.NoError(t, err)
	// HR, Sales and Finance are created on demand for the sample employees
	assert.Equal(t, 3, res.Departments)

	departments, err := st.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, departments, 4)
}
