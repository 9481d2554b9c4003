package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/service"
)

func attendanceFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	eng := f.department(t, "Engineering")
	f.department(t, "HR")
	f.employee(t, "EMP001", "Priya Sharma", "priya@example.com", eng.ID)
	return f
}

func TestReconcile_CreateThenUpdate(t *testing.T) {
	f := attendanceFixture(t)
	ctx := context.Background()

	rec, outcome, err := f.attendance.Reconcile(ctx, "EMP001", "2025-02-01", model.StatusPresent)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCreated, outcome)
	assert.Equal(t, model.StatusPresent, rec.Status)
	require.NotNil(t, rec.EmployeeName)
	assert.Equal(t, "Priya Sharma", *rec.EmployeeName)
	require.NotNil(t, rec.DepartmentName)
	assert.Equal(t, "Engineering", *rec.DepartmentName)

	again, outcome, err := f.attendance.Reconcile(ctx, "EMP001", "2025-02-01", model.StatusAbsent)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUpdated, outcome)
	assert.Equal(t, rec.ID, again.ID)
	assert.Equal(t, model.StatusAbsent, again.Status)

	rows, err := f.attendance.List(ctx, model.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.StatusAbsent, rows[0].Status)

	summary, err := f.attendance.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, model.AttendanceSummaryItem{
		EmployeeID:   "EMP001",
		EmployeeName: "Priya Sharma",
		PresentDays:  0,
		AbsentDays:   1,
	}, summary[0])

	logs := f.logs(t, model.AdminLogFilter{EntityType: model.EntityAttendance})
	require.Len(t, logs, 2)
	require.NotNil(t, logs[0].Details)
	assert.Equal(t, "Updated attendance: Priya Sharma on 2025-02-01 → Absent", *logs[0].Details)
	assert.Equal(t, model.ActionUpdate, logs[0].Action)
	assert.Equal(t, "Marked attendance: Priya Sharma on 2025-02-01 → Present", *logs[1].Details)
	assert.Equal(t, model.ActionCreate, logs[1].Action)

	assert.Equal(t, 1.0, f.metric(t, "test_attendance_reconcile_total", map[string]string{"outcome": "created"}))
	assert.Equal(t, 1.0, f.metric(t, "test_attendance_reconcile_total", map[string]string{"outcome": "updated"}))
}

func TestReconcile_Errors(t *testing.T) {
	f := attendanceFixture(t)
	ctx := context.Background()

	tests := []struct {
		name                 string
		employee, date, stat string
		want                 error
	}{
		{"unknown employee", "EMP404", "2025-02-01", model.StatusPresent, apperror.ErrNotFound},
		{"bad date format", "EMP001", "01/02/2025", model.StatusPresent, apperror.ErrMalformedInput},
		{"impossible date", "EMP001", "2025-02-30", model.StatusPresent, apperror.ErrMalformedInput},
		{"unknown status", "EMP001", "2025-02-01", "Late", apperror.ErrMalformedInput},
		{"lower-case status", "EMP001", "2025-02-01", "present", apperror.ErrMalformedInput},
		{"blank employee", " ", "2025-02-01", model.StatusPresent, apperror.ErrMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.attendance.Reconcile(ctx, tt.employee, tt.date, tt.stat)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Empty(t, f.logs(t, model.AdminLogFilter{EntityType: model.EntityAttendance}))
}

func TestReconcileBulk_TallyCoversEveryRecord(t *testing.T) {
	f := attendanceFixture(t)
	ctx := context.Background()
	eng, err := f.store.DepartmentByName(ctx, "Engineering")
	require.NoError(t, err)
	f.employee(t, "EMP002", "Raj Kumar", "raj@example.com", eng.ID)

	_, _, err = f.attendance.Reconcile(ctx, "EMP001", "2025-02-01", model.StatusPresent)
	require.NoError(t, err)

	records := []service.BulkRecord{
		{EmployeeID: "EMP001", Status: model.StatusAbsent},  // updated
		{EmployeeID: "EMP002", Status: model.StatusPresent}, // created
		{EmployeeID: "EMP404", Status: model.StatusPresent}, // unknown
		{EmployeeID: "EMP002", Status: "Maybe"},             // bad status
		{EmployeeID: "EMP002", Status: model.StatusAbsent},  // repeat updates the row created above
	}
	result, err := f.attendance.ReconcileBulk(ctx, "2025-02-01", records)
	require.NoError(t, err)
	assert.Equal(t, model.BulkResult{Created: 1, Updated: 2, Failed: 2}, result)
	assert.Equal(t, len(records), result.Total())

	rows, err := f.attendance.List(ctx, model.AttendanceFilter{DateFrom: "2025-02-01", DateTo: "2025-02-01"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, model.StatusAbsent, r.Status)
	}

	logs := f.logs(t, model.AdminLogFilter{Action: model.ActionBulkCreate})
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].EntityID)
	require.NotNil(t, logs[0].Details)
	assert.Equal(t, "Bulk attendance for 2025-02-01: 1 created, 2 updated", *logs[0].Details)
}

func TestReconcileBulk_AllFailedWritesNoAudit(t *testing.T) {
	f := attendanceFixture(t)

	result, err := f.attendance.ReconcileBulk(context.Background(), "2025-02-01", []service.BulkRecord{
		{EmployeeID: "EMP404", Status: model.StatusPresent},
		{EmployeeID: "", Status: model.StatusAbsent},
	})
	require.NoError(t, err)
	assert.Equal(t, model.BulkResult{Failed: 2}, result)
	assert.Empty(t, f.logs(t, model.AdminLogFilter{Action: model.ActionBulkCreate}))
}

func TestReconcileBulk_BadDate(t *testing.T) {
	f := attendanceFixture(t)
	_, err := f.attendance.ReconcileBulk(context.Background(), "2025-13-01", []service.BulkRecord{
		{EmployeeID: "EMP001", Status: model.StatusPresent},
	})
	assert.ErrorIs(t, err, apperror.ErrMalformedInput)
}

func TestSummary_EmployeeWithoutAttendance(t *testing.T) {
	f := attendanceFixture(t)
	ctx := context.Background()
	hr, err := f.store.DepartmentByName(ctx, "HR")
	require.NoError(t, err)
	f.employee(t, "EMP002", "Ananya Singh", "ananya@example.com", hr.ID)

	_, err = f.attendance.ReconcileBulk(ctx, "2025-02-01", []service.BulkRecord{{EmployeeID: "EMP001", Status: model.StatusPresent}})
	require.NoError(t, err)
	_, err = f.attendance.ReconcileBulk(ctx, "2025-02-02", []service.BulkRecord{{EmployeeID: "EMP001", Status: model.StatusPresent}})
	require.NoError(t, err)

	summary, err := f.attendance.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, 2, summary[0].PresentDays)
	assert.Equal(t, "EMP002", summary[1].EmployeeID)
	assert.Zero(t, summary[1].PresentDays)
	assert.Zero(t, summary[1].AbsentDays)
}

func TestAttendanceList_RejectsBadFilter(t *testing.T) {
	f := attendanceFixture(t)
	_, err := f.attendance.List(context.Background(), model.AttendanceFilter{DateFrom: "yesterday"})
	assert.ErrorIs(t, err, apperror.ErrMalformedInput)
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, service.ValidateDate("2024-02-29"))
	assert.Error(t, service.ValidateDate("2025-02-29"))
	assert.Error(t, service.ValidateDate("2025-2-1"))
	assert.Error(t, service.ValidateDate(""))
}
