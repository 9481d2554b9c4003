package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/store"
	"github.com/suteetoe/hrms/internal/store/storetest"
)

func seedEmployee(t *testing.T, st *store.Store) (*model.Department, *model.Employee) {
	t.Helper()
	ctx := context.Background()
	d := &model.Department{Name: "Engineering"}
	require.NoError(t, st.CreateDepartment(ctx, d))
	e := &model.Employee{EmployeeID: "EMP001", FullName: "Priya Sharma", Email: "priya@example.com", DepartmentID: d.ID}
	require.NoError(t, st.CreateEmployee(ctx, e))
	return d, e
}

func TestMigratedSchema_AttendanceOwnedByEmployees(t *testing.T) {
	db := storetest.OpenDB(t)

	var attendanceDDL, employeesDDL string
	require.NoError(t, db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", "attendance").Scan(&attendanceDDL).Error)
	require.NoError(t, db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", "employees").Scan(&employeesDDL).Error)

	assert.Contains(t, attendanceDDL, "REFERENCES `employees`")
	assert.Contains(t, attendanceDDL, "ON DELETE CASCADE")
	assert.Contains(t, employeesDDL, "REFERENCES `departments`")
	assert.NotContains(t, employeesDDL, "REFERENCES `attendance`")

	st := store.New(db, nil)
	ctx := context.Background()
	d := &model.Department{Name: "Engineering"}
	require.NoError(t, st.CreateDepartment(ctx, d))
	require.NoError(t, st.CreateEmployee(ctx, &model.Employee{EmployeeID: "EMP001", FullName: "Priya Sharma", Email: "priya@example.com", DepartmentID: d.ID}))
	require.NoError(t, st.CreateEmployees(ctx, []model.Employee{
		{EmployeeID: "EMP002", FullName: "Raj Kumar", Email: "raj@example.com", DepartmentID: d.ID},
	}))
}

func TestCreateAttendance_UnknownEmployee(t *testing.T) {
	st := storetest.New(t)
	err := st.CreateAttendance(context.Background(), &model.Attendance{EmployeeID: "EMP404", Date: "2025-02-01", Status: model.StatusPresent})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateDepartment_DuplicateNameIsConflict(t *testing.T) {
	st := storetest.New(t)
	ctx := context.Background()

	require.NoError(t, st.CreateDepartment(ctx, &model.Department{Name: "HR"}))
	err := st.CreateDepartment(ctx, &model.Department{Name: "HR"})
	assert.True(t, errors.Is(err, apperror.ErrConflict), "got %v", err)
}

func TestDepartmentByID_Missing(t *testing.T) {
	st := storetest.New(t)
	_, err := st.DepartmentByID(context.Background(), 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteDepartment_ForeignKeyBlocks(t *testing.T) {
	st := storetest.New(t)
	d, _ := seedEmployee(t, st)

	err := st.DeleteDepartment(context.Background(), d.ID)
	assert.ErrorIs(t, err, apperror.ErrBlockedDelete)
}

func TestDeleteDepartment_Missing(t *testing.T) {
	st := storetest.New(t)
	err := st.DeleteDepartment(context.Background(), 7)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateEmployee_UnknownDepartmentIsInvalidReference(t *testing.T) {
	st := storetest.New(t)
	err := st.CreateEmployee(context.Background(), &model.Employee{
		EmployeeID: "EMP009", FullName: "Nobody", Email: "nobody@example.com", DepartmentID: 99,
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidReference)
}

func TestAttendanceUniquePerEmployeeAndDate(t *testing.T) {
	st := storetest.New(t)
	seedEmployee(t, st)
	ctx := context.Background()

	require.NoError(t, st.CreateAttendance(ctx, &model.Attendance{EmployeeID: "EMP001", Date: "2025-02-01", Status: model.StatusPresent}))
	err := st.CreateAttendance(ctx, &model.Attendance{EmployeeID: "EMP001", Date: "2025-02-01", Status: model.StatusAbsent})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestDeleteEmployee_RemovesAttendance(t *testing.T) {
	st := storetest.New(t)
	_, e := seedEmployee(t, st)
	ctx := context.Background()

	for _, date := range []string{"2025-02-01", "2025-02-02"} {
		require.NoError(t, st.CreateAttendance(ctx, &model.Attendance{EmployeeID: e.EmployeeID, Date: date, Status: model.StatusPresent}))
	}

	require.NoError(t, st.Transaction(ctx, func(tx *store.Store) error {
		return tx.DeleteEmployee(ctx, e)
	}))

	count, err := st.CountAttendanceForEmployee(ctx, e.EmployeeID)
	require.NoError(t, err)
	assert.Zero(t, count)
	_, err = st.EmployeeByEmployeeID(ctx, e.EmployeeID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListAttendance_JoinsNamesAndFiltersDates(t *testing.T) {
	st := storetest.New(t)
	seedEmployee(t, st)
	ctx := context.Background()

	for _, date := range []string{"2025-01-31", "2025-02-01", "2025-02-02"} {
		require.NoError(t, st.CreateAttendance(ctx, &model.Attendance{EmployeeID: "EMP001", Date: date, Status: model.StatusPresent}))
	}

	rows, err := st.ListAttendance(ctx, model.AttendanceFilter{DateFrom: "2025-02-01", DateTo: "2025-02-02"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-02-02", rows[0].Date)
	assert.Equal(t, "2025-02-01", rows[1].Date)
	require.NotNil(t, rows[0].EmployeeName)
	assert.Equal(t, "Priya Sharma", *rows[0].EmployeeName)
	require.NotNil(t, rows[0].DepartmentName)
	assert.Equal(t, "Engineering", *rows[0].DepartmentName)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	st := storetest.New(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.Transaction(ctx, func(tx *store.Store) error {
		require.NoError(t, tx.CreateDepartment(ctx, &model.Department{Name: "Temp"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = st.DepartmentByName(ctx, "Temp")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListAdminLogs_NewestFirstWithFilters(t *testing.T) {
	st := storetest.New(t)
	ctx := context.Background()

	entries := []model.AdminLog{
		{Action: model.ActionCreate, EntityType: model.EntityDepartment},
		{Action: model.ActionDelete, EntityType: model.EntityDepartment},
		{Action: model.ActionCreate, EntityType: model.EntityEmployee},
	}
	for i := range entries {
		require.NoError(t, st.AppendAdminLog(ctx, &entries[i]))
	}

	all, err := st.ListAdminLogs(ctx, model.AdminLogFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, entries[2].ID, all[0].ID)

	creates, err := st.ListAdminLogs(ctx, model.AdminLogFilter{Action: model.ActionCreate, EntityType: model.EntityDepartment, Limit: 10})
	require.NoError(t, err)
	require.Len(t, creates, 1)
	assert.Equal(t, entries[0].ID, creates[0].ID)

	page, err := st.ListAdminLogs(ctx, model.AdminLogFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, entries[1].ID, page[0].ID)
}
