package service_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/internal/importer"
	"github.com/suteetoe/hrms/internal/model"
)

func TestImportDepartments_CSV(t *testing.T) {
	f := newFixture(t)
	f.department(t, "Sales")

	data := []byte("Department Name,Budget\nEngineering,10\n,5\nengineering,1\nSales,3\nHR,2\n")
	result, err := f.imports.ImportDepartments(context.Background(), data, importer.FormatCSV)
	require.NoError(t, err)

	// the blank-name row is dropped before bulk creation and is not a failure
	assert.Equal(t, model.BulkResult{Created: 2, Failed: 2}, result)
	assert.Equal(t, 1.0, f.metric(t, "test_import_rows_dropped_total", map[string]string{"entity": model.EntityDepartment}))
}

func TestImportEmployees_ResolvesDepartmentsByIDOrName(t *testing.T) {
	f := newFixture(t)
	eng := f.department(t, "Engineering")
	f.department(t, "HR")
	engID := strconv.FormatUint(uint64(eng.ID), 10)

	data := []byte("Employee ID,Full-Name,E-Mail,Dept ID,Department\n" +
		"EMP001,Priya Sharma,priya@example.com," + engID + ",\n" +
		"EMP002,Ananya Singh,ananya@example.com,,HR\n" +
		"EMP003,Missing Email,,,HR\n" + // structural drop
		"EMP004,Ghost Dept,ghost@example.com,,Marketing\n" + // unresolved drop
		"EMP005,Stale Id,stale@example.com,999,Engineering\n" + // falls back to name
		"EMP001,Duplicate,dup@example.com,,HR\n") // business rejection

	result, err := f.imports.ImportEmployees(context.Background(), data, importer.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, model.BulkResult{Created: 3, Failed: 1}, result)
	assert.Equal(t, 2.0, f.metric(t, "test_import_rows_dropped_total", map[string]string{"entity": model.EntityEmployee}))

	list, err := f.employees.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Engineering", list[0].DepartmentName)
	assert.Equal(t, "HR", list[1].DepartmentName)
	assert.Equal(t, "Engineering", list[2].DepartmentName)
}

func TestImportEmployees_SingleTransaction(t *testing.T) {
	f := newFixture(t)
	f.department(t, "Engineering")
	transactions := map[string]string{"operation": "transaction"}
	before := f.observations(t, "test_db_operation_duration_seconds", transactions)

	data := []byte("employee_id,full_name,email,department\n" +
		"EMP001,Priya Sharma,priya@example.com,Engineering\n" +
		"EMP002,Raj Kumar,raj@example.com,Engineering\n")
	result, err := f.imports.ImportEmployees(context.Background(), data, importer.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, model.BulkResult{Created: 2}, result)

	assert.Equal(t, before+1, f.observations(t, "test_db_operation_duration_seconds", transactions))
	assert.Equal(t, 2.0, f.metric(t, "test_bulk_items_total", map[string]string{"entity": model.EntityEmployee, "outcome": "created"}))
}

func TestImportEmployees_JSONCamelCase(t *testing.T) {
	f := newFixture(t)
	eng := f.department(t, "Engineering")

	data := []byte(`{"employees":[{"employeeId":"EMP010","fullName":"Meera Reddy","email":"meera@example.com","departmentId":` +
		strconv.FormatUint(uint64(eng.ID), 10) + `}]}`)
	result, err := f.imports.ImportEmployees(context.Background(), data, importer.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, model.BulkResult{Created: 1}, result)
}

func TestImport_UnreadablePayload(t *testing.T) {
	f := newFixture(t)
	_, err := f.imports.ImportDepartments(context.Background(), []byte("{not json"), importer.FormatJSON)
	assert.ErrorIs(t, err, apperror.ErrMalformedInput)
}
