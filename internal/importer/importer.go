// Package importer turns CSV, JSON and XLSX uploads into bulk-create
// candidates. Rows that cannot become a candidate are dropped and counted.
package importer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/suteetoe/hrms/internal/model"
)

var headerSeparators = regexp.MustCompile(`[\s\-]+`)

// NormalizeHeader trims and lower-cases a column name and turns runs of
// whitespace and hyphens into a single underscore.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return headerSeparators.ReplaceAllString(h, "_")
}

const (
	fieldName         = "name"
	fieldEmployeeID   = "employee_id"
	fieldFullName     = "full_name"
	fieldEmail        = "email"
	fieldDepartmentID = "department_id"
	fieldDepartment   = "department"
)

func aliasTable(groups map[string][]string) map[string]string {
	out := make(map[string]string)
	for field, names := range groups {
		for _, n := range names {
			out[n] = field
		}
	}
	return out
}

var departmentAliases = aliasTable(map[string][]string{
	fieldName: {"name", "department", "department_name", "departmentname", "dept", "dept_name"},
})

var employeeAliases = aliasTable(map[string][]string{
	fieldEmployeeID:   {"employee_id", "employeeid", "emp_id", "empid"},
	fieldFullName:     {"full_name", "fullname", "name", "employee_name"},
	fieldEmail:        {"email", "email_address", "e_mail", "mail"},
	fieldDepartmentID: {"department_id", "departmentid", "dept_id"},
	fieldDepartment:   {"department", "department_name", "departmentname", "dept", "dept_name"},
})

// DepartmentNames reads department names. Rows without a name are dropped.
func DepartmentNames(data []byte, format Format) (names []string, dropped int, err error) {
	rows, err := readRows(data, format, departmentAliases)
	if err != nil {
		return nil, 0, err
	}
	for _, r := range rows {
		name := r.get(fieldName)
		if name == "" {
			dropped++
			continue
		}
		names = append(names, name)
	}
	return names, dropped, nil
}

// EmployeeRow is an employee row that passed the structural check but whose
// department is not yet resolved.
type EmployeeRow struct {
	EmployeeID   string
	FullName     string
	Email        string
	DepartmentID string
	Department   string
}

// EmployeeRows reads employee rows. Rows missing employee_id, full_name,
// email, or both department columns are dropped.
func EmployeeRows(data []byte, format Format) (out []EmployeeRow, dropped int, err error) {
	rows, err := readRows(data, format, employeeAliases)
	if err != nil {
		return nil, 0, err
	}
	for _, r := range rows {
		er := EmployeeRow{
			EmployeeID:   r.get(fieldEmployeeID),
			FullName:     r.get(fieldFullName),
			Email:        r.get(fieldEmail),
			DepartmentID: r.get(fieldDepartmentID),
			Department:   r.get(fieldDepartment),
		}
		if er.EmployeeID == "" || er.FullName == "" || er.Email == "" ||
			(er.DepartmentID == "" && er.Department == "") {
			dropped++
			continue
		}
		out = append(out, er)
	}
	return out, dropped, nil
}

// DepartmentRefs lists the numeric ids and names the rows refer to, for a
// single batched lookup.
func DepartmentRefs(rows []EmployeeRow) (ids []uint, names []string) {
	for _, r := range rows {
		if id, ok := parseID(r.DepartmentID); ok {
			ids = append(ids, id)
		}
		if r.Department != "" {
			names = append(names, r.Department)
		}
	}
	return ids, names
}

// ResolveDepartments binds each row to an existing department, by numeric
// id first and then by exact name. Unresolvable rows are dropped.
func ResolveDepartments(rows []EmployeeRow, departments []model.Department) (inputs []model.EmployeeInput, dropped int) {
	byID := make(map[uint]bool, len(departments))
	byName := make(map[string]uint, len(departments))
	for _, d := range departments {
		byID[d.ID] = true
		byName[d.Name] = d.ID
	}

	for _, r := range rows {
		var departmentID uint
		if id, ok := parseID(r.DepartmentID); ok && byID[id] {
			departmentID = id
		} else if id, ok := byName[r.Department]; ok && r.Department != "" {
			departmentID = id
		}
		if departmentID == 0 {
			dropped++
			continue
		}
		inputs = append(inputs, model.EmployeeInput{
			EmployeeID:   r.EmployeeID,
			FullName:     r.FullName,
			Email:        r.Email,
			DepartmentID: departmentID,
		})
	}
	return inputs, dropped
}

func parseID(s string) (uint, bool) {
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
