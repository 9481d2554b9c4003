package model

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// DateLayout is the only accepted attendance date format
const DateLayout = "2006-01-02"

// Outcome tags which branch a reconciliation took
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Attendance is one employee's status for one day; (employee_id, date) is unique.
type Attendance struct {
	ID         uint   `json:"id" gorm:"primarykey"`
	EmployeeID string `json:"employee_id" gorm:"column:employee_id;type:text;not null;index;uniqueIndex:uq_employee_date,priority:1"`
	Date       string `json:"date" gorm:"type:text;not null;uniqueIndex:uq_employee_date,priority:2"`
	Status     string `json:"status" gorm:"type:text;not null"`
}

func (Attendance) TableName() string {
	return "attendance"
}

// AttendanceResponse is an attendance row with denormalized names
type AttendanceResponse struct {
	ID             uint    `json:"id"`
	Date           string  `json:"date"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   *string `json:"employee_name"`
	DepartmentName *string `json:"department_name"`
	Status         string  `json:"status"`
}

// AttendanceSummaryItem is the per-employee day count
type AttendanceSummaryItem struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	PresentDays  int    `json:"present_days"`
	AbsentDays   int    `json:"absent_days"`
}

// BulkResult is the only feedback a bulk call gives about its items
type BulkResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Total is the number of items the call accounted for
func (r BulkResult) Total() int {
	return r.Created + r.Updated + r.Failed
}
