package model

import "time"

const (
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionBulkCreate = "bulk_create"
	ActionSeed       = "seed"

	EntityDepartment = "department"
	EntityEmployee   = "employee"
	EntityAttendance = "attendance"
)

// AdminLog is an append-only record of a mutating action. EntityID is a
// denormalized identifier, not a live reference.
type AdminLog struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;index"`
	Action     string    `json:"action" gorm:"type:text;not null;index"`
	EntityType string    `json:"entity_type" gorm:"type:text;not null;index"`
	EntityID   *string   `json:"entity_id" gorm:"type:text"`
	Details    *string   `json:"details" gorm:"type:text"`
}

// AdminLogFilter narrows the audit listing
type AdminLogFilter struct {
	EntityType string
	Action     string
	Limit      int
	Offset     int
}

// AttendanceFilter bounds the attendance listing by inclusive dates
type AttendanceFilter struct {
	DateFrom string
	DateTo   string
}

// Models lists every table in migration order
func Models() []interface{} {
	return []interface{}{&Department{}, &Employee{}, &Attendance{}, &AdminLog{}}
}
