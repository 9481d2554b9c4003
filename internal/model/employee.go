package model

import "strings"

// Employee belongs to exactly one department and owns its attendance rows.
// EmployeeID is the caller-facing natural key.
type Employee struct {
	ID           uint         `json:"id" gorm:"primarykey"`
	EmployeeID   string       `json:"employee_id" gorm:"column:employee_id;type:text;not null;uniqueIndex"`
	FullName     string       `json:"full_name" gorm:"type:text;not null"`
	Email        string       `json:"email" gorm:"type:text;not null;uniqueIndex"`
	DepartmentID uint         `json:"department_id" gorm:"not null;index"`
	Department   *Department  `json:"-" gorm:"constraint:OnDelete:NO ACTION"`
	Attendance   []Attendance `json:"-" gorm:"foreignKey:EmployeeID;references:EmployeeID;constraint:OnDelete:CASCADE"`
}

// EmployeeResponse carries the department name alongside the employee
type EmployeeResponse struct {
	ID             uint   `json:"id"`
	EmployeeID     string `json:"employee_id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	DepartmentID   uint   `json:"department_id"`
	DepartmentName string `json:"department_name"`
}

func (e Employee) Response(departmentName string) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		FullName:       e.FullName,
		Email:          e.Email,
		DepartmentID:   e.DepartmentID,
		DepartmentName: departmentName,
	}
}

func (e Employee) Summary() EmployeeSummary {
	return EmployeeSummary{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FullName:   e.FullName,
		Email:      e.Email,
	}
}

// EmployeeInput is a create candidate before normalization
type EmployeeInput struct {
	EmployeeID   string
	FullName     string
	Email        string
	DepartmentID uint
}

// Normalized trims every field and lower-cases the email
func (in EmployeeInput) Normalized() EmployeeInput {
	return EmployeeInput{
		EmployeeID:   strings.TrimSpace(in.EmployeeID),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		DepartmentID: in.DepartmentID,
	}
}
