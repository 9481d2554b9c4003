package model

// Department groups employees. Names are unique as stored (trimmed, case preserved).
type Department struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"type:text;not null;uniqueIndex"`
}

// DepartmentResponse is returned after creating a department
type DepartmentResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// EmployeeSummary is the nested employee view under a department
type EmployeeSummary struct {
	ID         uint   `json:"id"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
}

// DepartmentWithEmployees is one row of the department listing
type DepartmentWithEmployees struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	Employees []EmployeeSummary `json:"employees"`
}

func (d Department) Response() DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Name: d.Name}
}
