package models

import "time"

// Role enumerates the access levels an employee account can hold.
type Role string

const (
	RoleEmployee      Role = "EMPLOYEE"
	RoleManager       Role = "MANAGER"
	RoleHRPersonnel   Role = "HR_PERSONNEL"
	RoleAdministrator Role = "ADMINISTRATOR"
)

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHRPersonnel, RoleAdministrator:
		return true
	}
	return false
}

// EmploymentStatus enumerates the lifecycle states of an employee record.
type EmploymentStatus string

const (
	StatusActive   EmploymentStatus = "ACTIVE"
	StatusInactive EmploymentStatus = "INACTIVE"
	StatusOnLeave  EmploymentStatus = "ON_LEAVE"
)

// Valid reports whether the status is one of the enumerated values.
func (s EmploymentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnLeave:
		return true
	}
	return false
}

// Employee is both the personnel record and the authentication principal.
// Credentials and role live on the employee row; there is no separate user table.
type Employee struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	EmployeeID   string           `gorm:"size:20;uniqueIndex;not null" json:"employee_id"`
	FullName     string           `gorm:"size:100;not null" json:"full_name"`
	Username     string           `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string           `gorm:"size:100;not null" json:"-"`
	Role         Role             `gorm:"size:32;not null" json:"role"`
	JobTitle     string           `gorm:"size:100;not null" json:"job_title"`
	DepartmentID *uint            `json:"department_id"`
	Department   *Department      `json:"department,omitempty"`
	HireDate     time.Time        `gorm:"not null" json:"hire_date"`
	Status       EmploymentStatus `gorm:"size:16;not null" json:"status"`
	Email        string           `gorm:"size:255;not null" json:"email"`
	Phone        string           `gorm:"size:32" json:"phone"`
	Address      string           `gorm:"size:255" json:"address"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// DepartmentName returns the department name or "None" when unassigned.
func (e Employee) DepartmentName() string {
	if e.Department == nil {
		return "None"
	}
	return e.Department.Name
}
