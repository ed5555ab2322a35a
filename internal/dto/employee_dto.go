package dto

import (
	"time"

	"github.com/hahnsoftware/emp-records-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// EmployeeListRequest defines filters for listing employees.
type EmployeeListRequest struct {
	Page         int
	PageSize     int
	Search       string
	DepartmentID *uint
	Status       string
	HiredFrom    *time.Time
	HiredTo      *time.Time
}

// EmployeeResponse serializes an employee record. Credentials never leave the service.
type EmployeeResponse struct {
	ID           uint       `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	FullName     string     `json:"full_name"`
	Username     string     `json:"username"`
	Role         string     `json:"role"`
	JobTitle     string     `json:"job_title"`
	DepartmentID *uint      `json:"department_id"`
	Department   string     `json:"department,omitempty"`
	HireDate     string     `json:"hire_date"`
	Status       string     `json:"status"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Address      string     `json:"address,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// EmployeeListResponse wraps a paginated employee response.
type EmployeeListResponse struct {
	Items      []EmployeeResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// EmployeeCreateRequest carries the payload for creating an employee.
type EmployeeCreateRequest struct {
	EmployeeID   string `json:"employee_id" validate:"required,max=20"`
	FullName     string `json:"full_name" validate:"required,max=100"`
	Username     string `json:"username" validate:"required,max=50"`
	Password     string `json:"password" validate:"required,min=8"`
	Role         string `json:"role" validate:"required,oneof=EMPLOYEE MANAGER HR_PERSONNEL ADMINISTRATOR"`
	JobTitle     string `json:"job_title" validate:"required,max=100"`
	DepartmentID uint   `json:"department_id" validate:"required"`
	HireDate     string `json:"hire_date" validate:"required"`
	Status       string `json:"status" validate:"required,oneof=ACTIVE INACTIVE ON_LEAVE"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,max=32"`
	Address      string `json:"address" validate:"omitempty,max=255"`
}

// EmployeeUpdateRequest carries the payload for updating an employee.
type EmployeeUpdateRequest struct {
	EmployeeID   string `json:"employee_id" validate:"required,max=20"`
	FullName     string `json:"full_name" validate:"required,max=100"`
	Username     string `json:"username" validate:"required,max=50"`
	Role         string `json:"role" validate:"required,oneof=EMPLOYEE MANAGER HR_PERSONNEL ADMINISTRATOR"`
	JobTitle     string `json:"job_title" validate:"required,max=100"`
	DepartmentID uint   `json:"department_id" validate:"required"`
	HireDate     string `json:"hire_date" validate:"required"`
	Status       string `json:"status" validate:"required,oneof=ACTIVE INACTIVE ON_LEAVE"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,max=32"`
	Address      string `json:"address" validate:"omitempty,max=255"`
}

// ChangePasswordRequest carries the payload for a password change.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// NewEmployeeResponse maps a model to its response shape.
func NewEmployeeResponse(e models.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           e.ID,
		EmployeeID:   e.EmployeeID,
		FullName:     e.FullName,
		Username:     e.Username,
		Role:         string(e.Role),
		JobTitle:     e.JobTitle,
		DepartmentID: e.DepartmentID,
		HireDate:     e.HireDate.Format("2006-01-02"),
		Status:       string(e.Status),
		Email:        e.Email,
		Phone:        e.Phone,
		Address:      e.Address,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.Department != nil {
		resp.Department = e.Department.Name
	}
	return resp
}
