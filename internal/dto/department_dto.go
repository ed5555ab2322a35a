package dto

import (
	"time"

	"github.com/hahnsoftware/emp-records-api/internal/models"
)

// DepartmentResponse serializes a department record.
type DepartmentResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	ManagerID *uint     `json:"manager_id"`
	Manager   string    `json:"manager,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DepartmentListResponse wraps the department directory.
type DepartmentListResponse struct {
	Items []DepartmentResponse `json:"items"`
}

// DepartmentCreateRequest carries the payload for creating a department.
type DepartmentCreateRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	ManagerID *uint  `json:"manager_id"`
}

// DepartmentUpdateRequest carries the payload for updating a department.
type DepartmentUpdateRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	ManagerID *uint  `json:"manager_id"`
}

// NewDepartmentResponse maps a model to its response shape.
func NewDepartmentResponse(d models.Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:        d.ID,
		Name:      d.Name,
		ManagerID: d.ManagerID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Manager != nil {
		resp.Manager = d.Manager.FullName
	}
	return resp
}
