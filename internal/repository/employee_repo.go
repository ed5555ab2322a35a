package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hahnsoftware/emp-records-api/internal/models"
)

// EmployeeFilter narrows employee list queries.
type EmployeeFilter struct {
	Page         int
	PageSize     int
	Search       string
	DepartmentID *uint
	Status       string
	HiredFrom    *time.Time
	HiredTo      *time.Time
}

// EmployeeRepository persists employee records.
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Employee, error)
	FindByUsername(ctx context.Context, username string) (*models.Employee, error)
	FindByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, int64, error)
	CountByDepartment(ctx context.Context, departmentID uint) (int64, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id uint) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	WithTx(tx *gorm.DB) EmployeeRepository
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository constructs the employee repository.
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) WithTx(tx *gorm.DB) EmployeeRepository {
	if tx == nil {
		return r
	}
	return &employeeRepository{db: tx}
}

func (r *employeeRepository) FindByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Preload("Department").First(&employee, id).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindByUsername(ctx context.Context, username string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Preload("Department").Where("username = ?", username).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Preload("Department").Where("employee_id = ?", employeeID).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Employee{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name LIKE ? OR employee_id LIKE ?", pattern, pattern)
	}

	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.HiredFrom != nil {
		query = query.Where("hire_date >= ?", *filter.HiredFrom)
	}

	if filter.HiredTo != nil {
		query = query.Where("hire_date <= ?", *filter.HiredTo)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var employees []models.Employee
	if err := query.Preload("Department").Order("created_at DESC").Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) CountByDepartment(ctx context.Context, departmentID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("department_id = ?", departmentID).Count(&total).Error
	return total, err
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	result := r.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", employee.ID).
		Select("EmployeeID", "FullName", "Username", "Role", "JobTitle", "DepartmentID",
			"HireDate", "Status", "Email", "Phone", "Address").
		Updates(employee)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Employee{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	result := r.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
