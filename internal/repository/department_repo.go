package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hahnsoftware/emp-records-api/internal/models"
)

// DepartmentRepository persists department records.
type DepartmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Department, error)
	FindByName(ctx context.Context, name string) (*models.Department, error)
	List(ctx context.Context) ([]models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id uint) error
	WithTx(tx *gorm.DB) DepartmentRepository
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository constructs the department repository.
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) WithTx(tx *gorm.DB) DepartmentRepository {
	if tx == nil {
		return r
	}
	return &departmentRepository{db: tx}
}

func (r *departmentRepository) FindByID(ctx context.Context, id uint) (*models.Department, error) {
	var department models.Department
	err := r.db.WithContext(ctx).Preload("Manager").First(&department, id).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) FindByName(ctx context.Context, name string) (*models.Department, error) {
	var department models.Department
	err := r.db.WithContext(ctx).Preload("Manager").Where("name = ?", name).First(&department).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	err := r.db.WithContext(ctx).Preload("Manager").Order("name ASC").Find(&departments).Error
	if err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *departmentRepository) Create(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *departmentRepository) Update(ctx context.Context, department *models.Department) error {
	result := r.db.WithContext(ctx).Model(&models.Department{}).Where("id = ?", department.ID).
		Select("Name", "ManagerID").
		Updates(department)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Department{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
