package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hahnsoftware/emp-records-api/internal/authz"
	"github.com/hahnsoftware/emp-records-api/internal/models"
	"github.com/hahnsoftware/emp-records-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func ptrUint(v uint) *uint {
	return &v
}

func actorContext(id uint, role models.Role, departmentID *uint) context.Context {
	return authz.WithActor(context.Background(), authz.Actor{
		ID:           id,
		Username:     "actor",
		Role:         role,
		DepartmentID: departmentID,
	})
}

type memoryTxRunner struct{}

func (memoryTxRunner) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type memoryEmployeeRepo struct {
	nextID    uint
	employees map[uint]models.Employee
}

func newMemoryEmployeeRepo() *memoryEmployeeRepo {
	return &memoryEmployeeRepo{employees: map[uint]models.Employee{}}
}

func (m *memoryEmployeeRepo) WithTx(*gorm.DB) repository.EmployeeRepository { return m }

func (m *memoryEmployeeRepo) FindByID(_ context.Context, id uint) (*models.Employee, error) {
	employee, ok := m.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &employee, nil
}

func (m *memoryEmployeeRepo) FindByUsername(_ context.Context, username string) (*models.Employee, error) {
	for _, employee := range m.employees {
		if employee.Username == username {
			e := employee
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryEmployeeRepo) FindByEmployeeID(_ context.Context, employeeID string) (*models.Employee, error) {
	for _, employee := range m.employees {
		if employee.EmployeeID == employeeID {
			e := employee
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryEmployeeRepo) List(_ context.Context, filter repository.EmployeeFilter) ([]models.Employee, int64, error) {
	var result []models.Employee
	for _, employee := range m.employees {
		if filter.Search != "" && !strings.Contains(employee.FullName, filter.Search) {
			continue
		}
		if filter.Status != "" && string(employee.Status) != filter.Status {
			continue
		}
		result = append(result, employee)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, int64(len(result)), nil
}

func (m *memoryEmployeeRepo) CountByDepartment(_ context.Context, departmentID uint) (int64, error) {
	var total int64
	for _, employee := range m.employees {
		if employee.DepartmentID != nil && *employee.DepartmentID == departmentID {
			total++
		}
	}
	return total, nil
}

func (m *memoryEmployeeRepo) Create(_ context.Context, employee *models.Employee) error {
	m.nextID++
	employee.ID = m.nextID
	employee.CreatedAt = time.Now()
	m.employees[employee.ID] = *employee
	return nil
}

func (m *memoryEmployeeRepo) Update(_ context.Context, employee *models.Employee) error {
	if _, ok := m.employees[employee.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.employees[employee.ID] = *employee
	return nil
}

func (m *memoryEmployeeRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.employees[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.employees, id)
	return nil
}

func (m *memoryEmployeeRepo) UpdatePasswordHash(_ context.Context, id uint, hash string) error {
	employee, ok := m.employees[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	employee.PasswordHash = hash
	m.employees[id] = employee
	return nil
}

type memoryDepartmentRepo struct {
	nextID      uint
	departments map[uint]models.Department
}

func newMemoryDepartmentRepo() *memoryDepartmentRepo {
	return &memoryDepartmentRepo{departments: map[uint]models.Department{}}
}

func (m *memoryDepartmentRepo) WithTx(*gorm.DB) repository.DepartmentRepository { return m }

func (m *memoryDepartmentRepo) FindByID(_ context.Context, id uint) (*models.Department, error) {
	department, ok := m.departments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &department, nil
}

func (m *memoryDepartmentRepo) FindByName(_ context.Context, name string) (*models.Department, error) {
	for _, department := range m.departments {
		if department.Name == name {
			d := department
			return &d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryDepartmentRepo) List(_ context.Context) ([]models.Department, error) {
	var result []models.Department
	for _, department := range m.departments {
		result = append(result, department)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *memoryDepartmentRepo) Create(_ context.Context, department *models.Department) error {
	m.nextID++
	department.ID = m.nextID
	department.CreatedAt = time.Now()
	m.departments[department.ID] = *department
	return nil
}

func (m *memoryDepartmentRepo) Update(_ context.Context, department *models.Department) error {
	if _, ok := m.departments[department.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.departments[department.ID] = *department
	return nil
}

func (m *memoryDepartmentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.departments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.departments, id)
	return nil
}

type memoryAuditRepo struct {
	nextID  uint
	entries []models.AuditLog
}

func (m *memoryAuditRepo) WithTx(*gorm.DB) repository.AuditLogRepository { return m }

func (m *memoryAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	m.nextID++
	entry.ID = m.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryAuditRepo) List(_ context.Context, filter repository.AuditLogFilter) ([]models.AuditLog, int64, error) {
	var result []models.AuditLog
	for _, entry := range m.entries {
		if filter.EntityType != "" && string(entry.EntityType) != filter.EntityType {
			continue
		}
		if filter.Action != "" && string(entry.Action) != filter.Action {
			continue
		}
		if filter.From != nil && entry.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !entry.CreatedAt.Before(*filter.To) {
			continue
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, int64(len(result)), nil
}

func newTestFixture(t *testing.T) (*memoryEmployeeRepo, *memoryDepartmentRepo, *memoryAuditRepo, EmployeeService, DepartmentService) {
	t.Helper()

	employees := newMemoryEmployeeRepo()
	departments := newMemoryDepartmentRepo()
	auditRepo := &memoryAuditRepo{}
	validate := newValidator()
	recorder := NewAuditService(auditRepo, validate, testLogger())

	employeeSvc := NewEmployeeService(memoryTxRunner{}, employees, departments, recorder, validate, 10, testLogger())
	departmentSvc := NewDepartmentService(memoryTxRunner{}, departments, employees, recorder, validate, testLogger())

	return employees, departments, auditRepo, employeeSvc, departmentSvc
}
