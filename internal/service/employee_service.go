package service

import (
	"context"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hahnsoftware/emp-records-api/internal/audit"
	"github.com/hahnsoftware/emp-records-api/internal/authz"
	"github.com/hahnsoftware/emp-records-api/internal/dto"
	"github.com/hahnsoftware/emp-records-api/internal/models"
	"github.com/hahnsoftware/emp-records-api/internal/repository"
)

// EmployeeService orchestrates employee mutations: policy gate, transactional
// persistence, and the audit write, in that order.
type EmployeeService interface {
	List(ctx context.Context, req dto.EmployeeListRequest) (dto.EmployeeListResponse, error)
	Get(ctx context.Context, id uint) (dto.EmployeeResponse, error)
	Create(ctx context.Context, req dto.EmployeeCreateRequest) (dto.EmployeeResponse, error)
	Update(ctx context.Context, id uint, req dto.EmployeeUpdateRequest) (dto.EmployeeResponse, error)
	Delete(ctx context.Context, id uint) error
	ChangePassword(ctx context.Context, id uint, req dto.ChangePasswordRequest) error
}

type employeeService struct {
	tx          repository.TxRunner
	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
	audit       AuditRecorder
	validator   *validator.Validate
	bcryptCost  int
	logger      zerolog.Logger
}

// NewEmployeeService constructs the employee service.
func NewEmployeeService(
	tx repository.TxRunner,
	employees repository.EmployeeRepository,
	departments repository.DepartmentRepository,
	recorder AuditRecorder,
	validator *validator.Validate,
	bcryptCost int,
	logger zerolog.Logger,
) EmployeeService {
	if bcryptCost < bcrypt.DefaultCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &employeeService{
		tx:          tx,
		employees:   employees,
		departments: departments,
		audit:       recorder,
		validator:   validator,
		bcryptCost:  bcryptCost,
		logger:      logger.With().Str("component", "employee_service").Logger(),
	}
}

func (s *employeeService) List(ctx context.Context, req dto.EmployeeListRequest) (dto.EmployeeListResponse, error) {
	actor, _ := authz.ActorFromContext(ctx)
	if !authz.CanViewEmployees(actor) {
		return dto.EmployeeListResponse{}, ErrPermissionDenied
	}

	filter := repository.EmployeeFilter{
		Page:         req.Page,
		PageSize:     req.PageSize,
		Search:       req.Search,
		DepartmentID: req.DepartmentID,
		Status:       req.Status,
		HiredFrom:    req.HiredFrom,
		HiredTo:      req.HiredTo,
	}

	employees, total, err := s.employees.List(ctx, filter)
	if err != nil {
		return dto.EmployeeListResponse{}, err
	}

	items := make([]dto.EmployeeResponse, 0, len(employees))
	for _, employee := range employees {
		items = append(items, dto.NewEmployeeResponse(employee))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.EmployeeListResponse{Items: items, Pagination: pagination}, nil
}

func (s *employeeService) Get(ctx context.Context, id uint) (dto.EmployeeResponse, error) {
	actor, _ := authz.ActorFromContext(ctx)
	if !authz.CanViewEmployees(actor) {
		return dto.EmployeeResponse{}, ErrPermissionDenied
	}

	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrEmployeeNotFound
		}
		return dto.EmployeeResponse{}, err
	}

	if !authz.CanViewEmployee(actor, *employee) {
		return dto.EmployeeResponse{}, ErrPermissionDenied
	}

	return dto.NewEmployeeResponse(*employee), nil
}

func (s *employeeService) Create(ctx context.Context, req dto.EmployeeCreateRequest) (dto.EmployeeResponse, error) {
	actor, _ := authz.ActorFromContext(ctx)
	if !authz.CanCreateEmployee(actor) {
		return dto.EmployeeResponse{}, ErrPermissionDenied
	}

	var messages []string
	if err := s.validator.Struct(req); err != nil {
		messages = validationMessages(err)
	}

	hireDate, messages := parseHireDate(req.HireDate, messages)
	if len(messages) > 0 {
		return dto.EmployeeResponse{}, &ValidationError{Messages: messages}
	}

	department, err := s.departments.FindByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrDepartmentNotFound
		}
		return dto.EmployeeResponse{}, err
	}

	if err := s.checkUnique(ctx, req.Username, req.EmployeeID, 0); err != nil {
		return dto.EmployeeResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return dto.EmployeeResponse{}, err
	}

	employee := models.Employee{
		EmployeeID:   req.EmployeeID,
		FullName:     req.FullName,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         models.Role(req.Role),
		JobTitle:     req.JobTitle,
		DepartmentID: &department.ID,
		Department:   department,
		HireDate:     hireDate,
		Status:       models.EmploymentStatus(req.Status),
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
	}

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.employees.WithTx(tx).Create(ctx, &employee); err != nil {
			return err
		}

		changes := audit.EmployeeCreated(employee)
		return s.audit.Record(ctx, tx, AuditEntry{
			Action:     models.AuditActionCreate,
			EntityType: models.AuditEntityEmployee,
			EntityID:   employee.ID,
			Changes:    changes.String(),
		})
	})
	if err != nil {
		s.logger.Error().Err(err).Str("employee_id", req.EmployeeID).Msg("failed to create employee")
		return dto.EmployeeResponse{}, err
	}

	return dto.NewEmployeeResponse(employee), nil
}

func (s *employeeService) Update(ctx context.Context, id uint, req dto.EmployeeUpdateRequest) (dto.EmployeeResponse, error) {
	// The pre-mutation snapshot is loaded before the instance-level gate:
	// a manager's update permission depends on the target's current department.
	existing, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrEmployeeNotFound
		}
		return dto.EmployeeResponse{}, err
	}

	actor, _ := authz.ActorFromContext(ctx)
	if !authz.CanUpdateEmployee(actor, *existing) {
		return dto.EmployeeResponse{}, ErrPermissionDenied
	}

	var messages []string
	if err := s.validator.Struct(req); err != nil {
		messages = validationMessages(err)
	}

	hireDate, messages := parseHireDate(req.HireDate, messages)
	if len(messages) > 0 {
		return dto.EmployeeResponse{}, &ValidationError{Messages: messages}
	}

	department, err := s.departments.FindByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrDepartmentNotFound
		}
		return dto.EmployeeResponse{}, err
	}

	if err := s.checkUnique(ctx, req.Username, req.EmployeeID, existing.ID); err != nil {
		return dto.EmployeeResponse{}, err
	}

	updated := models.Employee{
		ID:           existing.ID,
		EmployeeID:   req.EmployeeID,
		FullName:     req.FullName,
		Username:     req.Username,
		PasswordHash: existing.PasswordHash,
		Role:         models.Role(req.Role),
		JobTitle:     req.JobTitle,
		DepartmentID: &department.ID,
		Department:   department,
		HireDate:     hireDate,
		Status:       models.EmploymentStatus(req.Status),
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		CreatedAt:    existing.CreatedAt,
	}

	changes := audit.EmployeeUpdated(*existing, updated)

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.employees.WithTx(tx).Update(ctx, &updated); err != nil {
			return err
		}

		// A no-op update commits but leaves no audit trail entry.
		if changes.Empty() {
			return nil
		}

		return s.audit.Record(ctx, tx, AuditEntry{
			Action:     models.AuditActionUpdate,
			EntityType: models.AuditEntityEmployee,
			EntityID:   updated.ID,
			Changes:    changes.String(),
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrEmployeeNotFound
		}
		s.logger.Error().Err(err).Uint("id", id).Msg("failed to update employee")
		return dto.EmployeeResponse{}, err
	}

	return dto.NewEmployeeResponse(updated), nil
}

func (s *employeeService) Delete(ctx context.Context, id uint) error {
	actor, _ := authz.ActorFromContext(ctx)
	if !authz.CanDeleteEmployee(actor) {
		return ErrPermissionDenied
	}

	// Pre-deletion snapshot feeds the audit change description.
	existing, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}

	changes := audit.EmployeeDeleted(*existing)

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.employees.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}

		return s.audit.Record(ctx, tx, AuditEntry{
			Action:     models.AuditActionDelete,
			EntityType: models.AuditEntityEmployee,
			EntityID:   existing.ID,
			Changes:    changes.String(),
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		s.logger.Error().Err(err).Uint("id", id).Msg("failed to delete employee")
		return err
	}

	return nil
}

func (s *employeeService) ChangePassword(ctx context.Context, id uint, req dto.ChangePasswordRequest) error {
	existing, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}

	// Employees may rotate their own password; otherwise the update rules apply.
	actor, _ := authz.ActorFromContext(ctx)
	if actor.ID != existing.ID && !authz.CanUpdateEmployee(actor, *existing) {
		return ErrPermissionDenied
	}

	if err := s.validator.Struct(req); err != nil {
		return &ValidationError{Messages: validationMessages(err)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return err
	}

	return s.employees.UpdatePasswordHash(ctx, id, string(hash))
}

func (s *employeeService) checkUnique(ctx context.Context, username, employeeID string, selfID uint) error {
	if existing, err := s.employees.FindByUsername(ctx, username); err == nil {
		if existing.ID != selfID {
			return ErrUsernameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing, err := s.employees.FindByEmployeeID(ctx, employeeID); err == nil {
		if existing.ID != selfID {
			return ErrEmployeeIDTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return nil
}
