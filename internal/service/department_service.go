package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hahnsoftware/emp-records-api/internal/audit"
	"github.com/hahnsoftware/emp-records-api/internal/authz"
	"github.com/hahnsoftware/emp-records-api/internal/dto"
	"github.com/hahnsoftware/emp-records-api/internal/models"
	"github.com/hahnsoftware/emp-records-api/internal/repository"
)

// DepartmentService orchestrates department mutations with the same policy,
// transaction and audit discipline as the employee service.
type DepartmentService interface {
	List(ctx context.Context) (dto.DepartmentListResponse, error)
	Get(ctx context.Context, id uint) (dto.DepartmentResponse, error)
	Create(ctx context.Context, req dto.DepartmentCreateRequest) (dto.DepartmentResponse, error)
	Update(ctx context.Context, id uint, req dto.DepartmentUpdateRequest) (dto.DepartmentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type departmentService struct {
	tx          repository.TxRunner
	departments repository.DepartmentRepository
	employees   repository.EmployeeRepository
	audit       AuditRecorder
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewDepartmentService constructs the department service.
func NewDepartmentService(
	tx repository.TxRunner,
	departments repository.DepartmentRepository,
	employees repository.EmployeeRepository,
	recorder AuditRecorder,
	validator *validator.Validate,
	logger zerolog.Logger,
) DepartmentService {
	return &departmentService{
		tx:          tx,
		departments: departments,
		employees:   employees,
		audit:       recorder,
		validator:   validator,
		logger:      logger.With().Str("component", "department_service").Logger(),
	}
}

func (s *departmentService) List(ctx context.Context) (dto.DepartmentListResponse, error) {
	actor, _ := authz.ActorFromContext(ctx)
	if !authz.CanViewDepartments(actor) {
		return dto.DepartmentListResponse{}, ErrPermissionDenied
	}

	departments, err := s.departments.List(ctx)
	if err != nil {
		return dto.DepartmentListResponse{}, err
	}

	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, department := range departments {
		items = append(items, dto.NewDepartmentResponse(department))
	}
	return dto.DepartmentListResponse{Items: items}, nil
}

func (s *departmentService) Get(ctx context.Context, id uint) (dto.DepartmentResponse, error) {
	actor, _ := authz.ActorFromContext(ctx)
	if !authz.CanViewDepartments(actor) {
		return dto.DepartmentResponse{}, ErrPermissionDenied
	}

	department, err := s.departments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartmentResponse{}, ErrDepartmentNotFound
		}
		return dto.DepartmentResponse{}, err
	}
	return dto.NewDepartmentResponse(*department), nil
}

func (s *departmentService) Create(ctx context.Context, req dto.DepartmentCreateRequest) (dto.DepartmentResponse, error) {
	actor, _ := authz.ActorFromContext(ctx)
	if !authz.CanManageDepartments(actor) {
		return dto.DepartmentResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.DepartmentResponse{}, &ValidationError{Messages: validationMessages(err)}
	}

	if err := s.checkNameAvailable(ctx, req.Name, 0); err != nil {
		return dto.DepartmentResponse{}, err
	}

	manager, err := s.resolveManager(ctx, req.ManagerID)
	if err != nil {
		return dto.DepartmentResponse{}, err
	}

	department := models.Department{
		Name:      req.Name,
		ManagerID: req.ManagerID,
		Manager:   manager,
	}

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.departments.WithTx(tx).Create(ctx, &department); err != nil {
			return err
		}

		changes := audit.DepartmentCreated(department)
		return s.audit.Record(ctx, tx, AuditEntry{
			Action:     models.AuditActionCreate,
			EntityType: models.AuditEntityDepartment,
			EntityID:   department.ID,
			Changes:    changes.String(),
		})
	})
	if err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("failed to create department")
		return dto.DepartmentResponse{}, err
	}

	return dto.NewDepartmentResponse(department), nil
}

func (s *departmentService) Update(ctx context.Context, id uint, req dto.DepartmentUpdateRequest) (dto.DepartmentResponse, error) {
	existing, err := s.departments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartmentResponse{}, ErrDepartmentNotFound
		}
		return dto.DepartmentResponse{}, err
	}

	actor, _ := authz.ActorFromContext(ctx)
	if !authz.CanManageDepartments(actor) {
		return dto.DepartmentResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.DepartmentResponse{}, &ValidationError{Messages: validationMessages(err)}
	}

	if err := s.checkNameAvailable(ctx, req.Name, existing.ID); err != nil {
		return dto.DepartmentResponse{}, err
	}

	manager, err := s.resolveManager(ctx, req.ManagerID)
	if err != nil {
		return dto.DepartmentResponse{}, err
	}

	updated := models.Department{
		ID:        existing.ID,
		Name:      req.Name,
		ManagerID: req.ManagerID,
		Manager:   manager,
		CreatedAt: existing.CreatedAt,
	}

	changes := audit.DepartmentUpdated(*existing, updated)

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.departments.WithTx(tx).Update(ctx, &updated); err != nil {
			return err
		}

		if changes.Empty() {
			return nil
		}

		return s.audit.Record(ctx, tx, AuditEntry{
			Action:     models.AuditActionUpdate,
			EntityType: models.AuditEntityDepartment,
			EntityID:   updated.ID,
			Changes:    changes.String(),
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartmentResponse{}, ErrDepartmentNotFound
		}
		s.logger.Error().Err(err).Uint("id", id).Msg("failed to update department")
		return dto.DepartmentResponse{}, err
	}

	return dto.NewDepartmentResponse(updated), nil
}

func (s *departmentService) Delete(ctx context.Context, id uint) error {
	actor, _ := authz.ActorFromContext(ctx)
	if !authz.CanManageDepartments(actor) {
		return ErrPermissionDenied
	}

	existing, err := s.departments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}

	assigned, err := s.employees.CountByDepartment(ctx, id)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return ErrDepartmentNotEmpty
	}

	changes := audit.DepartmentDeleted(*existing)

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.departments.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}

		return s.audit.Record(ctx, tx, AuditEntry{
			Action:     models.AuditActionDelete,
			EntityType: models.AuditEntityDepartment,
			EntityID:   existing.ID,
			Changes:    changes.String(),
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error().Err(err).Uint("id", id).Msg("failed to delete department")
		return err
	}

	return nil
}

func (s *departmentService) checkNameAvailable(ctx context.Context, name string, selfID uint) error {
	existing, err := s.departments.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrDepartmentNameTaken
	}
	return nil
}

// resolveManager loads the referenced manager so audit text can name them.
// A department's manager, when set, must reference an existing employee.
func (s *departmentService) resolveManager(ctx context.Context, managerID *uint) (*models.Employee, error) {
	if managerID == nil {
		return nil, nil
	}
	manager, err := s.employees.FindByID(ctx, *managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return manager, nil
}
