package service

import (
	"context"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hahnsoftware/emp-records-api/internal/authz"
	"github.com/hahnsoftware/emp-records-api/internal/dto"
	"github.com/hahnsoftware/emp-records-api/internal/models"
	"github.com/hahnsoftware/emp-records-api/internal/observability"
	"github.com/hahnsoftware/emp-records-api/internal/repository"
)

// AuditEntry captures the details of one mutation for the audit trail. The
// actor is resolved from the request context at record time.
type AuditEntry struct {
	Action     models.AuditAction
	EntityType models.AuditEntity
	EntityID   uint
	Changes    string
}

// AuditRecorder appends immutable entries to the audit trail. Record runs
// inside the caller's transaction: a failed audit write rolls the mutation
// back, so no un-audited mutation is ever durably committed.
type AuditRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error
}

// AuditService exposes the audit trail recorder and its filtered query.
type AuditService interface {
	AuditRecorder
	Query(ctx context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error)
}

type auditService struct {
	repo      repository.AuditLogRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuditService constructs the audit trail service.
func NewAuditService(repo repository.AuditLogRepository, validator *validator.Validate, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error {
	model := models.AuditLog{
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Changes:    entry.Changes,
		Metadata:   datatypes.JSONMap{},
	}

	actor, ok := authz.ActorFromContext(ctx)
	if ok {
		model.ActorID = &actor.ID
		model.Metadata["actor_username"] = actor.Username
		model.Metadata["actor_role"] = string(actor.Role)
	} else {
		// Tolerated but suspicious: a mutation reached the recorder without an
		// authenticated actor bound to the request.
		s.logger.Warn().
			Str("action", string(entry.Action)).
			Str("entity_type", string(entry.EntityType)).
			Uint("entity_id", entry.EntityID).
			Msg("recording audit entry without an actor")
	}

	if err := s.repo.WithTx(tx).Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist audit entry")
		return err
	}

	observability.AuditEntries().WithLabelValues(string(entry.Action), string(entry.EntityType)).Inc()
	return nil
}

func (s *auditService) Query(ctx context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error) {
	actor, _ := authz.ActorFromContext(ctx)
	if !authz.CanViewAuditLog(actor) {
		return dto.AuditLogListResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.AuditLogListResponse{}, &ValidationError{Messages: validationMessages(err)}
	}

	filter := repository.AuditLogFilter{
		EntityType: req.EntityType,
		Action:     req.Action,
		From:       req.From,
		To:         req.To,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AuditLogListResponse{}, err
	}

	responses := make([]dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewAuditLogResponse(entry))
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

	return dto.AuditLogListResponse{Items: responses, Pagination: pagination}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
