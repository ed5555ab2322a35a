package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hahnsoftware/emp-records-api/internal/dto"
	"github.com/hahnsoftware/emp-records-api/internal/service"
	"github.com/hahnsoftware/emp-records-api/internal/utils"
)

// AuditHandler exposes the read side of the audit trail.
type AuditHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditHandler constructs an audit trail handler.
func NewAuditHandler(service service.AuditService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register wires audit trail routes.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}
	from, err := parseQueryDate(c, "start_date")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid start_date")
	}
	to, err := parseQueryDate(c, "end_date")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid end_date")
	}

	// end_date names a calendar day and is inclusive: widen it to midnight of
	// the following day, which the query treats as an exclusive bound.
	if to != nil {
		widened := to.AddDate(0, 0, 1)
		to = &widened
	}

	req := dto.AuditLogListRequest{
		EntityType: c.Query("entity_type"),
		Action:     c.Query("action"),
		From:       from,
		To:         to,
		Page:       page,
		PageSize:   pageSize,
	}

	response, err := h.service.Query(c.UserContext(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to query audit trail")
	}

	return utils.SendSuccess(c, "audit trail retrieved", response)
}
