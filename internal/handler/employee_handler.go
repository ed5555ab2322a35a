package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hahnsoftware/emp-records-api/internal/dto"
	"github.com/hahnsoftware/emp-records-api/internal/service"
	"github.com/hahnsoftware/emp-records-api/internal/utils"
)

// EmployeeHandler exposes the employee records API.
type EmployeeHandler struct {
	service service.EmployeeService
	logger  zerolog.Logger
}

// NewEmployeeHandler constructs an employee handler.
func NewEmployeeHandler(service service.EmployeeService, logger zerolog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		logger:  logger.With().Str("component", "employee_handler").Logger(),
	}
}

// Register wires employee routes.
func (h *EmployeeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Put("/:id/password", h.changePassword)
}

func (h *EmployeeHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}
	departmentID, err := parseQueryUint(c, "department_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid department_id")
	}
	hiredFrom, err := parseQueryDate(c, "hired_from")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid hired_from date")
	}
	hiredTo, err := parseQueryDate(c, "hired_to")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid hired_to date")
	}

	req := dto.EmployeeListRequest{
		Page:         page,
		PageSize:     pageSize,
		Search:       c.Query("search"),
		DepartmentID: departmentID,
		Status:       c.Query("status"),
		HiredFrom:    hiredFrom,
		HiredTo:      hiredTo,
	}

	response, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list employees")
	}

	return utils.SendSuccess(c, "employees retrieved", response)
}

func (h *EmployeeHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	response, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load employee")
	}

	return utils.SendSuccess(c, "employee retrieved", response)
}

func (h *EmployeeHandler) create(c *fiber.Ctx) error {
	var payload dto.EmployeeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create employee")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "employee created", response)
}

func (h *EmployeeHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	var payload dto.EmployeeUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Update(c.UserContext(), id, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update employee")
	}

	return utils.SendSuccess(c, "employee updated", response)
}

func (h *EmployeeHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete employee")
	}

	return utils.SendSuccess(c, "employee deleted", nil)
}

func (h *EmployeeHandler) changePassword(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.ChangePassword(c.UserContext(), id, payload); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to change password")
	}

	return utils.SendSuccess(c, "password updated", nil)
}
