package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hahnsoftware/emp-records-api/internal/authz"
	"github.com/hahnsoftware/emp-records-api/internal/repository"
	"github.com/hahnsoftware/emp-records-api/internal/utils"
)

// LoadActor resolves the authenticated principal to its current employee
// record and binds it into the request context. Role and department come from
// the database, not the token, so revoked privileges take effect immediately.
func LoadActor(employees repository.EmployeeRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(LocalUserID).(uint)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		employee, err := employees.FindByID(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.SendError(c, fiber.StatusUnauthorized, "account no longer exists")
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to resolve account")
		}

		actor := authz.Actor{
			ID:           employee.ID,
			Username:     employee.Username,
			Role:         employee.Role,
			DepartmentID: employee.DepartmentID,
		}
		c.SetUserContext(authz.WithActor(c.UserContext(), actor))

		return c.Next()
	}
}
