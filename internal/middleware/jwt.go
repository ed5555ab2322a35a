package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hahnsoftware/emp-records-api/internal/service"
	"github.com/hahnsoftware/emp-records-api/internal/utils"
)

// Local keys populated for downstream handlers.
const (
	LocalUserID         = "user_id"
	LocalUsername       = "username"
	LocalUserRole       = "user_role"
	LocalTokenID        = "token_id"
	LocalTokenExpiresAt = "token_expires_at"
)

// JWTProtected validates the bearer token. Tokens revoked by logout are
// rejected even before their natural expiry.
func JWTProtected(secret string, revocations service.TokenRevocations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		userID := extractUserIDFromClaims(claims)
		if userID == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}
		c.Locals(LocalUserID, *userID)

		if username, ok := claims["username"].(string); ok && username != "" {
			c.Locals(LocalUsername, username)
		}
		if role, ok := claims["role"].(string); ok && role != "" {
			c.Locals(LocalUserRole, role)
		}

		if tokenID, ok := claims["jti"].(string); ok && tokenID != "" {
			if revocations != nil {
				revoked, err := revocations.IsTokenRevoked(c.UserContext(), tokenID)
				if err != nil {
					return utils.SendError(c, fiber.StatusInternalServerError, "session lookup failed")
				}
				if revoked {
					return utils.SendError(c, fiber.StatusUnauthorized, "token revoked")
				}
			}
			c.Locals(LocalTokenID, tokenID)
		}

		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			c.Locals(LocalTokenExpiresAt, exp.Time)
		} else {
			c.Locals(LocalTokenExpiresAt, time.Time{})
		}

		return c.Next()
	}
}

func extractUserIDFromClaims(claims jwt.MapClaims) *uint {
	keys := []string{"sub", "user_id", "id"}
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if normalized, err := normalizeUserID(value); err == nil {
				return &normalized
			}
		}
	}

	return nil
}

func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}
