package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hahnsoftware/emp-records-api/internal/dto"
	"github.com/hahnsoftware/emp-records-api/internal/models"
	"github.com/hahnsoftware/emp-records-api/internal/observability"
	"github.com/hahnsoftware/emp-records-api/internal/repository"
)

const revokedTokenKeyPrefix = "revoked_token:"

// TokenRevocations answers whether a token id has been revoked by logout.
type TokenRevocations interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService verifies credentials and manages bearer tokens.
type AuthService interface {
	TokenRevocations
	Authenticate(ctx context.Context, username, password string) (*models.Employee, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type authService struct {
	employees repository.EmployeeRepository
	sessions  *redis.Client
	validator *validator.Validate
	secret    string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService constructs the authentication service.
func NewAuthService(
	employees repository.EmployeeRepository,
	sessions *redis.Client,
	validator *validator.Validate,
	secret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		employees: employees,
		sessions:  sessions,
		validator: validator,
		secret:    secret,
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

// Authenticate looks the principal up by exact username and compares the
// supplied password against the stored bcrypt hash. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.Employee, error) {
	employee, err := s.employees.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.AuthFailures().Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		observability.AuthFailures().Inc()
		return nil, ErrInvalidCredentials
	}

	return employee, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, &ValidationError{Messages: validationMessages(err)}
	}

	employee, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", employee.ID),
		"username": employee.Username,
		"role":     string(employee.Role),
		"jti":      uuid.NewString(),
		"iat":      time.Now().Unix(),
		"exp":      expiresAt.Unix(),
	}
	if employee.DepartmentID != nil {
		claims["department_id"] = float64(*employee.DepartmentID)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Str("username", employee.Username).Msg("login succeeded")

	return dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt.Unix(),
		Employee:  dto.NewEmployeeResponse(*employee),
	}, nil
}

// Logout revokes the token id until its natural expiry. Expired tokens need
// no revocation entry.
func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	return s.sessions.Set(ctx, revokedTokenKeyPrefix+tokenID, "1", ttl).Err()
}

func (s *authService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	err := s.sessions.Get(ctx, revokedTokenKeyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
