package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// Store is the persistence the auth service needs
type Store interface {
	CreateWithProfile(ctx context.Context, name, email, passwordHash string, role contracts.Role) (*contracts.Session, error)
	GetByEmail(ctx context.Context, email string) (*contracts.User, error)
	GetByID(ctx context.Context, id int64) (*contracts.User, error)
	ProfileIDs(ctx context.Context, userID int64) (companyID, contractorID *int64, err error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// LoginLimiter throttles login attempts per key
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Service implements signup, login and password changes
// ⭐ SSOT: 비밀번호 해시/검증은 여기서만
type Service struct {
	store      Store
	limiter    LoginLimiter
	bcryptCost int
	logger     *logger.Logger
}

// NewService creates a new auth service. limiter may be nil.
func NewService(store Store, limiter LoginLimiter, bcryptCost int, log *logger.Logger) *Service {
	return &Service{
		store:      store,
		limiter:    limiter,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// SignupInput is the payload of POST /api/auth/signup
type SignupInput struct {
	Name     string         `json:"name" validate:"required,max=255"`
	Email    string         `json:"email" validate:"required,email,max=255"`
	Password string         `json:"password" validate:"required,min=8,max=72"`
	Role     contracts.Role `json:"role" validate:"required,oneof=company contractor"`
}

// Signup hashes the password and creates the account with its profile row
func (s *Service) Signup(ctx context.Context, in SignupInput) (*contracts.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	session, err := s.store.CreateWithProfile(ctx, strings.TrimSpace(in.Name), normalizeEmail(in.Email), string(hash), in.Role)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": session.User.ID,
		"role":    session.User.Role,
	}).Info("User signed up")

	return session, nil
}

// Login verifies credentials. Unknown email and wrong password both return
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*contracts.Session, error) {
	email = normalizeEmail(email)

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			// 리미터 장애 시 로그인 자체는 허용
			s.logger.WithError(err).Warn("Login rate limiter unavailable")
		} else if !allowed {
			return nil, contracts.ErrTooManyAttempts
		}
	}

	user, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, contracts.ErrNotFound) {
		return nil, contracts.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, contracts.ErrInvalidCredentials
	}

	companyID, contractorID, err := s.store.ProfileIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &contracts.Session{
		User:         *user,
		CompanyID:    companyID,
		ContractorID: contractorID,
	}, nil
}

// ChangePassword replaces the password after checking the old one
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return contracts.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.store.UpdatePassword(ctx, userID, string(hash))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
