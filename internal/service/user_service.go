package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/user-service/internal/auth"
	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/events"
	"github.com/spec-kit/user-service/internal/repository"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Address   domain.Address
}

// UpdateProfileInput carries a partial profile update. Nil fields are left
// untouched; a provided address merges field-wise into the stored one.
type UpdateProfileInput struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	ProfileImage *string
	Address      *domain.Address
}

// UserPage is one page of an admin user listing.
type UserPage struct {
	Users       []*domain.User
	TotalUsers  int64
	TotalPages  int
	CurrentPage int
}

// UserService coordinates registration, login, profile and admin flows.
type UserService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	limiter    *LoginLimiter
	dispatcher events.Dispatcher
	bcryptCost int
}

// UserDependencies encapsulates collaborator requirements.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Limiter    *LoginLimiter
	Dispatcher events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	return &UserService{
		users:      deps.UserRepo,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *UserService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Register creates a new account and issues its first token.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Address:      input.Address,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// backstop for the unique index racing the lookup above
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
		}
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Role:  user.Role,
	})

	token, exp, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates by email and password. Inactive accounts are rejected
// with 403 before the password is checked; unknown emails and bad passwords
// are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if s.limiter.TooManyFailures(ctx, email) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("too many failed login attempts, try again later")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, "", time.Time{}, err
	}

	if !user.IsActive {
		return nil, "", time.Time{}, apperrors.NewForbidden("account is deactivated")
	}

	if !auth.ComparePassword(user.PasswordHash, password) {
		s.limiter.RecordFailure(ctx, email)
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
	}
	s.limiter.Reset(ctx, email)

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	user.LastLogin = &now

	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserLoggedInPayload{Email: user.Email})

	token, exp, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// GetProfile returns the account for the given id.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial update to the caller's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.ProfileImage != nil {
		user.ProfileImage = *input.ProfileImage
	}
	if input.Address != nil {
		user.Address = mergeAddress(user.Address, *input.Address)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns a page of accounts, newest first.
func (s *UserService) ListUsers(ctx context.Context, page, limit int, filter repository.UserFilter) (*UserPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &UserPage{
		Users:       users,
		TotalUsers:  total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, nil
}

// DeleteUser removes an account. deletedBy records the acting admin.
func (s *UserService) DeleteUser(ctx context.Context, userID, deletedBy string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}

	s.publish(ctx, events.EventUserDeleted, userID, events.UserDeletedPayload{
		Email:     user.Email,
		DeletedBy: deletedBy,
	})
	return nil
}

// GetUserByID serves the service-token trust path.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.GetProfile(ctx, userID)
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func mergeAddress(current, update domain.Address) domain.Address {
	if update.Street != "" {
		current.Street = update.Street
	}
	if update.City != "" {
		current.City = update.City
	}
	if update.State != "" {
		current.State = update.State
	}
	if update.ZipCode != "" {
		current.ZipCode = update.ZipCode
	}
	if update.Country != "" {
		current.Country = update.Country
	}
	return current
}
