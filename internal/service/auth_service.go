package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/todo-service/internal/auth"
	"github.com/spec-kit/todo-service/internal/config"
	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/events"
	"github.com/spec-kit/todo-service/internal/repository"
	apperrors "github.com/spec-kit/todo-service/pkg/util"
)

const (
	msgBadCredentials     = "incorrect email or password"
	msgWrongCurrent       = "your current password is wrong"
	msgTooManyAttempts    = "too many failed login attempts, try again later"
	msgSessionUserMissing = "you are not logged in"
)

// AuthService coordinates signup, login and account maintenance.
type AuthService struct {
	store      *CredentialStore
	tasks      repository.TaskRepository
	tokenMgr   *auth.TokenManager
	throttle   auth.LoginThrottle
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	TaskRepo   repository.TaskRepository
	Throttle   auth.LoginThrottle
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service from process-wide auth settings.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	throttle := deps.Throttle
	if throttle == nil {
		throttle = auth.NopThrottle{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		store:      NewCredentialStore(deps.UserRepo, auth.NewPasswordHasher(cfg.BcryptCost)),
		tasks:      deps.TaskRepo,
		tokenMgr:   auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL()),
		throttle:   throttle,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Signup creates an account and returns it with a fresh token.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, domain.IssuedToken, error) {
	user, err := s.store.CreateUser(ctx, name, email, password)
	if err != nil {
		return nil, domain.IssuedToken{}, mapStoreError(err, "user")
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, domain.IssuedToken{}, err
	}
	s.publish(ctx, events.Event{Type: events.EventUserSignedUp, UserID: user.ID})
	return user, token, nil
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
// Every attempt is counted by the throttle before the password is checked.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.IssuedToken, error) {
	allowed, err := s.throttle.Attempt(ctx, email)
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
	}
	if !allowed {
		s.publish(ctx, events.Event{
			Type:    events.EventUserLoginFailed,
			Payload: events.LoginFailedPayload{Email: email, Throttled: true},
		})
		return nil, domain.IssuedToken{}, apperrors.NewTooManyRequests(msgTooManyAttempts)
	}

	user, ok, err := s.store.Authenticate(ctx, email, password)
	if err != nil {
		return nil, domain.IssuedToken{}, apperrors.NewInternalError(err)
	}
	if !ok {
		s.publish(ctx, events.Event{
			Type:    events.EventUserLoginFailed,
			Payload: events.LoginFailedPayload{Email: email},
		})
		return nil, domain.IssuedToken{}, apperrors.NewUnauthorized(msgBadCredentials)
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.logger.Warn("reset login failures", zap.Error(err))
	}
	token, err := s.issue(user.ID)
	if err != nil {
		return nil, domain.IssuedToken{}, err
	}
	s.publish(ctx, events.Event{Type: events.EventUserLoggedIn, UserID: user.ID})
	return user, token, nil
}

// Me returns the current profile.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err, "user")
	}
	return user, nil
}

// UpdateMe changes name and/or email of the caller.
func (s *AuthService) UpdateMe(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.store.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, mapStoreError(err, "user")
	}

	fields := make([]string, 0, 2)
	if update.Name != nil {
		fields = append(fields, "name")
	}
	if update.Email != nil {
		fields = append(fields, "email")
	}
	if len(fields) > 0 {
		s.publish(ctx, events.Event{
			Type:    events.EventUserProfileUpdated,
			UserID:  userID,
			Payload: events.ProfileUpdatedPayload{Fields: fields},
		})
	}
	return user, nil
}

// UpdatePassword replaces the password after checking the current one and
// returns a new token. Tokens issued before the change stay valid until they expire.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, next string) (domain.IssuedToken, error) {
	ok, err := s.store.VerifyPassword(ctx, userID, current)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.IssuedToken{}, apperrors.NewUnauthorized(msgSessionUserMissing)
		}
		return domain.IssuedToken{}, apperrors.NewInternalError(err)
	}
	if !ok {
		return domain.IssuedToken{}, apperrors.NewUnauthorized(msgWrongCurrent)
	}

	if err := s.store.UpdatePassword(ctx, userID, next); err != nil {
		return domain.IssuedToken{}, mapStoreError(err, "user")
	}

	token, err := s.issue(userID)
	if err != nil {
		return domain.IssuedToken{}, err
	}
	s.publish(ctx, events.Event{Type: events.EventUserPasswordChanged, UserID: userID})
	return token, nil
}

// DeleteMe removes the caller's tasks and account.
func (s *AuthService) DeleteMe(ctx context.Context, userID string) error {
	if s.tasks != nil {
		if err := s.tasks.DeleteAllForUser(ctx, userID); err != nil {
			return apperrors.NewInternalError(err)
		}
	}
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return mapStoreError(err, "user")
	}
	s.publish(ctx, events.Event{Type: events.EventUserDeleted, UserID: userID})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// CredentialStore exposes the store so the authorization gate can resolve identities.
func (s *AuthService) CredentialStore() *CredentialStore {
	return s.store
}

func (s *AuthService) issue(userID string) (domain.IssuedToken, error) {
	token, exp, err := s.tokenMgr.Issue(userID)
	if err != nil {
		return domain.IssuedToken{}, apperrors.NewInternalError(err)
	}
	return domain.IssuedToken{Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// mapStoreError converts repository and hashing failures into domain errors.
func mapStoreError(err error, resource string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperrors.NewDuplicateEmail()
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, auth.ErrEmptyPassword):
		return apperrors.NewValidationError("password is required", nil)
	case errors.Is(err, auth.ErrPasswordTooLong), errors.Is(err, bcrypt.ErrPasswordTooLong):
		return apperrors.NewValidationError("password must be at most 72 bytes", map[string]any{
			"fields": map[string]any{"password": "must be at most 72 bytes"},
		})
	default:
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) {
			return err
		}
		return apperrors.NewInternalError(err)
	}
}
