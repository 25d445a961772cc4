package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/todo-service/internal/config"
	"github.com/spec-kit/todo-service/internal/events"
	"github.com/spec-kit/todo-service/internal/repository"
	apperrors "github.com/spec-kit/todo-service/pkg/util"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 60,
		BcryptCost:      bcrypt.MinCost,
	}
}

// eventRecorder collects published events by type.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newRecordingDispatcher(types ...events.EventType) (events.Dispatcher, *eventRecorder) {
	dispatcher := events.NewInMemoryDispatcher()
	rec := &eventRecorder{}
	for _, et := range types {
		dispatcher.Subscribe(et, rec.handle)
	}
	return dispatcher, rec
}

// countingThrottle allows max attempts per email until reset.
type countingThrottle struct {
	mu       sync.Mutex
	max      int
	attempts map[string]int
}

func newCountingThrottle(max int) *countingThrottle {
	return &countingThrottle{max: max, attempts: map[string]int{}}
}

func (t *countingThrottle) Attempt(_ context.Context, email string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := strings.ToLower(email)
	t.attempts[key]++
	return t.attempts[key] <= t.max, nil
}

func (t *countingThrottle) Reset(_ context.Context, email string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, strings.ToLower(email))
	return nil
}

type authFixture struct {
	svc   *AuthService
	users repository.UserRepository
	tasks repository.TaskRepository
	rec   *eventRecorder
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	tasks := repository.NewMemoryTaskRepository()
	dispatcher, rec := newRecordingDispatcher(
		events.EventUserSignedUp,
		events.EventUserLoggedIn,
		events.EventUserLoginFailed,
		events.EventUserProfileUpdated,
		events.EventUserPasswordChanged,
		events.EventUserDeleted,
	)
	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		UserRepo:   users,
		TaskRepo:   tasks,
		Dispatcher: dispatcher,
	})
	return &authFixture{svc: svc, users: users, tasks: tasks, rec: rec}
}

func requireDomainError(t *testing.T, err error, status int) *apperrors.DomainError {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	require.Equal(t, status, domainErr.HTTPStatus, domainErr.Message)
	return domainErr
}
