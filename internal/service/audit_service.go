package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/todo-service/internal/events"
	"github.com/spec-kit/todo-service/internal/observability"
)

// AuditService writes an audit log line for account and task events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to every event; unknown types are ignored.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.SubscribeAll(a.handle)
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventUserSignedUp, events.EventUserLoggedIn, events.EventUserProfileUpdated,
		events.EventUserPasswordChanged, events.EventUserDeleted:
		return a.handleAccountEvent(ctx, event)
	case events.EventUserLoginFailed:
		return a.handleLoginFailed(ctx, event)
	case events.EventTaskCreated, events.EventTaskUpdated, events.EventTaskDeleted:
		return a.handleTaskEvent(ctx, event)
	}
	return nil
}

func (a *AuditService) handleAccountEvent(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.LoginFailedPayload)
	a.logger.Warn(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("email", observability.MaskEmail(payload.Email)),
		zap.Bool("throttled", payload.Throttled))
	return nil
}

func (a *AuditService) handleTaskEvent(_ context.Context, event events.Event) error {
	a.logger.Debug(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.Any("payload", event.Payload))
	return nil
}
