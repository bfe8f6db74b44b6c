package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/cforclown/school-admin/internal/events"
)

// RoleCache drops cached role lookups.
type RoleCache interface {
	Invalidate(ctx context.Context, ids ...string) error
}

// AuditService records domain events and keeps the permission cache coherent.
type AuditService struct {
	dispatcher events.Dispatcher
	cache      RoleCache
	logger     *zap.Logger
}

// NewAuditService creates the service. cache may be nil.
func NewAuditService(dispatcher events.Dispatcher, cache RoleCache, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{dispatcher: dispatcher, cache: cache, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventUserCreated,
		events.EventUserRoleChanged,
		events.EventUserArchived,
		events.EventStudentCreated,
		events.EventStudentUpdated,
		events.EventStudentArchived,
	} {
		a.dispatcher.Subscribe(eventType, a.handleRecord)
	}
	for _, eventType := range events.RoleEvents() {
		a.dispatcher.Subscribe(eventType, a.handleRoleChanged)
	}
}

func (a *AuditService) handleRecord(_ context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("entity_id", event.EntityID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleRoleChanged(ctx context.Context, event events.Event) error {
	_ = a.handleRecord(ctx, event)
	if a.cache == nil {
		return nil
	}
	ids := []string{event.EntityID}
	if payload, ok := event.Payload.(events.DefaultChangedPayload); ok && payload.PreviousRoleID != "" {
		ids = append(ids, payload.PreviousRoleID)
	}
	return a.cache.Invalidate(ctx, ids...)
}
