package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRoleCreated        EventType = "role.created"
	EventRoleUpdated        EventType = "role.updated"
	EventRoleArchived       EventType = "role.archived"
	EventRoleDefaultChanged EventType = "role.default_changed"
	EventUserCreated        EventType = "user.created"
	EventUserRoleChanged    EventType = "user.role_changed"
	EventUserArchived       EventType = "user.archived"
	EventStudentCreated     EventType = "student.created"
	EventStudentUpdated     EventType = "student.updated"
	EventStudentArchived    EventType = "student.archived"
)

// RoleEvents lists every event that changes what a role grants.
func RoleEvents() []EventType {
	return []EventType{EventRoleCreated, EventRoleUpdated, EventRoleArchived, EventRoleDefaultChanged}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	EntityID  string    `json:"entity_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, entityID, actorID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// DefaultChangedPayload payload.
type DefaultChangedPayload struct {
	PreviousRoleID string `json:"previous_role_id,omitempty"`
}

// RoleChangedPayload payload.
type RoleChangedPayload struct {
	OldRoleID string `json:"old_role_id"`
	NewRoleID string `json:"new_role_id"`
}
