package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserSignedUp        EventType = "user_signed_up"
	EventUserLoggedIn        EventType = "user_logged_in"
	EventUserLoginFailed     EventType = "user_login_failed"
	EventUserProfileUpdated  EventType = "user_profile_updated"
	EventUserPasswordChanged EventType = "user_password_changed"
	EventUserDeleted         EventType = "user_deleted"
	EventTaskCreated         EventType = "task_created"
	EventTaskUpdated         EventType = "task_updated"
	EventTaskDeleted         EventType = "task_deleted"
)

// Event represents a domain event emitted by services. Payloads never carry
// passwords, hashes or tokens.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// ProfileUpdatedPayload lists which profile fields changed.
type ProfileUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// LoginFailedPayload describes a rejected login.
type LoginFailedPayload struct {
	Email     string `json:"email"`
	Throttled bool   `json:"throttled"`
}

// TaskPayload identifies the task an event is about.
type TaskPayload struct {
	TaskID string `json:"task_id"`
	Status string `json:"status,omitempty"`
}
