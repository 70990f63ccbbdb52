package dto

import "time"

// Lifecycle event keys published to the user topic.
const (
	EventUserRegistered      = "user.registered"
	EventUserPasswordChanged = "user.password_changed"
	EventUserDeleted         = "user.deleted"
)

type UserEvent struct {
	EventID    string    `json:"event_id"`
	UserID     uint      `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
