package domain

import "time"

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

const DefaultNotificationTTL = 3 * time.Second

// Notification is a transient message for the user. The presentation layer
// owns its lifetime.
type Notification struct {
	Message string           `json:"message"`
	Kind    NotificationKind `json:"kind"`
	TTL     time.Duration    `json:"-"`
}
