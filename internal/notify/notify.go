// Package notify models the transient notifications shown after user actions.
package notify

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind selects the notification styling.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

const (
	// AdminDismiss is the auto-dismiss delay used by the admin console.
	AdminDismiss = 4 * time.Second
	// SiteDismiss is the auto-dismiss delay used by the public site.
	SiteDismiss = 5 * time.Second
)

// Notification is a transient message rendered as a toast.
type Notification struct {
	ID           string
	Kind         Kind
	Message      string
	DismissAfter time.Duration
}

// New builds a notification with a fresh ULID.
func New(kind Kind, message string, dismissAfter time.Duration) Notification {
	return Notification{
		ID:           ulid.MustNew(ulid.Now(), rand.Reader).String(),
		Kind:         kind,
		Message:      message,
		DismissAfter: dismissAfter,
	}
}

// Success is shorthand for a success notification.
func Success(message string, dismissAfter time.Duration) Notification {
	return New(KindSuccess, message, dismissAfter)
}

// Error is shorthand for an error notification.
func Error(message string, dismissAfter time.Duration) Notification {
	return New(KindError, message, dismissAfter)
}

// Info is shorthand for an informational notification.
func Info(message string, dismissAfter time.Duration) Notification {
	return New(KindInfo, message, dismissAfter)
}

// DismissMillis is the delay in milliseconds for the data-dismiss attribute.
func (n Notification) DismissMillis() int64 {
	return n.DismissAfter.Milliseconds()
}
