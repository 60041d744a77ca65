package coordinator

import (
	"go.uber.org/zap"

	"user-console/prometheus"
)

// Kind classifies a notification for the presentation collaborator.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is one user-visible feedback event. Notifications never
// influence record store state.
type Notification struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Notifier receives notification events. Implementations render them
// however they like (toasts in the browser, log lines on the server).
type Notifier interface {
	Notify(kind Kind, message string)
}

// LogNotifier writes notifications to the service log.
type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) Notify(kind Kind, message string) {
	prometheus.IncNotification(string(kind))
	switch kind {
	case KindError:
		n.Log.Error(message)
	default:
		n.Log.Info(message, zap.String("kind", string(kind)))
	}
}
