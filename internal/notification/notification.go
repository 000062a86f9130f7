// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/zhubert/recall/internal/logger"
)

// AppName is the title used for recall notifications.
const AppName = "Recall"

// notifyFunc matches beeep.Notify so tests can swap it out.
type notifyFunc func(title, message string, icon any) error

var notify notifyFunc = beeep.Notify

// SetNotifier replaces the notification backend. Used by tests.
func SetNotifier(fn func(title, message string, icon any) error) {
	notify = fn
}

// ResetNotifier restores the beeep backend.
func ResetNotifier() {
	notify = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title, "message", message)
	// Empty icon lets beeep pick the platform default
	err := notify(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// SessionsUnavailable tells the user the session list could not be loaded.
func SessionsUnavailable(reason string) error {
	msg := "Couldn't load sessions"
	if reason != "" {
		msg += ": " + reason
	}
	return Send(AppName, msg)
}
