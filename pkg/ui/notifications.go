package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"cardfetch/pkg/harvester"
)

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// Notifier sends one desktop notification when a run finishes. It implements
// harvester.Observer and ignores every other event.
type Notifier struct {
	sender NotificationSender
}

// NewNotifier picks the sender for the current platform. On platforms
// without one, notifications are silently skipped.
func NewNotifier() *Notifier {
	var sender NotificationSender
	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	}
	return &Notifier{sender: sender}
}

// NewNotifierWithSender creates a Notifier that delivers through sender
func NewNotifierWithSender(sender NotificationSender) *Notifier {
	return &Notifier{sender: sender}
}

func (n *Notifier) CatalogFetched(state harvester.RunState, batches int)            {}
func (n *Notifier) ItemDone(state harvester.RunState, outcome harvester.ItemOutcome) {}
func (n *Notifier) BatchPaused(batch, batches int, delay time.Duration)             {}

// RunFinished sends the summary. Delivery errors are ignored.
func (n *Notifier) RunFinished(report *harvester.Report) {
	if n.sender == nil {
		return
	}
	_ = n.sender.Send("cardfetch: "+report.State.String(), Summary(report))
}

// Summary is a one-line description of report
func Summary(report *harvester.Report) string {
	switch report.State {
	case harvester.Aborted:
		if report.Err != nil {
			return "Run aborted: " + report.Err.Error()
		}
		return "Run aborted"
	case harvester.Cancelled:
		return fmt.Sprintf("Stopped after %d of %d cards, %d failed", report.Processed, report.Total, report.Failed)
	default:
		return fmt.Sprintf("%d of %d cards downloaded, %d failed", report.Succeeded, report.Total, report.Failed)
	}
}
