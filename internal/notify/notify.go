package notify

import (
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/dori/mindlist/internal/model"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier sends desktop notifications, gated by the user's notification
// settings.
type Notifier struct {
	mu       sync.Mutex
	settings model.NotificationSettings
}

// NewNotifier creates a notifier with the given settings
func NewNotifier(settings model.NotificationSettings) *Notifier {
	return &Notifier{settings: settings}
}

// SetSettings replaces the notification settings
func (n *Notifier) SetSettings(settings model.NotificationSettings) {
	n.mu.Lock()
	n.settings = settings
	n.mu.Unlock()
}

// Settings returns the current notification settings
func (n *Notifier) Settings() model.NotificationSettings {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.settings
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.Settings().Enabled {
		return nil
	}

	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Timeout in milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "mindlist")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	cmd := exec.Command("notify-send", args...)
	return cmd.Run()
}

// SendDueReminder sends a task due reminder, honoring the task-reminder toggle
func (n *Notifier) SendDueReminder(task model.Task) error {
	if !n.Settings().TaskReminders {
		return nil
	}

	var body string
	dueIn := time.Duration(0)
	if task.DueDate != nil {
		dueIn = time.Until(*task.DueDate)
	}
	if dueIn <= 0 {
		body = "Task is now overdue!"
	} else if dueIn < time.Hour {
		body = "Task due in less than an hour"
	} else {
		body = "Task due soon"
	}

	urgency := UrgencyNormal
	if dueIn <= 0 || task.Priority == model.PriorityUrgent {
		urgency = UrgencyCritical
	}

	return n.Send(Notification{
		Title:   task.Title,
		Body:    body,
		Urgency: urgency,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	})
}

// SendStreakAlert warns that today's streak is still unearned
func (n *Notifier) SendStreakAlert(streak int) error {
	if !n.Settings().StreakAlerts {
		return nil
	}
	return n.Send(Notification{
		Title:   "Keep your streak alive",
		Body:    "Complete a task today to keep your " + strconv.Itoa(streak) + "-day streak going",
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "alarm-symbolic",
	})
}
