// Package notify derives due-soon and overdue notifications from tasks.
package notify

import (
	"fmt"
	"math"
	"time"

	"github.com/fastygo/planner/domain"
)

const (
	titleOverdue = "Task Overdue"
	titleDueSoon = "Task Due Soon"
)

// IDFunc produces notification identifiers.
type IDFunc func() string

// Scan returns the notifications a check at now should add, newest first
// so they can be prepended as one batch. A (type, task) pair already
// present in existing never triggers again. Scan does not modify its
// inputs.
func Scan(tasks []domain.Task, existing []domain.Notification, settings domain.NotificationSettings, now time.Time, ids IDFunc) []domain.Notification {
	if !settings.TaskReminders && !settings.OverdueAlerts {
		return nil
	}

	seen := make(map[key]bool, len(existing))
	for _, n := range existing {
		if id := n.TaskID(); id != "" {
			seen[key{n.Type, id}] = true
		}
	}

	window := settings.ReminderWindow()
	var emitted []domain.Notification
	emit := func(kind domain.NotificationType, t domain.Task, title, message string) {
		k := key{kind, t.ID}
		if seen[k] {
			return
		}
		seen[k] = true
		emitted = append(emitted, domain.Notification{
			ID:        ids(),
			Type:      kind,
			Title:     title,
			Message:   message,
			CreatedAt: now,
			Metadata:  &domain.NotificationMetadata{TaskID: t.ID, Priority: t.Priority},
		})
	}

	for _, t := range tasks {
		if t.DueDate == nil || t.IsCompleted() {
			continue
		}
		until := t.DueDate.Sub(now)
		switch {
		case settings.OverdueAlerts && until < 0:
			emit(domain.NotificationTaskOverdue, t, titleOverdue,
				fmt.Sprintf("Your task \"%s\" is now overdue", t.Title))
		case settings.TaskReminders && until > 0 && until <= window:
			emit(domain.NotificationTaskDue, t, titleDueSoon, dueSoonMessage(t.Title, until))
		}
	}

	for i, j := 0, len(emitted)-1; i < j; i, j = i+1, j-1 {
		emitted[i], emitted[j] = emitted[j], emitted[i]
	}
	return emitted
}

type key struct {
	kind   domain.NotificationType
	taskID string
}

// HasNotification reports whether existing holds a notification of kind for taskID.
func HasNotification(existing []domain.Notification, kind domain.NotificationType, taskID string) bool {
	for _, n := range existing {
		if n.Type == kind && n.TaskID() == taskID {
			return true
		}
	}
	return false
}

func dueSoonMessage(title string, until time.Duration) string {
	hours := int(math.Ceil(until.Hours()))
	unit := "hours"
	if hours == 1 {
		unit = "hour"
	}
	return fmt.Sprintf("Your task \"%s\" is due in %d %s", title, hours, unit)
}
