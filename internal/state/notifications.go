package state

import "github.com/fastygo/planner/domain"

// NotificationState is the notification slice. UnreadCount is always
// derived from Notifications.
type NotificationState struct {
	Notifications []domain.Notification
	Toasts        []domain.Toast
	Settings      domain.NotificationSettings
	UnreadCount   int
}

// NotificationAction is implemented by every action ReduceNotifications understands.
type NotificationAction interface {
	notificationAction()
}

type (
	SetNotifications struct{ Notifications []domain.Notification }
	// AddNotifications prepends in the given order, so the first element
	// ends up newest.
	AddNotifications   struct{ Notifications []domain.Notification }
	MarkAsRead         struct{ ID string }
	MarkAllAsRead      struct{}
	DeleteNotification struct{ ID string }
	UpdateSettings     struct{ Patch domain.SettingsPatch }
	AddToast           struct{ Toast domain.Toast }
	RemoveToast        struct{ ID string }
)

func (SetNotifications) notificationAction()   {}
func (AddNotifications) notificationAction()   {}
func (MarkAsRead) notificationAction()         {}
func (MarkAllAsRead) notificationAction()      {}
func (DeleteNotification) notificationAction() {}
func (UpdateSettings) notificationAction()     {}
func (AddToast) notificationAction()           {}
func (RemoveToast) notificationAction()        {}

// ReduceNotifications returns the state that results from applying action.
func ReduceNotifications(s NotificationState, action NotificationAction) NotificationState {
	switch a := action.(type) {
	case SetNotifications:
		s.Notifications = append([]domain.Notification{}, a.Notifications...)
	case AddNotifications:
		if len(a.Notifications) == 0 {
			break
		}
		next := make([]domain.Notification, 0, len(a.Notifications)+len(s.Notifications))
		next = append(next, a.Notifications...)
		s.Notifications = append(next, s.Notifications...)
	case MarkAsRead:
		next := make([]domain.Notification, len(s.Notifications))
		for i, n := range s.Notifications {
			if n.ID == a.ID {
				n.Read = true
			}
			next[i] = n
		}
		s.Notifications = next
	case MarkAllAsRead:
		next := make([]domain.Notification, len(s.Notifications))
		for i, n := range s.Notifications {
			n.Read = true
			next[i] = n
		}
		s.Notifications = next
	case DeleteNotification:
		next := make([]domain.Notification, 0, len(s.Notifications))
		for _, n := range s.Notifications {
			if n.ID != a.ID {
				next = append(next, n)
			}
		}
		s.Notifications = next
	case UpdateSettings:
		s.Settings = s.Settings.Apply(a.Patch)
	case AddToast:
		next := make([]domain.Toast, 0, len(s.Toasts)+1)
		next = append(next, s.Toasts...)
		s.Toasts = append(next, a.Toast)
	case RemoveToast:
		next := make([]domain.Toast, 0, len(s.Toasts))
		for _, t := range s.Toasts {
			if t.ID != a.ID {
				next = append(next, t)
			}
		}
		s.Toasts = next
	}
	s.UnreadCount = countUnread(s.Notifications)
	return s
}

func countUnread(ns []domain.Notification) int {
	n := 0
	for _, item := range ns {
		if !item.Read {
			n++
		}
	}
	return n
}
