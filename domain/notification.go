package domain

import "time"

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationTaskDue     NotificationType = "task-due"
	NotificationTaskOverdue NotificationType = "task-overdue"
	NotificationAchievement NotificationType = "achievement"
	NotificationSystem      NotificationType = "system"
	NotificationBlog        NotificationType = "blog"
	NotificationReminder    NotificationType = "reminder"
)

// NotificationMetadata links a notification to the entity it is about.
type NotificationMetadata struct {
	TaskID   string   `json:"taskId,omitempty" yaml:"taskId,omitempty"`
	BlogID   string   `json:"blogId,omitempty" yaml:"blogId,omitempty"`
	Priority Priority `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Notification is an in-app message.
type Notification struct {
	ID        string                `json:"id"`
	Type      NotificationType      `json:"type"`
	Title     string                `json:"title"`
	Message   string                `json:"message"`
	Read      bool                  `json:"read"`
	CreatedAt time.Time             `json:"createdAt"`
	ActionURL string                `json:"actionUrl,omitempty"`
	Metadata  *NotificationMetadata `json:"metadata,omitempty"`
}

// TaskID returns the task reference, or "" when there is none.
func (n Notification) TaskID() string {
	if n.Metadata == nil {
		return ""
	}
	return n.Metadata.TaskID
}

// NotificationSettings holds the user's notification preferences.
type NotificationSettings struct {
	TaskReminders            bool `json:"taskReminders"`
	OverdueAlerts            bool `json:"overdueAlerts"`
	AchievementNotifications bool `json:"achievementNotifications"`
	BlogUpdates              bool `json:"blogUpdates"`
	SystemUpdates            bool `json:"systemUpdates"`
	EmailNotifications       bool `json:"emailNotifications"`
	PushNotifications        bool `json:"pushNotifications"`
	// ReminderTime is the due-soon window in hours.
	ReminderTime int `json:"reminderTime"`
}

// DefaultNotificationSettings returns the out-of-the-box preferences.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		TaskReminders:            true,
		OverdueAlerts:            true,
		AchievementNotifications: true,
		BlogUpdates:              true,
		SystemUpdates:            true,
		EmailNotifications:       false,
		PushNotifications:        true,
		ReminderTime:             24,
	}
}

// ReminderWindow converts ReminderTime to a duration.
func (s NotificationSettings) ReminderWindow() time.Duration {
	return time.Duration(s.ReminderTime) * time.Hour
}

// SettingsPatch updates a subset of the settings.
type SettingsPatch struct {
	TaskReminders            *bool
	OverdueAlerts            *bool
	AchievementNotifications *bool
	BlogUpdates              *bool
	SystemUpdates            *bool
	EmailNotifications       *bool
	PushNotifications        *bool
	ReminderTime             *int
}

// Apply merges p onto s.
func (s NotificationSettings) Apply(p SettingsPatch) NotificationSettings {
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setBool(&s.TaskReminders, p.TaskReminders)
	setBool(&s.OverdueAlerts, p.OverdueAlerts)
	setBool(&s.AchievementNotifications, p.AchievementNotifications)
	setBool(&s.BlogUpdates, p.BlogUpdates)
	setBool(&s.SystemUpdates, p.SystemUpdates)
	setBool(&s.EmailNotifications, p.EmailNotifications)
	setBool(&s.PushNotifications, p.PushNotifications)
	if p.ReminderTime != nil {
		s.ReminderTime = *p.ReminderTime
	}
	return s
}

// ToastType selects the toast style.
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastWarning ToastType = "warning"
	ToastInfo    ToastType = "info"
)

// Toast is a transient user-visible message that dismisses itself.
type Toast struct {
	ID       string        `json:"id"`
	Type     ToastType     `json:"type"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}
