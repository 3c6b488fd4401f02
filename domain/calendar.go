package domain

import "time"

// CalendarEvent is derived from a task with a due date. It is never stored.
type CalendarEvent struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"taskId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	AllDay      bool       `json:"allDay"`
	Color       string     `json:"color"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	FolderID    string     `json:"folderId,omitempty"`
}

// CalendarViewType selects the grid shown by the calendar.
type CalendarViewType string

const (
	ViewMonth CalendarViewType = "month"
	ViewWeek  CalendarViewType = "week"
)

// CalendarView is the current calendar anchor.
type CalendarView struct {
	Type CalendarViewType `json:"type"`
	Date time.Time        `json:"date"`
}

// CalendarFilters narrows the events shown. Completed events are hidden
// unless ShowCompleted is set.
type CalendarFilters struct {
	FolderID      string     `json:"folderId,omitempty"`
	Priority      Priority   `json:"priority,omitempty"`
	Status        TaskStatus `json:"status,omitempty"`
	ShowCompleted bool       `json:"showCompleted"`
}

// WeekDay is one cell of a calendar grid.
type WeekDay struct {
	Date           time.Time       `json:"date"`
	IsCurrentMonth bool            `json:"isCurrentMonth"`
	IsToday        bool            `json:"isToday"`
	Events         []CalendarEvent `json:"events"`
}

// CalendarMonth is a month grid split into Sunday-first weeks.
type CalendarMonth struct {
	Year  int         `json:"year"`
	Month time.Month  `json:"month"`
	Weeks [][]WeekDay `json:"weeks"`
}
