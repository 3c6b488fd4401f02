// Package calendar projects tasks with a due date onto calendar events and
// computes the month and week grids around a view anchor.
package calendar

import (
	"time"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/query"
)

const (
	colorUrgent  = "#ef4444"
	colorHigh    = "#f97316"
	colorMedium  = "#eab308"
	colorLow     = "#22c55e"
	colorDefault = "#6b7280"
)

// PriorityColor maps a priority to its display colour.
func PriorityColor(p domain.Priority) string {
	switch p {
	case domain.PriorityUrgent:
		return colorUrgent
	case domain.PriorityHigh:
		return colorHigh
	case domain.PriorityMedium:
		return colorMedium
	case domain.PriorityLow:
		return colorLow
	default:
		return colorDefault
	}
}

// EventID is the event identifier derived from a task id.
func EventID(taskID string) string {
	return "task-" + taskID
}

// FolderLookup resolves a folder by id.
type FolderLookup func(id string) (domain.Folder, bool)

// Project emits one all-day event per task that has a due date. The event
// takes its folder's colour when it has one, else the priority colour.
func Project(tasks []domain.Task, folders FolderLookup) []domain.CalendarEvent {
	events := make([]domain.CalendarEvent, 0, len(tasks))
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		color := PriorityColor(t.Priority)
		if t.FolderID != "" && folders != nil {
			if f, ok := folders(t.FolderID); ok && f.Color != "" {
				color = f.Color
			}
		}
		events = append(events, domain.CalendarEvent{
			ID:          EventID(t.ID),
			TaskID:      t.ID,
			Title:       t.Title,
			Description: t.Description,
			StartDate:   *t.DueDate,
			AllDay:      true,
			Color:       color,
			Priority:    t.Priority,
			Status:      t.Status,
			FolderID:    t.FolderID,
		})
	}
	return events
}

// EventsForDate returns the visible events whose start falls on the same
// calendar day as date in loc.
func EventsForDate(events []domain.CalendarEvent, date time.Time, f domain.CalendarFilters, loc *time.Location) []domain.CalendarEvent {
	day := StartOfDay(date, loc)
	onDay := query.Filter(events, func(e domain.CalendarEvent) bool {
		return StartOfDay(e.StartDate, loc).Equal(day)
	})
	return query.Events(onDay, f)
}

// EventsForRange returns the visible events with start in [start, end].
// Bounds are compared as given, without truncation.
func EventsForRange(events []domain.CalendarEvent, start, end time.Time, f domain.CalendarFilters) []domain.CalendarEvent {
	inRange := query.Filter(events, func(e domain.CalendarEvent) bool {
		return !e.StartDate.Before(start) && !e.StartDate.After(end)
	})
	return query.Events(inRange, f)
}
