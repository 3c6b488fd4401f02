package calendar

import (
	"testing"
	"time"

	"github.com/fastygo/planner/domain"
)

func ptr(t time.Time) *time.Time { return &t }

func TestProjectColorsAndIDs(t *testing.T) {
	due := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{ID: "1", Title: "Colored folder", Priority: domain.PriorityLow, FolderID: "f1", DueDate: ptr(due)},
		{ID: "2", Title: "Plain folder", Priority: domain.PriorityUrgent, FolderID: "f2", DueDate: ptr(due)},
		{ID: "3", Title: "No due date", Priority: domain.PriorityHigh},
		{ID: "4", Title: "Unknown priority", Priority: "", DueDate: ptr(due)},
	}
	folders := map[string]domain.Folder{
		"f1": {ID: "f1", Color: "#123456"},
		"f2": {ID: "f2"},
	}
	lookup := func(id string) (domain.Folder, bool) {
		f, ok := folders[id]
		return f, ok
	}

	events := Project(tasks, lookup)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	tests := []struct {
		id    string
		color string
	}{
		{id: "task-1", color: "#123456"},
		{id: "task-2", color: "#ef4444"},
		{id: "task-4", color: "#6b7280"},
	}
	for i, tt := range tests {
		if events[i].ID != tt.id || events[i].Color != tt.color {
			t.Fatalf("event %d: got id=%s color=%s, want %s %s", i, events[i].ID, events[i].Color, tt.id, tt.color)
		}
		if !events[i].AllDay {
			t.Fatalf("event %d should be all day", i)
		}
	}
}

func TestEventsForDateTruncatesToDay(t *testing.T) {
	loc := time.UTC
	events := []domain.CalendarEvent{
		{ID: "task-1", StartDate: time.Date(2024, 3, 10, 23, 59, 0, 0, loc), Status: domain.StatusTodo},
		{ID: "task-2", StartDate: time.Date(2024, 3, 11, 0, 0, 0, 0, loc), Status: domain.StatusTodo},
		{ID: "task-3", StartDate: time.Date(2024, 3, 10, 8, 0, 0, 0, loc), Status: domain.StatusCompleted},
	}
	got := EventsForDate(events, time.Date(2024, 3, 10, 12, 0, 0, 0, loc), domain.CalendarFilters{}, loc)
	if len(got) != 1 || got[0].ID != "task-1" {
		t.Fatalf("unexpected events: %+v", got)
	}
	got = EventsForDate(events, time.Date(2024, 3, 10, 0, 0, 0, 0, loc), domain.CalendarFilters{ShowCompleted: true}, loc)
	if len(got) != 2 {
		t.Fatalf("expected completed event to be shown, got %d", len(got))
	}
}

func TestEventsForRangeInclusive(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	events := []domain.CalendarEvent{
		{ID: "start", StartDate: start},
		{ID: "end", StartDate: end},
		{ID: "before", StartDate: start.Add(-time.Minute)},
		{ID: "after", StartDate: end.Add(time.Minute)},
	}
	got := EventsForRange(events, start, end, domain.CalendarFilters{})
	if len(got) != 2 || got[0].ID != "start" || got[1].ID != "end" {
		t.Fatalf("unexpected range: %+v", got)
	}
}

func TestNavigator(t *testing.T) {
	nav := Navigator{Location: time.UTC}
	month := domain.CalendarView{Type: domain.ViewMonth, Date: time.Date(2024, 1, 31, 15, 0, 0, 0, time.UTC)}

	next := nav.Next(month)
	if !next.Date.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next month: %v", next.Date)
	}
	prev := nav.Previous(month)
	if !prev.Date.Equal(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected previous month: %v", prev.Date)
	}

	weekView := domain.CalendarView{Type: domain.ViewWeek, Date: time.Date(2024, 1, 31, 15, 0, 0, 0, time.UTC)}
	if got := nav.Next(weekView).Date; !got.Equal(weekView.Date.Add(7 * 24 * time.Hour)) {
		t.Fatalf("unexpected next week: %v", got)
	}
	if got := nav.Previous(weekView).Date; !got.Equal(weekView.Date.Add(-7 * 24 * time.Hour)) {
		t.Fatalf("unexpected previous week: %v", got)
	}

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := nav.Today(weekView, now); got.Type != domain.ViewWeek || !got.Date.Equal(now) {
		t.Fatalf("unexpected today view: %+v", got)
	}
}

func TestMonthGrid(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, loc)
	events := []domain.CalendarEvent{{ID: "task-1", StartDate: time.Date(2024, 3, 15, 18, 0, 0, 0, loc)}}

	grid := MonthGrid(now, events, domain.CalendarFilters{}, now, loc)
	if len(grid.Weeks) != 6 {
		t.Fatalf("expected 6 weeks for March 2024, got %d", len(grid.Weeks))
	}
	first := grid.Weeks[0][0]
	if !first.Date.Equal(time.Date(2024, 2, 25, 0, 0, 0, 0, loc)) || first.IsCurrentMonth {
		t.Fatalf("unexpected first cell: %+v", first)
	}
	last := grid.Weeks[5][6]
	if !last.Date.Equal(time.Date(2024, 4, 6, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected last cell: %v", last.Date)
	}

	var today *domain.WeekDay
	for _, row := range grid.Weeks {
		for i := range row {
			if row[i].IsToday {
				today = &row[i]
			}
		}
	}
	if today == nil || len(today.Events) != 1 {
		t.Fatalf("expected today's cell to hold one event")
	}
}

func TestWeekDays(t *testing.T) {
	loc := time.UTC
	anchor := time.Date(2024, 3, 13, 0, 0, 0, 0, loc)
	days := WeekDays(anchor, nil, domain.CalendarFilters{}, anchor, loc)
	if len(days) != 7 || days[0].Date.Weekday() != time.Sunday {
		t.Fatalf("unexpected week: %+v", days)
	}
	if !days[3].IsToday {
		t.Fatalf("expected Wednesday to be today")
	}
}
