package calendar

import (
	"time"

	"github.com/fastygo/planner/domain"
)

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek returns the Sunday starting the week of t.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// MonthGrid builds the Sunday-first weeks covering the month of anchor,
// padded with days of the adjacent months.
func MonthGrid(anchor time.Time, events []domain.CalendarEvent, f domain.CalendarFilters, now time.Time, loc *time.Location) domain.CalendarMonth {
	if loc == nil {
		loc = time.Local
	}
	a := anchor.In(loc)
	monthStart := time.Date(a.Year(), a.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridEnd := StartOfWeek(monthEnd, loc).AddDate(0, 0, 6)

	out := domain.CalendarMonth{Year: a.Year(), Month: a.Month()}
	var row []domain.WeekDay
	for d := StartOfWeek(monthStart, loc); !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		row = append(row, domain.WeekDay{
			Date:           d,
			IsCurrentMonth: d.Month() == monthStart.Month(),
			IsToday:        sameDay(d, now, loc),
			Events:         EventsForDate(events, d, f, loc),
		})
		if len(row) == 7 {
			out.Weeks = append(out.Weeks, row)
			row = nil
		}
	}
	return out
}

// WeekDays returns the seven days of the week containing anchor.
func WeekDays(anchor time.Time, events []domain.CalendarEvent, f domain.CalendarFilters, now time.Time, loc *time.Location) []domain.WeekDay {
	if loc == nil {
		loc = time.Local
	}
	start := StartOfWeek(anchor, loc)
	month := anchor.In(loc).Month()
	days := make([]domain.WeekDay, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		days = append(days, domain.WeekDay{
			Date:           d,
			IsCurrentMonth: d.Month() == month,
			IsToday:        sameDay(d, now, loc),
			Events:         EventsForDate(events, d, f, loc),
		})
	}
	return days
}
