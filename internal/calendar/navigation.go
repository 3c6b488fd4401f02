package calendar

import (
	"time"

	"github.com/fastygo/planner/domain"
)

const week = 7 * 24 * time.Hour

// Navigator moves a calendar view. Month arithmetic happens in Location.
type Navigator struct {
	Location *time.Location
}

func (n Navigator) loc() *time.Location {
	if n.Location == nil {
		return time.Local
	}
	return n.Location
}

// Next moves a month view to day 1 of the following month and a week view
// forward by exactly seven days.
func (n Navigator) Next(v domain.CalendarView) domain.CalendarView {
	return n.shift(v, 1)
}

// Previous is the inverse of Next.
func (n Navigator) Previous(v domain.CalendarView) domain.CalendarView {
	return n.shift(v, -1)
}

func (n Navigator) shift(v domain.CalendarView, dir int) domain.CalendarView {
	if v.Type == domain.ViewMonth {
		d := v.Date.In(n.loc())
		v.Date = time.Date(d.Year(), d.Month()+time.Month(dir), 1, 0, 0, 0, 0, n.loc())
		return v
	}
	v.Date = v.Date.Add(time.Duration(dir) * week)
	return v
}

// Today anchors the view on now, keeping its type.
func (n Navigator) Today(v domain.CalendarView, now time.Time) domain.CalendarView {
	v.Date = now
	return v
}

// NavigateTo anchors the view on date, keeping its type.
func (n Navigator) NavigateTo(v domain.CalendarView, date time.Time) domain.CalendarView {
	v.Date = date
	return v
}
