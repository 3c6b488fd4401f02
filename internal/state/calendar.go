package state

import "github.com/fastygo/planner/domain"

// CalendarState holds the calendar anchor and filters. Events are not
// stored; they are projected from tasks on demand.
type CalendarState struct {
	View    domain.CalendarView
	Filters domain.CalendarFilters
}

type CalendarAction interface {
	calendarAction()
}

type (
	SetCalendarView    struct{ View domain.CalendarView }
	SetCalendarFilters struct{ Filters domain.CalendarFilters }
)

func (SetCalendarView) calendarAction()    {}
func (SetCalendarFilters) calendarAction() {}

func ReduceCalendar(s CalendarState, action CalendarAction) CalendarState {
	switch a := action.(type) {
	case SetCalendarView:
		s.View = a.View
	case SetCalendarFilters:
		s.Filters = a.Filters
	}
	return s
}
