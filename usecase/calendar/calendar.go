package calendar

import (
	"sync"
	"time"

	"github.com/fastygo/planner/domain"
	engine "github.com/fastygo/planner/internal/calendar"
	"github.com/fastygo/planner/internal/query"
	"github.com/fastygo/planner/internal/scheduler"
	"github.com/fastygo/planner/internal/state"
	"github.com/fastygo/planner/usecase"
)

// UseCase holds the calendar anchor and filters. Events are projected from
// the task store on every read.
type UseCase struct {
	tasks   usecase.TaskSource
	folders usecase.FolderSource
	sched   scheduler.Scheduler
	nav     engine.Navigator

	mu    sync.RWMutex
	state state.CalendarState
}

func New(tasks usecase.TaskSource, folders usecase.FolderSource, sched scheduler.Scheduler, loc *time.Location) *UseCase {
	if loc == nil {
		loc = time.Local
	}
	return &UseCase{
		tasks:   tasks,
		folders: folders,
		sched:   sched,
		nav:     engine.Navigator{Location: loc},
		state: state.CalendarState{
			View: domain.CalendarView{Type: domain.ViewMonth, Date: sched.Now().In(loc)},
		},
	}
}

// Events projects every task with a due date, ignoring filters.
func (uc *UseCase) Events() []domain.CalendarEvent {
	return engine.Project(uc.tasks.All(), uc.lookup)
}

// Visible applies the active filters to Events.
func (uc *UseCase) Visible() []domain.CalendarEvent {
	return query.Events(uc.Events(), uc.Filters())
}

func (uc *UseCase) View() domain.CalendarView {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state.View
}

func (uc *UseCase) SetView(v domain.CalendarView) {
	uc.reduce(state.SetCalendarView{View: v})
}

// SetViewType switches between month and week without moving the anchor.
func (uc *UseCase) SetViewType(t domain.CalendarViewType) {
	v := uc.View()
	v.Type = t
	uc.SetView(v)
}

func (uc *UseCase) Filters() domain.CalendarFilters {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state.Filters
}

func (uc *UseCase) SetFilters(f domain.CalendarFilters) {
	uc.reduce(state.SetCalendarFilters{Filters: f})
}

func (uc *UseCase) EventsForDate(date time.Time) []domain.CalendarEvent {
	return engine.EventsForDate(uc.Events(), date, uc.Filters(), uc.nav.Location)
}

// EventsForRange is inclusive at both ends.
func (uc *UseCase) EventsForRange(start, end time.Time) []domain.CalendarEvent {
	return engine.EventsForRange(uc.Events(), start, end, uc.Filters())
}

func (uc *UseCase) NavigateToDate(date time.Time) domain.CalendarView {
	return uc.move(func(v domain.CalendarView) domain.CalendarView { return uc.nav.NavigateTo(v, date) })
}

func (uc *UseCase) NavigateNext() domain.CalendarView {
	return uc.move(uc.nav.Next)
}

func (uc *UseCase) NavigatePrevious() domain.CalendarView {
	return uc.move(uc.nav.Previous)
}

func (uc *UseCase) NavigateToday() domain.CalendarView {
	now := uc.sched.Now()
	return uc.move(func(v domain.CalendarView) domain.CalendarView { return uc.nav.Today(v, now) })
}

// Month returns the grid of the month containing the view anchor.
func (uc *UseCase) Month() domain.CalendarMonth {
	return engine.MonthGrid(uc.View().Date, uc.Events(), uc.Filters(), uc.sched.Now(), uc.nav.Location)
}

// Week returns the seven days of the week containing the view anchor.
func (uc *UseCase) Week() []domain.WeekDay {
	return engine.WeekDays(uc.View().Date, uc.Events(), uc.Filters(), uc.sched.Now(), uc.nav.Location)
}

func (uc *UseCase) move(fn func(domain.CalendarView) domain.CalendarView) domain.CalendarView {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state = state.ReduceCalendar(uc.state, state.SetCalendarView{View: fn(uc.state.View)})
	return uc.state.View
}

func (uc *UseCase) reduce(action state.CalendarAction) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state = state.ReduceCalendar(uc.state, action)
}

func (uc *UseCase) lookup(id string) (domain.Folder, bool) {
	if uc.folders == nil {
		return domain.Folder{}, false
	}
	f, err := uc.folders.Get(id)
	return f, err == nil
}
