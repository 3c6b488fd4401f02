// Package state holds the tagged actions and pure reducers of every
// collection slice. Reducers never mutate their input.
package state

import "github.com/fastygo/planner/domain"

// TaskState is the task slice of the application state.
type TaskState struct {
	Tasks   []domain.Task
	Loading bool
	Error   string
	Filters domain.TaskFilters
}

// TaskAction is implemented by every action ReduceTasks understands.
type TaskAction interface {
	taskAction()
}

type (
	SetTaskLoading struct{ Loading bool }
	SetTaskError   struct{ Message string }
	SetTasks       struct{ Tasks []domain.Task }
	AddTask        struct{ Task domain.Task }
	// UpdateTask replaces the task with the same id.
	UpdateTask     struct{ Task domain.Task }
	DeleteTask     struct{ ID string }
	SetTaskFilters struct{ Filters domain.TaskFilters }
)

func (SetTaskLoading) taskAction() {}
func (SetTaskError) taskAction()   {}
func (SetTasks) taskAction()       {}
func (AddTask) taskAction()        {}
func (UpdateTask) taskAction()     {}
func (DeleteTask) taskAction()     {}
func (SetTaskFilters) taskAction() {}

// ReduceTasks returns the state that results from applying action.
func ReduceTasks(s TaskState, action TaskAction) TaskState {
	switch a := action.(type) {
	case SetTaskLoading:
		s.Loading = a.Loading
	case SetTaskError:
		s.Error = a.Message
		s.Loading = false
	case SetTasks:
		s.Tasks = cloneTasks(a.Tasks)
		s.Loading = false
	case AddTask:
		next := make([]domain.Task, 0, len(s.Tasks)+1)
		next = append(next, s.Tasks...)
		s.Tasks = append(next, a.Task.Clone())
	case UpdateTask:
		next := make([]domain.Task, len(s.Tasks))
		for i, t := range s.Tasks {
			if t.ID == a.Task.ID {
				next[i] = a.Task.Clone()
				continue
			}
			next[i] = t
		}
		s.Tasks = next
	case DeleteTask:
		next := make([]domain.Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			if t.ID != a.ID {
				next = append(next, t)
			}
		}
		s.Tasks = next
	case SetTaskFilters:
		s.Filters = a.Filters
	}
	return s
}

// FindTask returns the task with id and whether it exists.
func FindTask(tasks []domain.Task, id string) (domain.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

func cloneTasks(in []domain.Task) []domain.Task {
	out := make([]domain.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
