package query

import (
	"sort"
	"strings"

	"github.com/fastygo/planner/domain"
)

// Tasks applies f to tasks. An empty filter returns all tasks unchanged.
func Tasks(tasks []domain.Task, f domain.TaskFilters) []domain.Task {
	return Filter(tasks, taskPredicates(f)...)
}

func taskPredicates(f domain.TaskFilters) []Predicate[domain.Task] {
	var preds []Predicate[domain.Task]
	if f.Status != "" {
		preds = append(preds, func(t domain.Task) bool { return t.Status == f.Status })
	}
	if f.Priority != "" {
		preds = append(preds, func(t domain.Task) bool { return t.Priority == f.Priority })
	}
	if f.FolderID != "" {
		preds = append(preds, func(t domain.Task) bool { return t.FolderID == f.FolderID })
	}
	if !IsBlank(f.Search) {
		preds = append(preds, func(t domain.Task) bool { return matchesTaskSearch(t, f.Search) })
	}
	return preds
}

// matchesTaskSearch matches title, description and tags.
func matchesTaskSearch(t domain.Task, query string) bool {
	if ContainsFold(query, t.Title, t.Description) {
		return true
	}
	return ContainsFold(query, t.Tags...)
}

// TasksByFolder returns the tasks filed under folderID.
func TasksByFolder(tasks []domain.Task, folderID string) []domain.Task {
	return Filter(tasks, func(t domain.Task) bool { return t.FolderID == folderID })
}

// Upcoming returns the first limit tasks that are not completed.
func Upcoming(tasks []domain.Task, limit int) []domain.Task {
	open := Filter(tasks, func(t domain.Task) bool { return !t.IsCompleted() })
	return first(open, limit)
}

// StatusColumn is one column of the task board.
type StatusColumn struct {
	Status domain.TaskStatus
	Label  string
	Tasks  []domain.Task
}

// Board buckets tasks by status in domain.StatusOrder. Tasks with an
// unknown status are not shown.
func Board(tasks []domain.Task) []StatusColumn {
	cols := make([]StatusColumn, 0, len(domain.StatusOrder))
	for _, status := range domain.StatusOrder {
		cols = append(cols, StatusColumn{
			Status: status,
			Label:  status.Label(),
			Tasks:  Filter(tasks, func(t domain.Task) bool { return t.Status == status }),
		})
	}
	return cols
}

// Task sort fields accepted by SortTasks.
const (
	SortCreated  = "created"
	SortUpdated  = "updated"
	SortDue      = "due"
	SortPriority = "priority"
	SortTitle    = "title"
)

// SortTasks returns a stably sorted copy. Tasks without a due date sort
// last when ordering by due date, in either direction.
func SortTasks(tasks []domain.Task, field string, reverse bool) []domain.Task {
	out := append([]domain.Task{}, tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		if field == SortDue && (out[i].DueDate == nil || out[j].DueDate == nil) {
			return out[i].DueDate != nil && out[j].DueDate == nil
		}
		if reverse {
			return lessTask(out[j], out[i], field)
		}
		return lessTask(out[i], out[j], field)
	})
	return out
}

func lessTask(a, b domain.Task, field string) bool {
	switch field {
	case SortUpdated:
		return a.UpdatedAt.Before(b.UpdatedAt)
	case SortDue:
		return lessDue(a, b)
	case SortPriority:
		return a.Priority.Rank() < b.Priority.Rank()
	case SortTitle:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func lessDue(a, b domain.Task) bool {
	if a.DueDate == nil {
		return false
	}
	if b.DueDate == nil {
		return true
	}
	return a.DueDate.Before(*b.DueDate)
}
