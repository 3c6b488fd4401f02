package domain

import (
	"strings"
	"time"
)

// TaskStatus is the board column a task lives in.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
	StatusPending    TaskStatus = "pending"
)

// StatusOrder is the fixed column order of the task board.
var StatusOrder = []TaskStatus{StatusTodo, StatusInProgress, StatusCompleted, StatusPending}

// Label returns the human readable column title.
func (s TaskStatus) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusPending:
		return "Pending"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	for _, known := range StatusOrder {
		if s == known {
			return true
		}
	}
	return false
}

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() >= 0
}

// Rank returns the position of p in Priorities, or -1.
func (p Priority) Rank() int {
	for i, known := range Priorities {
		if p == known {
			return i
		}
	}
	return -1
}

// Task represents a user-owned activity item.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	FolderID    string     `json:"folderId,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Pinned      bool       `json:"pinned"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// HasDueDate reports whether the task is visible to calendar views.
func (t *Task) HasDueDate() bool {
	return t != nil && t.DueDate != nil
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	if t.Tags != nil {
		t.Tags = append([]string(nil), t.Tags...)
	}
	return t
}

// TaskInput is the form payload used to create a task.
type TaskInput struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    Priority
	DueDate     *time.Time
	FolderID    string
	Tags        []string
	Pinned      bool
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *TaskStatus
	Priority     *Priority
	DueDate      *time.Time
	ClearDueDate bool
	FolderID     *string
	// Tags replaces the tag list when non-nil (an empty slice clears it).
	Tags   []string
	Pinned *bool
}

// Apply shallow-merges p onto t. Timestamps are left to the caller.
func (t Task) Apply(p TaskPatch) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.ClearDueDate {
		out.DueDate = nil
	}
	if p.DueDate != nil {
		due := *p.DueDate
		out.DueDate = &due
	}
	if p.FolderID != nil {
		out.FolderID = *p.FolderID
	}
	if p.Tags != nil {
		out.Tags = append([]string{}, p.Tags...)
	}
	if p.Pinned != nil {
		out.Pinned = *p.Pinned
	}
	return out
}

// TaskFilters selects a subset of tasks. Zero fields are unconstrained.
type TaskFilters struct {
	Status   TaskStatus `json:"status,omitempty"`
	Priority Priority   `json:"priority,omitempty"`
	FolderID string     `json:"folderId,omitempty"`
	Search   string     `json:"search,omitempty"`
}

// IsEmpty reports whether no constraint is active.
func (f TaskFilters) IsEmpty() bool {
	return f.Status == "" && f.Priority == "" && f.FolderID == "" && strings.TrimSpace(f.Search) == ""
}

// ValidateTaskInput checks a create payload against the task form rules.
func ValidateTaskInput(in TaskInput, now time.Time) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "Title is required"
	}
	if in.FolderID == "" {
		fields["folderId"] = "Folder selection is required"
	}
	if in.DueDate != nil && in.DueDate.Before(now) {
		fields["dueDate"] = "Due date cannot be in the past"
	}
	checkEnums(fields, in.Status, in.Priority)
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// ValidateTaskPatch checks only the fields present in p.
func ValidateTaskPatch(p TaskPatch, now time.Time) error {
	fields := map[string]string{}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		fields["title"] = "Title is required"
	}
	if p.FolderID != nil && *p.FolderID == "" {
		fields["folderId"] = "Folder selection is required"
	}
	if p.DueDate != nil && p.DueDate.Before(now) {
		fields["dueDate"] = "Due date cannot be in the past"
	}
	var status TaskStatus
	if p.Status != nil {
		status = *p.Status
		if status == "" {
			fields["status"] = "Status is required"
		}
	}
	var priority Priority
	if p.Priority != nil {
		priority = *p.Priority
		if priority == "" {
			fields["priority"] = "Priority is required"
		}
	}
	checkEnums(fields, status, priority)
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// checkEnums rejects unknown values; empty values are accepted as-is
// because no implicit defaulting happens outside the form.
func checkEnums(fields map[string]string, status TaskStatus, priority Priority) {
	if status != "" && !status.Valid() {
		fields["status"] = "Unknown status " + string(status)
	}
	if priority != "" && !priority.Valid() {
		fields["priority"] = "Unknown priority " + string(priority)
	}
}

// ValidateStatus rejects values outside StatusOrder.
func ValidateStatus(s TaskStatus) error {
	if !s.Valid() {
		return NewValidationError(map[string]string{"status": "Unknown status " + string(s)})
	}
	return nil
}

// ValidatePriority rejects values outside Priorities.
func ValidatePriority(p Priority) error {
	if !p.Valid() {
		return NewValidationError(map[string]string{"priority": "Unknown priority " + string(p)})
	}
	return nil
}
