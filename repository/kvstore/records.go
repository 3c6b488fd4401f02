package kvstore

import (
	"time"

	"github.com/fastygo/planner/domain"
)

// isoLayout matches the millisecond ISO-8601 strings of existing snapshots.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// taskRecord is the stored shape of a task. Dates travel as strings and
// are parsed explicitly on load.
type taskRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     *string  `json:"dueDate,omitempty"`
	FolderID    string   `json:"folderId,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Pinned      *bool    `json:"pinned,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

type folderRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	TaskCount   int    `json:"taskCount"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// parseTime accepts any RFC 3339 string. Unparseable values yield the zero time.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func taskToRecord(t domain.Task) taskRecord {
	pinned := t.Pinned
	rec := taskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		FolderID:    t.FolderID,
		Tags:        t.Tags,
		Pinned:      &pinned,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
	if t.DueDate != nil {
		due := formatTime(*t.DueDate)
		rec.DueDate = &due
	}
	return rec
}

func recordToTask(r taskRecord) domain.Task {
	t := domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		Priority:    domain.Priority(r.Priority),
		FolderID:    r.FolderID,
		Tags:        r.Tags,
		Pinned:      r.Pinned != nil && *r.Pinned,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
	if r.DueDate != nil && *r.DueDate != "" {
		if due := parseTime(*r.DueDate); !due.IsZero() {
			t.DueDate = &due
		}
	}
	return t
}

func folderToRecord(f domain.Folder) folderRecord {
	return folderRecord{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Color:       f.Color,
		ParentID:    f.ParentID,
		TaskCount:   f.TaskCount,
		CreatedAt:   formatTime(f.CreatedAt),
		UpdatedAt:   formatTime(f.UpdatedAt),
	}
}

func recordToFolder(r folderRecord) domain.Folder {
	return domain.Folder{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		ParentID:    r.ParentID,
		TaskCount:   r.TaskCount,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}
