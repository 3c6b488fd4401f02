package domain

import (
	"strings"
	"time"
)

// Folder groups tasks. ParentID is empty for root folders.
type Folder struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	// TaskCount is a cache recomputed from the task collection.
	TaskCount int       `json:"taskCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (f *Folder) IsRoot() bool {
	return f != nil && f.ParentID == ""
}

// FolderInput is the form payload used to create a folder.
type FolderInput struct {
	Name        string
	Description string
	Color       string
	ParentID    string
}

// FolderPatch is a partial update. Nil fields are left untouched; an empty
// ParentID moves the folder to the root.
type FolderPatch struct {
	Name        *string
	Description *string
	Color       *string
	ParentID    *string
}

// Apply shallow-merges p onto f. Timestamps are left to the caller.
func (f Folder) Apply(p FolderPatch) Folder {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Color != nil {
		f.Color = *p.Color
	}
	if p.ParentID != nil {
		f.ParentID = *p.ParentID
	}
	return f
}

// FolderNode is one node of a reconstructed folder tree.
type FolderNode struct {
	Folder
	Children []*FolderNode `json:"children"`
	Level    int           `json:"level"`
	Expanded bool          `json:"isExpanded"`
}

// ValidateFolderName applies the non-blank rule shared by create and update.
func ValidateFolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError(map[string]string{"name": "Folder name is required"})
	}
	return nil
}

// DuplicateFolderNameError reports a sibling with the same name.
func DuplicateFolderNameError() error {
	return NewValidationError(map[string]string{
		"name": "A folder with this name already exists in the same location",
	})
}
