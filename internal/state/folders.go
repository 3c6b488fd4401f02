package state

import "github.com/fastygo/planner/domain"

// FolderState is the folder slice of the application state.
type FolderState struct {
	Folders  []domain.Folder
	Loading  bool
	Error    string
	Expanded map[string]bool
}

// FolderAction is implemented by every action ReduceFolders understands.
type FolderAction interface {
	folderAction()
}

type (
	SetFolderLoading struct{ Loading bool }
	SetFolderError   struct{ Message string }
	SetFolders       struct{ Folders []domain.Folder }
	AddFolder        struct{ Folder domain.Folder }
	UpdateFolder     struct{ Folder domain.Folder }
	// DeleteFolder removes the folder and its direct children.
	DeleteFolder struct{ ID string }
	ToggleFolder struct{ ID string }
	// UpdateTaskCount overwrites the cached count without touching timestamps.
	UpdateTaskCount struct {
		ID    string
		Count int
	}
)

func (SetFolderLoading) folderAction() {}
func (SetFolderError) folderAction()   {}
func (SetFolders) folderAction()       {}
func (AddFolder) folderAction()        {}
func (UpdateFolder) folderAction()     {}
func (DeleteFolder) folderAction()     {}
func (ToggleFolder) folderAction()     {}
func (UpdateTaskCount) folderAction()  {}

// ReduceFolders returns the state that results from applying action.
func ReduceFolders(s FolderState, action FolderAction) FolderState {
	switch a := action.(type) {
	case SetFolderLoading:
		s.Loading = a.Loading
	case SetFolderError:
		s.Error = a.Message
		s.Loading = false
	case SetFolders:
		s.Folders = append([]domain.Folder{}, a.Folders...)
		s.Loading = false
	case AddFolder:
		next := make([]domain.Folder, 0, len(s.Folders)+1)
		next = append(next, s.Folders...)
		s.Folders = append(next, a.Folder)
	case UpdateFolder:
		s.Folders = mapFolders(s.Folders, a.Folder.ID, func(domain.Folder) domain.Folder {
			return a.Folder
		})
	case DeleteFolder:
		next := make([]domain.Folder, 0, len(s.Folders))
		for _, f := range s.Folders {
			if f.ID == a.ID || f.ParentID == a.ID {
				continue
			}
			next = append(next, f)
		}
		s.Folders = next
	case ToggleFolder:
		expanded := make(map[string]bool, len(s.Expanded)+1)
		for id, open := range s.Expanded {
			if open {
				expanded[id] = true
			}
		}
		if expanded[a.ID] {
			delete(expanded, a.ID)
		} else {
			expanded[a.ID] = true
		}
		s.Expanded = expanded
	case UpdateTaskCount:
		s.Folders = mapFolders(s.Folders, a.ID, func(f domain.Folder) domain.Folder {
			f.TaskCount = a.Count
			return f
		})
	}
	return s
}

// FindFolder returns the folder with id and whether it exists.
func FindFolder(folders []domain.Folder, id string) (domain.Folder, bool) {
	for _, f := range folders {
		if f.ID == id {
			return f, true
		}
	}
	return domain.Folder{}, false
}

func mapFolders(in []domain.Folder, id string, fn func(domain.Folder) domain.Folder) []domain.Folder {
	out := make([]domain.Folder, len(in))
	for i, f := range in {
		if f.ID == id {
			out[i] = fn(f)
			continue
		}
		out[i] = f
	}
	return out
}
