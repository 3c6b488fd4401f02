package query

import "github.com/fastygo/planner/domain"

// Events applies calendar filters. Completed events are dropped unless
// ShowCompleted is set.
func Events(events []domain.CalendarEvent, f domain.CalendarFilters) []domain.CalendarEvent {
	var preds []Predicate[domain.CalendarEvent]
	if !f.ShowCompleted {
		preds = append(preds, func(e domain.CalendarEvent) bool { return e.Status != domain.StatusCompleted })
	}
	if f.FolderID != "" {
		preds = append(preds, func(e domain.CalendarEvent) bool { return e.FolderID == f.FolderID })
	}
	if f.Priority != "" {
		preds = append(preds, func(e domain.CalendarEvent) bool { return e.Priority == f.Priority })
	}
	if f.Status != "" {
		preds = append(preds, func(e domain.CalendarEvent) bool { return e.Status == f.Status })
	}
	return Filter(events, preds...)
}

// Folders matches name or description against search. A blank search
// returns every folder.
func Folders(folders []domain.Folder, search string) []domain.Folder {
	if IsBlank(search) {
		return Filter(folders)
	}
	return Filter(folders, func(f domain.Folder) bool {
		return ContainsFold(search, f.Name, f.Description)
	})
}
