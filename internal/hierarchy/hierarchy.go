// Package hierarchy derives the folder tree and sibling relations from the
// flat folder collection.
package hierarchy

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fastygo/planner/domain"
)

// BuildTree reconstructs the folder forest. Siblings are ordered by name
// using English collation at every level. Folders whose parent chain never
// reaches a root are left out. Nodes are freshly allocated on every call.
func BuildTree(folders []domain.Folder, expanded map[string]bool) []*domain.FolderNode {
	byParent := make(map[string][]domain.Folder, len(folders))
	for _, f := range folders {
		byParent[f.ParentID] = append(byParent[f.ParentID], f)
	}

	col := collate.New(language.English)
	visited := make(map[string]bool, len(folders))

	var build func(parentID string, level int) []*domain.FolderNode
	build = func(parentID string, level int) []*domain.FolderNode {
		siblings := append([]domain.Folder(nil), byParent[parentID]...)
		sort.SliceStable(siblings, func(i, j int) bool {
			return col.CompareString(siblings[i].Name, siblings[j].Name) < 0
		})

		nodes := make([]*domain.FolderNode, 0, len(siblings))
		for _, f := range siblings {
			if visited[f.ID] {
				continue
			}
			visited[f.ID] = true
			node := &domain.FolderNode{
				Folder:   f,
				Level:    level,
				Expanded: expanded[f.ID],
			}
			node.Children = build(f.ID, level+1)
			nodes = append(nodes, node)
		}
		return nodes
	}
	return build("", 0)
}

// Descendants returns the ids of the direct children of id. Deeper levels
// are not included.
func Descendants(folders []domain.Folder, id string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, f := range folders {
		if f.ParentID == id && id != "" {
			out[f.ID] = struct{}{}
		}
	}
	return out
}

// Children returns the direct children of parentID in collection order.
func Children(folders []domain.Folder, parentID string) []domain.Folder {
	out := make([]domain.Folder, 0)
	for _, f := range folders {
		if f.ParentID == parentID {
			out = append(out, f)
		}
	}
	return out
}

func Roots(folders []domain.Folder) []domain.Folder {
	return Children(folders, "")
}

// CascadeDeleteIDs lists the folders removed by deleting id: the folder
// itself followed by its direct children.
func CascadeDeleteIDs(folders []domain.Folder, id string) []string {
	ids := []string{id}
	for _, f := range folders {
		if f.ParentID == id && f.ID != id {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// AffectedTaskCount sums the cached counts of the folders CascadeDeleteIDs
// would remove.
func AffectedTaskCount(folders []domain.Folder, id string) int {
	total := 0
	for _, f := range folders {
		if f.ID == id || (f.ParentID == id && id != "") {
			total += f.TaskCount
		}
	}
	return total
}

// FindSiblingByName looks for a folder under parentID whose name equals
// name case-insensitively, ignoring excludeID.
func FindSiblingByName(folders []domain.Folder, name, parentID, excludeID string) (domain.Folder, bool) {
	target := strings.ToLower(strings.TrimSpace(name))
	for _, f := range folders {
		if f.ParentID != parentID || f.ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(f.Name)) == target {
			return f, true
		}
	}
	return domain.Folder{}, false
}

// ParentCandidates returns the root folders a folder form may pick as
// parent, excluding the folder being edited.
func ParentCandidates(folders []domain.Folder, editingID string) []domain.Folder {
	out := make([]domain.Folder, 0)
	for _, f := range folders {
		if f.ParentID == "" && f.ID != editingID {
			out = append(out, f)
		}
	}
	return out
}

// Walk visits nodes depth-first, parents before children. Returning false
// from fn skips the node's children.
func Walk(nodes []*domain.FolderNode, fn func(*domain.FolderNode) bool) {
	for _, n := range nodes {
		if fn(n) {
			Walk(n.Children, fn)
		}
	}
}

// Flatten returns the tree in display order.
func Flatten(nodes []*domain.FolderNode) []*domain.FolderNode {
	var out []*domain.FolderNode
	Walk(nodes, func(n *domain.FolderNode) bool {
		out = append(out, n)
		return true
	})
	return out
}
