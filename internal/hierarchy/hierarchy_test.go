package hierarchy

import (
	"testing"

	"github.com/fastygo/planner/domain"
)

func sampleFolders() []domain.Folder {
	return []domain.Folder{
		{ID: "b", Name: "Biology", TaskCount: 2},
		{ID: "x", Name: "Exams", ParentID: "b", TaskCount: 3},
		{ID: "a", Name: "anatomy", TaskCount: 1},
		{ID: "w", Name: "Anatomy Labs", ParentID: "b", TaskCount: 5},
		{ID: "g", Name: "Grandchild", ParentID: "x", TaskCount: 7},
	}
}

func TestBuildTreeOrdersSiblingsAtEveryLevel(t *testing.T) {
	tree := BuildTree(sampleFolders(), map[string]bool{"b": true})

	if len(tree) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(tree))
	}
	if tree[0].ID != "a" || tree[1].ID != "b" {
		t.Fatalf("expected roots [a b], got [%s %s]", tree[0].ID, tree[1].ID)
	}
	bio := tree[1]
	if !bio.Expanded || tree[0].Expanded {
		t.Fatalf("unexpected expanded flags")
	}
	if len(bio.Children) != 2 || bio.Children[0].ID != "w" || bio.Children[1].ID != "x" {
		t.Fatalf("unexpected children of b: %+v", bio.Children)
	}
	exams := bio.Children[1]
	if exams.Level != 1 || len(exams.Children) != 1 || exams.Children[0].Level != 2 {
		t.Fatalf("unexpected levels under b")
	}
}

func TestBuildTreeRootsWithSingleChild(t *testing.T) {
	folders := []domain.Folder{
		{ID: "1", Name: "B"},
		{ID: "2", Name: "A"},
		{ID: "3", Name: "X", ParentID: "1"},
	}
	tree := BuildTree(folders, nil)
	if len(tree) != 2 || tree[0].Name != "A" || tree[1].Name != "B" {
		t.Fatalf("expected roots [A B], got %+v", tree)
	}
	if len(tree[1].Children) != 1 || tree[1].Children[0].Name != "X" {
		t.Fatalf("expected B to contain X")
	}
	if len(tree[0].Children) != 0 {
		t.Fatalf("expected A to have no children")
	}
}

func TestBuildTreeFreshNodes(t *testing.T) {
	folders := sampleFolders()
	first := BuildTree(folders, nil)
	second := BuildTree(folders, nil)
	if first[0] == second[0] {
		t.Fatalf("expected a fresh tree on each call")
	}
}

func TestBuildTreeSkipsUnreachableFolders(t *testing.T) {
	folders := []domain.Folder{
		{ID: "r", Name: "Root"},
		{ID: "c1", Name: "Loop one", ParentID: "c2"},
		{ID: "c2", Name: "Loop two", ParentID: "c1"},
		{ID: "d", Name: "Dangling", ParentID: "missing"},
	}
	tree := Flatten(BuildTree(folders, nil))
	if len(tree) != 1 || tree[0].ID != "r" {
		t.Fatalf("expected only the root, got %d nodes", len(tree))
	}
}

func TestDescendantsDirectChildrenOnly(t *testing.T) {
	got := Descendants(sampleFolders(), "b")
	if len(got) != 2 {
		t.Fatalf("expected 2 descendants, got %v", got)
	}
	if _, ok := got["g"]; ok {
		t.Fatalf("grandchild must not be reported")
	}
}

func TestCascadeAndAffectedCount(t *testing.T) {
	folders := sampleFolders()
	ids := CascadeDeleteIDs(folders, "b")
	if len(ids) != 3 || ids[0] != "b" {
		t.Fatalf("unexpected cascade ids: %v", ids)
	}
	if n := AffectedTaskCount(folders, "b"); n != 10 {
		t.Fatalf("expected 10 affected tasks, got %d", n)
	}
}

func TestFindSiblingByName(t *testing.T) {
	folders := []domain.Folder{
		{ID: "1", Name: "Work"},
		{ID: "2", Name: "Home"},
		{ID: "3", Name: "Work", ParentID: "2"},
	}
	tests := []struct {
		name      string
		query     string
		parentID  string
		excludeID string
		want      bool
	}{
		{name: "case insensitive root", query: "work", want: true},
		{name: "excluding self", query: "Work", excludeID: "1", want: false},
		{name: "different parent", query: "home", parentID: "2", want: false},
		{name: "nested sibling", query: "WORK", parentID: "2", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := FindSiblingByName(folders, tt.query, tt.parentID, tt.excludeID)
			if ok != tt.want {
				t.Fatalf("FindSiblingByName(%q) = %v, want %v", tt.query, ok, tt.want)
			}
		})
	}
}

func TestParentCandidates(t *testing.T) {
	got := ParentCandidates(sampleFolders(), "a")
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected only b, got %+v", got)
	}
}
