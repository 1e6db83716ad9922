package models

import (
	"errors"
	"testing"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
)

// {"a":1,"b":[true]}
func buildSample() *Node {
	root := NewNode("", jsondoc.KindObject, jsondoc.Root())
	root.IsRoot = true

	a := NewNode("a", jsondoc.KindNumber, jsondoc.NewPath("a"))
	b := NewNode("b", jsondoc.KindArray, jsondoc.NewPath("b"))
	b0 := NewNode("0", jsondoc.KindBoolean, jsondoc.NewPath("b", "0"))
	b0.InArray = true

	root.AddChild(a)
	root.AddChild(b)
	b.AddChild(b0)
	return root
}

func TestPathOf(t *testing.T) {
	root := buildSample()
	b0 := root.Children[1].Children[0]

	path, err := PathOf(b0)
	if err != nil {
		t.Fatalf("PathOf failed: %v", err)
	}
	if !path.Equal(jsondoc.NewPath("b", "0")) {
		t.Errorf("Expected [b 0], got %v", path.Parts)
	}

	rootPath, err := PathOf(root)
	if err != nil || !rootPath.IsRoot() {
		t.Errorf("Expected root path, got %v (%v)", rootPath.Parts, err)
	}
}

func TestPathOf_MatchesStoredPath(t *testing.T) {
	root := buildSample()
	root.Walk(func(n *Node) bool {
		path, err := PathOf(n)
		if err != nil {
			t.Fatalf("PathOf(%q) failed: %v", n.Key, err)
		}
		if !path.Equal(n.Path) {
			t.Errorf("Node %q: derived %v, stored %v", n.Key, path.Parts, n.Path.Parts)
		}
		return true
	})
}

func TestPathOf_Detached(t *testing.T) {
	orphan := NewNode("x", jsondoc.KindString, jsondoc.NewPath("x"))
	parent := NewNode("p", jsondoc.KindObject, jsondoc.NewPath("p"))
	parent.AddChild(orphan)

	_, err := PathOf(orphan)
	var malformed *MalformedTreeError
	if !errors.As(err, &malformed) {
		t.Errorf("Expected *MalformedTreeError, got %v", err)
	}
}

func TestNode_FlattenAndToggle(t *testing.T) {
	root := buildSample()

	if got := len(root.Flatten()); got != 4 {
		t.Errorf("Expected 4 visible rows, got %d", got)
	}

	b := root.Children[1]
	b.Toggle()
	if !b.Collapsed {
		t.Error("Expected b to be collapsed")
	}
	if got := len(root.Flatten()); got != 3 {
		t.Errorf("Expected 3 visible rows after collapse, got %d", got)
	}

	a := root.Children[0]
	a.Toggle()
	if a.Collapsed {
		t.Error("Expected scalar toggle to be a no-op")
	}

	root.Toggle()
	if got := len(root.Flatten()); got != 1 {
		t.Errorf("Expected only the root row, got %d", got)
	}
}

func TestNode_Caret(t *testing.T) {
	root := buildSample()
	a := root.Children[0]

	if !root.HasCaret() || root.CaretPadding() {
		t.Error("Expected containers to show a caret")
	}
	if a.HasCaret() || !a.CaretPadding() {
		t.Error("Expected scalars to reserve a transparent caret")
	}
}

func TestNode_FindAndContainers(t *testing.T) {
	root := buildSample()

	found := root.FindByPath(jsondoc.NewPath("b", "0"))
	if found == nil || found.Key != "0" {
		t.Fatalf("Expected to find b[0], got %v", found)
	}
	if found.Depth() != 2 {
		t.Errorf("Expected depth 2, got %d", found.Depth())
	}
	if root.FindByPath(jsondoc.NewPath("nope")) != nil {
		t.Error("Expected no node for missing path")
	}

	if got := len(root.Containers()); got != 2 {
		t.Errorf("Expected 2 containers, got %d", got)
	}
}

func TestNode_ReplaceChild(t *testing.T) {
	root := buildSample()
	old := root.Children[1]
	replacement := NewNode("b", jsondoc.KindArray, jsondoc.NewPath("b"))

	if !root.ReplaceChild(old, replacement) {
		t.Fatal("Expected replacement to succeed")
	}
	if root.Children[1] != replacement || replacement.Parent != root {
		t.Error("Replacement not linked in place")
	}
	if old.Parent != nil {
		t.Error("Expected old node to be detached")
	}
}
