package models

import (
	"fmt"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
)

// Action is an affordance attached to a rendered node
type Action string

const (
	ActionCopy     Action = "copy"
	ActionDelete   Action = "delete"
	ActionEdit     Action = "edit"
	ActionOpenLink Action = "open-link"
	ActionToggle   Action = "toggle"
)

// Node is one rendered row of the JSON tree. Containers own their children;
// scalars carry the literal text they display.
type Node struct {
	Key       string       // Object key or array index; empty for the root
	InArray   bool         // Key is an array index
	Kind      jsondoc.Kind // Value kind
	TypeLabel string       // "object", "array[3]", ...
	Path      jsondoc.Path // Data address of the value
	Literal   string       // Display text for scalars
	IsURL     bool         // Scalar holds a previewable URL
	IsRoot    bool         // Root marker
	Collapsed bool         // Container children hidden
	Children  []*Node
	Parent    *Node
	Actions   []Action
	Bound     bool // Event handlers attached
	Copying   bool // Copy pulse in progress
}

// NewNode creates a node with no children
func NewNode(key string, kind jsondoc.Kind, path jsondoc.Path) *Node {
	return &Node{
		Key:      key,
		Kind:     kind,
		Path:     path,
		Children: make([]*Node, 0),
	}
}

// IsContainer reports whether the node has (possibly zero) children
func (n *Node) IsContainer() bool {
	return n.Kind.IsContainer()
}

// Address returns the stable address string of the node's path
func (n *Node) Address() string {
	return n.Path.Key()
}

// HasCaret reports whether the node shows a toggle caret
func (n *Node) HasCaret() bool {
	return n.IsContainer()
}

// CaretPadding reports whether the node reserves a blank caret slot so it
// lines up with its container siblings
func (n *Node) CaretPadding() bool {
	return !n.HasCaret()
}

// HasAction reports whether action is attached to the node
func (n *Node) HasAction(action Action) bool {
	for _, a := range n.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// AddChild adds a child node to this node
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// ReplaceChild swaps old for replacement in place, keeping its position
func (n *Node) ReplaceChild(old, replacement *Node) bool {
	for i, child := range n.Children {
		if child == old {
			replacement.Parent = n
			n.Children[i] = replacement
			old.Parent = nil
			return true
		}
	}
	return false
}

// Toggle flips the collapsed state. Scalars can't be collapsed.
func (n *Node) Toggle() {
	if !n.IsContainer() {
		return
	}
	n.Collapsed = !n.Collapsed
}

// Flatten returns the visible rows in render order, root included. Children of
// collapsed containers are skipped.
func (n *Node) Flatten() []*Node {
	result := make([]*Node, 0)
	n.flattenInto(&result)
	return result
}

func (n *Node) flattenInto(result *[]*Node) {
	*result = append(*result, n)
	if n.Collapsed {
		return
	}
	for _, child := range n.Children {
		child.flattenInto(result)
	}
}

// Walk visits the node and its descendants depth-first until fn returns false
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Containers returns every object and array node in the subtree
func (n *Node) Containers() []*Node {
	var result []*Node
	n.Walk(func(node *Node) bool {
		if node.IsContainer() {
			result = append(result, node)
		}
		return true
	})
	return result
}

// FindByPath finds the node rendered for path
func (n *Node) FindByPath(path jsondoc.Path) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if node.Path.Equal(path) {
			found = node
			return false
		}
		return true
	})
	return found
}

// Depth returns the depth of this node in the tree (root = 0)
func (n *Node) Depth() int {
	depth := 0
	for current := n.Parent; current != nil; current = current.Parent {
		depth++
	}
	return depth
}

// MalformedTreeError reports a node whose ancestor chain does not reach a root
type MalformedTreeError struct {
	Key    string
	Reason string
}

func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("malformed tree at node %q: %s", e.Key, e.Reason)
}

// PathOf derives a node's address by walking its ancestors and collecting
// their keys. The chain must end at a node carrying the root marker.
func PathOf(n *Node) (jsondoc.Path, error) {
	if n == nil {
		return jsondoc.Path{}, &MalformedTreeError{Reason: "nil node"}
	}

	var parts []string
	for current := n; current != nil; current = current.Parent {
		if current.IsRoot {
			// parts were collected leaf first
			for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
				parts[i], parts[j] = parts[j], parts[i]
			}
			return jsondoc.NewPath(parts...), nil
		}
		parts = append(parts, current.Key)
	}

	return jsondoc.Path{}, &MalformedTreeError{Key: n.Key, Reason: "ancestor chain has no root"}
}
