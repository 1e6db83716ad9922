// Package mutation applies delete, replace and rename operations to a document
// and reports how much of the rendered tree has to be rebuilt.
package mutation

import (
	"errors"
	"fmt"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
)

// OpKind identifies a mutation
type OpKind int

const (
	OpDelete OpKind = iota
	OpReplace
	OpRename
)

var (
	// ErrNotRenamable is returned when renaming the root or an array element
	ErrNotRenamable = errors.New("only object members can be renamed")
	// ErrKeyExists is returned when a rename target is already a key
	ErrKeyExists = errors.New("key already exists")
)

func (k OpKind) String() string {
	switch k {
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	case OpRename:
		return "rename"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// Op is a single mutation. Value is only used by OpReplace, Key only by
// OpRename.
type Op struct {
	Kind  OpKind
	Path  jsondoc.Path
	Value any
	Key   string
}

// ScopeKind says how much of the tree a mutation invalidates
type ScopeKind int

const (
	// Subtree re-renders only the container at Scope.Path
	Subtree ScopeKind = iota
	// FullRebuild re-renders the whole document
	FullRebuild
)

func (k ScopeKind) String() string {
	if k == Subtree {
		return "subtree"
	}
	return "full"
}

// Scope is the part of the tree to re-render after a mutation
type Scope struct {
	Kind ScopeKind
	Path jsondoc.Path
}

// Result describes the document after a mutation. Parent is the container the
// operation touched, or nil when the whole document was replaced.
type Result struct {
	Document   any
	Parent     any
	ParentPath jsondoc.Path
	Scope      Scope
}

// Apply runs op against doc. On error doc is left unchanged.
func Apply(doc any, op Op) (Result, error) {
	switch op.Kind {
	case OpDelete:
		return DeleteAt(doc, op.Path)
	case OpReplace:
		return ReplaceAt(doc, op.Path, op.Value)
	case OpRename:
		return RenameAt(doc, op.Path, op.Key)
	default:
		return Result{}, fmt.Errorf("unknown operation %v", op.Kind)
	}
}

// DecideScope picks the re-render scope after a change inside parentPath. A
// change directly under the root rebuilds everything.
func DecideScope(parentPath jsondoc.Path) Scope {
	if parentPath.IsRoot() {
		return Scope{Kind: FullRebuild}
	}
	return Scope{Kind: Subtree, Path: parentPath}
}

// DeleteAt removes the value at path from its parent container. Later array
// elements shift down by one. The root can't be deleted.
func DeleteAt(doc any, path jsondoc.Path) (Result, error) {
	parent, last, err := jsondoc.ResolveParent(doc, path)
	if err != nil {
		return Result{}, err
	}
	parentPath := path.Parent()

	switch p := parent.(type) {
	case *jsondoc.Array:
		idx, ok := jsondoc.ParseIndex(last)
		if !ok || idx >= p.Len() {
			return Result{}, &jsondoc.PathNotFoundError{
				Path:   path,
				Depth:  path.Len() - 1,
				Reason: fmt.Sprintf("array index %q out of range (length %d)", last, p.Len()),
			}
		}
		p.RemoveAt(idx)
	case *jsondoc.Object:
		if !p.Delete(last) {
			return Result{}, &jsondoc.PathNotFoundError{
				Path:   path,
				Depth:  path.Len() - 1,
				Reason: fmt.Sprintf("key %q not found", last),
			}
		}
	}

	return Result{
		Document:   doc,
		Parent:     parent,
		ParentPath: parentPath,
		Scope:      DecideScope(parentPath),
	}, nil
}

// ReplaceAt stores value at path. The root path replaces the whole document.
// The tree is always rebuilt in full.
func ReplaceAt(doc any, path jsondoc.Path, value any) (Result, error) {
	if path.IsRoot() {
		return Result{
			Document: value,
			Scope:    Scope{Kind: FullRebuild},
		}, nil
	}

	parent, last, err := jsondoc.ResolveParent(doc, path)
	if err != nil {
		return Result{}, err
	}

	switch p := parent.(type) {
	case *jsondoc.Array:
		idx, ok := jsondoc.ParseIndex(last)
		if !ok || idx >= p.Len() {
			return Result{}, &jsondoc.PathNotFoundError{
				Path:   path,
				Depth:  path.Len() - 1,
				Reason: fmt.Sprintf("array index %q out of range (length %d)", last, p.Len()),
			}
		}
		p.Items[idx] = value
	case *jsondoc.Object:
		if _, ok := p.Get(last); !ok {
			return Result{}, &jsondoc.PathNotFoundError{
				Path:   path,
				Depth:  path.Len() - 1,
				Reason: fmt.Sprintf("key %q not found", last),
			}
		}
		p.Set(last, value)
	}

	return Result{
		Document:   doc,
		Parent:     parent,
		ParentPath: path.Parent(),
		Scope:      Scope{Kind: FullRebuild},
	}, nil
}

// RenameAt changes the key of the object member at path to key. The member
// keeps its position. The tree is always rebuilt in full.
func RenameAt(doc any, path jsondoc.Path, key string) (Result, error) {
	if path.IsRoot() {
		return Result{}, fmt.Errorf("rename %s: %w", path, ErrNotRenamable)
	}

	parent, last, err := jsondoc.ResolveParent(doc, path)
	if err != nil {
		return Result{}, err
	}
	obj, ok := parent.(*jsondoc.Object)
	if !ok {
		return Result{}, fmt.Errorf("rename %s: %w", path, ErrNotRenamable)
	}
	if _, ok := obj.Get(last); !ok {
		return Result{}, &jsondoc.PathNotFoundError{
			Path:   path,
			Depth:  path.Len() - 1,
			Reason: fmt.Sprintf("key %q not found", last),
		}
	}
	if !obj.Rename(last, key) {
		return Result{}, fmt.Errorf("rename %s to %q: %w", path, key, ErrKeyExists)
	}

	return Result{
		Document:   doc,
		Parent:     parent,
		ParentPath: path.Parent(),
		Scope:      Scope{Kind: FullRebuild},
	}, nil
}
