package controller

import (
	"sync"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/mutation"
)

// EditOutcome is how an edit ended: Committed or Cancelled
type EditOutcome interface {
	editOutcome()
}

// Committed carries the replacement value. A non-empty Key different from the
// edited key renames the member; only object members can be renamed.
type Committed struct {
	Key   string
	Value any
}

// Cancelled means the user dismissed the editor
type Cancelled struct{}

func (Committed) editOutcome() {}
func (Cancelled) editOutcome() {}

// EditRequest is handed to the ValueEditor when an edit starts
type EditRequest struct {
	Session     EditSession
	Key         string
	IsRoot      bool
	KeyEditable bool // the value is an object member, so its key can change
	Value       any
	Text        string // Value as pretty JSON
}

// once wraps resolve so only the first outcome is delivered
func once(resolve func(EditOutcome)) func(EditOutcome) {
	var o sync.Once
	return func(outcome EditOutcome) {
		o.Do(func() { resolve(outcome) })
	}
}

// finishEdit applies the outcome of session. The latch is released whatever
// happens.
func (c *Controller) finishEdit(session EditSession, outcome EditOutcome) {
	current, ok := c.latch.Session()
	if !ok || current.ID != session.ID {
		c.logger.Debug("stale edit outcome", "session", session.ID)
		return
	}
	defer c.latch.Release(session.ID)

	switch o := outcome.(type) {
	case Committed:
		path := session.Path
		renamed := false
		if o.Key != "" && o.Key != session.Key {
			res, err := mutation.RenameAt(c.doc, path, o.Key)
			if err != nil {
				c.logger.Error("edit rename failed", "path", path, "key", o.Key, "err", err)
				c.surface.Notify("Could not apply edit: " + err.Error())
				return
			}
			c.doc = res.Document
			path = path.Parent().Append(o.Key)
			renamed = true
			c.logger.Info("key renamed", "from", session.Path, "to", path)
		}

		res, err := mutation.ReplaceAt(c.doc, path, o.Value)
		if err != nil {
			c.logger.Error("edit commit failed", "path", path, "err", err)
			c.surface.Notify("Could not apply edit: " + err.Error())
			if renamed {
				// the rename already landed
				c.rebuild()
				c.surface.Patch(Patch{Scope: mutation.Scope{Kind: mutation.FullRebuild}, Node: c.root})
			}
			return
		}
		c.doc = res.Document
		c.rebuild()
		c.logger.Info("value replaced", "path", path, "type", jsondoc.TypeLabel(o.Value))
		scope := res.Scope
		if renamed {
			scope = mutation.Scope{Kind: mutation.FullRebuild}
		}
		c.surface.Patch(Patch{Scope: scope, Node: c.root})
	case Cancelled:
		c.logger.Debug("edit cancelled", "path", session.Path)
	}
}
