package controller

import (
	"errors"
	"fmt"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/mutation"
	"github.com/rebeliceyang/lazyjson/internal/preview"
)

// Event is a user action on the node at Address
type Event struct {
	Action  models.Action
	Address string
}

// Status says what became of an event
type Status int

const (
	// StatusApplied means the action ran to completion
	StatusApplied Status = iota
	// StatusIgnored means the action was dropped because an edit is open
	StatusIgnored
	// StatusPending means the action continues asynchronously (edit, link)
	StatusPending
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusIgnored:
		return "ignored"
	case StatusPending:
		return "pending"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of dispatching an event
type Outcome struct {
	Status  Status
	Text    string       // copied text
	Pulse   uint64       // copy pulse token, see ClearPulse
	Session *EditSession // edit that was opened
}

// latched reports whether action is blocked while an edit is open
func latched(action models.Action) bool {
	switch action {
	case models.ActionToggle, models.ActionDelete, models.ActionEdit:
		return true
	}
	return false
}

// Dispatch routes ev to the handler for its action. Errors leave the tree and
// the document unchanged.
func (c *Controller) Dispatch(ev Event) (Outcome, error) {
	if latched(ev.Action) && c.latch.Held() {
		c.logger.Debug("action ignored while editing", "action", ev.Action, "address", ev.Address)
		return Outcome{Status: StatusIgnored}, nil
	}

	n, ok := c.index[ev.Address]
	if !ok {
		c.logger.Error("event on unbound address", "action", ev.Action, "address", ev.Address)
		return Outcome{}, fmt.Errorf("%s %s: %w", ev.Action, ev.Address, ErrUnboundAddress)
	}
	if !n.HasAction(ev.Action) {
		return Outcome{}, fmt.Errorf("%s on %s: %w", ev.Action, n.Path, ErrActionUnavailable)
	}

	var (
		out Outcome
		err error
	)
	switch ev.Action {
	case models.ActionToggle:
		out, err = c.toggle(n)
	case models.ActionDelete:
		out, err = c.delete(n)
	case models.ActionCopy:
		out, err = c.copy(n)
	case models.ActionEdit:
		out, err = c.edit(n)
	case models.ActionOpenLink:
		out, err = c.openLink(n)
	default:
		err = fmt.Errorf("%s: %w", ev.Action, ErrActionUnavailable)
	}

	if err != nil {
		c.logError(ev, err)
	}
	return out, err
}

func (c *Controller) logError(ev Event, err error) {
	var (
		notFound  *jsondoc.PathNotFoundError
		malformed *models.MalformedTreeError
	)
	switch {
	case errors.As(err, &notFound):
		c.logger.Error("path no longer resolves", "action", ev.Action, "path", notFound.Path, "depth", notFound.Depth)
	case errors.As(err, &malformed):
		c.logger.Error("malformed tree", "action", ev.Action, "err", malformed)
	default:
		c.logger.Error("action failed", "action", ev.Action, "address", ev.Address, "err", err)
	}
}

// Toggle flips the collapsed state of the container at address
func (c *Controller) Toggle(address string) (Outcome, error) {
	return c.Dispatch(Event{Action: models.ActionToggle, Address: address})
}

func (c *Controller) toggle(n *models.Node) (Outcome, error) {
	n.Toggle()
	c.surface.Patch(Patch{Scope: mutation.Scope{Kind: mutation.Subtree, Path: n.Path}, Node: n})
	return Outcome{Status: StatusApplied}, nil
}

func (c *Controller) delete(n *models.Node) (Outcome, error) {
	res, err := mutation.DeleteAt(c.doc, n.Path)
	if err != nil {
		return Outcome{}, err
	}
	c.doc = res.Document

	if res.Scope.Kind == mutation.FullRebuild {
		c.rebuild()
		c.surface.Patch(Patch{Scope: res.Scope, Node: c.root})
	} else {
		// later siblings shift; their addresses come from the fresh render
		fresh, err := c.replaceSubtree(res.ParentPath, res.Parent)
		if err != nil {
			c.rebuild()
			c.surface.Patch(Patch{Scope: mutation.Scope{Kind: mutation.FullRebuild}, Node: c.root})
			return Outcome{Status: StatusApplied}, err
		}
		c.surface.Patch(Patch{Scope: res.Scope, Node: fresh})
	}

	c.logger.Info("value deleted", "path", n.Path)
	return Outcome{Status: StatusApplied}, nil
}

// CopyText returns the text a copy of n yields: the whole document for the
// root, the literal for a scalar, pretty JSON for a container
func (c *Controller) CopyText(n *models.Node) (string, error) {
	if n.IsRoot {
		return jsondoc.Format(c.doc)
	}

	v, err := jsondoc.Resolve(c.doc, n.Path)
	if err != nil {
		return "", err
	}
	if jsondoc.Classify(v).IsContainer() {
		return jsondoc.Format(v)
	}
	return jsondoc.Literal(v), nil
}

func (c *Controller) copy(n *models.Node) (Outcome, error) {
	text, err := c.CopyText(n)
	if err != nil {
		return Outcome{}, err
	}

	if c.clipboard != nil {
		if err := c.clipboard.Copy(text); err != nil {
			return Outcome{}, fmt.Errorf("failed to copy %s: %w", n.Path, err)
		}
	}

	c.pulseSeq++
	n.Copying = true
	c.pulses[c.pulseSeq] = n
	c.logger.Debug("copied", "path", n.Path, "bytes", len(text))
	return Outcome{Status: StatusApplied, Text: text, Pulse: c.pulseSeq}, nil
}

// ClearPulse ends the copy highlight started by the copy that returned token.
// It reports false if the node was re-rendered in the meantime.
func (c *Controller) ClearPulse(token uint64) bool {
	n, ok := c.pulses[token]
	if !ok {
		return false
	}
	delete(c.pulses, token)

	for _, other := range c.pulses {
		if other == n {
			// a newer pulse on the same node still runs
			return true
		}
	}
	n.Copying = false
	return true
}

func (c *Controller) edit(n *models.Node) (Outcome, error) {
	if c.editor == nil {
		return Outcome{}, ErrNoEditor
	}

	v, err := jsondoc.Resolve(c.doc, n.Path)
	if err != nil {
		return Outcome{}, err
	}
	text, err := jsondoc.Format(v)
	if err != nil {
		return Outcome{}, err
	}

	session := NewEditSession(n.Path, n.Key, v)
	if !c.latch.Acquire(session) {
		return Outcome{Status: StatusIgnored}, nil
	}
	c.logger.Debug("edit started", "path", n.Path, "session", session.ID)

	c.editor.Edit(EditRequest{
		Session:     session,
		Key:         n.Key,
		IsRoot:      n.IsRoot,
		KeyEditable: !n.IsRoot && !n.InArray,
		Value:       v,
		Text:        text,
	}, once(func(outcome EditOutcome) {
		c.finishEdit(session, outcome)
	}))

	return Outcome{Status: StatusPending, Session: &session}, nil
}

func (c *Controller) openLink(n *models.Node) (Outcome, error) {
	v, err := jsondoc.Resolve(c.doc, n.Path)
	if err != nil {
		return Outcome{}, err
	}
	url, ok := v.(string)
	if !ok || !jsondoc.IsURL(url) {
		return Outcome{}, fmt.Errorf("open-link on %s: %w", n.Path, ErrActionUnavailable)
	}

	surface := c.surface
	if c.previewer == nil {
		surface.Notify("Could not open url")
		return Outcome{Status: StatusApplied}, nil
	}

	logger := c.logger
	c.previewer.FetchLinkType(url, func(resp preview.Response, err error) {
		if err != nil {
			logger.Debug("link preview failed", "url", url, "err", err)
			surface.Notify("Could not open url")
			return
		}
		surface.ShowPreview(resp)
	})
	return Outcome{Status: StatusPending}, nil
}
