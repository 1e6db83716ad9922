// Package controller owns a document and its rendered tree, and routes user
// actions on tree nodes to copy, delete, edit, toggle and link preview.
//
// A Controller is not safe for concurrent use. Surfaces serialize events: the
// terminal UI runs everything inside its update loop and the web surface holds
// a per-connection lock.
package controller

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/render"
)

var (
	// ErrUnboundAddress is returned for events on an address with no bound node
	ErrUnboundAddress = errors.New("address is not bound to a node")
	// ErrActionUnavailable is returned when a node does not offer the action
	ErrActionUnavailable = errors.New("action not available on node")
	// ErrNoEditor is returned for edits when no ValueEditor is configured
	ErrNoEditor = errors.New("no value editor configured")
)

// Controller holds the document and the structural tree rendered from it
type Controller struct {
	doc   any
	root  *models.Node
	index map[string]*models.Node
	latch Latch

	clipboard Clipboard
	editor    ValueEditor
	previewer LinkPreviewer
	surface   Surface
	logger    *log.Logger

	startCollapsed bool
	pulseSeq       uint64
	pulses         map[uint64]*models.Node
}

// Option configures a Controller
type Option func(*Controller)

// WithClipboard sets where copied text goes
func WithClipboard(cb Clipboard) Option {
	return func(c *Controller) { c.clipboard = cb }
}

// WithEditor sets the value editor used by edit actions
func WithEditor(e ValueEditor) Option {
	return func(c *Controller) { c.editor = e }
}

// WithPreviewer sets the link previewer used by open-link actions
func WithPreviewer(p LinkPreviewer) Option {
	return func(c *Controller) { c.previewer = p }
}

// WithSurface sets the surface that receives patches and notifications
func WithSurface(s Surface) Option {
	return func(c *Controller) { c.surface = s }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithStartCollapsed collapses every container after the first render
func WithStartCollapsed(collapsed bool) Option {
	return func(c *Controller) { c.startCollapsed = collapsed }
}

// New renders doc and binds every node
func New(doc any, opts ...Option) *Controller {
	c := &Controller{
		doc:     doc,
		surface: nopSurface{},
		logger:  log.New(io.Discard),
		pulses:  make(map[uint64]*models.Node),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.rebuild()
	if c.startCollapsed {
		c.setCollapsed(true)
	}
	c.logger.Debug("tree rendered", "nodes", len(c.index), "type", jsondoc.TypeLabel(doc))
	return c
}

// NewFromBytes parses data as JSON and renders it. Malformed input is
// reported once and no tree is built.
func NewFromBytes(data []byte, opts ...Option) (*Controller, error) {
	doc, err := jsondoc.Parse(data)
	if err != nil {
		tmp := &Controller{logger: log.New(io.Discard)}
		for _, opt := range opts {
			opt(tmp)
		}
		tmp.logger.Error("could not parse document", "err", err)
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return New(doc, opts...), nil
}

// Document returns the current document value
func (c *Controller) Document() any {
	return c.doc
}

// Root returns the root of the rendered tree
func (c *Controller) Root() *models.Node {
	return c.root
}

// Node returns the bound node at address
func (c *Controller) Node(address string) (*models.Node, bool) {
	n, ok := c.index[address]
	return n, ok
}

// Editing reports whether an edit is open
func (c *Controller) Editing() bool {
	return c.latch.Held()
}

// LatchState returns the edit latch state
func (c *Controller) LatchState() LatchState {
	return c.latch.State()
}

// Session returns the open edit session, if any
func (c *Controller) Session() (EditSession, bool) {
	return c.latch.Session()
}

// Attach binds every node under root that is not bound yet and returns how
// many were newly bound. Calling it again on the same tree does nothing.
func (c *Controller) Attach(root *models.Node) int {
	bound := 0
	root.Walk(func(n *models.Node) bool {
		if n.Bound {
			return true
		}
		n.Bound = true
		c.index[n.Address()] = n
		bound++
		return true
	})
	return bound
}

// detach removes the nodes under root from the index
func (c *Controller) detach(root *models.Node) {
	root.Walk(func(n *models.Node) bool {
		if c.index[n.Address()] == n {
			delete(c.index, n.Address())
		}
		n.Bound = false
		return true
	})
}

// rebuild re-renders the whole document
func (c *Controller) rebuild() {
	c.root = render.Render("", c.doc, true)
	c.index = make(map[string]*models.Node)
	c.pulses = make(map[uint64]*models.Node)
	c.Attach(c.root)
}

// replaceSubtree re-renders the container at path from value and swaps it
// into the tree
func (c *Controller) replaceSubtree(path jsondoc.Path, value any) (*models.Node, error) {
	old, ok := c.index[path.Key()]
	if !ok || old.Parent == nil {
		return nil, &models.MalformedTreeError{Key: path.Last(), Reason: "no rendered node for " + path.String()}
	}

	fresh := render.RenderAt(old.Key, value, path)
	fresh.InArray = old.InArray

	parent := old.Parent
	c.detach(old)
	if !parent.ReplaceChild(old, fresh) {
		return nil, &models.MalformedTreeError{Key: old.Key, Reason: "node missing from its parent"}
	}
	c.Attach(fresh)
	return fresh, nil
}
