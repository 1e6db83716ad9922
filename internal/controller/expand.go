package controller

import (
	"github.com/rebeliceyang/lazyjson/internal/mutation"
)

// CollapseAll collapses every container, the root included. It does nothing
// while an edit is open and reports whether it ran.
func (c *Controller) CollapseAll() bool {
	return c.setAll(true)
}

// ExpandAll expands every container. It does nothing while an edit is open
// and reports whether it ran.
func (c *Controller) ExpandAll() bool {
	return c.setAll(false)
}

func (c *Controller) setAll(collapsed bool) bool {
	if c.latch.Held() {
		c.logger.Debug("collapse/expand ignored while editing")
		return false
	}
	c.setCollapsed(collapsed)
	c.surface.Patch(Patch{Scope: mutation.Scope{Kind: mutation.FullRebuild}, Node: c.root})
	return true
}

func (c *Controller) setCollapsed(collapsed bool) {
	for _, n := range c.root.Containers() {
		n.Collapsed = collapsed
	}
}
