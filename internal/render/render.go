// Package render turns a document value into the structural tree the surfaces
// draw, and into browser markup.
package render

import (
	"strconv"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
)

// Render builds the tree for value. With isRoot the node sits at the root
// address and carries the root marker; otherwise key becomes its only path part.
func Render(key string, value any, isRoot bool) *models.Node {
	if isRoot {
		return build("", value, jsondoc.Root(), true)
	}
	return build(key, value, jsondoc.NewPath(key), false)
}

// RenderAt builds a non-root subtree for value at path. Used to patch a single
// container after a mutation.
func RenderAt(key string, value any, path jsondoc.Path) *models.Node {
	return build(key, value, path, path.IsRoot())
}

func build(key string, value any, path jsondoc.Path, isRoot bool) *models.Node {
	kind := jsondoc.Classify(value)

	n := models.NewNode(key, kind, path)
	n.IsRoot = isRoot
	n.TypeLabel = jsondoc.TypeLabel(value)

	switch v := value.(type) {
	case *jsondoc.Object:
		v.Each(func(childKey string, child any) bool {
			n.AddChild(build(childKey, child, path.Append(childKey), false))
			return true
		})
	case *jsondoc.Array:
		for i, child := range v.Items {
			c := build(strconv.Itoa(i), child, path.AppendIndex(i), false)
			c.InArray = true
			n.AddChild(c)
		}
	default:
		n.Literal = jsondoc.Literal(value)
		n.IsURL = jsondoc.IsURL(value)
	}

	n.Actions = actionsFor(n)
	return n
}

func actionsFor(n *models.Node) []models.Action {
	actions := []models.Action{models.ActionCopy}
	if !n.IsRoot {
		actions = append(actions, models.ActionDelete)
	}
	if n.IsURL {
		actions = append(actions, models.ActionOpenLink)
	}
	actions = append(actions, models.ActionEdit)
	if n.IsContainer() {
		actions = append(actions, models.ActionToggle)
	}
	return actions
}
