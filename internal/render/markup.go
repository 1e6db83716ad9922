package render

import (
	"html"
	"strings"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
)

// Markup returns the HTML for n and its subtree: one <li> row per node, with a
// container's children in an <ol> right after its row.
func Markup(n *models.Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// RowClass returns the class attribute of the row rendered for n
func RowClass(n *models.Node) string {
	classes := []string{"jl-row", "jl-kind-" + string(n.Kind)}
	if n.IsContainer() {
		classes = append(classes, "jl-parent-node")
	}
	if n.IsRoot {
		classes = append(classes, "jl-json-root")
	}
	if n.IsURL {
		classes = append(classes, "jl-url")
	}
	if n.Copying {
		classes = append(classes, "jl-is-copying")
	}
	return strings.Join(classes, " ")
}

func writeNode(b *strings.Builder, n *models.Node) {
	b.WriteString(`<li data-path="`)
	b.WriteString(html.EscapeString(n.Address()))
	b.WriteString(`" class="`)
	b.WriteString(RowClass(n))
	b.WriteString(`">`)

	if n.HasCaret() {
		if n.Collapsed {
			b.WriteString(`<i class="jl-caret jl-caret-closed"></i>`)
		} else {
			b.WriteString(`<i class="jl-caret"></i>`)
		}
	} else {
		b.WriteString(`<i class="jl-caret jl-transparent-caret"></i>`)
	}

	if !n.IsRoot {
		b.WriteString(`<span class="jl-key">`)
		b.WriteString(jsondoc.EscapeMarkup(n.Key))
		b.WriteString(`</span><span class="jl-sep">:&nbsp;</span>`)
	}

	if n.IsContainer() {
		b.WriteString(`<span class="jl-type">`)
		b.WriteString(n.TypeLabel)
		b.WriteString(`</span>`)
	} else {
		b.WriteString(`<span class="jl-value">`)
		b.WriteString(jsondoc.EscapeMarkup(n.Literal))
		b.WriteString(`</span>`)
	}

	for _, action := range n.Actions {
		writeButton(b, action)
	}
	b.WriteString(`</li>`)

	if !n.IsContainer() {
		return
	}
	if n.Collapsed {
		b.WriteString(`<ol class="jl-children jl-closed">`)
	} else {
		b.WriteString(`<ol class="jl-children">`)
	}
	for _, child := range n.Children {
		writeNode(b, child)
	}
	b.WriteString(`</ol>`)
}

var buttons = map[models.Action]struct {
	class string
	title string
}{
	models.ActionCopy:     {"jl-copy-btn", "Copy"},
	models.ActionDelete:   {"jl-delete-btn", "Delete"},
	models.ActionOpenLink: {"jl-link-btn", "Open link"},
	models.ActionEdit:     {"jl-edit-btn", "Edit"},
}

func writeButton(b *strings.Builder, action models.Action) {
	btn, ok := buttons[action]
	if !ok {
		// toggle is the row itself
		return
	}
	b.WriteString(`<button type="button" class="jl-btn `)
	b.WriteString(btn.class)
	b.WriteString(`" data-action="`)
	b.WriteString(string(action))
	b.WriteString(`" title="`)
	b.WriteString(btn.title)
	b.WriteString(`"></button>`)
}
