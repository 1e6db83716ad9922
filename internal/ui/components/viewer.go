package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// ViewMode represents the display mode
type ViewMode int

const (
	ViewTree ViewMode = iota
	ViewFormatted
	ViewPath
)

func (m ViewMode) String() string {
	switch m {
	case ViewTree:
		return "Tree"
	case ViewFormatted:
		return "Formatted"
	case ViewPath:
		return "Path"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Viewer shows the document as an interactive tree, as formatted JSON or as
// a list of paths
type Viewer struct {
	Width  int
	Height int
	Theme  theme.Theme
	Tree   *JSONTreeView

	mode      ViewMode
	doc       any
	formatted []string
	paths     []jsondoc.Path

	// Formatted and path mode state
	selected int
	offset   int
}

// NewViewer creates a viewer around tree
func NewViewer(tree *JSONTreeView, th theme.Theme) *Viewer {
	return &Viewer{
		Width:  80,
		Height: 30,
		Theme:  th,
		Tree:   tree,
		mode:   ViewTree,
	}
}

// SetDocument refreshes the formatted and path modes for doc
func (v *Viewer) SetDocument(doc any) error {
	v.doc = doc

	formatted, err := jsondoc.Format(doc)
	if err != nil {
		return err
	}
	v.formatted = strings.Split(formatted, "\n")
	v.paths = jsondoc.Paths(doc)

	if v.selected >= len(v.paths) {
		v.selected = len(v.paths) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
	return nil
}

// Mode returns the current display mode
func (v *Viewer) Mode() ViewMode {
	return v.mode
}

// SetMode switches the display mode
func (v *Viewer) SetMode(mode ViewMode) {
	if mode != v.mode {
		v.mode = mode
		v.selected = 0
		v.offset = 0
	}
}

// SelectedPath returns the path under the cursor in path mode
func (v *Viewer) SelectedPath() (jsondoc.Path, bool) {
	if v.selected < 0 || v.selected >= len(v.paths) {
		return jsondoc.Path{}, false
	}
	return v.paths[v.selected], true
}

func (v *Viewer) contentHeight() int {
	h := v.Height - 1 // mode bar
	if h < 1 {
		h = 1
	}
	return h
}

func (v *Viewer) lineCount() int {
	if v.mode == ViewPath {
		return len(v.paths)
	}
	return len(v.formatted)
}

// Update handles keyboard input
func (v *Viewer) Update(msg tea.KeyMsg) (*Viewer, tea.Cmd) {
	switch msg.String() {
	case "tab":
		v.SetMode((v.mode + 1) % 3)
		return v, nil
	case "1":
		v.SetMode(ViewTree)
		return v, nil
	case "2":
		v.SetMode(ViewFormatted)
		return v, nil
	case "3":
		v.SetMode(ViewPath)
		return v, nil
	}

	if v.mode == ViewTree {
		var cmd tea.Cmd
		v.Tree, cmd = v.Tree.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < v.lineCount()-1 {
			v.selected++
		}
	case "g", "home":
		v.selected = 0
	case "G", "end":
		v.selected = max(v.lineCount()-1, 0)
	case "enter":
		if v.mode == ViewPath {
			v.jumpToSelected()
		}
	}

	height := v.contentHeight()
	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.selected >= v.offset+height {
		v.offset = v.selected - height + 1
	}
	return v, nil
}

// jumpToSelected shows the selected path in tree mode
func (v *Viewer) jumpToSelected() {
	path, ok := v.SelectedPath()
	if !ok || v.Tree.Root == nil {
		return
	}
	node := v.Tree.Root.FindByPath(path)
	if node == nil {
		return
	}
	v.mode = ViewTree
	v.Tree.reveal(node)
}

// View renders the viewer
func (v *Viewer) View() string {
	modes := []ViewMode{ViewTree, ViewFormatted, ViewPath}
	labels := make([]string, len(modes))
	for i, m := range modes {
		label := fmt.Sprintf("%d:%s", i+1, m)
		if m == v.mode {
			label = "[" + label + "]"
		}
		labels[i] = label
	}

	barStyle := lipgloss.NewStyle().
		Foreground(v.Theme.Metadata)
	bar := barStyle.Render(strings.Join(labels, "  ") + "   Tab: switch mode")

	height := v.contentHeight()
	var content string
	switch v.mode {
	case ViewTree:
		v.Tree.Width = v.Width
		v.Tree.Height = height
		content = v.Tree.View()
	case ViewFormatted:
		content = v.renderFormatted(height)
	case ViewPath:
		content = v.renderPaths(height)
	}

	return bar + "\n" + content
}

func (v *Viewer) window(total, height int) (int, int) {
	start := v.offset
	end := start + height
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}
	return start, end
}

func (v *Viewer) renderFormatted(height int) string {
	start, end := v.window(len(v.formatted), height)

	style := lipgloss.NewStyle().Foreground(v.Theme.Foreground)
	selectedStyle := style.Background(v.Theme.Selection)

	var lines []string
	for i := start; i < end; i++ {
		line := jsondoc.Truncate(v.formatted[i], v.Width-2)
		if i == v.selected {
			lines = append(lines, selectedStyle.Render(line))
		} else {
			lines = append(lines, style.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (v *Viewer) renderPaths(height int) string {
	start, end := v.window(len(v.paths), height)

	pathStyle := lipgloss.NewStyle().Foreground(v.Theme.JSONKey)
	valueStyle := lipgloss.NewStyle().Foreground(v.Theme.Metadata)
	selectedStyle := lipgloss.NewStyle().Background(v.Theme.Selection).Bold(true)

	var lines []string
	for i := start; i < end; i++ {
		path := v.paths[i]
		line := pathStyle.Render(path.String())
		if value, err := jsondoc.Resolve(v.doc, path); err == nil {
			summary := jsondoc.Literal(value)
			if summary == "" {
				summary = jsondoc.TypeLabel(value)
			}
			line += " " + valueStyle.Render(jsondoc.Truncate(summary, max(v.Width/2, 10)))
		}
		if i == v.selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
