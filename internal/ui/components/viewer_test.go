package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/render"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

func newTestViewer(t *testing.T, text string) *Viewer {
	t.Helper()
	doc, err := jsondoc.ParseString(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tv := NewJSONTreeView(render.Render("", doc, true), theme.DefaultTheme())
	v := NewViewer(tv, theme.DefaultTheme())
	v.Width = 60
	v.Height = 10
	if err := v.SetDocument(doc); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}
	return v
}

func TestViewer_ModeSwitching(t *testing.T) {
	v := newTestViewer(t, `{"a":1}`)

	if v.Mode() != ViewTree {
		t.Errorf("Expected tree mode, got %s", v.Mode())
	}

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyTab})
	if v.Mode() != ViewFormatted {
		t.Errorf("Expected formatted mode, got %s", v.Mode())
	}

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyTab})
	if v.Mode() != ViewPath {
		t.Errorf("Expected path mode, got %s", v.Mode())
	}

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyTab})
	if v.Mode() != ViewTree {
		t.Errorf("Expected tree mode after wrapping, got %s", v.Mode())
	}
}

func TestViewer_FormattedView(t *testing.T) {
	v := newTestViewer(t, `{"a":1}`)
	v.SetMode(ViewFormatted)

	if !strings.Contains(v.View(), `"a": 1`) {
		t.Error("Expected formatted JSON in view")
	}
}

func TestViewer_PathViewAndJump(t *testing.T) {
	v := newTestViewer(t, `{"a":{"b":[10,20]}}`)
	for _, c := range v.Tree.Root.Containers() {
		c.Collapsed = true
	}
	v.SetMode(ViewPath)

	view := v.View()
	if !strings.Contains(view, "$.a.b[1]") {
		t.Error("Expected $.a.b[1] in path view")
	}

	// $, $.a, $.a.b, $.a.b[0], $.a.b[1]
	for i := 0; i < 4; i++ {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	path, ok := v.SelectedPath()
	if !ok || path.String() != "$.a.b[1]" {
		t.Fatalf("Expected $.a.b[1] selected, got %s", path.String())
	}

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if v.Mode() != ViewTree {
		t.Errorf("Expected jump to tree mode, got %s", v.Mode())
	}
	current := v.Tree.GetCurrentNode()
	if current == nil || current.Path.String() != "$.a.b[1]" {
		t.Errorf("Expected tree cursor on $.a.b[1], got %v", current)
	}
}
