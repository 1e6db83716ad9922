package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/render"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

func init() {
	// Initialize bubblezone for tests that call View() methods
	zone.NewGlobal()
}

func buildTree(t *testing.T, text string) *models.Node {
	t.Helper()
	doc, err := jsondoc.ParseString(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return render.Render("", doc, true)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// runCmd executes cmd and returns its message, or nil
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestNewJSONTreeView(t *testing.T) {
	root := buildTree(t, `{"a":1}`)
	tv := NewJSONTreeView(root, theme.DefaultTheme())

	if tv.Root != root {
		t.Error("Root not set correctly")
	}
	if tv.CursorIndex != 0 {
		t.Errorf("Expected initial cursor index 0, got %d", tv.CursorIndex)
	}
	if tv.ScrollOffset != 0 {
		t.Errorf("Expected initial scroll offset 0, got %d", tv.ScrollOffset)
	}
}

func TestJSONTreeView_EmptyState(t *testing.T) {
	tv := NewJSONTreeView(nil, theme.DefaultTheme())
	tv.Width = 40
	tv.Height = 10

	if !strings.Contains(tv.View(), "No document loaded") {
		t.Error("Expected empty state message for nil root")
	}
}

func TestJSONTreeView_Rows(t *testing.T) {
	tv := NewJSONTreeView(buildTree(t, `{"a":1,"b":[true,null],"c":"x"}`), theme.DefaultTheme())
	tv.Width = 80
	tv.Height = 20

	view := tv.View()
	for _, want := range []string{"$", "object", "a", "1", "b", "array[2]", "[0]", "true", "null", `"x"`, "▾"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestJSONTreeView_NavigationUpDown(t *testing.T) {
	tv := NewJSONTreeView(buildTree(t, `{"a":1,"b":2}`), theme.DefaultTheme())
	tv.Width = 40
	tv.Height = 20

	tv, _ = tv.Update(tea.KeyMsg{Type: tea.KeyDown})
	if tv.CursorIndex != 1 {
		t.Errorf("Expected cursor at 1 after down, got %d", tv.CursorIndex)
	}

	tv, _ = tv.Update(tea.KeyMsg{Type: tea.KeyDown})
	tv, _ = tv.Update(tea.KeyMsg{Type: tea.KeyDown})
	if tv.CursorIndex != 2 {
		t.Errorf("Expected cursor to stay at 2 at bottom, got %d", tv.CursorIndex)
	}

	tv, _ = tv.Update(runeKey('k'))
	if tv.CursorIndex != 1 {
		t.Errorf("Expected cursor at 1 after k, got %d", tv.CursorIndex)
	}

	tv, _ = tv.Update(runeKey('G'))
	if tv.CursorIndex != 2 {
		t.Errorf("Expected cursor at 2 after G, got %d", tv.CursorIndex)
	}

	tv, _ = tv.Update(runeKey('g'))
	if tv.CursorIndex != 0 {
		t.Errorf("Expected cursor at 0 after g, got %d", tv.CursorIndex)
	}
}

func TestJSONTreeView_ToggleEmitsAction(t *testing.T) {
	tv := NewJSONTreeView(buildTree(t, `{"a":{"b":1}}`), theme.DefaultTheme())
	tv.CursorIndex = 1

	_, cmd := tv.Update(tea.KeyMsg{Type: tea.KeySpace})
	msg, ok := runCmd(cmd).(ActionMsg)
	if !ok {
		t.Fatalf("Expected ActionMsg, got %T", runCmd(cmd))
	}
	if msg.Action != models.ActionToggle {
		t.Errorf("Expected toggle action, got %s", msg.Action)
	}
	if msg.Address != `["a"]` {
		t.Errorf("Expected address [\"a\"], got %s", msg.Address)
	}

	// the view never toggles by itself
	if tv.GetCurrentNode().Collapsed {
		t.Error("Expected node to stay expanded until the controller toggles it")
	}
}

func TestJSONTreeView_ScalarToggleIgnored(t *testing.T) {
	tv := NewJSONTreeView(buildTree(t, `{"a":1}`), theme.DefaultTheme())
	tv.CursorIndex = 1

	_, cmd := tv.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Expected no command when toggling a scalar")
	}
}

func TestJSONTreeView_LeftMovesToParent(t *testing.T) {
	tv := NewJSONTreeView(buildTree(t, `{"a":{"b":1}}`), theme.DefaultTheme())
	tv.CursorIndex = 2

	tv, cmd := tv.Update(runeKey('h'))
	if cmd != nil {
		t.Error("Expected no command when moving to the parent")
	}
	if tv.CursorIndex != 1 {
		t.Errorf("Expected cursor on parent at 1, got %d", tv.CursorIndex)
	}

	_, cmd = tv.Update(runeKey('h'))
	if msg, ok := runCmd(cmd).(ActionMsg); !ok || msg.Action != models.ActionToggle {
		t.Error("Expected left on an open container to collapse it")
	}
}

func TestJSONTreeView_NodeActions(t *testing.T) {
	tests := []struct {
		key    rune
		action models.Action
	}{
		{'y', models.ActionCopy},
		{'d', models.ActionDelete},
		{'e', models.ActionEdit},
		{'o', models.ActionOpenLink},
	}

	for _, tt := range tests {
		tv := NewJSONTreeView(buildTree(t, `{"u":"https://example.com"}`), theme.DefaultTheme())
		tv.CursorIndex = 1

		_, cmd := tv.Update(runeKey(tt.key))
		msg, ok := runCmd(cmd).(ActionMsg)
		if !ok {
			t.Errorf("%c: expected ActionMsg", tt.key)
			continue
		}
		if msg.Action != tt.action {
			t.Errorf("%c: expected %s, got %s", tt.key, tt.action, msg.Action)
		}
	}
}

func TestJSONTreeView_UnavailableActions(t *testing.T) {
	tv := NewJSONTreeView(buildTree(t, `{"n":5}`), theme.DefaultTheme())

	// root cannot be deleted
	if _, cmd := tv.Update(runeKey('d')); cmd != nil {
		t.Error("Expected no delete on the root")
	}

	// a number is not a link
	tv.CursorIndex = 1
	if _, cmd := tv.Update(runeKey('o')); cmd != nil {
		t.Error("Expected no open-link on a number")
	}
}

func TestJSONTreeView_ExpandCollapseAllMsgs(t *testing.T) {
	tv := NewJSONTreeView(buildTree(t, `{"a":[1]}`), theme.DefaultTheme())

	_, cmd := tv.Update(runeKey('E'))
	if _, ok := runCmd(cmd).(ExpandAllMsg); !ok {
		t.Error("Expected ExpandAllMsg")
	}

	_, cmd = tv.Update(runeKey('C'))
	if _, ok := runCmd(cmd).(CollapseAllMsg); !ok {
		t.Error("Expected CollapseAllMsg")
	}

	_, cmd = tv.Update(runeKey('/'))
	if _, ok := runCmd(cmd).(OpenSearchMsg); !ok {
		t.Error("Expected OpenSearchMsg")
	}
}

func TestJSONTreeView_CollapsedChildrenHidden(t *testing.T) {
	root := buildTree(t, `{"a":{"hidden":1},"b":2}`)
	root.Children[0].Collapsed = true

	tv := NewJSONTreeView(root, theme.DefaultTheme())
	tv.Width = 60
	tv.Height = 10

	view := tv.View()
	if strings.Contains(view, "hidden") {
		t.Error("Expected collapsed children to be hidden")
	}
	if !strings.Contains(view, "▸") {
		t.Error("Expected closed caret on collapsed container")
	}
}

func TestJSONTreeView_SetRootKeepsCursor(t *testing.T) {
	tv := NewJSONTreeView(buildTree(t, `{"a":1,"b":2,"c":3}`), theme.DefaultTheme())
	tv.CursorIndex = 3 // c

	tv.SetRoot(buildTree(t, `{"b":2,"c":3}`))
	if got := tv.GetCurrentNode(); got == nil || got.Key != "c" {
		t.Errorf("Expected cursor to stay on c, got %v", got)
	}

	tv.SetRoot(buildTree(t, `{"b":2}`))
	if tv.CursorIndex != 1 {
		t.Errorf("Expected cursor clamped to 1, got %d", tv.CursorIndex)
	}
}

func TestJSONTreeView_ViewportScrolling(t *testing.T) {
	tv := NewJSONTreeView(buildTree(t, `[0,1,2,3,4,5,6,7,8,9]`), theme.DefaultTheme())
	tv.Width = 40
	tv.Height = 4

	for i := 0; i < 8; i++ {
		tv, _ = tv.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	tv.View()

	if tv.ScrollOffset != 5 {
		t.Errorf("Expected scroll offset 5, got %d", tv.ScrollOffset)
	}
	if tv.CursorIndex < tv.ScrollOffset || tv.CursorIndex >= tv.ScrollOffset+tv.Height {
		t.Error("Expected cursor to stay inside the viewport")
	}
}

func TestJSONTreeView_TruncatesLongLiterals(t *testing.T) {
	tv := NewJSONTreeView(buildTree(t, `{"s":"`+strings.Repeat("x", 100)+`"}`), theme.DefaultTheme())
	tv.Width = 200
	tv.Height = 5
	tv.MaxLiteralWidth = 20

	if strings.Contains(tv.View(), strings.Repeat("x", 30)) {
		t.Error("Expected long literal to be truncated")
	}
}

func TestJSONTreeView_Matches(t *testing.T) {
	root := buildTree(t, `{"a":{"name":"x"},"b":{"name":"y"}}`)
	for _, c := range root.Containers() {
		c.Collapsed = true
	}
	root.Collapsed = false

	tv := NewJSONTreeView(root, theme.DefaultTheme())
	tv.SetMatches(FilterTree(root, ParseSearchQuery("name")))

	if len(tv.Matches()) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(tv.Matches()))
	}
	current := tv.GetCurrentNode()
	if current == nil || current.Path.String() != "$.a.name" {
		t.Errorf("Expected cursor on $.a.name, got %v", current)
	}

	tv, _ = tv.Update(runeKey('n'))
	if current := tv.GetCurrentNode(); current.Path.String() != "$.b.name" {
		t.Errorf("Expected cursor on $.b.name, got %s", current.Path.String())
	}

	tv, _ = tv.Update(runeKey('N'))
	if current := tv.GetCurrentNode(); current.Path.String() != "$.a.name" {
		t.Errorf("Expected cursor back on $.a.name, got %s", current.Path.String())
	}
}

func TestJSONTreeView_HandleMouseIgnoresPress(t *testing.T) {
	tv := NewJSONTreeView(buildTree(t, `{"a":1}`), theme.DefaultTheme())
	tv.View()

	cmd := tv.HandleMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd != nil {
		t.Error("Expected press events to be ignored")
	}
}
