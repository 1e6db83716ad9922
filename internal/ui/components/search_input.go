package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// SearchInputMsg carries the submitted query
type SearchInputMsg struct {
	Query string
}

// CloseSearchMsg closes the search box without searching
type CloseSearchMsg struct{}

// SearchInput is the one-line query box opened with "/"
type SearchInput struct {
	Input   textinput.Model
	Theme   theme.Theme
	Width   int
	Visible bool

	last string
}

// NewSearchInput creates a focused, empty search box
func NewSearchInput(th theme.Theme) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = "key or value; s: n: b: o: a: null: filter by type, ! negates"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 40

	return &SearchInput{
		Input: ti,
		Theme: th,
	}
}

// Reset prefills the box with the last submitted query
func (s *SearchInput) Reset() {
	s.Input.SetValue(s.last)
	s.Input.CursorEnd()
}

// Update handles key input. Enter submits, Esc closes.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			query := s.Input.Value()
			s.last = query
			return s, func() tea.Msg { return SearchInputMsg{Query: query} }
		case "esc":
			return s, func() tea.Msg { return CloseSearchMsg{} }
		}
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// describe explains how the current text will be matched
func (s *SearchInput) describe() string {
	text := s.Input.Value()
	if text == "" {
		return "Enter: search │ Esc: close │ n/N: next/prev match"
	}

	q := ParseSearchQuery(text)
	what := "any value"
	if q.TypeFilter != "" {
		what = string(q.TypeFilter) + " values"
	}
	if q.Pattern != "" {
		what = fmt.Sprintf("%s matching %q", what, q.Pattern)
	}
	if q.Negate {
		what = "everything except " + what
	}
	return "Find " + what
}

// View renders the box with a line describing the parsed query
func (s *SearchInput) View() string {
	s.Input.Width = max(s.Width-8, 20)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(s.Width)

	label := lipgloss.NewStyle().Foreground(s.Theme.Info).Bold(true).Render("/")
	hint := lipgloss.NewStyle().Foreground(s.Theme.Metadata).Italic(true).Render(s.describe())

	return box.Render(label + " " + s.Input.View() + "\n" + hint)
}
