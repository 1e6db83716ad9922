package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

func TestSearchInput_SubmitAndReset(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme())
	s.Input.SetValue("s:ada")

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg, ok := cmd().(SearchInputMsg)
	if !ok || msg.Query != "s:ada" {
		t.Fatalf("Expected SearchInputMsg with s:ada, got %+v", msg)
	}

	s.Input.SetValue("")
	s.Reset()
	if s.Input.Value() != "s:ada" {
		t.Errorf("Expected last query after reset, got %q", s.Input.Value())
	}
}

func TestSearchInput_Escape(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme())

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(CloseSearchMsg); !ok {
		t.Error("Expected CloseSearchMsg on esc")
	}
}

func TestSearchInput_Describe(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "Enter: search"},
		{"ada", `Find any value matching "ada"`},
		{"n:", "Find number values"},
		{"!s:x", `Find everything except string values matching "x"`},
	}

	s := NewSearchInput(theme.DefaultTheme())
	for _, tt := range tests {
		s.Input.SetValue(tt.input)
		if got := s.describe(); !strings.HasPrefix(got, tt.want) {
			t.Errorf("describe(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}
}
