package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// ToastExpiredMsg removes the toast with the same ID
type ToastExpiredMsg struct {
	ID int
}

// Toast is a transient notification line
type Toast struct {
	Text    string
	IsError bool
	Theme   theme.Theme

	id int
}

// NewToast creates an empty toast
func NewToast(th theme.Theme) *Toast {
	return &Toast{Theme: th}
}

// Show displays text for d. The returned command expires only this toast,
// so a later Show is not cut short by an earlier timer.
func (t *Toast) Show(text string, isError bool, d time.Duration) tea.Cmd {
	t.id++
	t.Text = text
	t.IsError = isError

	id := t.id
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// Expire clears the toast if msg belongs to the one on screen
func (t *Toast) Expire(msg ToastExpiredMsg) bool {
	if msg.ID != t.id || t.Text == "" {
		return false
	}
	t.Text = ""
	t.IsError = false
	return true
}

// Visible reports whether a toast is on screen
func (t *Toast) Visible() bool {
	return t.Text != ""
}

// View renders the toast
func (t *Toast) View() string {
	if t.Text == "" {
		return ""
	}
	color := t.Theme.Success
	if t.IsError {
		color = t.Theme.Error
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(t.Text)
}
