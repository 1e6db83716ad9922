package components

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyjson/internal/controller"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// ValueEditor is the single-line editor used to replace a node's value.
// It satisfies controller.ValueEditor: Edit opens it and the stored resolve
// runs when the user presses enter or esc. Object members also get a key
// field; tab moves between the two.
type ValueEditor struct {
	Input    textinput.Model
	KeyInput textinput.Model
	Theme    theme.Theme
	Width    int
	Visible  bool

	keyFocused bool

	request   controller.EditRequest
	resolve   func(controller.EditOutcome)
	err       error
	charLimit int
}

// NewValueEditor creates a hidden editor
func NewValueEditor(th theme.Theme, charLimit int) *ValueEditor {
	ti := textinput.New()
	ti.Placeholder = "JSON value, or plain text for a string"
	ti.CharLimit = charLimit
	ti.Width = 60

	ki := textinput.New()
	ki.Placeholder = "key"
	ki.CharLimit = 256
	ki.Width = 30

	return &ValueEditor{
		Input:     ti,
		KeyInput:  ki,
		Theme:     th,
		charLimit: charLimit,
	}
}

// Edit opens the editor for req. The input starts with the value in compact
// JSON so it fits on one line. The char limit grows to hold the whole value.
func (e *ValueEditor) Edit(req controller.EditRequest, resolve func(controller.EditOutcome)) {
	text, err := jsondoc.Compact(req.Value)
	if err != nil {
		text = req.Text
	}

	e.request = req
	e.resolve = resolve
	e.err = nil
	e.Visible = true
	e.Input.CharLimit = max(e.charLimit, utf8.RuneCountInString(text))
	e.Input.SetValue(text)
	e.Input.CursorEnd()
	e.Input.Focus()

	e.keyFocused = false
	e.KeyInput.Blur()
	e.KeyInput.SetValue("")
	if req.KeyEditable {
		e.KeyInput.CharLimit = max(256, utf8.RuneCountInString(req.Key))
		e.KeyInput.SetValue(req.Key)
		e.KeyInput.CursorEnd()
	}
}

func (e *ValueEditor) toggleFocus() {
	e.keyFocused = !e.keyFocused
	if e.keyFocused {
		e.Input.Blur()
		e.KeyInput.Focus()
	} else {
		e.KeyInput.Blur()
		e.Input.Focus()
	}
}

// Request returns the edit currently open
func (e *ValueEditor) Request() controller.EditRequest {
	return e.request
}

// Update handles key input while the editor is visible
func (e *ValueEditor) Update(msg tea.Msg) (*ValueEditor, tea.Cmd) {
	if !e.Visible {
		return e, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			value, err := jsondoc.ParseLoose(e.Input.Value())
			if err != nil {
				// keep the editor open so the input can be fixed
				e.err = err
				return e, nil
			}
			outcome := controller.Committed{Value: value}
			if e.request.KeyEditable {
				outcome.Key = e.KeyInput.Value()
			}
			e.finish(outcome)
			return e, nil
		case "esc":
			e.finish(controller.Cancelled{})
			return e, nil
		case "tab", "shift+tab":
			if e.request.KeyEditable {
				e.toggleFocus()
			}
			return e, nil
		}
	}

	e.err = nil
	var cmd tea.Cmd
	if e.keyFocused {
		e.KeyInput, cmd = e.KeyInput.Update(msg)
	} else {
		e.Input, cmd = e.Input.Update(msg)
	}
	return e, cmd
}

// Err returns the parse error of the last enter, if any
func (e *ValueEditor) Err() error {
	return e.err
}

func (e *ValueEditor) finish(outcome controller.EditOutcome) {
	resolve := e.resolve
	e.resolve = nil
	e.Visible = false
	e.Input.Blur()
	e.Input.SetValue("")
	e.KeyInput.Blur()
	e.keyFocused = false
	if resolve != nil {
		resolve(outcome)
	}
}

// View renders the editor box
func (e *ValueEditor) View() string {
	if !e.Visible {
		return ""
	}

	inputWidth := e.Width - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	e.Input.Width = inputWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.Theme.BorderFocused).
		Padding(0, 1).
		Width(e.Width)

	titleStyle := lipgloss.NewStyle().
		Foreground(e.Theme.JSONKey).
		Bold(true)

	helpStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Metadata).
		Italic(true)

	title := "Edit " + e.request.Key
	if e.request.IsRoot {
		title = "Edit document"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if e.request.KeyEditable {
		e.KeyInput.Width = inputWidth / 2
		b.WriteString("Key   " + e.KeyInput.View())
		b.WriteString("\n")
		b.WriteString("Value ")
	}
	b.WriteString(e.Input.View())
	b.WriteString("\n")
	if e.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(e.Theme.Error).Render(e.err.Error()))
		b.WriteString("\n")
	}
	help := "Enter: save │ Esc: cancel"
	if e.request.KeyEditable {
		help += " │ Tab: key/value"
	}
	b.WriteString(helpStyle.Render(help))

	return boxStyle.Render(b.String())
}
