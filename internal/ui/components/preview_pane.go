package components

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyjson/internal/controller"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/preview"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// ClosePreviewMsg is sent when the preview pane is dismissed
type ClosePreviewMsg struct{}

// PreviewCopiedMsg reports the result of copying the preview body
type PreviewCopiedMsg struct {
	Err error
}

// PreviewPane shows the response of an opened link
type PreviewPane struct {
	Width     int
	MaxHeight int
	Response  preview.Response
	Visible   bool
	Clipboard controller.Clipboard

	// Scrolling
	scrollY      int
	contentLines []string // wrapped, highlighted lines

	// Styling
	Theme           theme.Theme
	style           lipgloss.Style
	chromaStyle     *chroma.Style
	chromaFormatter chroma.Formatter
}

// NewPreviewPane creates a hidden preview pane
func NewPreviewPane(th theme.Theme, cb controller.Clipboard) *PreviewPane {
	p := &PreviewPane{
		Width:     80,
		MaxHeight: 20,
		Theme:     th,
		Clipboard: cb,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.BorderFocused).
			Padding(0, 1),
	}
	p.initChroma()
	return p
}

// initChroma picks the highlight style from the theme
func (p *PreviewPane) initChroma() {
	p.chromaStyle = styles.Get(p.Theme.Chroma)
	if p.chromaStyle == nil {
		p.chromaStyle = styles.Fallback
	}

	p.chromaFormatter = formatters.Get("terminal256")
	if p.chromaFormatter == nil {
		p.chromaFormatter = formatters.Fallback
	}
}

// SetResponse shows resp, scrolled to the top
func (p *PreviewPane) SetResponse(resp preview.Response) {
	p.Response = resp
	p.Visible = true
	p.scrollY = 0
	p.contentLines = nil
}

// Close hides the pane
func (p *PreviewPane) Close() {
	p.Visible = false
	p.contentLines = nil
}

// Body returns the text the pane displays before wrapping. JSON bodies are
// pretty-printed; images show their URL only.
func (p *PreviewPane) Body() string {
	if p.Response.IsImage() {
		return "image (" + p.Response.MediaType() + ")\n" + p.Response.URL
	}

	text := p.Response.Text()
	if strings.Contains(p.Response.MediaType(), "json") {
		if v, err := jsondoc.ParseString(text); err == nil {
			if pretty, err := jsondoc.Format(v); err == nil {
				text = pretty
			}
		}
	}
	return text
}

// lexer chooses a lexer from the content type, then from the body
func (p *PreviewPane) lexer(body string) chroma.Lexer {
	if p.Response.IsImage() {
		return nil
	}
	lexer := lexers.MatchMimeType(p.Response.MediaType())
	if lexer == nil {
		lexer = lexers.Analyse(body)
	}
	if lexer == nil {
		lexer = lexers.Get("plaintext")
	}
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}

// formatContent wraps and highlights the body
func (p *PreviewPane) formatContent() {
	body := p.Body()
	if body == "" {
		p.contentLines = []string{}
		return
	}

	contentWidth := p.Width - p.style.GetHorizontalFrameSize()
	if contentWidth < 10 {
		contentWidth = 10
	}

	lexer := p.lexer(body)
	lines := p.wrapText(body, contentWidth)
	p.contentLines = make([]string, len(lines))
	for i, line := range lines {
		p.contentLines[i] = p.highlightLine(lexer, line)
	}
}

// highlightLine applies syntax highlighting to a single line
func (p *PreviewPane) highlightLine(lexer chroma.Lexer, line string) string {
	plain := lipgloss.NewStyle().Foreground(p.Theme.Foreground)
	if line == "" {
		return ""
	}
	if lexer == nil {
		return plain.Render(line)
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return plain.Render(line)
	}

	var buf bytes.Buffer
	if err := p.chromaFormatter.Format(&buf, p.chromaStyle, iterator); err != nil {
		return plain.Render(line)
	}

	// Remove trailing newline added by chroma
	return strings.TrimSuffix(buf.String(), "\n")
}

// wrapText wraps text to fit within maxWidth
func (p *PreviewPane) wrapText(text string, maxWidth int) []string {
	var result []string
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	for _, line := range lines {
		line = strings.ReplaceAll(line, "\t", "    ")
		if runewidth.StringWidth(line) <= maxWidth {
			result = append(result, line)
			continue
		}

		var current strings.Builder
		currentWidth := 0
		for _, r := range line {
			rWidth := runewidth.RuneWidth(r)
			if currentWidth+rWidth > maxWidth {
				result = append(result, current.String())
				current.Reset()
				currentWidth = 0
			}
			current.WriteRune(r)
			currentWidth += rWidth
		}
		if current.Len() > 0 {
			result = append(result, current.String())
		}
	}

	return result
}

// Lines returns the formatted lines, formatting on demand
func (p *PreviewPane) Lines() []string {
	if p.contentLines == nil {
		p.formatContent()
	}
	return p.contentLines
}

func (p *PreviewPane) visibleLines() int {
	n := p.MaxHeight - p.style.GetVerticalFrameSize() - 2 // header and footer
	if n < 1 {
		n = 1
	}
	return n
}

// IsScrollable returns true if content exceeds visible area
func (p *PreviewPane) IsScrollable() bool {
	return len(p.Lines()) > p.visibleLines()
}

// ScrollUp scrolls content up
func (p *PreviewPane) ScrollUp() {
	if p.scrollY > 0 {
		p.scrollY--
	}
}

// ScrollDown scrolls content down
func (p *PreviewPane) ScrollDown() {
	maxScroll := len(p.Lines()) - p.visibleLines()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.scrollY < maxScroll {
		p.scrollY++
	}
}

// ScrollOffset returns the first visible line
func (p *PreviewPane) ScrollOffset() int {
	return p.scrollY
}

// Update handles keys while the pane is visible
func (p *PreviewPane) Update(msg tea.KeyMsg) (*PreviewPane, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		p.ScrollUp()
	case "down", "j":
		p.ScrollDown()
	case "y":
		text := p.Response.Text()
		if p.Response.IsImage() {
			text = p.Response.URL
		}
		cb := p.Clipboard
		return p, func() tea.Msg {
			if cb == nil {
				return PreviewCopiedMsg{}
			}
			return PreviewCopiedMsg{Err: cb.Copy(text)}
		}
	case "esc", "q", "p":
		p.Close()
		return p, func() tea.Msg { return ClosePreviewMsg{} }
	}
	return p, nil
}

// View renders the preview pane
func (p *PreviewPane) View() string {
	if !p.Visible {
		return ""
	}

	lines := p.Lines()
	contentWidth := p.Width - p.style.GetHorizontalFrameSize()

	titleStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Info).
		Bold(true)
	header := "Preview: " + p.Response.URL
	if mt := p.Response.MediaType(); mt != "" {
		header += " (" + mt + ")"
	}
	if runewidth.StringWidth(header) > contentWidth {
		header = runewidth.Truncate(header, contentWidth, "...")
	}

	parts := []string{titleStyle.Render(header)}

	start := p.scrollY
	end := start + p.visibleLines()
	if end > len(lines) {
		end = len(lines)
	}
	parts = append(parts, lines[start:end]...)

	helpParts := []string{}
	if p.IsScrollable() {
		helpParts = append(helpParts, "↑↓: Scroll")
	}
	if p.Response.Truncated {
		helpParts = append(helpParts, "body truncated")
	}
	helpParts = append(helpParts, "y: Copy", "Esc: Close")

	helpText := strings.Join(helpParts, " │ ")
	helpStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Metadata).
		Italic(true)

	footerPadding := contentWidth - runewidth.StringWidth(helpText)
	if footerPadding < 0 {
		footerPadding = 0
	}
	parts = append(parts, strings.Repeat(" ", footerPadding)+helpStyle.Render(helpText))

	innerHeight := p.MaxHeight - p.style.GetVerticalFrameSize()
	if innerHeight < 3 {
		innerHeight = 3
	}

	containerStyle := p.style.
		Width(p.Width - p.style.GetHorizontalFrameSize()).
		Height(innerHeight).
		MaxHeight(innerHeight + p.style.GetVerticalFrameSize())

	return containerStyle.Render(strings.Join(parts, "\n"))
}
