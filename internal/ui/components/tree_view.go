package components

// JSONTreeView renders a JSON document as a collapsible tree with keyboard
// and mouse navigation.
//
// Features:
//   - Caret per container (▾ expanded, ▸ collapsed); scalars keep a blank slot
//   - Keyboard navigation (↑↓/jk, →←/hl, g/G, space, enter)
//   - Affordance buttons on the cursor row, clickable through bubblezone
//   - Automatic viewport scrolling for large documents
//   - Search match highlighting (n/N to cycle)
//
// The view never mutates the document. Every action leaves as an ActionMsg
// that the owner dispatches to the controller.
//
// Usage:
//
//	tv := components.NewJSONTreeView(ctrl.Root(), theme)
//	tv.Width, tv.Height = 80, 20
//
//	// In your Update method:
//	tv, cmd := tv.Update(msg)
//
//	// In your View method (scanned by zone.Scan at the top level):
//	content := tv.View()

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// ActionMsg asks the owner to run Action on the node at Address
type ActionMsg struct {
	Action  models.Action
	Address string
}

// ExpandAllMsg asks the owner to expand every container
type ExpandAllMsg struct{}

// CollapseAllMsg asks the owner to collapse every container
type CollapseAllMsg struct{}

// OpenSearchMsg asks the owner to open the search input
type OpenSearchMsg struct{}

// JSONTreeView represents a visual tree of a JSON document
type JSONTreeView struct {
	Root            *models.Node // Root node of the tree
	CursorIndex     int          // Current cursor position in the flattened list
	Width           int          // Display width
	Height          int          // Display height
	Theme           theme.Theme  // Color theme
	ScrollOffset    int          // Vertical scroll offset for viewport
	MaxLiteralWidth int          // Scalars longer than this are truncated

	matches  []*models.Node
	matchIdx int
}

// NewJSONTreeView creates a new tree view component
func NewJSONTreeView(root *models.Node, th theme.Theme) *JSONTreeView {
	return &JSONTreeView{
		Root:            root,
		CursorIndex:     0,
		Width:           80,
		Height:          20,
		Theme:           th,
		ScrollOffset:    0,
		MaxLiteralWidth: 60,
	}
}

// SetRoot swaps in a re-rendered tree, keeping the cursor on the same address
// when it still exists. Search matches survive only if the root is unchanged.
func (tv *JSONTreeView) SetRoot(root *models.Node) {
	var address string
	if current := tv.GetCurrentNode(); current != nil {
		address = current.Address()
	}

	if root != tv.Root {
		tv.matches = nil
		tv.matchIdx = 0
	}
	tv.Root = root

	if address != "" && tv.SetCursorToAddress(address) {
		return
	}
	tv.clampCursor(len(tv.visible()))
}

func (tv *JSONTreeView) visible() []*models.Node {
	if tv.Root == nil {
		return nil
	}
	return tv.Root.Flatten()
}

func (tv *JSONTreeView) clampCursor(n int) {
	if tv.CursorIndex >= n {
		tv.CursorIndex = n - 1
	}
	if tv.CursorIndex < 0 {
		tv.CursorIndex = 0
	}
}

// View renders the tree as a string
func (tv *JSONTreeView) View() string {
	visibleNodes := tv.visible()
	if len(visibleNodes) == 0 {
		return tv.emptyState()
	}

	tv.clampCursor(len(visibleNodes))

	viewHeight := tv.Height
	if viewHeight < 1 {
		viewHeight = 1
	}

	tv.adjustScrollOffset(len(visibleNodes), viewHeight)

	startIdx := tv.ScrollOffset
	endIdx := tv.ScrollOffset + viewHeight
	if endIdx > len(visibleNodes) {
		endIdx = len(visibleNodes)
	}

	var lines []string
	for i := startIdx; i < endIdx; i++ {
		line := tv.renderNode(visibleNodes[i], i == tv.CursorIndex)
		lines = append(lines, zone.Mark(rowZone(i), line))
	}

	for len(lines) < viewHeight {
		lines = append(lines, "")
	}

	content := strings.Join(lines, "\n")
	if tv.ScrollOffset > 0 || endIdx < len(visibleNodes) {
		content = tv.addScrollIndicators(content, startIdx, endIdx, len(visibleNodes))
	}
	return content
}

// Update handles keyboard input for tree navigation
func (tv *JSONTreeView) Update(msg tea.KeyMsg) (*JSONTreeView, tea.Cmd) {
	visibleNodes := tv.visible()
	if len(visibleNodes) == 0 {
		return tv, nil
	}
	tv.clampCursor(len(visibleNodes))
	current := visibleNodes[tv.CursorIndex]

	var cmd tea.Cmd

	switch msg.String() {
	case "up", "k":
		if tv.CursorIndex > 0 {
			tv.CursorIndex--
		}

	case "down", "j":
		if tv.CursorIndex < len(visibleNodes)-1 {
			tv.CursorIndex++
		}

	case "g", "home":
		tv.CursorIndex = 0
		tv.ScrollOffset = 0

	case "G", "end":
		tv.CursorIndex = len(visibleNodes) - 1

	case " ", "enter":
		if current.IsContainer() {
			cmd = action(models.ActionToggle, current)
		}

	case "right", "l":
		if current.IsContainer() && current.Collapsed {
			cmd = action(models.ActionToggle, current)
		}

	case "left", "h":
		if current.IsContainer() && !current.Collapsed {
			cmd = action(models.ActionToggle, current)
		} else if current.Parent != nil {
			if idx := tv.findNodeIndex(visibleNodes, current.Parent); idx >= 0 {
				tv.CursorIndex = idx
			}
		}

	case "y":
		cmd = action(models.ActionCopy, current)

	case "d", "delete":
		if current.HasAction(models.ActionDelete) {
			cmd = action(models.ActionDelete, current)
		}

	case "e":
		cmd = action(models.ActionEdit, current)

	case "o":
		if current.HasAction(models.ActionOpenLink) {
			cmd = action(models.ActionOpenLink, current)
		}

	case "E":
		cmd = func() tea.Msg { return ExpandAllMsg{} }

	case "C":
		cmd = func() tea.Msg { return CollapseAllMsg{} }

	case "/":
		cmd = func() tea.Msg { return OpenSearchMsg{} }

	case "n":
		tv.NextMatch(1)

	case "N":
		tv.NextMatch(-1)
	}

	return tv, cmd
}

// HandleMouse maps a click onto a row or one of its buttons
func (tv *JSONTreeView) HandleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	visibleNodes := tv.visible()
	start := tv.ScrollOffset
	end := start + tv.Height
	if end > len(visibleNodes) {
		end = len(visibleNodes)
	}

	for i := start; i < end; i++ {
		n := visibleNodes[i]
		for _, a := range buttonActions {
			if n.HasAction(a) && zone.Get(buttonZone(a, i)).InBounds(msg) {
				tv.CursorIndex = i
				return action(a, n)
			}
		}
		if zone.Get(rowZone(i)).InBounds(msg) {
			tv.CursorIndex = i
			if n.IsContainer() {
				return action(models.ActionToggle, n)
			}
			return nil
		}
	}
	return nil
}

func action(a models.Action, n *models.Node) tea.Cmd {
	address := n.Address()
	return func() tea.Msg {
		return ActionMsg{Action: a, Address: address}
	}
}

var buttonActions = []models.Action{
	models.ActionCopy,
	models.ActionDelete,
	models.ActionOpenLink,
	models.ActionEdit,
}

var buttonLabels = map[models.Action]string{
	models.ActionCopy:     "[y]copy",
	models.ActionDelete:   "[d]del",
	models.ActionOpenLink: "[o]open",
	models.ActionEdit:     "[e]edit",
}

func rowZone(i int) string {
	return fmt.Sprintf("jl-row-%d", i)
}

func buttonZone(a models.Action, i int) string {
	return fmt.Sprintf("jl-btn-%s-%d", a, i)
}

// renderNode renders a single row with appropriate styling
func (tv *JSONTreeView) renderNode(node *models.Node, selected bool) string {
	indent := strings.Repeat("  ", node.Depth())

	caret := " "
	if node.HasCaret() {
		caret = "▾"
		if node.Collapsed {
			caret = "▸"
		}
	}
	caretStyle := lipgloss.NewStyle().Foreground(tv.Theme.Caret)

	label := tv.buildNodeLabel(node)
	content := indent + caretStyle.Render(caret) + " " + label

	maxWidth := tv.Width - 2
	if maxWidth < 10 {
		maxWidth = 10
	}

	if selected {
		var buttons []string
		idx := tv.CursorIndex
		btnStyle := lipgloss.NewStyle().Foreground(tv.Theme.Button)
		for _, a := range buttonActions {
			if node.HasAction(a) {
				buttons = append(buttons, zone.Mark(buttonZone(a, idx), btnStyle.Render(buttonLabels[a])))
			}
		}
		content += "  " + strings.Join(buttons, " ")
	}

	style := lipgloss.NewStyle().
		Foreground(tv.Theme.Foreground).
		MaxWidth(maxWidth)
	switch {
	case node.Copying:
		style = style.Background(tv.Theme.Copying)
	case selected:
		style = style.Background(tv.Theme.Selection).Bold(true)
	}

	return style.Render(content)
}

// buildNodeLabel builds "key: literal" or "key: type" for a node
func (tv *JSONTreeView) buildNodeLabel(node *models.Node) string {
	keyStyle := lipgloss.NewStyle().Foreground(tv.Theme.JSONKey)
	if tv.isMatch(node) {
		keyStyle = keyStyle.Foreground(tv.Theme.Match).Underline(true)
	}

	var key string
	switch {
	case node.IsRoot:
		key = keyStyle.Render("$")
	case node.InArray:
		key = keyStyle.Render("[" + node.Key + "]")
	default:
		key = keyStyle.Render(node.Key)
	}

	if node.IsContainer() {
		typeStyle := lipgloss.NewStyle().Foreground(tv.Theme.JSONType).Italic(true)
		label := node.TypeLabel
		if node.Collapsed && node.Kind == jsondoc.KindObject {
			label = fmt.Sprintf("%s{%d}", label, len(node.Children))
		}
		return key + ": " + typeStyle.Render(label)
	}

	literal := node.Literal
	if tv.MaxLiteralWidth > 0 && runewidth.StringWidth(literal) > tv.MaxLiteralWidth {
		literal = runewidth.Truncate(literal, tv.MaxLiteralWidth, "…")
	}
	return key + ": " + tv.literalStyle(node).Render(literal)
}

func (tv *JSONTreeView) literalStyle(node *models.Node) lipgloss.Style {
	style := lipgloss.NewStyle()
	if node.IsURL {
		return style.Foreground(tv.Theme.JSONURL).Underline(true)
	}
	switch node.Kind {
	case jsondoc.KindString:
		return style.Foreground(tv.Theme.JSONString)
	case jsondoc.KindNumber:
		return style.Foreground(tv.Theme.JSONNumber)
	case jsondoc.KindBoolean:
		return style.Foreground(tv.Theme.JSONBoolean)
	default:
		return style.Foreground(tv.Theme.JSONNull)
	}
}

// adjustScrollOffset adjusts the scroll offset to keep the cursor visible
func (tv *JSONTreeView) adjustScrollOffset(totalNodes, viewHeight int) {
	if tv.CursorIndex < tv.ScrollOffset {
		tv.ScrollOffset = tv.CursorIndex
	}
	if tv.CursorIndex >= tv.ScrollOffset+viewHeight {
		tv.ScrollOffset = tv.CursorIndex - viewHeight + 1
	}

	if tv.ScrollOffset < 0 {
		tv.ScrollOffset = 0
	}
	maxScroll := totalNodes - viewHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if tv.ScrollOffset > maxScroll {
		tv.ScrollOffset = maxScroll
	}
}

// addScrollIndicators marks the first and last line when more rows exist
func (tv *JSONTreeView) addScrollIndicators(content string, startIdx, endIdx, total int) string {
	lines := strings.Split(content, "\n")
	indicator := lipgloss.NewStyle().Foreground(tv.Theme.Info)

	if startIdx > 0 && len(lines) > 0 {
		lines[0] = indicator.Render("↑") + " " + lines[0]
	}
	if endIdx < total && len(lines) > 0 {
		last := len(lines) - 1
		lines[last] = indicator.Render("↓") + " " + lines[last]
	}

	return strings.Join(lines, "\n")
}

// emptyState returns the empty state view
func (tv *JSONTreeView) emptyState() string {
	style := lipgloss.NewStyle().
		Foreground(tv.Theme.Metadata).
		Italic(true).
		Width(max(tv.Width-2, 1)).
		Align(lipgloss.Center)

	return style.Render("No document loaded")
}

// findNodeIndex finds the index of a node in the flattened list
func (tv *JSONTreeView) findNodeIndex(nodes []*models.Node, target *models.Node) int {
	for i, node := range nodes {
		if node == target {
			return i
		}
	}
	return -1
}

// GetCurrentNode returns the node under the cursor
func (tv *JSONTreeView) GetCurrentNode() *models.Node {
	visibleNodes := tv.visible()
	if tv.CursorIndex < 0 || tv.CursorIndex >= len(visibleNodes) {
		return nil
	}
	return visibleNodes[tv.CursorIndex]
}

// SetCursorToAddress moves the cursor to the visible node at address
func (tv *JSONTreeView) SetCursorToAddress(address string) bool {
	for i, node := range tv.visible() {
		if node.Address() == address {
			tv.CursorIndex = i
			return true
		}
	}
	return false
}

// SetMatches installs search results and jumps to the first one
func (tv *JSONTreeView) SetMatches(matches []*models.Node) {
	tv.matches = matches
	tv.matchIdx = 0
	if len(matches) > 0 {
		tv.reveal(matches[0])
	}
}

// Matches returns the current search results
func (tv *JSONTreeView) Matches() []*models.Node {
	return tv.matches
}

// NextMatch moves to the next (dir > 0) or previous search result
func (tv *JSONTreeView) NextMatch(dir int) {
	if len(tv.matches) == 0 {
		return
	}
	tv.matchIdx = (tv.matchIdx + dir + len(tv.matches)) % len(tv.matches)
	tv.reveal(tv.matches[tv.matchIdx])
}

// reveal opens the ancestors of n so it is visible, then puts the cursor on it.
// Expanding here is a view concern and does not touch the document.
func (tv *JSONTreeView) reveal(n *models.Node) {
	for p := n.Parent; p != nil; p = p.Parent {
		p.Collapsed = false
	}
	tv.SetCursorToAddress(n.Address())
}

func (tv *JSONTreeView) isMatch(n *models.Node) bool {
	for _, m := range tv.matches {
		if m == n {
			return true
		}
	}
	return false
}
