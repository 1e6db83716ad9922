package app

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rebeliceyang/lazyjson/internal/clipboard"
	"github.com/rebeliceyang/lazyjson/internal/config"
	"github.com/rebeliceyang/lazyjson/internal/controller"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/preview"
	"github.com/rebeliceyang/lazyjson/internal/ui/components"
	"github.com/rebeliceyang/lazyjson/internal/ui/help"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme
	logger *log.Logger

	ctrl      *controller.Controller
	clipboard controller.Clipboard
	previewer controller.LinkPreviewer

	leftPanel  components.Panel
	rightPanel components.Panel

	viewer      *components.Viewer
	editor      *components.ValueEditor
	previewPane *components.PreviewPane
	searchInput *components.SearchInput
	toast       *components.Toast

	// Messages posted by the controller's surface calls. Link previews
	// resolve on another goroutine, so the box is locked and drained on
	// the event loop.
	mu     sync.Mutex
	outbox []tea.Msg
	send   func(tea.Msg)
}

// Option configures an App
type Option func(*App)

// WithLogger sets the logger shared with the controller
func WithLogger(l *log.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithClipboard overrides the system clipboard
func WithClipboard(cb controller.Clipboard) Option {
	return func(a *App) { a.clipboard = cb }
}

// WithPreviewer overrides the HTTP link previewer
func WithPreviewer(p controller.LinkPreviewer) Option {
	return func(a *App) { a.previewer = p }
}

// WithSource names the document in the top bar
func WithSource(name string) Option {
	return func(a *App) { a.state.Source = name }
}

// previewMsg carries a fetched link to the event loop
type previewMsg struct {
	resp preview.Response
}

// notifyMsg carries a transient notification to the event loop
type notifyMsg struct {
	text string
}

// wakeMsg makes the event loop drain the outbox
type wakeMsg struct{}

// pulseDoneMsg ends a copy highlight
type pulseDoneMsg struct {
	token uint64
}

// New creates a new App showing doc
func New(cfg *config.Config, doc any, opts ...Option) *App {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	state := models.NewAppState()
	th := theme.GetTheme(cfg.UI.Theme)

	a := &App{
		state:  state,
		config: cfg,
		theme:  th,
		logger: log.New(io.Discard),
		leftPanel: components.Panel{
			Title:   "Document",
			Focused: true,
			Theme:   th,
		},
		rightPanel: components.Panel{
			Title: "Value",
			Theme: th,
		},
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.clipboard == nil {
		a.clipboard = clipboard.System{}
	}
	if a.previewer == nil && cfg.Preview.Enabled {
		a.previewer = preview.NewFetcher(
			preview.WithMaxBody(cfg.Preview.MaxBodyBytes),
			preview.WithUserAgent(cfg.Preview.UserAgent),
		)
	}

	tree := components.NewJSONTreeView(nil, th)
	tree.MaxLiteralWidth = cfg.UI.MaxLiteralWidth
	a.viewer = components.NewViewer(tree, th)
	a.editor = components.NewValueEditor(th, cfg.Editor.CharLimit)
	a.previewPane = components.NewPreviewPane(th, a.clipboard)
	a.searchInput = components.NewSearchInput(th)
	a.toast = components.NewToast(th)

	ctrlOpts := []controller.Option{
		controller.WithClipboard(a.clipboard),
		controller.WithEditor(a.editor),
		controller.WithSurface(a),
		controller.WithLogger(a.logger),
		controller.WithStartCollapsed(cfg.Tree.StartCollapsed),
	}
	if a.previewer != nil {
		ctrlOpts = append(ctrlOpts, controller.WithPreviewer(a.previewer))
	}
	a.ctrl = controller.New(doc, ctrlOpts...)
	a.refresh()

	a.updatePanelDimensions()
	return a
}

// SetSender lets surface calls from other goroutines wake the event loop.
// Pass the running program's Send.
func (a *App) SetSender(send func(tea.Msg)) {
	a.mu.Lock()
	a.send = send
	a.mu.Unlock()
}

// Controller returns the tree controller
func (a *App) Controller() *controller.Controller {
	return a.ctrl
}

// State returns the current application state
func (a *App) State() models.AppState {
	return a.state
}

// Patch implements controller.Surface. It runs inside Update, so the new
// tree is installed immediately.
func (a *App) Patch(p controller.Patch) {
	if a.ctrl == nil {
		return
	}
	a.logger.Debug("patch", "scope", p.Scope.Kind, "path", p.Scope.Path)
	a.refresh()
}

// ShowPreview implements controller.Surface
func (a *App) ShowPreview(resp preview.Response) {
	a.post(previewMsg{resp: resp})
}

// Notify implements controller.Surface
func (a *App) Notify(text string) {
	a.post(notifyMsg{text: text})
}

func (a *App) post(msg tea.Msg) {
	a.mu.Lock()
	a.outbox = append(a.outbox, msg)
	send := a.send
	a.mu.Unlock()

	if send != nil {
		// Send blocks until the loop reads it; never block Update
		go send(wakeMsg{})
	}
}

// drain handles posted messages on the event loop
func (a *App) drain() tea.Cmd {
	a.mu.Lock()
	pending := a.outbox
	a.outbox = nil
	a.mu.Unlock()

	var cmds []tea.Cmd
	for _, msg := range pending {
		switch msg := msg.(type) {
		case previewMsg:
			a.previewPane.SetResponse(msg.resp)
			a.state.FocusArea = models.FocusPreview
		case notifyMsg:
			cmds = append(cmds, a.toast.Show(msg.text, true, a.config.Notify.Duration()))
		}
	}
	return tea.Batch(cmds...)
}

// refresh installs the controller's current tree and document
func (a *App) refresh() {
	root := a.ctrl.Root()
	a.state.Tree = root
	a.viewer.Tree.SetRoot(root)
	if err := a.viewer.SetDocument(a.ctrl.Document()); err != nil {
		a.logger.Error("could not format document", "err", err)
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	if current := a.viewer.Tree.GetCurrentNode(); current != nil {
		a.state.CursorPath = current.Address()
	}
	return a, tea.Batch(cmd, a.drain())
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions()
		return nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case components.ActionMsg:
		return a.dispatch(msg)

	case components.ExpandAllMsg:
		a.ctrl.ExpandAll()
		return nil

	case components.CollapseAllMsg:
		a.ctrl.CollapseAll()
		return nil

	case components.OpenSearchMsg:
		a.searchInput.Reset()
		a.searchInput.Input.Focus()
		a.searchInput.Visible = true
		a.state.FocusArea = models.FocusSearch
		return nil

	case components.SearchInputMsg:
		a.searchInput.Visible = false
		a.state.FocusArea = models.FocusTree
		return a.search(msg.Query)

	case components.CloseSearchMsg:
		a.searchInput.Visible = false
		a.state.FocusArea = models.FocusTree
		return nil

	case components.ClosePreviewMsg:
		a.state.FocusArea = models.FocusTree
		return nil

	case components.PreviewCopiedMsg:
		if msg.Err != nil {
			return a.toast.Show("Copy failed: "+msg.Err.Error(), true, a.config.Notify.Duration())
		}
		return a.toast.Show("Preview copied", false, a.config.Notify.Duration())

	case components.ToastExpiredMsg:
		a.toast.Expire(msg)
		return nil

	case pulseDoneMsg:
		a.ctrl.ClearPulse(msg.token)
		return nil

	case wakeMsg:
		// drained by Update
		return nil
	}
	return nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch a.state.FocusArea {
	case models.FocusEditor:
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		if !a.editor.Visible {
			a.state.FocusArea = models.FocusTree
		}
		return cmd

	case models.FocusSearch:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return cmd

	case models.FocusPreview:
		var cmd tea.Cmd
		a.previewPane, cmd = a.previewPane.Update(msg)
		return cmd
	}

	if a.state.ViewMode == models.HelpMode {
		switch msg.String() {
		case "?", "esc", "q":
			a.state.ViewMode = models.NormalMode
		}
		return nil
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "?":
		a.state.ViewMode = models.HelpMode
		return nil
	case "esc":
		if len(a.viewer.Tree.Matches()) > 0 {
			a.viewer.Tree.SetMatches(nil)
		}
		return nil
	}

	var cmd tea.Cmd
	a.viewer, cmd = a.viewer.Update(msg)
	return cmd
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.state.FocusArea != models.FocusTree || a.state.ViewMode != models.NormalMode {
		return nil
	}
	if a.viewer.Mode() != components.ViewTree {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		var cmd tea.Cmd
		a.viewer.Tree, cmd = a.viewer.Tree.Update(tea.KeyMsg{Type: tea.KeyUp})
		return cmd
	case tea.MouseButtonWheelDown:
		var cmd tea.Cmd
		a.viewer.Tree, cmd = a.viewer.Tree.Update(tea.KeyMsg{Type: tea.KeyDown})
		return cmd
	}
	return a.viewer.Tree.HandleMouse(msg)
}

// dispatch hands a node action to the controller and turns the outcome into
// follow-up commands
func (a *App) dispatch(msg components.ActionMsg) tea.Cmd {
	out, err := a.ctrl.Dispatch(controller.Event{Action: msg.Action, Address: msg.Address})
	if err != nil {
		return a.toast.Show(err.Error(), true, a.config.Notify.Duration())
	}
	if out.Status == controller.StatusIgnored {
		return nil
	}

	switch msg.Action {
	case models.ActionCopy:
		token := out.Pulse
		pulse := tea.Tick(a.config.Copy.Pulse(), func(time.Time) tea.Msg {
			return pulseDoneMsg{token: token}
		})
		return tea.Batch(pulse, a.toast.Show("Copied", false, a.config.Notify.Duration()))

	case models.ActionEdit:
		if a.editor.Visible {
			a.state.FocusArea = models.FocusEditor
		}

	case models.ActionDelete:
		return a.toast.Show("Deleted", false, a.config.Notify.Duration())
	}
	return nil
}

// search runs query against the whole tree, collapsed parts included
func (a *App) search(query string) tea.Cmd {
	if query == "" {
		a.viewer.Tree.SetMatches(nil)
		return nil
	}

	matches := components.FilterTree(a.ctrl.Root(), components.ParseSearchQuery(query))
	a.viewer.SetMode(components.ViewTree)
	a.viewer.Tree.SetMatches(matches)

	text := fmt.Sprintf("%d matches for %q", len(matches), query)
	return a.toast.Show(text, len(matches) == 0, a.config.Notify.Duration())
}

// View implements tea.Model
func (a *App) View() string {
	return zone.Scan(a.view())
}

func (a *App) view() string {
	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, a.theme)
	}

	switch a.state.FocusArea {
	case models.FocusEditor:
		a.editor.Width = min(a.state.Width-4, 80)
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.editor.View(),
		)
	case models.FocusPreview:
		a.previewPane.Width = a.state.Width - 2
		a.previewPane.MaxHeight = a.state.Height - 2
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.previewPane.View(),
		)
	}

	return a.renderNormalView()
}

// renderNormalView renders the tree and value panels between the status bars
func (a *App) renderNormalView() string {
	source := a.state.Source
	if source == "" {
		source = "stdin"
	}
	topBarRight := a.viewer.Mode().String()
	if a.ctrl.Editing() {
		topBarRight = "editing · " + topBarRight
	}

	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(a.theme.Background).
		Padding(0, 2).
		Render(a.formatStatusBar("lazyjson  "+source, topBarRight))

	a.viewer.Width = a.leftPanel.Width
	a.viewer.Height = a.leftPanel.Height - 1 // panel title
	a.leftPanel.Content = a.viewer.View()
	a.rightPanel.Content = a.renderDetails()

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.leftPanel.View(),
		a.rightPanel.View(),
	)

	var bottom string
	switch {
	case a.state.FocusArea == models.FocusSearch:
		a.searchInput.Width = a.state.Width - 4
		bottom = a.searchInput.View()
	case a.toast.Visible():
		bottom = lipgloss.NewStyle().
			Width(a.state.Width).
			Padding(0, 2).
			Render(a.toast.View())
	default:
		bottom = lipgloss.NewStyle().
			Width(a.state.Width).
			Background(a.theme.Selection).
			Foreground(a.theme.Foreground).
			Padding(0, 2).
			Render(a.formatStatusBar("[y] copy [d] delete [e] edit [o] open [/] search", "[?] help [q] quit"))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		panels,
		bottom,
	)
}

// renderDetails describes the node under the cursor
func (a *App) renderDetails() string {
	node := a.viewer.Tree.GetCurrentNode()
	if node == nil {
		return ""
	}

	label := lipgloss.NewStyle().Foreground(a.theme.Metadata)
	value := lipgloss.NewStyle().Foreground(a.theme.Foreground)

	actions := make([]string, len(node.Actions))
	for i, act := range node.Actions {
		actions[i] = string(act)
	}

	lines := []string{
		label.Render("path  ") + value.Render(node.Path.String()),
		label.Render("type  ") + value.Render(node.TypeLabel),
		label.Render("keys  ") + value.Render(strings.Join(actions, ", ")),
		"",
	}

	text, err := a.ctrl.CopyText(node)
	if err != nil {
		text = err.Error()
	}
	room := a.rightPanel.Height - len(lines) - 1
	for i, line := range strings.Split(text, "\n") {
		if i >= room {
			lines = append(lines, label.Render("…"))
			break
		}
		lines = append(lines, value.Render(jsondoc.Truncate(line, a.rightPanel.Width-2)))
	}
	return strings.Join(lines, "\n")
}

// updatePanelDimensions calculates panel sizes based on window size
func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// Top bar, bottom bar and the panel borders
	contentHeight := a.state.Height - 4
	if contentHeight < 5 {
		contentHeight = 5
	}

	leftWidth := (a.state.Width * 60) / 100
	if leftWidth < 20 {
		leftWidth = 20
	}
	rightWidth := a.state.Width - leftWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
		leftWidth = a.state.Width - rightWidth - 4
	}

	a.leftPanel.Width = leftWidth
	a.leftPanel.Height = contentHeight
	a.rightPanel.Width = rightWidth
	a.rightPanel.Height = contentHeight
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)

	if leftLen+rightLen > availableWidth {
		if availableWidth > rightLen {
			return jsondoc.Truncate(left, availableWidth-rightLen) + right
		}
		return jsondoc.Truncate(left, availableWidth)
	}

	spacing := availableWidth - leftLen - rightLen
	return left + strings.Repeat(" ", spacing) + right
}
