package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rebeliceyang/lazyjson/internal/clipboard"
	"github.com/rebeliceyang/lazyjson/internal/controller"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/mutation"
	"github.com/rebeliceyang/lazyjson/internal/preview"
	"github.com/rebeliceyang/lazyjson/internal/render"
	"github.com/sourcegraph/conc"
)

const outboxSize = 64

type rpcRequest struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	ID     any       `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// push is a server-initiated message
type push struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

type patchParams struct {
	Scope   string `json:"scope"`
	Address string `json:"address"`
	HTML    string `json:"html"`
}

type clipboardParams struct {
	Text    string `json:"text"`
	Address string `json:"address"`
	PulseMS int64  `json:"pulseMs"`
}

type editOpenParams struct {
	Session   string `json:"session"`
	Key       string `json:"key"`
	Root      bool   `json:"root"`
	Renamable bool   `json:"renamable"`
	Value     string `json:"value"`
}

type previewParams struct {
	ContentType string `json:"contentType"`
	Body        string `json:"body"`
	URL         string `json:"url"`
	Image       bool   `json:"image"`
}

type notifyParams struct {
	Text string `json:"text"`
}

// session is one browser connection. mu serializes every controller call,
// so events of a connection run one at a time.
type session struct {
	id     uuid.UUID
	server *Server
	conn   *websocket.Conn
	logger *log.Logger

	mu     sync.Mutex
	ctrl   *controller.Controller
	editor *webEditor

	out     chan []byte
	done    chan struct{}
	closing sync.Once
}

func newSession(s *Server, conn *websocket.Conn, doc any) *session {
	sess := &session{
		id:     uuid.New(),
		server: s,
		conn:   conn,
		out:    make(chan []byte, outboxSize),
		done:   make(chan struct{}),
	}
	sess.logger = s.logger.With("session", sess.id)
	sess.editor = &webEditor{sess: sess, pending: make(map[uuid.UUID]func(controller.EditOutcome))}

	opts := []controller.Option{
		controller.WithSurface(sess),
		controller.WithEditor(sess.editor),
		// the page performs the real copy
		controller.WithClipboard(clipboard.Func(func(string) error { return nil })),
		controller.WithLogger(sess.logger),
		controller.WithStartCollapsed(s.startCollapsed),
	}
	if s.previewer != nil {
		opts = append(opts, controller.WithPreviewer(s.previewer))
	}
	sess.ctrl = controller.New(doc, opts...)
	return sess
}

// run serves the connection until the peer goes away
func (sess *session) run() {
	var wg conc.WaitGroup
	wg.Go(sess.writeLoop)

	sess.readLoop()

	sess.close()
	wg.Wait()
	_ = sess.conn.Close()
}

func (sess *session) close() {
	sess.closing.Do(func() { close(sess.done) })
}

func (sess *session) readLoop() {
	for {
		_, msg, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.logger.Debug("read failed", "err", err)
			}
			return
		}
		var req rpcRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			sess.send(rpcResponse{Error: &rpcError{Code: -32700, Message: "parse error"}})
			continue
		}
		sess.send(sess.handleRPC(req))
	}
}

func (sess *session) writeLoop() {
	for {
		select {
		case data := <-sess.out:
			if err := sess.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				sess.logger.Debug("write failed", "err", err)
				sess.close()
				return
			}
		case <-sess.done:
			return
		}
	}
}

// send queues v for the writer. It is safe from any goroutine.
func (sess *session) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sess.logger.Error("encode message", "err", err)
		return
	}
	select {
	case sess.out <- data:
	case <-sess.done:
	}
}

func (sess *session) notify(method string, params any) {
	sess.send(push{Method: method, Params: params})
}

// Patch implements controller.Surface
func (sess *session) Patch(p controller.Patch) {
	scope := "subtree"
	if p.Scope.Kind == mutation.FullRebuild {
		scope = "full"
	}
	sess.notify("patch", patchParams{
		Scope:   scope,
		Address: p.Node.Address(),
		HTML:    render.Markup(p.Node),
	})
}

// ShowPreview implements controller.Surface
func (sess *session) ShowPreview(resp preview.Response) {
	params := previewParams{
		ContentType: resp.ContentType,
		URL:         resp.URL,
		Image:       resp.IsImage(),
	}
	if !params.Image {
		params.Body = resp.Text()
	}
	sess.notify("preview", params)
}

// Notify implements controller.Surface
func (sess *session) Notify(text string) {
	sess.notify("notify", notifyParams{Text: text})
}

func invalidParams(req rpcRequest, err error) rpcResponse {
	return rpcResponse{ID: req.ID, Error: &rpcError{Code: -32602, Message: err.Error()}}
}

func failed(req rpcRequest, err error) rpcResponse {
	return rpcResponse{ID: req.ID, Error: &rpcError{Code: -32000, Message: err.Error()}}
}

func (sess *session) handleRPC(req rpcRequest) rpcResponse {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch req.Method {
	case "toggle":
		return sess.rpcAction(req, models.ActionToggle)
	case "delete":
		return sess.rpcAction(req, models.ActionDelete)
	case "copy":
		return sess.rpcAction(req, models.ActionCopy)
	case "edit":
		return sess.rpcAction(req, models.ActionEdit)
	case "link":
		return sess.rpcAction(req, models.ActionOpenLink)
	case "edit.commit":
		return sess.rpcEditCommit(req)
	case "edit.cancel":
		return sess.rpcEditCancel(req)
	case "collapseAll":
		return rpcResponse{ID: req.ID, Result: map[string]bool{"applied": sess.ctrl.CollapseAll()}}
	case "expandAll":
		return rpcResponse{ID: req.ID, Result: map[string]bool{"applied": sess.ctrl.ExpandAll()}}
	case "document":
		return sess.rpcDocument(req)
	default:
		return rpcResponse{
			ID:    req.ID,
			Error: &rpcError{Code: -32601, Message: fmt.Sprintf("unknown method: %s", req.Method)},
		}
	}
}

func (sess *session) rpcAction(req rpcRequest, action models.Action) rpcResponse {
	var p struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return invalidParams(req, err)
	}

	out, err := sess.ctrl.Dispatch(controller.Event{Action: action, Address: p.Address})
	if err != nil {
		return failed(req, err)
	}

	if action == models.ActionCopy && out.Status == controller.StatusApplied {
		sess.notify("clipboard", clipboardParams{
			Text:    out.Text,
			Address: p.Address,
			PulseMS: sess.server.pulse.Milliseconds(),
		})
		sess.schedulePulse(out.Pulse)
	}

	result := map[string]string{"status": out.Status.String()}
	if out.Session != nil {
		result["session"] = out.Session.ID.String()
	}
	return rpcResponse{ID: req.ID, Result: result}
}

// schedulePulse clears the copy highlight after the pulse delay
func (sess *session) schedulePulse(token uint64) {
	time.AfterFunc(sess.server.pulse, func() {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.ctrl.ClearPulse(token)
	})
}

func (sess *session) rpcEditCommit(req rpcRequest) rpcResponse {
	var p struct {
		Session string `json:"session"`
		Key     string `json:"key"`
		Value   string `json:"value"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return invalidParams(req, err)
	}
	id, err := uuid.Parse(p.Session)
	if err != nil {
		return invalidParams(req, err)
	}

	value, err := jsondoc.ParseLoose(p.Value)
	if err != nil {
		// the editor stays open so the input can be fixed
		return invalidParams(req, err)
	}
	if err := sess.editor.resolve(id, controller.Committed{Key: p.Key, Value: value}); err != nil {
		return failed(req, err)
	}
	return rpcResponse{ID: req.ID, Result: map[string]string{"status": "committed"}}
}

func (sess *session) rpcEditCancel(req rpcRequest) rpcResponse {
	var p struct {
		Session string `json:"session"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return invalidParams(req, err)
	}
	id, err := uuid.Parse(p.Session)
	if err != nil {
		return invalidParams(req, err)
	}
	if err := sess.editor.resolve(id, controller.Cancelled{}); err != nil {
		return failed(req, err)
	}
	return rpcResponse{ID: req.ID, Result: map[string]string{"status": "cancelled"}}
}

func (sess *session) rpcDocument(req rpcRequest) rpcResponse {
	text, err := jsondoc.Format(sess.ctrl.Document())
	if err != nil {
		return failed(req, err)
	}
	return rpcResponse{ID: req.ID, Result: map[string]any{
		"json":    text,
		"html":    render.Markup(sess.ctrl.Root()),
		"editing": sess.ctrl.Editing(),
	}}
}

var errNoEdit = errors.New("no open edit with that session")

// webEditor opens the page's editor and waits for edit.commit or edit.cancel
type webEditor struct {
	sess    *session
	pending map[uuid.UUID]func(controller.EditOutcome)
}

// Edit implements controller.ValueEditor
func (e *webEditor) Edit(req controller.EditRequest, resolve func(controller.EditOutcome)) {
	e.pending[req.Session.ID] = resolve
	e.sess.notify("edit.open", editOpenParams{
		Session:   req.Session.ID.String(),
		Key:       req.Key,
		Root:      req.IsRoot,
		Renamable: req.KeyEditable,
		Value:     req.Text,
	})
}

func (e *webEditor) resolve(id uuid.UUID, outcome controller.EditOutcome) error {
	resolve, ok := e.pending[id]
	if !ok {
		return errNoEdit
	}
	delete(e.pending, id)
	resolve(outcome)
	return nil
}
