package controller

import (
	"github.com/google/uuid"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
)

// LatchState is the state of the edit latch
type LatchState int

const (
	Idle LatchState = iota
	Editing
)

func (s LatchState) String() string {
	if s == Editing {
		return "editing"
	}
	return "idle"
}

// EditSession is one in-flight edit
type EditSession struct {
	ID    uuid.UUID
	Path  jsondoc.Path
	Key   string
	Prior any
}

// NewEditSession starts a session for the value at path
func NewEditSession(path jsondoc.Path, key string, prior any) EditSession {
	return EditSession{
		ID:    uuid.New(),
		Path:  path,
		Key:   key,
		Prior: prior,
	}
}

// Latch admits at most one edit at a time. While held, structural actions are
// dropped.
type Latch struct {
	state   LatchState
	session EditSession
}

// Acquire takes the latch for session. It fails if an edit is already open.
func (l *Latch) Acquire(session EditSession) bool {
	if l.state == Editing {
		return false
	}
	l.state = Editing
	l.session = session
	return true
}

// Release frees the latch if it is held by the session with id
func (l *Latch) Release(id uuid.UUID) bool {
	if l.state != Editing || l.session.ID != id {
		return false
	}
	l.state = Idle
	l.session = EditSession{}
	return true
}

// Held reports whether an edit is open
func (l *Latch) Held() bool {
	return l.state == Editing
}

// State returns the current latch state
func (l *Latch) State() LatchState {
	return l.state
}

// Session returns the open edit session, if any
func (l *Latch) Session() (EditSession, bool) {
	if l.state != Editing {
		return EditSession{}, false
	}
	return l.session, true
}
