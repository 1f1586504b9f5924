// Package panel owns the diagram panel session: at most one live session
// per process, its surface attachment, and the routing of front-end
// messages. All bridge and request failures are caught here and reduced to
// wire-level error messages; nothing escapes the panel boundary.
package panel

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/systerlang/systerview/internal/diagram"
	"github.com/systerlang/systerview/internal/editor"
)

// DiagramProvider fetches diagram data scoped to one document URI, or to
// the whole workspace when the URI is empty.
type DiagramProvider interface {
	GetDiagram(ctx context.Context, uri string) (*diagram.Data, error)
}

// Notifier surfaces transient user-facing notices, such as the
// not-implemented acknowledgement for element edits. Notices are not wire
// errors; they never reach the front end.
type Notifier interface {
	Notify(message string)
}

// Surface is the transport to the visual front end. Send must be safe for
// concurrent use.
type Surface interface {
	Send(v interface{}) error
	Close() error
}

// Deps are the collaborators a session needs.
type Deps struct {
	Diagrams DiagramProvider
	Editor   editor.Opener
	Notifier Notifier
	Log      zerolog.Logger
}

// Manager holds at most one live session. It replaces a hidden
// process-wide singleton with an explicit handle: creation and teardown
// are the only mutations, so the at-most-one invariant is easy to audit.
type Manager struct {
	deps Deps

	mu     sync.Mutex
	active *Session
}

// NewManager returns a manager with no live session.
func NewManager(deps Deps) *Manager {
	return &Manager{deps: deps}
}

// CreateOrShow returns the live session, creating one rooted at rootURI if
// none exists. An existing session is revealed, not duplicated: repeated
// calls return the same instance until it is disposed.
func (m *Manager) CreateOrShow(rootURI string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		m.active.Reveal()
		return m.active
	}

	s := newSession(rootURI, m.deps)
	s.OnDispose(func() { m.release(s) })
	m.active = s

	m.deps.Log.Info().Str("session", s.ID).Str("root", rootURI).Msg("panel session created")
	return s
}

// Active returns the live session, or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// DocumentActive tells the live session (if any) that a recognized source
// document saw activity. No-op when no session is live.
func (m *Manager) DocumentActive(ctx context.Context, uri string) {
	if s := m.Active(); s != nil {
		s.DocumentActive(ctx, uri)
	}
}

// release clears the handle when its session is disposed. Guarded against
// a stale session disposing after a replacement was created.
func (m *Manager) release(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == s {
		m.active = nil
	}
}
