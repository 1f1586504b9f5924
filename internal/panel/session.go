package panel

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.lsp.dev/uri"

	"github.com/systerlang/systerview/internal/lang"
	"github.com/systerlang/systerview/internal/protocol"
)

// ErrSurfaceAttached is returned when a second surface tries to attach to
// a session that already has one. The caller should reveal the existing
// surface instead.
var ErrSurfaceAttached = errors.New("a surface is already attached to this session")

// Session is one live panel instance. It routes front-end messages,
// triggers refreshes, and guarantees a terminal wire message for every
// refresh attempt.
type Session struct {
	ID      string
	rootURI string
	deps    Deps

	mu        sync.Mutex
	surface   Surface
	activeURI string
	disposed  bool
	releases  []func()
}

func newSession(rootURI string, deps Deps) *Session {
	return &Session{
		ID:      uuid.NewString(),
		rootURI: rootURI,
		deps:    deps,
	}
}

// AttachSurface binds the front-end transport. Only one surface may be
// attached at a time; a disposed session accepts none.
func (s *Session) AttachSurface(surf Surface) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return errors.New("session is disposed")
	}
	if s.surface != nil {
		return ErrSurfaceAttached
	}
	s.surface = surf
	return nil
}

// Reveal asks the attached front end to bring itself to the foreground.
// No-op without a surface.
func (s *Session) Reveal() {
	s.send(protocol.NewReveal())
}

// send posts a message to the surface. Disposed or surface-less sessions
// swallow the send: an in-flight refresh finishing after teardown must not
// fault (there is no cancellation of in-flight requests).
func (s *Session) send(v interface{}) {
	s.mu.Lock()
	surf := s.surface
	disposed := s.disposed
	s.mu.Unlock()

	if disposed || surf == nil {
		return
	}
	if err := surf.Send(v); err != nil {
		s.deps.Log.Warn().Err(err).Str("session", s.ID).Msg("posting to surface")
	}
}

// RefreshDiagram fetches diagram data scoped to uri (empty means whole
// workspace) and forwards it to the front end. Every attempt produces
// exactly one terminal message: the diagram on success, an error message
// on any failure. Errors never propagate past this boundary.
func (s *Session) RefreshDiagram(ctx context.Context, uriStr string) {
	data, err := s.deps.Diagrams.GetDiagram(ctx, uriStr)
	if err != nil {
		s.deps.Log.Warn().Err(err).Str("session", s.ID).Str("uri", uriStr).Msg("diagram refresh failed")
		s.send(protocol.NewError(err.Error()))
		return
	}
	s.send(protocol.NewDiagram(data))
}

// refreshForActive refreshes scoped to the active recognized document when
// there is one, else the whole workspace.
func (s *Session) refreshForActive(ctx context.Context) {
	s.mu.Lock()
	active := s.activeURI
	s.mu.Unlock()
	s.RefreshDiagram(ctx, active)
}

// DocumentActive records activity on a document and, when it is one of the
// recognized source-file kinds, triggers a scoped refresh.
func (s *Session) DocumentActive(ctx context.Context, uriStr string) {
	parsed, err := uri.Parse(uriStr)
	if err != nil || !lang.Recognized(parsed.Filename()) {
		return
	}

	s.mu.Lock()
	s.activeURI = uriStr
	s.mu.Unlock()

	go s.RefreshDiagram(ctx, uriStr)
}

// OnDispose registers a release hook to run exactly once on teardown.
func (s *Session) OnDispose(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		f()
		return
	}
	s.releases = append(s.releases, f)
}

// Dispose tears the session down: the surface is closed, every registered
// release hook runs exactly once, and the session stops accepting sends.
// Idempotent; runs the same whether the user closed the surface or the
// host shut down.
func (s *Session) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	surf := s.surface
	s.surface = nil
	releases := s.releases
	s.releases = nil
	s.mu.Unlock()

	if surf != nil {
		if err := surf.Close(); err != nil {
			s.deps.Log.Debug().Err(err).Str("session", s.ID).Msg("closing surface")
		}
	}
	for _, release := range releases {
		release()
	}

	s.deps.Log.Info().Str("session", s.ID).Msg("panel session disposed")
}

// Disposed reports whether Dispose has run.
func (s *Session) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}
