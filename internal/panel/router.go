package panel

import (
	"context"
	"fmt"

	"go.lsp.dev/uri"

	"github.com/systerlang/systerview/internal/protocol"
)

// HandleRaw decodes one front-end message and dispatches it. Unrecognized
// tags and messages missing required fields are silently ignored; sending
// partial data has no defined effect.
func (s *Session) HandleRaw(ctx context.Context, raw []byte) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		s.deps.Log.Debug().Err(err).Str("session", s.ID).Msg("ignoring message")
		return
	}
	s.Handle(ctx, msg)
}

// Handle routes one decoded message. Refreshes run off the dispatch path
// so the front end is never blocked behind a slow bridge; two rapid
// refreshes may be in flight at once, and each response is a full
// replacement, so out-of-order arrival is harmless.
func (s *Session) Handle(ctx context.Context, msg protocol.Inbound) {
	switch m := msg.(type) {
	case protocol.Ready:
		go s.refreshForActive(ctx)

	case protocol.Refresh:
		if m.URI != "" {
			go s.RefreshDiagram(ctx, m.URI)
		} else {
			go s.refreshForActive(ctx)
		}

	case protocol.Navigate:
		s.navigate(m)

	case protocol.ElementEdit:
		s.deps.Notifier.Notify(fmt.Sprintf("%s is not implemented yet", m.Op))
	}
}

// navigate opens the target document in the host editor with the cursor at
// the requested position.
func (s *Session) navigate(m protocol.Navigate) {
	parsed, err := uri.Parse(m.URI)
	if err != nil {
		s.deps.Log.Debug().Err(err).Str("uri", m.URI).Msg("ignoring navigate with bad uri")
		return
	}

	path := parsed.Filename()
	if err := s.deps.Editor.Open(path, int(m.Position.Line), int(m.Position.Character)); err != nil {
		s.deps.Log.Warn().Err(err).Str("path", path).Msg("opening editor")
	}
}
