package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsSurface adapts a websocket connection to the panel's Surface. Writes
// are serialized; the read loop stays with the handler.
type wsSurface struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSurface) Send(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *wsSurface) Close() error {
	return s.conn.Close()
}

// handleWebSocket attaches the front end to the live session. A connection
// arriving while a surface is already attached re-surfaces the existing
// one instead of creating a second panel.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}

	sess := s.manager.CreateOrShow(s.cfg.RootURI)
	surf := &wsSurface{conn: conn}

	if err := sess.AttachSurface(surf); err != nil {
		// The existing surface was already revealed by CreateOrShow when
		// the session predates this request; signal once more and drop
		// the extra connection.
		sess.Reveal()
		conn.Close()
		return
	}

	// The surface lives exactly as long as this read loop. Whichever way
	// the connection ends, the session is torn down with it.
	defer sess.Dispose()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("websocket read")
			}
			return
		}
		sess.HandleRaw(r.Context(), raw)
	}
}
