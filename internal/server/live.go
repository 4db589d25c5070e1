package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/mangaview/internal/runloop"
	"github.com/ziadkadry99/mangaview/internal/session"
	"github.com/ziadkadry99/mangaview/internal/viewport"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsSender writes protocol messages to a connection. It is only used from
// the session's run loop, which makes it the connection's single writer.
type wsSender struct {
	conn *websocket.Conn
}

func (s wsSender) Send(m session.Message) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(m)
}

// currentCatalog resolves anchors against whatever catalog is served when
// a page says hello.
type currentCatalog struct {
	s *Server
}

func (c currentCatalog) Anchors(series string) ([]viewport.Anchor, bool) {
	return c.s.Catalog().Anchors(series)
}

// handleRead runs one live reading session. The read loop only decodes
// frames; everything else happens on the session's run loop.
func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := s.log.With(zap.String("session", uuid.NewString()))
	s.sessions.Add(1)
	defer s.sessions.Add(-1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := runloop.New(s.cfg.Clock)
	go loop.Run(ctx)

	out := wsSender{conn: conn}
	live := session.NewLive(out, currentCatalog{s}, loop, s.cfg.Session, log)
	defer func() {
		loop.Do(live.Close)
		loop.Stop()
	}()

	log.Debug("reading session connected", zap.String("remote", r.RemoteAddr))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", zap.Error(err))
			}
			break
		}

		var msg session.Message
		decodeErr := json.Unmarshal(data, &msg)
		ok := loop.Post(func() {
			if decodeErr != nil {
				log.Warn("malformed message", zap.Error(decodeErr))
				_ = out.Send(session.Message{Type: session.TypeError, Error: "malformed message"})
				return
			}
			if err := live.Handle(msg); err != nil {
				log.Warn("message rejected", zap.String("type", msg.Type), zap.Error(err))
				_ = out.Send(session.Message{Type: session.TypeError, Error: err.Error()})
			}
		})
		if !ok {
			break
		}
	}
	log.Debug("reading session closed")
}
