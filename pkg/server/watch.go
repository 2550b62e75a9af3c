package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/reactive"
	"github.com/vango-dev/reactive/pkg/vango"
)

// Snapshot is one /watch message.
type Snapshot struct {
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// watcher is one /watch connection. The effect pushes encoded snapshots to
// queue; writeLoop drains it.
type watcher struct {
	conn   *websocket.Conn
	path   string
	queue  chan []byte
	done   chan struct{}
	once   sync.Once
	effect *vango.Effect
}

func newWatcher(conn *websocket.Conn, path string, buffer int) *watcher {
	return &watcher{
		conn:  conn,
		path:  path,
		queue: make(chan []byte, buffer),
		done:  make(chan struct{}),
	}
}

func (w *watcher) close() {
	w.once.Do(func() { close(w.done) })
}

// push queues msg, dropping the oldest queued snapshot when full. Pushes
// are serialized by the state lock. It reports whether nothing was dropped.
func (w *watcher) push(msg []byte) bool {
	select {
	case w.queue <- msg:
		return true
	default:
	}
	select {
	case <-w.queue:
	default:
	}
	select {
	case w.queue <- msg:
	default:
	}
	return false
}

func (s *Server) handleWatch(rw http.ResponseWriter, req *http.Request) {
	path := req.URL.Query().Get("path")

	var err error
	s.withState(func(r *reactive.Reactive) {
		_, err = readPath(r, path)
	})
	if err != nil {
		s.writeError(rw, req, err)
		return
	}

	conn, err := s.upgrader.Upgrade(rw, req, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	w := newWatcher(conn, path, s.config.WatchBuffer)
	s.addWatcher(w)
	defer s.removeWatcher(w)

	s.withState(func(r *reactive.Reactive) {
		w.effect = vango.CreateEffect(func() vango.Cleanup {
			s.snapshot(r, w)
			return nil
		})
	})
	defer s.withState(func(*reactive.Reactive) {
		w.effect.Dispose()
	})

	go s.readLoop(w)
	s.writeLoop(w)
}

// snapshot runs inside the watcher's effect, on whichever goroutine holds
// the state lock.
func (s *Server) snapshot(r *reactive.Reactive, w *watcher) {
	msg := Snapshot{Path: w.path}
	value, err := readPath(r, w.path)
	if err != nil {
		msg.Error = rerrors.CodeOf(err)
	} else {
		msg.Value = value
	}

	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("snapshot encode failed", "path", w.path, "error", err)
		return
	}
	if !w.push(data) {
		s.metrics.snapshotsLost.Inc()
	}
}

// readLoop discards client messages and answers pongs; it closes the
// watcher once the connection fails or two pings go unanswered.
func (s *Server) readLoop(w *watcher) {
	defer w.close()

	timeout := 2 * s.config.PingInterval
	w.conn.SetReadDeadline(time.Now().Add(timeout))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(timeout))
	})

	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Warn("watch read error", "error", err)
			}
			return
		}
	}
}

func (s *Server) writeLoop(w *watcher) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			w.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.config.WriteTimeout))
			return

		case msg := <-w.queue:
			w.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("watch write failed", "error", err)
				return
			}
			s.metrics.snapshotsSent.Inc()

		case <-ticker.C:
			if err := w.conn.WriteControl(websocket.PingMessage, nil,
				time.Now().Add(s.config.WriteTimeout)); err != nil {
				return
			}
		}
	}
}

func (s *Server) addWatcher(w *watcher) {
	s.watchersMu.Lock()
	s.watchers[w] = struct{}{}
	s.watchersMu.Unlock()
	s.metrics.activeWatchers.Inc()
}

func (s *Server) removeWatcher(w *watcher) {
	s.watchersMu.Lock()
	delete(s.watchers, w)
	s.watchersMu.Unlock()
	s.metrics.activeWatchers.Dec()
}
