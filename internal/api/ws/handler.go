package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mrtimely/backend/internal/domain/progress"
	"github.com/mrtimely/backend/internal/domain/session"
	"github.com/mrtimely/backend/internal/infrastructure/logging"
	"github.com/mrtimely/backend/internal/infrastructure/monitoring"
	"github.com/mrtimely/backend/internal/shared/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// outboundBuffer sizes each subscriber's frame queue
const outboundBuffer = 16

// Message is an inbound client frame
type Message struct {
	Type string `json:"type"`
}

type frame map[string]interface{}

// Handler manages WebSocket connections and pushes timer progress to
// every subscriber as the poller ticks. All writes to a connection go
// through its outbound queue; the write loop is the sole writer.
type Handler struct {
	sessions *session.Store
	poller   *progress.Poller
	metrics  *monitoring.Metrics
	log      *logging.Logger

	mu   sync.Mutex
	subs map[*websocket.Conn]chan frame
}

// NewHandler creates a new WebSocket handler
func NewHandler(sessions *session.Store, poller *progress.Poller, metrics *monitoring.Metrics, log *logging.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		poller:   poller,
		metrics:  metrics,
		log:      log.Named("ws"),
		subs:     make(map[*websocket.Conn]chan frame),
	}
}

// Broadcast fans a progress update out to every subscriber. Slow
// subscribers drop updates rather than block the poller.
func (h *Handler) Broadcast(p types.Progress) {
	f := frame{
		"type":      "progress",
		"progress":  p,
		"timestamp": time.Now().Unix(),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	outbound := h.subscribe(conn)
	defer h.unsubscribe(conn)

	done := make(chan struct{})
	go h.writeLoop(conn, outbound, done)
	defer close(done)

	h.enqueue(conn, frame{
		"type":     "system",
		"message":  "Connected to Mr. Timely session stream",
		"state":    h.sessions.State(),
		"progress": h.poller.Current(),
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("WebSocket read error", zap.Error(err))
			}
			break
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case "ping":
			h.enqueue(conn, frame{"type": "pong"})
		case "state":
			h.enqueue(conn, frame{
				"type":      "state",
				"state":     h.sessions.State(),
				"timestamp": time.Now().Unix(),
			})
		case "progress":
			h.enqueue(conn, frame{
				"type":      "progress",
				"progress":  h.poller.Current(),
				"timestamp": time.Now().Unix(),
			})
		default:
			h.enqueue(conn, frame{
				"type":      "error",
				"message":   "unknown message type",
				"timestamp": time.Now().Unix(),
			})
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, outbound <-chan frame, done <-chan struct{}) {
	for {
		select {
		case f := <-outbound:
			if err := conn.WriteJSON(f); err != nil {
				return
			}
			if h.metrics != nil {
				if t, ok := f["type"].(string); ok {
					h.metrics.RecordWSMessage("out", t)
				}
			}
		case <-done:
			return
		}
	}
}

func (h *Handler) subscribe(conn *websocket.Conn) chan frame {
	ch := make(chan frame, outboundBuffer)
	h.mu.Lock()
	h.subs[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *Handler) unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.subs, conn)
	h.mu.Unlock()
}

func (h *Handler) enqueue(conn *websocket.Conn, f frame) {
	h.mu.Lock()
	ch, ok := h.subs[conn]
	h.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- f:
	default:
	}
}
