package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/funtimes-petals/internal/diagnostics"
	"github.com/coreman2200/funtimes-petals/internal/render"
)

const writeWait = 200 * time.Millisecond

// Controller is what the control socket drives.
type Controller interface {
	Press(name string) (render.Frame, error)
	Snapshot() render.Frame
}

// ControlMessage is one request on /control.
type ControlMessage struct {
	Press string `json:"press"`
}

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub fans frames and diagnostics out to websocket clients and feeds
// button presses from /control back into the Controller.
type Hub struct {
	mu          sync.RWMutex
	ctrl        Controller
	clients     map[*client]bool
	diagClients map[*client]bool
	up          websocket.Upgrader
}

func NewHub(ctrl Controller) *Hub {
	return &Hub{
		ctrl:        ctrl,
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
		up:          websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	c := h.accept(w, r, h.clients)
	if c == nil {
		return
	}
	if h.ctrl != nil {
		h.send(c, h.ctrl.Snapshot())
	}
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	h.accept(w, r, h.diagClients)
}

func (h *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	c := &client{conn: conn}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ControlMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reject(c, err, data)
			continue
		}
		if h.ctrl == nil {
			continue
		}
		f, err := h.ctrl.Press(msg.Press)
		if err != nil {
			h.reject(c, err, data)
			continue
		}
		h.send(c, f)
	}
}

// accept upgrades the request and registers the connection in set until
// the peer goes away.
func (h *Hub) accept(w http.ResponseWriter, r *http.Request, set map[*client]bool) *client {
	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		return nil
	}
	c := &client{conn: conn}
	h.mu.Lock()
	set[c] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(set, c)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return c
}

func (h *Hub) reject(c *client, err error, raw []byte) {
	d := diag.Control(err, string(raw))
	b, _ := json.Marshal(d)
	_ = c.write(b)
	h.PushDiag(d)
}

func (h *Hub) send(c *client, f render.Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		return
	}
	if err := c.write(b); err != nil {
		log.Debug().Err(err).Msg("write frame")
	}
}

// BroadcastFrame sends f to every /ws client.
func (h *Hub) BroadcastFrame(f render.Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		return
	}
	h.broadcast(h.clients, b, "write frame")
}

// PushDiag sends d to every /diag client.
func (h *Hub) PushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	h.broadcast(h.diagClients, b, "write diag")
}

func (h *Hub) broadcast(set map[*client]bool, b []byte, what string) {
	h.mu.RLock()
	targets := make([]*client, 0, len(set))
	for c := range set {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	for _, c := range targets {
		if err := c.write(b); err != nil {
			log.Debug().Err(err).Msg(what)
		}
	}
}

// Clients reports how many frame and diagnostic sockets are open.
func (h *Hub) Clients() (frames, diags int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients), len(h.diagClients)
}
