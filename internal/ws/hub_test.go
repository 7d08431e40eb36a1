package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diag "github.com/coreman2200/funtimes-petals/internal/diagnostics"
	"github.com/coreman2200/funtimes-petals/internal/render"
	"github.com/coreman2200/funtimes-petals/internal/sequence"
)

type fakeCtrl struct {
	state sequence.State
}

func (f *fakeCtrl) Press(name string) (render.Frame, error) {
	b, err := sequence.ParseButton(name)
	if err != nil {
		return render.Frame{}, err
	}
	if b == sequence.Start {
		f.state = sequence.Playing
	}
	return f.Snapshot(), nil
}

func (f *fakeCtrl) Snapshot() render.Frame {
	return render.Frame{Seq: 1, Snapshot: sequence.Snapshot{State: f.state}}
}

func newServer(t *testing.T, h *Hub) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/control", h.HandleControlWS)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func readFrame(t *testing.T, c *websocket.Conn) render.Frame {
	var f render.Frame
	_, data, err := c.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestFramesSocketGetsSnapshotThenBroadcasts(t *testing.T) {
	h := NewHub(&fakeCtrl{state: sequence.Idle})
	srv := newServer(t, h)
	c := dial(t, srv, "/ws")

	assert.Equal(t, sequence.Idle, readFrame(t, c).State)

	require.Eventually(t, func() bool { n, _ := h.Clients(); return n == 1 }, time.Second, 10*time.Millisecond)
	h.BroadcastFrame(render.Frame{Seq: 7, Snapshot: sequence.Snapshot{State: sequence.Stopping}})
	f := readFrame(t, c)
	assert.Equal(t, uint64(7), f.Seq)
	assert.Equal(t, sequence.Stopping, f.State)
}

func TestControlSocketPresses(t *testing.T) {
	h := NewHub(&fakeCtrl{state: sequence.Idle})
	srv := newServer(t, h)
	d := dial(t, srv, "/diag")
	require.Eventually(t, func() bool { _, n := h.Clients(); return n == 1 }, time.Second, 10*time.Millisecond)

	c := dial(t, srv, "/control")
	require.NoError(t, c.WriteJSON(ControlMessage{Press: "start"}))
	assert.Equal(t, sequence.Playing, readFrame(t, c).State)

	require.NoError(t, c.WriteJSON(ControlMessage{Press: "eject"}))
	var rej diag.Diagnostic
	require.NoError(t, c.ReadJSON(&rej))
	assert.Equal(t, diag.CodeControl, rej.Code)

	var pushed diag.Diagnostic
	require.NoError(t, d.ReadJSON(&pushed))
	assert.Equal(t, diag.CodeControl, pushed.Code)
}

func TestPushDiagWithoutClients(t *testing.T) {
	h := NewHub(nil)
	h.PushDiag(diag.DriverWrite(errors.New("x")))
	h.BroadcastFrame(render.Frame{})
	f, d := h.Clients()
	assert.Zero(t, f)
	assert.Zero(t, d)
}
