package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-petals/internal/app"
	"github.com/coreman2200/funtimes-petals/internal/config"
	"github.com/coreman2200/funtimes-petals/internal/frame"
	"github.com/coreman2200/funtimes-petals/internal/render"
	"github.com/coreman2200/funtimes-petals/internal/sequence"
)

func newTestEngine(t *testing.T) (*gin.Engine, *app.Conductor) {
	cfg := config.Default()
	cfg.Driver = "sim"
	c, err := app.Bootstrap(cfg, frame.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	return NewEngine(c), c
}

func do(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type frameResponse struct {
	Status string       `json:"status"`
	Error  string       `json:"error"`
	Data   render.Frame `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) frameResponse {
	var resp frameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	r, _ := newTestEngine(t)
	w := do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"idle"`)
}

func TestPressButtons(t *testing.T) {
	r, c := newTestEngine(t)

	w := do(r, http.MethodPost, "/api/buttons/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, sequence.Playing, resp.Data.State)

	require.NoError(t, c.Advance(16*time.Millisecond))

	w = do(r, http.MethodPost, "/api/buttons", []byte(`{"button":"PAUSE"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sequence.Pausing, decode(t, w).Data.State)

	w = do(r, http.MethodPost, "/api/buttons/eject", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", decode(t, w).Status)

	w = do(r, http.MethodPost, "/api/buttons", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusAndDiagnostics(t *testing.T) {
	r, c := newTestEngine(t)
	do(r, http.MethodPost, "/api/buttons/start", nil)
	require.NoError(t, c.Advance(16*time.Millisecond))

	w := do(r, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.0.0"`)
	assert.Contains(t, w.Body.String(), `"state":"playing"`)
	assert.Contains(t, w.Body.String(), `"render_ms":`)
	assert.Contains(t, w.Body.String(), `"shade_ms":`)

	w = do(r, http.MethodGet, "/api/diagnostics", nil)
	assert.Contains(t, w.Body.String(), "PLAYBACK.TRANSITION")

	w = do(r, http.MethodGet, "/api/profiles", nil)
	assert.Contains(t, w.Body.String(), "slide")
}

func TestSnapshotPNG(t *testing.T) {
	r, _ := newTestEngine(t)
	w := do(r, http.MethodGet, "/api/snapshot.png?size=48&label=0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 48, img.Bounds().Dx())

	w = do(r, http.MethodGet, "/api/snapshot.png?size=big", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestControlSocketThroughGin(t *testing.T) {
	r, _ := newTestEngine(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/control"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	require.NoError(t, conn.WriteJSON(map[string]string{"press": "start"}))
	var f render.Frame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, sequence.Playing, f.State)
}
