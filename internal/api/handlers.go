package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coreman2200/funtimes-petals/internal/petal"
	"github.com/coreman2200/funtimes-petals/internal/render"
	"github.com/coreman2200/funtimes-petals/internal/sequence"
)

func (s *Server) handleHealth(c *gin.Context) {
	f := s.c.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"frame_id": f.Seq,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"petals":   len(f.Petals),
		"state":    f.State,
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	resp := StatusResponse{
		Frame:   s.c.Snapshot(),
		Uptime:  time.Since(s.startTime),
		Version: Version,
	}
	if s.c.Hub != nil {
		resp.FrameClients, resp.DiagClients = s.c.Hub.Clients()
	}
	resp.Diagnostics = s.c.Diags.Total()
	resp.ShadeMS, resp.RenderMS = s.c.Eng.Timings()
	c.JSON(http.StatusOK, ApiResponse{Status: "success", Data: resp})
}

func (s *Server) handleProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{Status: "success", Data: petal.ProfileNames()})
}

func (s *Server) handleDiagnostics(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{Status: "success", Data: s.c.Diags.List()})
}

func (s *Server) handlePress(c *gin.Context) {
	s.press(c, c.Param("button"))
}

func (s *Server) handlePressJSON(c *gin.Context) {
	var req ButtonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{
			Status: "error",
			Error:  "invalid button request: " + err.Error(),
		})
		return
	}
	s.press(c, req.Button)
}

func (s *Server) press(c *gin.Context, name string) {
	f, err := s.c.Press(name)
	if errors.Is(err, sequence.ErrUnknownButton) {
		c.JSON(http.StatusBadRequest, ApiResponse{Status: "error", Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ApiResponse{Status: "error", Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ApiResponse{Status: "success", Data: f})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	opts := render.DefaultRasterOptions()
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 16 || n > 2048 {
			c.JSON(http.StatusBadRequest, ApiResponse{Status: "error", Error: "size must be 16..2048"})
			return
		}
		opts.Size = n
	}
	if c.Query("label") == "0" {
		opts.Label = false
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, s.c.Snapshot(), s.c.Eng.Palette, opts); err != nil {
		c.JSON(http.StatusInternalServerError, ApiResponse{Status: "error", Error: err.Error()})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
