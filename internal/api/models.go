package api

import (
	"time"

	"github.com/coreman2200/funtimes-petals/internal/render"
)

type ApiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ButtonRequest struct {
	Button string `json:"button" binding:"required"`
}

type StatusResponse struct {
	Frame        render.Frame  `json:"frame"`
	Uptime       time.Duration `json:"uptime"`
	FrameClients int           `json:"frame_clients"`
	DiagClients  int           `json:"diag_clients"`
	Diagnostics  uint64        `json:"diagnostics"`
	ShadeMS      float64       `json:"shade_ms"`
	RenderMS     float64       `json:"render_ms"`
	Version      string        `json:"version"`
}
