package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/coreman2200/funtimes-petals/internal/app"
)

const Version = "1.0.0"

// Server exposes the conductor over HTTP.
type Server struct {
	c         *app.Conductor
	startTime time.Time
}

func NewServer(c *app.Conductor) *Server {
	return &Server{c: c, startTime: time.Now()}
}

// NewEngine builds a gin engine with CORS and every route mounted.
func NewEngine(c *app.Conductor) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	NewServer(c).SetupRoutes(r)
	return r
}

func (s *Server) SetupRoutes(r *gin.Engine) {
	r.GET("/health", s.handleHealth)

	if hub := s.c.Hub; hub != nil {
		r.GET("/ws", gin.WrapF(hub.HandleFramesWS))
		r.GET("/diag", gin.WrapF(hub.HandleDiagWS))
		r.GET("/control", gin.WrapF(hub.HandleControlWS))
	}

	v1 := r.Group("/api")
	{
		v1.GET("/status", s.handleStatus)
		v1.GET("/profiles", s.handleProfiles)
		v1.GET("/diagnostics", s.handleDiagnostics)
		v1.GET("/snapshot.png", s.handleSnapshot)

		buttons := v1.Group("/buttons")
		{
			buttons.POST("", s.handlePressJSON)
			buttons.POST("/:button", s.handlePress)
		}
	}
}
