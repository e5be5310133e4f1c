package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"trading-dashboard/src/catalog"
	"trading-dashboard/src/interfaces"
	"trading-dashboard/src/logger"
	"trading-dashboard/src/models"
	"trading-dashboard/src/playback"
	"trading-dashboard/src/simulator"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

type DashboardServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine

	Simulator *simulator.Simulator
	Catalog   *catalog.Catalog
	Metrics   interfaces.IMetricsSource
	Generator interfaces.ITextGenerator
	Store     interfaces.IRunStore

	// Playback session, nil until the first load action.
	playbackMu    sync.Mutex
	playback      *playback.Clock
	playbackEvent *models.MMarketEvent

	startedAt time.Time
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewDashboardServer(
	cfg *models.MConfig,
	log *logger.Logger,
	sim *simulator.Simulator,
	cat *catalog.Catalog,
	metrics interfaces.IMetricsSource,
	generator interfaces.ITextGenerator,
	store interfaces.IRunStore,
) *DashboardServer {
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &DashboardServer{
		Config:    cfg,
		Logger:    log,
		engine:    gin.New(),
		Simulator: sim,
		Catalog:   cat,
		Metrics:   metrics,
		Generator: generator,
		Store:     store,
		startedAt: time.Now(),
	}

	// Unexpected panics become a generic 500; details go to the log only.
	s.engine.Use(gin.CustomRecovery(func(c *gin.Context, err interface{}) {
		s.Logger.Error("Panic in %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(500, gin.H{"error": "internal server error"})
	}))

	// CORS middleware for the local dashboard UI
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	// Model monitoring / training
	s.engine.GET("/monitor", s.getMonitor)
	s.engine.POST("/monitor", s.postMonitor)
	s.engine.POST("/train", s.postTrain)

	// REST API endpoints
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/config", s.getConfig)
	s.engine.GET("/api/events", s.getEvents)
	s.engine.GET("/api/events/:id", s.getEvent)
	s.engine.GET("/api/playback", s.getPlayback)
	s.engine.POST("/api/playback", s.postPlayback)
	s.engine.GET("/api/playback/projection", s.getProjection)
	s.engine.GET("/api/history/runs", s.getTrainingRuns)
	s.engine.GET("/api/history/alerts", s.getAlertHistory)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *DashboardServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)
	return s.engine.Run(addr)
}

// Handler exposes the router, used by tests to serve over httptest.
func (s *DashboardServer) Handler() *gin.Engine {
	return s.engine
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":         "ok",
		"connections":    s.Simulator.ActiveConnections(),
		"uptime_seconds": time.Since(s.startedAt).Seconds(),
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getConfig(c *gin.Context) {
	c.JSON(200, gin.H{
		"symbols":   s.Config.Simulator.Symbols,
		"simulator": s.Config.Simulator,
		"playback":  s.Config.Playback,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getEvents(c *gin.Context) {
	c.JSON(200, s.Catalog.List())
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getEvent(c *gin.Context) {
	ev, ok := s.Catalog.Get(c.Param("id"))
	if !ok {
		c.JSON(404, gin.H{"error": fmt.Sprintf("unknown event: %s", c.Param("id"))})
		return
	}
	c.JSON(200, ev)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getTrainingRuns(c *gin.Context) {
	if s.Store == nil {
		c.JSON(503, gin.H{"error": "run history unavailable"})
		return
	}

	runs, err := s.Store.RecentTrainingRuns(50)
	if err != nil {
		s.Logger.Error("Failed to read training runs: %v", err)
		c.JSON(500, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(200, runs)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getAlertHistory(c *gin.Context) {
	if s.Store == nil {
		c.JSON(503, gin.H{"error": "run history unavailable"})
		return
	}

	alerts, err := s.Store.RecentAlerts(50)
	if err != nil {
		s.Logger.Error("Failed to read alert history: %v", err)
		c.JSON(500, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(200, alerts)
}
