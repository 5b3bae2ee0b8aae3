package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/choraleia/collectly/pkg/event"
	"github.com/choraleia/collectly/pkg/handler"
	"github.com/choraleia/collectly/pkg/models"
	"github.com/choraleia/collectly/pkg/utils"
)

type Server struct {
	ginEngine *gin.Engine
	app       *App
	logger    *slog.Logger
	host      string
	port      int
	done      chan struct{}
}

func NewServer(app *App) *Server {
	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())

	// CORS: only localhost origins are allowed.
	ginEngine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// No Origin header means this is not a browser CORS request.
		if origin != "" {
			if allowedOrigin(origin) {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			} else {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	server := &Server{
		ginEngine: ginEngine,
		app:       app,
		logger:    utils.GetLogger(),
		host:      app.cfg.Host(),
		port:      app.cfg.Port(),
		done:      make(chan struct{}),
	}

	server.SetupRoutes()

	return server
}

func allowedOrigin(origin string) bool {
	for _, prefix := range []string{
		"http://localhost", "http://127.0.0.1",
		"https://localhost", "https://127.0.0.1",
	} {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

// Start listens on the configured address and serves until ctx is done.
// Done is closed once the server has drained after cancellation.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: fmt.Sprintf("%s:%d", s.host, s.port), Handler: s.ginEngine}

	// Listen first so an occupied port fails immediately
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}
	s.logger.Info("HTTP server listening", "addr", ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()

	// Graceful shutdown on context cancellation
	go func() {
		defer close(s.done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP server shutdown incomplete", "error", err)
		}
	}()

	// Non-blocking: report an immediate startup failure, otherwise return nil
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	default:
	}
	return nil
}

// Done reports when a started server has finished shutting down.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) SetupRoutes() {
	aiHandler := handler.NewAIHandler(s.app.generation, s.logger)
	costHandler := handler.NewCostHandler(s.app.costs, s.logger)
	settingsHandler := handler.NewSettingsHandler(s.app.settings, s.logger)
	commHandler := handler.NewCommunicationHandler(s.app.communications, s.app.threads, s.app.emitter, s.logger)
	wsHandler := event.NewWSHandler(s.app.emitter)

	s.ginEngine.GET("/healthz", s.health)
	s.ginEngine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API group
	// /api
	apiGroup := s.ginEngine.Group("/api")

	apiGroup.GET("/runtime", func(c *gin.Context) {
		host := s.host
		if host == "" || host == "0.0.0.0" {
			host = "127.0.0.1"
		}
		c.JSON(http.StatusOK, models.RuntimeInfo{
			HTTPBaseURL: fmt.Sprintf("http://%s:%d", host, s.port),
			WSBaseURL:   fmt.Sprintf("ws://%s:%d", host, s.port),
			Port:        s.port,
		})
	})

	// AI generation and cost routes
	// /api/ai
	aiGroup := apiGroup.Group("/ai")
	{
		aiGroup.POST("/generate", aiHandler.Generate)
		aiGroup.POST("/analyze/:communicationId", aiHandler.Analyze)
		aiGroup.GET("/costs", costHandler.Report)
	}

	// Organization settings
	// /api/settings
	settingsGroup := apiGroup.Group("/settings")
	{
		settingsGroup.GET("/cost-limits", settingsHandler.GetCostLimits)
		settingsGroup.PUT("/cost-limits", settingsHandler.UpdateCostLimits)
	}

	// Communications and threads
	// /api/communications
	commGroup := apiGroup.Group("/communications")
	{
		commGroup.POST("", commHandler.Create)
		commGroup.GET("/threads", commHandler.ListThreads)
		commGroup.GET("/threads/:threadId", commHandler.GetThread)
	}

	// Event stream
	// /api/events/ws
	apiGroup.GET("/events/ws", wsHandler.Handle)
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.app.Ping(ctx); err != nil {
		s.logger.Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, models.HealthStatus{Status: "degraded", Database: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.HealthStatus{Status: "ok", Database: "ok"})
}
