package server

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	v1 "fichetrack/internal/api/v1"
	"fichetrack/internal/config"
	"fichetrack/internal/store"
)

// Server is the HTTP server.
type Server struct {
	router *gin.Engine
	store  *store.Store
	v1     *v1.Handler
	log    *zap.SugaredLogger
}

// NewServer wires the store, API handler and routes together.
func NewServer(cfg *config.AppConfig, log *zap.SugaredLogger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Warnw("failed to ensure data directory, falling back to configured path",
			"dataDir", cfg.Data.DataDir, "error", err)
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "fichetrack.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		v1:     v1.NewHandler(sqliteStore, log),
		log:    log,
	}

	s.setupRoutes()
	return s, nil
}

// setupRoutes installs CORS, the actor-identity middleware and the routes.
func (s *Server) setupRoutes() {
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	api.Use(requireActor())
	s.v1.RegisterRoutes(api)
}

// requireActor resolves the opaque user identity from the session layer in
// front of this service. Core operations receive it as an explicit
// parameter, never as ambient state.
func requireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the store.
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore exposes the store for tests.
func (s *Server) GetStore() *store.Store {
	return s.store
}
