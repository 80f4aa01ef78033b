package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"price-ticker/src/logger"
	"price-ticker/src/models"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// -----------------------------------------------------------------------------
// Dependencies
// -----------------------------------------------------------------------------

// Board is the rendering-layer contract the routes drive
type Board interface {
	Start(symbols []string) error
	Stop()
	Snapshot() models.MBoardState
}

// EngineView exposes the pull-based batch API and engine health
type EngineView interface {
	Drain(max int) []models.MPriceUpdate
	Stats() models.MEngineStats
}

// -----------------------------------------------------------------------------
// TickerServer
// -----------------------------------------------------------------------------

type TickerServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine
	http   *http.Server

	board      Board
	engineView EngineView

	// WebSocket clients, owned by the hub goroutine
	clients     map[*Client]struct{}
	broadcast   chan *models.MBoardMessage
	register    chan *Client
	unregister  chan *Client
	direct      chan directMessage
	done        chan struct{}
	stopOnce    sync.Once
	connections atomic.Int64

	// Local cache used when no board is set
	latestState models.MBoardState
	stateMutex  sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewTickerServer(cfg *models.MConfig, logger *logger.Logger) *TickerServer {
	if !strings.EqualFold(cfg.LogLevel, "DEBUG") {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &TickerServer{
		Config:     cfg,
		Logger:     logger,
		engine:     gin.New(),
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan *models.MBoardMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan directMessage, 16),
		done:       make(chan struct{}),
		latestState: models.MBoardState{
			Prices:  make(map[string]models.MPriceUpdate),
			Symbols: append([]string(nil), cfg.Symbols...),
		},
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(corsMiddleware)
	s.setupRoutes()

	s.http = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: s.engine,
	}

	go s.runHub()
	return s
}

// -----------------------------------------------------------------------------

func corsMiddleware(c *gin.Context) {
	origin := c.Request.Header.Get("Origin")
	if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
	}
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// -----------------------------------------------------------------------------

// SetBoard binds the board and engine view. The board publishes back through
// Broadcast and UpdateStatus, so it is set after construction.
func (s *TickerServer) SetBoard(b Board, e EngineView) {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	s.board = b
	s.engineView = e
}

// -----------------------------------------------------------------------------

// Handler exposes the router, mainly for httptest
func (s *TickerServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------

func (s *TickerServer) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/prices", s.getPrices)
	api.GET("/config", s.getConfig)
	api.GET("/drain", s.getDrain)
	api.POST("/start", s.postStart)
	api.POST("/stop", s.postStop)

	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start blocks serving HTTP until Stop is called
func (s *TickerServer) Start() error {
	s.Logger.Info("Starting server on %s", s.http.Addr)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *TickerServer) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.done)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = s.http.Shutdown(ctx)
		s.Logger.Info("Server stopped")
	})
	return err
}

// -----------------------------------------------------------------------------
// Board access
// -----------------------------------------------------------------------------

func (s *TickerServer) currentBoard() (Board, EngineView) {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.board, s.engineView
}

// -----------------------------------------------------------------------------

// snapshot prefers the live board and falls back to the pushed state
func (s *TickerServer) snapshot() models.MBoardState {
	if b, _ := s.currentBoard(); b != nil {
		return b.Snapshot()
	}

	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()

	prices := make(map[string]models.MPriceUpdate, len(s.latestState.Prices))
	for k, v := range s.latestState.Prices {
		prices[k] = v
	}
	state := s.latestState
	state.Prices = prices
	return state
}
