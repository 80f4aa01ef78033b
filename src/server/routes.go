package server

import (
	"errors"
	"net/http"
	"strconv"

	"price-ticker/src/helpers"

	"github.com/gin-gonic/gin"
)

const maxDrainBatch = 10000

// -----------------------------------------------------------------------------
// Request bodies
// -----------------------------------------------------------------------------

type startRequest struct {
	Symbols []string `json:"symbols"`
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *TickerServer) getHealth(c *gin.Context) {
	state := s.snapshot()

	body := gin.H{
		"status":        "ok",
		"connections":   s.connections.Load(),
		"is_running":    state.IsRunning,
		"latest_update": state.UpdatedAt,
	}
	if _, view := s.currentBoard(); view != nil {
		body["engine"] = view.Stats()
	}
	c.JSON(http.StatusOK, body)
}

// -----------------------------------------------------------------------------

func (s *TickerServer) getPrices(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshot())
}

// -----------------------------------------------------------------------------

func (s *TickerServer) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"symbols":          s.Config.Symbols,
		"tick_interval_ms": s.Config.Engine.TickIntervalMs,
		"overflow_policy":  s.Config.Stream.OverflowPolicy,
		"session_calendar": s.Config.Engine.SessionCalendar,
	})
}

// -----------------------------------------------------------------------------

func (s *TickerServer) getDrain(c *gin.Context) {
	_, view := s.currentBoard()
	if view == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "drain not available"})
		return
	}

	max := 100
	if raw := c.Query("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxDrainBatch {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max must be an integer in [0, 10000]"})
			return
		}
		max = n
	}

	c.JSON(http.StatusOK, gin.H{"updates": view.Drain(max)})
}

// -----------------------------------------------------------------------------

func (s *TickerServer) postStart(c *gin.Context) {
	board, _ := s.currentBoard()
	if board == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "board not available"})
		return
	}

	var req startRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if len(req.Symbols) == 0 {
		req.Symbols = s.Config.Symbols
	}

	if err := board.Start(req.Symbols); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, board.Snapshot())
}

// -----------------------------------------------------------------------------

func (s *TickerServer) postStop(c *gin.Context) {
	board, _ := s.currentBoard()
	if board == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "board not available"})
		return
	}
	board.Stop()
	c.JSON(http.StatusOK, board.Snapshot())
}

// -----------------------------------------------------------------------------

func statusFor(err error) int {
	switch {
	case errors.Is(err, helpers.ErrEmptySymbols):
		return http.StatusBadRequest
	case errors.Is(err, helpers.ErrRunActive):
		return http.StatusConflict
	case errors.Is(err, helpers.ErrControllerClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
