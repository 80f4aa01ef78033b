package controller

import (
	"context"
	"strings"
	"sync"

	"price-ticker/src/helpers"
	"price-ticker/src/interfaces"
	"price-ticker/src/logger"
	"price-ticker/src/models"
	"price-ticker/src/stream"
)

// -----------------------------------------------------------------------------

// StreamController serializes every operation on a single engine handle and
// hands out one PriceStream per Stream call.
type StreamController struct {
	Engine interfaces.ITickerEngine
	Logger *logger.Logger

	streamOpts []stream.Option

	mu         sync.Mutex
	active     *stream.PriceStream
	generation uint64
	closed     bool
}

// -----------------------------------------------------------------------------

func NewStreamController(engine interfaces.ITickerEngine, log *logger.Logger, opts ...stream.Option) *StreamController {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &StreamController{
		Engine:     engine,
		Logger:     log,
		streamOpts: opts,
	}
}

// -----------------------------------------------------------------------------

// NormalizeSymbols trims, drops duplicates (keeping first occurrence) and
// rejects blank or empty input.
func NormalizeSymbols(symbols []string) ([]string, error) {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))

	for _, raw := range symbols {
		sym := strings.TrimSpace(raw)
		if sym == "" {
			return nil, &helpers.TickerError{Message: "blank symbol", Cause: helpers.ErrEmptySymbols}
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}

	if len(out) == 0 {
		return nil, helpers.ErrEmptySymbols
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// Stream starts a run for symbols and returns the stream it feeds. The run is
// cancelled when the stream terminates: Close, breaking out of All, or ctx
// being cancelled.
//
// Only one run may be active; call Cancel (or close the previous stream)
// before streaming again, otherwise ErrRunActive is returned.
func (c *StreamController) Stream(ctx context.Context, symbols []string) (*stream.PriceStream, error) {
	subjects, err := NormalizeSymbols(symbols)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, helpers.ErrControllerClosed
	}
	if c.Engine.IsRunning() {
		return nil, helpers.ErrRunActive
	}

	seq := stream.NewPriceStream(c.streamOpts...)
	adapter := stream.NewStreamAdapter()
	if err := adapter.Attach(seq); err != nil {
		seq.Close()
		return nil, err
	}

	if !c.Engine.Start(subjects, adapter) {
		seq.Close()
		return nil, helpers.ErrRunActive
	}

	c.generation++
	gen := c.generation
	c.active = seq
	adapter.OnTerminate(func() { c.cancelGeneration(gen) })

	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				seq.Close()
			case <-seq.Done():
			}
		}()
	}

	c.Logger.Info("Streaming %d symbols: %s", len(subjects), strings.Join(subjects, ","))
	return seq, nil
}

// -----------------------------------------------------------------------------

// Cancel stops the active run and terminates its stream. No-op when idle.
func (c *StreamController) Cancel() {
	c.mu.Lock()
	c.Engine.Cancel()
	active := c.detachLocked()
	c.mu.Unlock()

	if active != nil {
		active.Close()
	}
}

// -----------------------------------------------------------------------------

// IsRunning reports whether the engine has an active run
func (c *StreamController) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Engine.IsRunning()
}

// -----------------------------------------------------------------------------

// Drain is the pull-based alternative to Stream
func (c *StreamController) Drain(max int) []models.MPriceUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Engine.DrainUpdates(max)
}

// -----------------------------------------------------------------------------

func (c *StreamController) Stats() models.MEngineStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Engine.Stats()
}

// -----------------------------------------------------------------------------

// Close cancels any active run and rejects further Stream calls
func (c *StreamController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.Engine.Cancel()
	active := c.detachLocked()
	c.mu.Unlock()

	if active != nil {
		active.Close()
	}
	c.Logger.Info("Stream controller closed")
}

// -----------------------------------------------------------------------------

// cancelGeneration is the termination hook of one stream. A hook from an older
// stream must not cancel a newer run.
func (c *StreamController) cancelGeneration(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.active == nil {
		c.Logger.Debug("Ignoring termination of stale stream %d", gen)
		return
	}
	c.Engine.Cancel()
	c.active = nil
	c.Logger.Info("Stream %d terminated by consumer, run cancelled", gen)
}

// -----------------------------------------------------------------------------

// detachLocked invalidates the current stream's hook. Caller holds c.mu.
func (c *StreamController) detachLocked() *stream.PriceStream {
	active := c.active
	c.active = nil
	c.generation++
	return active
}
