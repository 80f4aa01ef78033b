package board

import (
	"context"
	"sync"
	"time"

	"price-ticker/src/interfaces"
	"price-ticker/src/logger"
	"price-ticker/src/models"
	"price-ticker/src/stream"
)

// -----------------------------------------------------------------------------
// Streamer is the part of the controller the board needs
// -----------------------------------------------------------------------------

type Streamer interface {
	Stream(ctx context.Context, symbols []string) (*stream.PriceStream, error)
	Cancel()
}

// -----------------------------------------------------------------------------
// PriceBoard
// -----------------------------------------------------------------------------

// PriceBoard keeps the latest price per symbol for a rendering layer and
// forwards every update to a publisher.
type PriceBoard struct {
	Streamer  Streamer
	Publisher interfaces.IDataExchanger
	Logger    *logger.Logger

	mu      sync.RWMutex
	prices  map[string]models.MPriceUpdate
	symbols []string
	running bool
	updated int64
	cancel  context.CancelFunc
	runID   uint64
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewPriceBoard(streamer Streamer, publisher interfaces.IDataExchanger, log *logger.Logger) *PriceBoard {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &PriceBoard{
		Streamer:  streamer,
		Publisher: publisher,
		Logger:    log,
		prices:    make(map[string]models.MPriceUpdate),
	}
}

// -----------------------------------------------------------------------------
// Start / Stop
// -----------------------------------------------------------------------------

// Start replaces the board contents with a fresh stream for symbols
func (b *PriceBoard) Start(symbols []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		b.Streamer.Cancel()
		b.cancel()
		b.running = false
	}

	ctx, cancel := context.WithCancel(context.Background())
	seq, err := b.Streamer.Stream(ctx, symbols)
	if err != nil {
		cancel()
		return err
	}

	b.runID++
	b.cancel = cancel
	b.prices = make(map[string]models.MPriceUpdate)
	b.symbols = append([]string(nil), symbols...)
	b.running = true
	b.updated = time.Now().UnixMilli()

	go b.consume(b.runID, seq)

	b.publishStatusLocked()
	return nil
}

// -----------------------------------------------------------------------------

// Stop cancels the stream. Prices stay on the board until the next Start.
func (b *PriceBoard) Stop() {
	b.Streamer.Cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	if !b.running {
		return
	}
	b.running = false
	b.updated = time.Now().UnixMilli()
	b.publishStatusLocked()
}

// -----------------------------------------------------------------------------
// Snapshot
// -----------------------------------------------------------------------------

// Snapshot returns a copy of the current board state
func (b *PriceBoard) Snapshot() models.MBoardState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

// -----------------------------------------------------------------------------

func (b *PriceBoard) snapshotLocked() models.MBoardState {
	prices := make(map[string]models.MPriceUpdate, len(b.prices))
	for k, v := range b.prices {
		prices[k] = v
	}
	return models.MBoardState{
		Prices:    prices,
		IsRunning: b.running,
		Symbols:   append([]string(nil), b.symbols...),
		UpdatedAt: b.updated,
	}
}

// -----------------------------------------------------------------------------
// Consumer loop
// -----------------------------------------------------------------------------

func (b *PriceBoard) consume(id uint64, seq *stream.PriceStream) {
	for u := range seq.All() {
		if !b.apply(id, u) {
			return
		}
		if b.Publisher != nil {
			b.Publisher.Broadcast(u)
		}
	}

	// the stream ended without Stop (controller closed or run cancelled elsewhere)
	b.mu.Lock()
	defer b.mu.Unlock()
	if id == b.runID && b.running {
		b.running = false
		b.updated = time.Now().UnixMilli()
		b.publishStatusLocked()
		b.Logger.Info("Price stream ended")
	}
}

// -----------------------------------------------------------------------------

// apply records u; it returns false once the board has moved on to a newer run
func (b *PriceBoard) apply(id uint64, u models.MPriceUpdate) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if id != b.runID {
		return false
	}
	b.prices[u.Symbol] = u
	b.updated = u.TimestampMs
	return true
}

// -----------------------------------------------------------------------------

func (b *PriceBoard) publishStatusLocked() {
	if b.Publisher == nil {
		return
	}
	b.Publisher.UpdateStatus(b.snapshotLocked())
}
