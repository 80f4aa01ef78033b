// Package engine runs the background tick loop that drives an event source
// and pushes every generated update to a registered listener.
//
// A run is started with Start and stopped with Cancel. Cancel only sets the
// run's flag and wakes the loop; it never waits for the loop to exit. Done
// exposes the exit of the most recent run for callers that do need to wait.
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"price-ticker/src/helpers"
	"price-ticker/src/interfaces"
	"price-ticker/src/logger"
	"price-ticker/src/models"
	"price-ticker/src/utils"

	"github.com/google/uuid"
)

const DefaultTickInterval = 500 * time.Millisecond

// -----------------------------------------------------------------------------

// engineRun is the state shared between the engine and one loop goroutine
type engineRun struct {
	id        string
	cancelled atomic.Bool
	stop      chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

func (r *engineRun) cancel() {
	r.cancelled.Store(true)
	r.stopOnce.Do(func() { close(r.stop) })
}

// -----------------------------------------------------------------------------

// TickerEngine owns at most one active run at a time.
type TickerEngine struct {
	Source    interfaces.IEventSource
	Scheduler *utils.MarketScheduler
	Logger    *logger.Logger
	Interval  time.Duration

	errors *helpers.ErrorHandler
	queue  *utils.RingBuffer
	faults atomic.Uint64

	mu   sync.Mutex
	run  *engineRun
	done chan struct{} // exit of the most recent run
}

// -----------------------------------------------------------------------------

// NewTickerEngine wires an engine from config. scheduler may be nil, meaning
// every symbol is always in session.
func NewTickerEngine(
	cfg models.MEngineConfig,
	source interfaces.IEventSource,
	scheduler *utils.MarketScheduler,
	log *logger.Logger,
) *TickerEngine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	interval := time.Duration(cfg.TickIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	done := make(chan struct{})
	close(done)

	return &TickerEngine{
		Source:    source,
		Scheduler: scheduler,
		Logger:    log,
		Interval:  interval,
		errors:    helpers.NewErrorHandler(log),
		queue:     utils.NewRingBuffer(cfg.DrainCapacity),
		done:      done,
	}
}

// -----------------------------------------------------------------------------

// Start begins a run bound to listener. A call while an un-cancelled run is
// active, or with no symbols, does nothing and returns false.
func (e *TickerEngine) Start(symbols []string, listener interfaces.IPriceListener) bool {
	if len(symbols) == 0 || listener == nil {
		e.Logger.Debug("Start ignored: no symbols or listener")
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.run != nil && !e.run.cancelled.Load() {
		e.Logger.Debug("Start ignored: run %s is already active", e.run.id)
		return false
	}

	run := &engineRun{
		id:   uuid.NewString(),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	e.run = run
	e.done = run.done

	subjects := append([]string(nil), symbols...)
	go e.runLoop(run, subjects, listener)

	e.Logger.Info("Started run %s for %d symbols (tick %v)", run.id, len(subjects), e.Interval)
	return true
}

// -----------------------------------------------------------------------------

// Cancel flags the active run. Safe to call any number of times.
func (e *TickerEngine) Cancel() {
	e.mu.Lock()
	run := e.run
	e.mu.Unlock()

	if run == nil || run.cancelled.Load() {
		return
	}
	run.cancel()
	e.Logger.Info("Cancel requested for run %s", run.id)
}

// -----------------------------------------------------------------------------

// IsRunning reports whether an un-cancelled run exists
func (e *TickerEngine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run != nil && !e.run.cancelled.Load()
}

// -----------------------------------------------------------------------------

// Done is closed once the most recently started run's loop has exited
func (e *TickerEngine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// -----------------------------------------------------------------------------

// DrainUpdates removes up to max queued updates, oldest first. Never blocks.
func (e *TickerEngine) DrainUpdates(max int) []models.MPriceUpdate {
	if max <= 0 {
		return []models.MPriceUpdate{}
	}
	return e.queue.PopOldest(max)
}

// -----------------------------------------------------------------------------

// ListenerFaults returns how many listener panics were recovered
func (e *TickerEngine) ListenerFaults() uint64 {
	return e.faults.Load()
}

// -----------------------------------------------------------------------------

// Stats reports run state, drain queue usage and listener faults
func (e *TickerEngine) Stats() models.MEngineStats {
	return models.MEngineStats{
		Running:        e.IsRunning(),
		QueueSize:      e.queue.Size(),
		QueueCapacity:  e.queue.Capacity(),
		QueueDropped:   e.queue.Dropped(),
		ListenerFaults: e.faults.Load(),
	}
}

// -----------------------------------------------------------------------------

// runLoop is the tick loop. The only exit path is cancellation.
func (e *TickerEngine) runLoop(run *engineRun, symbols []string, listener interfaces.IPriceListener) {
	defer e.finish(run)

	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-run.stop:
			return
		case now := <-ticker.C:
			if run.cancelled.Load() {
				return
			}

			open := e.Scheduler.OpenSymbols(symbols, now)
			if len(open) == 0 {
				continue
			}

			for _, u := range e.Source.Next(open) {
				if run.cancelled.Load() {
					return
				}
				e.queue.Append(u)
				e.deliver(run, listener, u)
			}
		}
	}
}

// -----------------------------------------------------------------------------

// deliver isolates the loop from a misbehaving listener
func (e *TickerEngine) deliver(run *engineRun, listener interfaces.IPriceListener, u models.MPriceUpdate) {
	defer func() {
		if r := recover(); r != nil {
			e.faults.Add(1)
			e.errors.Handle(helpers.NewListenerFaultError(run.id, u.Symbol, r), "listener")
		}
	}()
	listener.OnPrice(u)
}

// -----------------------------------------------------------------------------

func (e *TickerEngine) finish(run *engineRun) {
	e.mu.Lock()
	if e.run == run {
		e.run = nil
	}
	e.mu.Unlock()

	close(run.done)
	e.Logger.Info("Run %s stopped", run.id)
}
