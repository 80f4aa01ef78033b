package stream

import (
	"sync"
	"sync/atomic"

	"price-ticker/src/helpers"
	"price-ticker/src/models"
)

// StreamAdapter implements interfaces.IPriceListener on top of one
// PriceStream.
//
// OnPrice may be called from any goroutine. The sink is written once by
// Attach, before the engine can call OnPrice, and cleared on termination.
type StreamAdapter struct {
	sink      atomic.Pointer[PriceStream]
	attached  atomic.Bool
	forwarded atomic.Uint64
	discarded atomic.Uint64

	mu         sync.Mutex
	terminated bool
	hook       func()
	termOnce   sync.Once
}

// NewStreamAdapter returns an adapter with no sink.
func NewStreamAdapter() *StreamAdapter {
	return &StreamAdapter{}
}

// -----------------------------------------------------------------------------

// Attach sets the sink. It can succeed only once per adapter.
func (a *StreamAdapter) Attach(s *PriceStream) error {
	if s == nil {
		return &helpers.TickerError{Message: "cannot attach a nil stream"}
	}
	if !a.attached.CompareAndSwap(false, true) {
		return helpers.ErrSinkAttached
	}
	a.sink.Store(s)
	s.setTerminationHook(a.terminate)
	return nil
}

// -----------------------------------------------------------------------------

// OnTerminate registers the hook run when the attached stream terminates. If
// termination already happened, fn runs immediately.
func (a *StreamAdapter) OnTerminate(fn func()) {
	a.mu.Lock()
	if !a.terminated {
		a.hook = fn
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// -----------------------------------------------------------------------------

// OnPrice forwards u to the sink. With no sink the update is discarded.
func (a *StreamAdapter) OnPrice(u models.MPriceUpdate) {
	s := a.sink.Load()
	if s == nil || !s.push(u) {
		a.discarded.Add(1)
		return
	}
	a.forwarded.Add(1)
}

// -----------------------------------------------------------------------------

// Terminated reports whether the stream has terminated
func (a *StreamAdapter) Terminated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.terminated
}

// -----------------------------------------------------------------------------

// Forwarded and Discarded count OnPrice outcomes
func (a *StreamAdapter) Forwarded() uint64 { return a.forwarded.Load() }
func (a *StreamAdapter) Discarded() uint64 { return a.discarded.Load() }

// -----------------------------------------------------------------------------

func (a *StreamAdapter) terminate() {
	a.termOnce.Do(func() {
		a.sink.Store(nil)

		a.mu.Lock()
		a.terminated = true
		fn := a.hook
		a.hook = nil
		a.mu.Unlock()

		if fn != nil {
			fn()
		}
	})
}
