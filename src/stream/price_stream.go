package stream

import (
	"iter"
	"sync"
	"sync/atomic"

	"price-ticker/src/models"
)

// PriceStream is a push-in, pull-out sequence of price updates.
//
// It is safe for one producer and one consumer running concurrently. Close may
// be called from either side, any number of times.
type PriceStream struct {
	out     chan models.MPriceUpdate
	notify  chan struct{}
	done    chan struct{}
	cfg     config
	dropped atomic.Uint64

	mu          sync.Mutex
	pending     []models.MPriceUpdate
	closed      bool
	onTerminate func()
	closeOnce   sync.Once
}

// NewPriceStream constructs a PriceStream with optional configuration.
//
// Defaults:
//   - OverflowPolicy: Unbounded
//   - BufferSize: 256 (drop policies only)
func NewPriceStream(opts ...Option) *PriceStream {
	c := config{
		bufSize: defaultBufferSize,
		policy:  Unbounded,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if c.bufSize <= 0 {
		c.bufSize = 1
	}

	s := &PriceStream{
		out:    make(chan models.MPriceUpdate),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
		cfg:    c,
	}

	go s.run()

	return s
}

// -----------------------------------------------------------------------------

// Updates returns the consumer channel. It is closed after the stream
// terminates.
func (s *PriceStream) Updates() <-chan models.MPriceUpdate {
	return s.out
}

// -----------------------------------------------------------------------------

// All yields updates until the stream terminates. Breaking out of the range
// closes the stream.
func (s *PriceStream) All() iter.Seq[models.MPriceUpdate] {
	return func(yield func(models.MPriceUpdate) bool) {
		for u := range s.out {
			if !yield(u) {
				s.Close()
				return
			}
		}
	}
}

// -----------------------------------------------------------------------------

// Done is closed when the stream terminates
func (s *PriceStream) Done() <-chan struct{} {
	return s.done
}

// -----------------------------------------------------------------------------

// Drops returns the number of updates lost to the overflow policy
func (s *PriceStream) Drops() uint64 {
	return s.dropped.Load()
}

// -----------------------------------------------------------------------------

// Close terminates the stream. The termination hook runs once, on the first
// call.
func (s *PriceStream) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.pending = nil
		hook := s.onTerminate
		s.onTerminate = nil
		s.mu.Unlock()

		close(s.done)

		if hook != nil {
			hook()
		}
	})
}

// -----------------------------------------------------------------------------

// setTerminationHook registers fn to run on Close. If the stream is already
// closed fn runs immediately.
func (s *PriceStream) setTerminationHook(fn func()) {
	s.mu.Lock()
	if !s.closed {
		s.onTerminate = fn
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn()
}

// -----------------------------------------------------------------------------

// push enqueues u without blocking. It returns false once the stream is
// closed.
func (s *PriceStream) push(u models.MPriceUpdate) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}

	switch s.cfg.policy {
	case DropNewest:
		if len(s.pending) >= s.cfg.bufSize {
			s.mu.Unlock()
			s.dropped.Add(1)
			return true
		}
		s.pending = append(s.pending, u)

	case DropOldest:
		if len(s.pending) >= s.cfg.bufSize {
			s.pending = s.pending[1:]
			s.dropped.Add(1)
		}
		s.pending = append(s.pending, u)

	default:
		s.pending = append(s.pending, u)
	}
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
	return true
}

// -----------------------------------------------------------------------------

func (s *PriceStream) pop() (models.MPriceUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return models.MPriceUpdate{}, false
	}
	u := s.pending[0]
	s.pending = s.pending[1:]
	if len(s.pending) == 0 {
		// release the backing array once drained
		s.pending = nil
	}
	return u, true
}

// -----------------------------------------------------------------------------

// run moves buffered updates to the consumer channel
func (s *PriceStream) run() {
	defer close(s.out)

	for {
		select {
		case <-s.done:
			return
		case <-s.notify:
		}

		for {
			u, ok := s.pop()
			if !ok {
				break
			}
			select {
			case s.out <- u:
			case <-s.done:
				return
			}
		}
	}
}
