package datasource

import (
	"sync"
	"time"

	"price-ticker/src/models"
)

const (
	DefaultBasePrice       = 100.0
	DefaultMaxDeltaPercent = 0.5
	DefaultMinPrice        = 0.01
)

// -----------------------------------------------------------------------------

// RandomWalkSource generates a bounded random walk per symbol.
type RandomWalkSource struct {
	BasePrices      map[string]float64
	DefaultBase     float64
	MaxDeltaPercent float64
	MinPrice        float64

	clock Clock
	rand  Rand

	mu     sync.Mutex
	last   map[string]float64
	lastTs map[string]int64
}

// -----------------------------------------------------------------------------

// NewRandomWalkSource builds a source from the engine config. Zero values fall
// back to package defaults.
func NewRandomWalkSource(cfg models.MEngineConfig, clock Clock, rnd Rand) *RandomWalkSource {
	if clock == nil {
		clock = RealClock{}
	}
	if rnd == nil {
		rnd = NewRealRand(time.Now().UnixNano())
	}

	s := &RandomWalkSource{
		BasePrices:      make(map[string]float64, len(cfg.BasePrices)),
		DefaultBase:     cfg.DefaultBasePrice,
		MaxDeltaPercent: cfg.MaxDeltaPercent,
		MinPrice:        cfg.MinPrice,
		clock:           clock,
		rand:            rnd,
		last:            make(map[string]float64),
		lastTs:          make(map[string]int64),
	}
	for sym, p := range cfg.BasePrices {
		s.BasePrices[sym] = p
	}
	if s.DefaultBase <= 0 {
		s.DefaultBase = DefaultBasePrice
	}
	if s.MaxDeltaPercent <= 0 {
		s.MaxDeltaPercent = DefaultMaxDeltaPercent
	}
	if s.MinPrice <= 0 {
		s.MinPrice = DefaultMinPrice
	}
	return s
}

// -----------------------------------------------------------------------------

// Next advances every symbol by one step, in the order given
func (s *RandomWalkSource) Next(symbols []string) []models.MPriceUpdate {
	if len(symbols) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UnixMilli()
	out := make([]models.MPriceUpdate, 0, len(symbols))

	for _, sym := range symbols {
		price := s.step(s.lastPrice(sym))
		s.last[sym] = price

		// wall clock may step backwards; per-symbol timestamps may not
		ts := now
		if prev, ok := s.lastTs[sym]; ok && prev > ts {
			ts = prev
		}
		s.lastTs[sym] = ts

		out = append(out, models.MPriceUpdate{
			Symbol:      sym,
			Price:       price,
			TimestampMs: ts,
		})
	}

	return out
}

// -----------------------------------------------------------------------------

// Last returns the most recent price for a symbol, if any was generated
func (s *RandomWalkSource) Last(symbol string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.last[symbol]
	return p, ok
}

// -----------------------------------------------------------------------------

// Reset forgets all walk state so the next tick starts from base prices
func (s *RandomWalkSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = make(map[string]float64)
	s.lastTs = make(map[string]int64)
}

// -----------------------------------------------------------------------------

func (s *RandomWalkSource) lastPrice(sym string) float64 {
	if p, ok := s.last[sym]; ok {
		return p
	}
	if p, ok := s.BasePrices[sym]; ok && p > 0 {
		return p
	}
	return s.DefaultBase
}

// -----------------------------------------------------------------------------

// step moves price by a uniform delta within +/- MaxDeltaPercent
func (s *RandomWalkSource) step(price float64) float64 {
	frac := s.MaxDeltaPercent / 100
	delta := (s.rand.Float64()*2 - 1) * frac * price
	next := price + delta
	if next < s.MinPrice {
		next = s.MinPrice
	}
	return next
}
