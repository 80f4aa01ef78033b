package datasource

import (
	"math/rand"
	"time"
)

// Clock is injectable for deterministic timestamps
type Clock interface {
	Now() time.Time
}

// Rand is injectable for deterministic deltas
type Rand interface {
	Float64() float64
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// RealRand wraps a seeded *rand.Rand. Not safe for concurrent use on its own;
// RandomWalkSource only calls it under its mutex.
type RealRand struct{ *rand.Rand }

func NewRealRand(seed int64) RealRand {
	return RealRand{Rand: rand.New(rand.NewSource(seed))}
}

func (r RealRand) Float64() float64 { return r.Rand.Float64() }
