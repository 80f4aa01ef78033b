package stream

import (
	"fmt"
	"strings"
)

// OverflowPolicy controls how a PriceStream behaves when its buffer is full.
type OverflowPolicy uint8

const (
	// Unbounded never drops; the buffer grows with the backlog.
	Unbounded OverflowPolicy = iota

	// DropNewest drops the incoming item when the buffer is full.
	DropNewest

	// DropOldest evicts one buffered item to make room for the newest item.
	//
	// Useful for dashboards that only care about the latest price.
	DropOldest
)

const defaultBufferSize = 256

func (p OverflowPolicy) String() string {
	switch p {
	case Unbounded:
		return "unbounded"
	case DropNewest:
		return "drop_newest"
	case DropOldest:
		return "drop_oldest"
	default:
		return fmt.Sprintf("OverflowPolicy(%d)", uint8(p))
	}
}

// ParseOverflowPolicy maps config values to a policy. Empty means Unbounded.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unbounded":
		return Unbounded, nil
	case "drop_newest":
		return DropNewest, nil
	case "drop_oldest":
		return DropOldest, nil
	default:
		return Unbounded, fmt.Errorf("unknown overflow policy: %q", s)
	}
}

// Option configures a PriceStream.
type Option func(*config)

type config struct {
	bufSize int
	policy  OverflowPolicy
}

// WithBufferSize sets the bound used by the drop policies.
func WithBufferSize(n int) Option {
	return func(c *config) {
		c.bufSize = n
	}
}

// WithOverflowPolicy sets the overflow policy.
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}
