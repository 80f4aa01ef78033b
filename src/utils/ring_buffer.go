package utils

import (
	"sync"

	"price-ticker/src/models"
)

// -----------------------------------------------------------------------------
// RingBuffer is a fixed-size circular buffer of price updates.
// When full, Append overwrites the oldest entry. Safe for concurrent use.
// -----------------------------------------------------------------------------

type RingBuffer struct {
	data     []models.MPriceUpdate
	capacity int
	head     int // Oldest element
	size     int // Current number of elements
	dropped  uint64
	mu       sync.Mutex
}

// -----------------------------------------------------------------------------

// NewRingBuffer creates a new buffer with fixed capacity
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1024 // Default reasonable size
	}

	return &RingBuffer{
		data:     make([]models.MPriceUpdate, capacity),
		capacity: capacity,
	}
}

// -----------------------------------------------------------------------------

// Append adds an update, overwriting the oldest one when full
func (rb *RingBuffer) Append(u models.MPriceUpdate) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	tail := (rb.head + rb.size) % rb.capacity
	rb.data[tail] = u

	if rb.size < rb.capacity {
		rb.size++
		return
	}

	// Full: the write replaced the oldest entry
	rb.head = (rb.head + 1) % rb.capacity
	rb.dropped++
}

// -----------------------------------------------------------------------------

// PopOldest removes and returns up to n entries, oldest first
func (rb *RingBuffer) PopOldest(n int) []models.MPriceUpdate {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.size == 0 || n <= 0 {
		return []models.MPriceUpdate{}
	}

	count := n
	if count > rb.size {
		count = rb.size
	}

	result := make([]models.MPriceUpdate, count)
	for i := 0; i < count; i++ {
		idx := (rb.head + i) % rb.capacity
		result[i] = rb.data[idx]
		rb.data[idx] = models.MPriceUpdate{}
	}

	rb.head = (rb.head + count) % rb.capacity
	rb.size -= count
	return result
}

// -----------------------------------------------------------------------------

// Size returns current number of elements
func (rb *RingBuffer) Size() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.size
}

// -----------------------------------------------------------------------------

// Capacity returns buffer capacity (fixed)
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}

// -----------------------------------------------------------------------------

// Dropped returns how many entries were overwritten before being read
func (rb *RingBuffer) Dropped() uint64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.dropped
}
