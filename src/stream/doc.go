// Package stream turns engine callbacks into a sequence a consumer can range
// over.
//
// # PriceStream
//
// PriceStream is the asynchronous sequence. Its producing side (the sink) never
// blocks; its consuming side is a channel (Updates) or an iter.Seq (All).
//
// Overflow policies:
//   - Unbounded: queue everything; the default, since volumes are low.
//   - DropNewest: bounded; drop the incoming item when the buffer is full.
//   - DropOldest: bounded; evict the oldest buffered item to keep the newest.
//
// Drop counts are exposed via Drops.
//
// # StreamAdapter
//
// StreamAdapter implements interfaces.IPriceListener and forwards into exactly
// one PriceStream. When the stream terminates (Close, a break out of All, or a
// cancelled context upstream) the adapter drops its sink and runs its
// termination hook once.
package stream
