package models

// MPriceUpdate is a single generated price for one symbol.
// It is passed by value across every boundary.
type MPriceUpdate struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	TimestampMs int64   `json:"timestamp_ms"`
}
