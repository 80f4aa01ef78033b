package models

// MEngineStats is a point-in-time view of the engine for health reporting
type MEngineStats struct {
	Running        bool   `json:"running"`
	QueueSize      int    `json:"queue_size"`
	QueueCapacity  int    `json:"queue_capacity"`
	QueueDropped   uint64 `json:"queue_dropped"`
	ListenerFaults uint64 `json:"listener_faults"`
}
