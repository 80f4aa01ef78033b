package models

// MConfig Structure
type MConfig struct {
	Name     string        `yaml:"name"`
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	LogLevel string        `yaml:"log_level"`
	GrpcHost string        `yaml:"grpc_host"`
	GrpcPort int           `yaml:"grpc_port"`
	Symbols  []string      `yaml:"symbols"`
	Engine   MEngineConfig `yaml:"engine"`
	Stream   MStreamConfig `yaml:"stream"`
}

type MEngineConfig struct {
	TickIntervalMs   int                `yaml:"tick_interval_ms"`
	DefaultBasePrice float64            `yaml:"default_base_price"`
	BasePrices       map[string]float64 `yaml:"base_prices"`
	MaxDeltaPercent  float64            `yaml:"max_delta_percent"`
	MinPrice         float64            `yaml:"min_price"`
	DrainCapacity    int                `yaml:"drain_capacity"`
	SessionCalendar  string             `yaml:"session_calendar"` // "", "auto" or a MIC such as "xnys"
}

type MStreamConfig struct {
	OverflowPolicy string `yaml:"overflow_policy"` // unbounded | drop_newest | drop_oldest
	BufferSize     int    `yaml:"buffer_size"`
}
