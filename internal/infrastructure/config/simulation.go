package config

// SimulationConfig holds the defaults applied to the simulate command
type SimulationConfig struct {
	// Ticks executed by one run
	Ticks int `mapstructure:"ticks" validate:"min=0"`

	// Pacing in ticks per second; 0 runs as fast as possible
	TicksPerSecond float64 `mapstructure:"ticks_per_second" validate:"min=0"`

	// Fresh fuel the source may supply per tick; 0 is unlimited
	SourceCapacity float64 `mapstructure:"source_capacity" validate:"min=0"`

	// Spent fuel the sink requests per tick; 0 runs without a sink
	SinkQuantity float64 `mapstructure:"sink_quantity" validate:"min=0"`

	// Full batches placed in the core before the first tick
	InitialCore int `mapstructure:"initial_core" validate:"min=0"`

	// Fresh fuel placed in reserves before the first tick
	InitialReserves float64 `mapstructure:"initial_reserves" validate:"min=0"`
}
