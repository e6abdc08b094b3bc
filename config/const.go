package config

import "time"

// Size units.
const (
	KiB = 1 << 10
	MiB = 1 << 20
)

// Exercise defaults.
const (
	// DefaultTeardownSize is the number of nodes pushed before tearing a list
	// down. It is large enough that a recursive release would exhaust a small
	// stack.
	DefaultTeardownSize = 100_000
	// DefaultLIFOSize is the number of elements pushed by the LIFO scenario.
	DefaultLIFOSize = 1_000
	// DefaultReaders is the number of concurrent readers sharing one suffix.
	DefaultReaders = 8
	// DefaultParallel limits how many scenarios run at the same time.
	DefaultParallel = 1
	// ScenarioTimeout bounds a single scenario run.
	ScenarioTimeout = time.Minute
)

// Server settings.
const (
	ServerReadTimeout       = 30 * time.Second
	ServerReadHeaderTimeout = 3 * time.Second
	ServerResponseTimeout   = 2 * time.Minute
	MaxRequestSize          = MiB
)
