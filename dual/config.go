package dual

import (
	"runtime"

	"go.uber.org/zap"
)

// Config holds query parameters.
type Config struct {
	SideTolerance        float64     // lifted distances >= -SideTolerance count as visible, default 1e-12
	CoincidenceTolerance float64     // max distance at which a query point duplicates a vertex, default 1e-12
	Workers              int         // batch worker count for Engine, default runtime.NumCPU()
	QueueSize            int         // per-worker job buffer for Engine, default 64
	Logger               *zap.Logger // nil installs zap.NewNop()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SideTolerance:        1e-12,
		CoincidenceTolerance: 1e-12,
		Workers:              runtime.NumCPU(),
		QueueSize:            64,
		Logger:               zap.NewNop(),
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise a normalized copy of c.
// c itself is never written, so one Config may be shared by concurrent queries.
// A zero SideTolerance is kept: it selects the exact ">= 0" test.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	c2 := *c
	c = &c2
	if c.SideTolerance < 0 {
		c.SideTolerance = 1e-12
	}
	if c.CoincidenceTolerance < 0 {
		c.CoincidenceTolerance = 1e-12
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
