package mesh

import "go.uber.org/zap"

// Config holds triangulation parameters.
type Config struct {
	Eps    float64     // barycentric tolerance for Locate, default 1e-12
	Logger *zap.Logger // nil installs zap.NewNop()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Eps:    1e-12,
		Logger: zap.NewNop(),
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise normalizes c.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	if c.Eps <= 0 {
		c.Eps = 1e-12
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
