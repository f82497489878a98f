package remediation

import "time"

// Config tunes content generation.
type Config struct {
	MaxTokens   int
	Temperature float64
	// Timeout bounds a single generation call. Generation is the only
	// long-latency operation in the engine.
	Timeout time.Duration
}

// DefaultConfig returns generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1500,
		Temperature: 0.7,
		Timeout:     45 * time.Second,
	}
}
