package commerce

import "time"

// Config represents the configuration for the commerce platform client
type Config struct {
	// BaseURL is the WordPress site root, e.g. https://shop.example.com
	BaseURL string

	// ServiceToken is the fallback bearer credential used when a request
	// carries no customer token (scheduled stock refresh, seller reports)
	ServiceToken string

	// Timeout bounds each API call; zero means the 30s default
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	return nil
}
