// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"fmt"
	"strings"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"
	// DefaultTemperature keeps ranking output close to deterministic.
	DefaultTemperature = 0.2
)

// Config holds configuration for the remote ranking service.
// The zero host and API key leave the ranker unconfigured, which routes every
// search to keyword scoring.
type Config struct {
	// Host is the base URL of an OpenAI-compatible API.
	// Example: "https://api.openai.com/v1" or "http://localhost:11434/v1"
	Host string

	// Model is the chat model identifier used for ranking.
	// Example: "gpt-4o-mini", "qwen2.5:3b"
	Model string

	// APIKey is the bearer token sent to Host.
	APIKey string

	// Temperature is the sampling temperature for the ranking call.
	// Default: 0.2
	Temperature float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the ranking model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// DefaultConfig returns a Config with the default model and temperature and
// no host or credentials.
func DefaultConfig() *Config {
	return &Config{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("https://api.openai.com"),
//	    WithAPIKey(os.Getenv("SITESEARCH_AI_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Configured reports whether enough settings are present to attempt a
// ranking call. A partially configured Config is not configured.
func (c *Config) Configured() bool {
	if c == nil {
		return false
	}
	return strings.TrimSpace(c.Host) != "" &&
		strings.TrimSpace(c.Model) != "" &&
		strings.TrimSpace(c.APIKey) != ""
}

// Partial reports whether some but not all of the required settings are present.
func (c *Config) Partial() bool {
	if c == nil || c.Configured() {
		return false
	}
	return strings.TrimSpace(c.Host) != "" || strings.TrimSpace(c.APIKey) != ""
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required
// by most OpenAI-compatible APIs.
func (c *Config) Normalize() {
	c.Host = strings.TrimSpace(c.Host)
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
}

// Validate checks that the configuration is complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return fmt.Errorf("%w: Host is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: Model is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: APIKey is required", ErrInvalidConfig)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: Temperature must be between 0 and 2", ErrInvalidConfig)
	}
	return nil
}
