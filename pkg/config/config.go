package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config lifecycle core configuration
type Config struct {
	Pool    PoolConfig    `yaml:"pool"`
	Warmup  WarmupConfig  `yaml:"warmup"`
	Factory FactoryConfig `yaml:"factory"`
	Logger  LoggerConfig  `yaml:"logger"`
}

// PoolConfig warm pool sizing and lifecycle timings
type PoolConfig struct {
	Enabled bool `yaml:"enabled"` // Master switch

	// WarmPerBracketPerFaction target capacity per (bracket, faction) slice
	WarmPerBracketPerFaction uint32 `yaml:"warm_per_bracket_per_faction"`

	// RoleSplit percentage split of each slice across roles; must sum to 100
	RoleSplit RoleSplit `yaml:"role_split"`

	// CooldownMs minimum rest interval between release and re-assignability
	CooldownMs uint32 `yaml:"cooldown_ms"`

	// ReservationTimeoutMs deadline for an unfulfilled reservation
	ReservationTimeoutMs uint32 `yaml:"reservation_timeout_ms"`
}

// RoleSplit per-role percentage of a pool slice
type RoleSplit struct {
	Tank   uint8 `yaml:"tank"`
	Healer uint8 `yaml:"healer"`
	DPS    uint8 `yaml:"dps"`
}

// WarmupConfig incremental bot creation limits
type WarmupConfig struct {
	// BotsPerTick upper bound on slot creations per tick
	BotsPerTick uint32 `yaml:"bots_per_tick"`

	// RetryBudget warmup attempts before a slot is retired to Empty
	RetryBudget uint32 `yaml:"retry_budget"`

	// TickBudgetMs wall-clock budget per tick; exceeding it yields early
	TickBudgetMs uint32 `yaml:"tick_budget_ms"`
}

// FactoryConfig JIT overflow factory limits
type FactoryConfig struct {
	// MaxConcurrentJobs fabrication jobs running at once
	MaxConcurrentJobs uint32 `yaml:"max_concurrent_jobs"`

	// BGCallbackDeadlineMs how long the battleground fill hook waits before
	// giving up on pending logins
	BGCallbackDeadlineMs uint32 `yaml:"bg_callback_deadline_ms"`
}

// LoggerConfig logging configuration
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Output string `yaml:"output"` // console, file, both
	File   struct {
		Path string `yaml:"path"`
	} `yaml:"file"`
}

// Default returns the configuration described in the recognized-options table.
func Default() *Config {
	return &Config{
		Pool: PoolConfig{
			Enabled:                  true,
			WarmPerBracketPerFaction: 50,
			RoleSplit:                RoleSplit{Tank: 20, Healer: 30, DPS: 50},
			CooldownMs:               300_000,
			ReservationTimeoutMs:     120_000,
		},
		Warmup: WarmupConfig{
			BotsPerTick:  5,
			RetryBudget:  3,
			TickBudgetMs: 50,
		},
		Factory: FactoryConfig{
			MaxConcurrentJobs:    2,
			BGCallbackDeadlineMs: 5_000,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Output: "console",
		},
	}
}

// Load reads configuration from a YAML file, filling unset fields from
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects impossible configurations. Only configuration-time errors
// fail initialization; everything at runtime degrades instead.
func (c *Config) Validate() error {
	split := int(c.Pool.RoleSplit.Tank) + int(c.Pool.RoleSplit.Healer) + int(c.Pool.RoleSplit.DPS)
	if split != 100 {
		return fmt.Errorf("role_split must sum to 100, got %d", split)
	}
	if c.Pool.WarmPerBracketPerFaction == 0 && c.Pool.Enabled {
		return fmt.Errorf("warm_per_bracket_per_faction must be positive when the pool is enabled")
	}
	if c.Warmup.BotsPerTick == 0 {
		return fmt.Errorf("warmup bots_per_tick must be positive")
	}
	if c.Warmup.RetryBudget == 0 {
		return fmt.Errorf("warmup retry_budget must be positive")
	}
	if c.Factory.MaxConcurrentJobs == 0 {
		return fmt.Errorf("factory max_concurrent_jobs must be positive")
	}
	return nil
}

// Cooldown CooldownMs as a duration
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Pool.CooldownMs) * time.Millisecond
}

// ReservationTimeout ReservationTimeoutMs as a duration
func (c *Config) ReservationTimeout() time.Duration {
	return time.Duration(c.Pool.ReservationTimeoutMs) * time.Millisecond
}

// WarmupTickBudget TickBudgetMs as a duration
func (c *Config) WarmupTickBudget() time.Duration {
	return time.Duration(c.Warmup.TickBudgetMs) * time.Millisecond
}

// BGCallbackDeadline BGCallbackDeadlineMs as a duration
func (c *Config) BGCallbackDeadline() time.Duration {
	return time.Duration(c.Factory.BGCallbackDeadlineMs) * time.Millisecond
}

// RoleTarget target slot count for one role within a (bracket, faction) slice
func (c *Config) RoleTarget(rolePct uint8) int {
	return int(c.Pool.WarmPerBracketPerFaction) * int(rolePct) / 100
}
