// Package config loads the room-level constants from an HCL file,
// falling back to the engine's fixed defaults when no file is present.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/csc667-team-z-j/holdem-engine/internal/engine"
)

// ServerConfig is the top-level document: one address/port/logging
// block, and one room block per table this process should run.
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Rooms  []RoomConfig   `hcl:"room,block"`
}

// ServerSettings contains process-level configuration.
type ServerSettings struct {
	Address    string `hcl:"address,optional"`
	Port       int    `hcl:"port,optional"`
	LogLevel   string `hcl:"log_level,optional"`
	PostgresDSN string `hcl:"postgres_dsn,optional"`
}

// RoomConfig mirrors engine.Config plus the identity fields needed to
// register the room.
type RoomConfig struct {
	Name                  string `hcl:"name,label"`
	StartingStack         int    `hcl:"starting_stack,optional"`
	SmallBlind            int    `hcl:"small_blind,optional"`
	BigBlind              int    `hcl:"big_blind,optional"`
	TurnTimerSeconds      int    `hcl:"turn_timer_seconds,optional"`
	MaxSeats              int    `hcl:"max_seats,optional"`
	MinSeatsToStart       int    `hcl:"min_seats_to_start,optional"`
	InterHandPauseSeconds int    `hcl:"inter_hand_pause_seconds,optional"`
}

// EngineConfig converts a RoomConfig to engine.Config, filling in any
// zero-valued field from engine.DefaultConfig.
func (r RoomConfig) EngineConfig() engine.Config {
	d := engine.DefaultConfig()
	cfg := engine.Config{
		StartingStack:         r.StartingStack,
		SmallBlind:            r.SmallBlind,
		BigBlind:              r.BigBlind,
		TurnTimerSeconds:      r.TurnTimerSeconds,
		MaxSeats:              r.MaxSeats,
		MinSeatsToStart:       r.MinSeatsToStart,
		InterHandPauseSeconds: r.InterHandPauseSeconds,
	}
	if cfg.StartingStack == 0 {
		cfg.StartingStack = d.StartingStack
	}
	if cfg.SmallBlind == 0 {
		cfg.SmallBlind = d.SmallBlind
	}
	if cfg.BigBlind == 0 {
		cfg.BigBlind = d.BigBlind
	}
	if cfg.TurnTimerSeconds == 0 {
		cfg.TurnTimerSeconds = d.TurnTimerSeconds
	}
	if cfg.MaxSeats == 0 {
		cfg.MaxSeats = d.MaxSeats
	}
	if cfg.MinSeatsToStart == 0 {
		cfg.MinSeatsToStart = d.MinSeatsToStart
	}
	if cfg.InterHandPauseSeconds == 0 {
		cfg.InterHandPauseSeconds = d.InterHandPauseSeconds
	}
	return cfg
}

// Default returns a single-room configuration using the engine's fixed
// constants, for running without a config file.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "0.0.0.0",
			Port:     8080,
			LogLevel: "info",
		},
		Rooms: []RoomConfig{{Name: "main"}},
	}
}

// Load reads and decodes filename, or returns Default() if filename
// does not exist.
func Load(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var cfg ServerConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if len(cfg.Rooms) == 0 {
		cfg.Rooms = []RoomConfig{{Name: "main"}}
	}

	return &cfg, nil
}

// Validate rejects a configuration that would fail inside the engine
// anyway, before any room is constructed.
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Rooms) == 0 {
		return fmt.Errorf("at least one room must be configured")
	}
	seen := map[string]bool{}
	for _, r := range c.Rooms {
		if seen[r.Name] {
			return fmt.Errorf("duplicate room name: %s", r.Name)
		}
		seen[r.Name] = true
		if r.SmallBlind < 0 || r.BigBlind < 0 {
			return fmt.Errorf("room %s: blinds must not be negative", r.Name)
		}
		if r.BigBlind != 0 && r.SmallBlind != 0 && r.BigBlind <= r.SmallBlind {
			return fmt.Errorf("room %s: big blind must exceed small blind", r.Name)
		}
	}
	return nil
}
