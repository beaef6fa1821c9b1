package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Rooms, 1)
	assert.Equal(t, "main", cfg.Rooms[0].Name)
}

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ParsesRoomsAndFillsDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "holdem-server.hcl")
	contents := `
server {
  address   = "0.0.0.0"
  port      = 9090
  log_level = "debug"
}

room "high-stakes" {
  small_blind = 50
  big_blind   = 100
}

room "micro" {
}
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	require.Len(t, cfg.Rooms, 2)

	high := cfg.Rooms[0]
	assert.Equal(t, "high-stakes", high.Name)
	ec := high.EngineConfig()
	assert.Equal(t, 50, ec.SmallBlind)
	assert.Equal(t, 100, ec.BigBlind)
	assert.Equal(t, 1500, ec.StartingStack) // unset fields fall back to engine defaults

	micro := cfg.Rooms[1]
	microCfg := micro.EngineConfig()
	assert.Equal(t, 10, microCfg.SmallBlind)
	assert.Equal(t, 20, microCfg.BigBlind)
}

func TestValidate_RejectsBadBlindOrdering(t *testing.T) {
	t.Parallel()
	cfg := &ServerConfig{
		Server: ServerSettings{Port: 8080},
		Rooms:  []RoomConfig{{Name: "bad", SmallBlind: 20, BigBlind: 10}},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "big blind")
}

func TestValidate_RejectsDuplicateRoomNames(t *testing.T) {
	t.Parallel()
	cfg := &ServerConfig{
		Server: ServerSettings{Port: 8080},
		Rooms: []RoomConfig{
			{Name: "main"},
			{Name: "main"},
		},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}
