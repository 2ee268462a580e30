package config_test

import (
	"testing"

	"github.com/jpl-au/docshell/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := &config.Config{}

	assert.Equal(t, config.DefaultMaxPath, cfg.MaxPath())
	assert.Equal(t, int64(config.DefaultMaxContent), cfg.MaxContent())
	assert.Equal(t, config.DefaultMaxCheckpoints, cfg.MaxCheckpoints())
}

func TestConfig_GetSet(t *testing.T) {
	cfg := &config.Config{}

	require.NoError(t, cfg.Set("author.name", "alice"))
	got, err := cfg.Get("author.name")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	require.NoError(t, cfg.Set("checkpoints.max", "10"))
	assert.Equal(t, 10, cfg.MaxCheckpoints())
	assert.True(t, cfg.IsSet("checkpoints.max"))

	_, err = cfg.Get("no.such.key")
	assert.ErrorIs(t, err, config.ErrUnknownKey)

	err = cfg.Set("checkpoints.max", "zero")
	assert.ErrorIs(t, err, config.ErrInvalidValue)

	err = cfg.Set("limits.max_content", "-5")
	assert.ErrorIs(t, err, config.ErrInvalidValue)
}

func TestConfig_Validate(t *testing.T) {
	tooBig := config.MaxMaxPath + 1
	cfg := &config.Config{Limits: config.Limits{MaxPath: &tooBig}}
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidValue)

	ok := 100
	cfg = &config.Config{Checkpoints: config.Checkpoints{Max: &ok}}
	assert.NoError(t, cfg.Validate())
}

func TestConfig_ValidKeys(t *testing.T) {
	for _, key := range config.ValidKeys() {
		assert.True(t, config.IsValidKey(key), key)

		cfg := &config.Config{}
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
	assert.False(t, config.IsValidKey("bogus"))
}

func TestConfig_AllContainsEveryKey(t *testing.T) {
	cfg := &config.Config{}
	all := cfg.All()
	for _, key := range config.ValidKeys() {
		_, ok := all[key]
		assert.True(t, ok, key)
	}
}
