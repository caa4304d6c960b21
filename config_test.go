package ackwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30*time.Second, cfg.CheckPeriod)
	assert.Equal(t, 30*time.Second, cfg.MaxTimeSinceLastAck)
	assert.Equal(t, 30*time.Second, cfg.MaxSlowDuration)
	assert.Zero(t, cfg.MaxSlowCount)
	assert.False(t, cfg.AbortConnection)
	assert.True(t, cfg.IgnoreIdleConsumers)
	assert.True(t, cfg.IgnoreNetworkConsumers)
}

func TestSetDefaults_FillsCheckPeriodAndName(t *testing.T) {
	cfg := Config{}
	SetDefaults(&cfg)

	assert.Equal(t, DefaultCheckPeriod, cfg.CheckPeriod)
	assert.NotEmpty(t, cfg.Name)
	assert.Contains(t, cfg.Name, "ack-strategy-")
}

func TestSetDefaults_PreservesMeaningfulZeroes(t *testing.T) {
	cfg := Config{
		CheckPeriod:         time.Second,
		MaxTimeSinceLastAck: 0, // any nonzero ack age is slow
		MaxSlowDuration:     0, // duration escalation disabled
		MaxSlowCount:        0, // count escalation disabled
	}
	SetDefaults(&cfg)

	assert.Zero(t, cfg.MaxTimeSinceLastAck)
	assert.Zero(t, cfg.MaxSlowDuration)
	assert.Zero(t, cfg.MaxSlowCount)
}

func TestSetDefaults_KeepsExplicitName(t *testing.T) {
	cfg := Config{Name: "queues-policy"}
	SetDefaults(&cfg)

	assert.Equal(t, "queues-policy", cfg.Name)
}

func TestValidate_RejectsNegativeCheckPeriod(t *testing.T) {
	cfg := Config{CheckPeriod: -time.Second}

	err := cfg.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate_AcceptsDegenerateThresholds(t *testing.T) {
	// Degenerate thresholds are policy, not errors.
	cfg := Config{
		CheckPeriod:         time.Second,
		MaxTimeSinceLastAck: -1, // strategy disabled
		MaxSlowDuration:     -5 * time.Second,
		MaxSlowCount:        -3,
	}

	require.NoError(t, cfg.Validate())
}

func TestTestConfig_FasterThanDefaults(t *testing.T) {
	cfg := TestConfig()

	require.NoError(t, cfg.Validate())
	assert.Less(t, cfg.CheckPeriod, DefaultCheckPeriod)
	assert.Less(t, cfg.MaxTimeSinceLastAck, DefaultMaxTimeSinceLastAck)
	assert.Less(t, cfg.MaxSlowDuration, DefaultMaxSlowDuration)
}
