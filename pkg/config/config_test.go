package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.ExactSolverTimeout)
	assert.False(t, cfg.ExactSolverEnabled())
	assert.Equal(t, 1000.0, cfg.SolverInitialTemp)
	assert.Equal(t, 0.995, cfg.SolverCoolingRate)
	assert.Equal(t, 25, cfg.SolverIterationsPerTemp)
	assert.Equal(t, 5, cfg.SkillGapWarning)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("EXACT_SOLVER_URL", "http://solver:5000")
	t.Setenv("SKILL_GAP_WARNING", "8")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.ExactSolverEnabled())
	assert.Equal(t, "http://solver:5000", cfg.ExactSolverURL)
	assert.Equal(t, 8, cfg.SkillGapWarning)
}
