package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaydenshimshi/LineUp-sub000/internal/solver"
)

func newTestCache(t *testing.T) (*SolveCacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewSolveCacheService(client, log), mr
}

func sampleResult() *solver.SolveResult {
	return &solver.SolveResult{
		Success:  true,
		Message:  "Teams generated (heuristic) in 42ms",
		Provider: solver.ProviderHeuristic,
		Assignments: []solver.PlayerAssignment{
			{PlayerID: "p1", PlayerName: "Player p1", Team: solver.TeamRed, Role: solver.PositionMID},
		},
		TeamMetrics: []solver.TeamMetrics{
			{Team: solver.TeamRed, PlayerCount: 1, SkillSum: 3, SkillAvg: 3, HasGoalkeeper: false},
		},
		Warnings:    []string{"Team RED is missing a goalkeeper"},
		SolveTimeMs: 42,
	}
}

func TestSolveCacheRoundTrip(t *testing.T) {
	svc, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, svc.SetSolveResult(ctx, "abc", sampleResult(), time.Hour))

	got, err := svc.GetSolveResult(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, sampleResult(), got)
}

func TestSolveCacheMiss(t *testing.T) {
	svc, _ := newTestCache(t)

	got, err := svc.GetSolveResult(context.Background(), "nothing-here")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSolveCacheExpiry(t *testing.T) {
	svc, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, svc.SetSolveResult(ctx, "abc", sampleResult(), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := svc.GetSolveResult(ctx, "abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSolveCacheDelete(t *testing.T) {
	svc, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, svc.SetSolveResult(ctx, "abc", sampleResult(), time.Hour))
	require.NoError(t, svc.DeleteSolveResult(ctx, "abc"))

	_, err := svc.GetSolveResult(ctx, "abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSolveCacheFlush(t *testing.T) {
	svc, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, svc.SetSolveResult(ctx, "a", sampleResult(), time.Hour))
	require.NoError(t, svc.SetSolveResult(ctx, "b", sampleResult(), time.Hour))
	require.NoError(t, svc.FlushSolveCache(ctx))

	_, err := svc.GetSolveResult(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = svc.GetSolveResult(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSolveCacheStatus(t *testing.T) {
	svc, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, svc.SetSolveResult(ctx, "a", sampleResult(), time.Hour))

	status := svc.GetStatus(ctx)
	assert.Equal(t, true, status["connected"])
	assert.Equal(t, 1, status["solve_keys"])
}

func TestSolveCacheDisabled(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := NewSolveCacheService(nil, log)
	ctx := context.Background()

	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.SetSolveResult(ctx, "a", sampleResult(), time.Hour))

	_, err := svc.GetSolveResult(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheDisabled)

	status := svc.GetStatus(ctx)
	assert.Equal(t, false, status["connected"])
}
