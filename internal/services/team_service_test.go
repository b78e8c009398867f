package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaydenshimshi/LineUp-sub000/internal/providers"
	"github.com/jaydenshimshi/LineUp-sub000/internal/solver"
	"github.com/jaydenshimshi/LineUp-sub000/pkg/cache"
	"github.com/jaydenshimshi/LineUp-sub000/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:                    "8080",
		Env:                     "development",
		CacheTTL:                time.Hour,
		ExactSolverTimeout:      2 * time.Second,
		ExactProbeSchedule:      "@every 1m",
		CircuitBreakerThreshold: 3,
		SolverInitialTemp:       solver.DefaultInitialTemp,
		SolverCoolingRate:       solver.DefaultCoolingRate,
		SolverMinTemp:           solver.DefaultMinTemp,
		SolverIterationsPerTemp: solver.DefaultIterationsPerTemp,
		SkillGapWarning:         solver.DefaultSkillGapWarning,
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testCache(t *testing.T) *cache.SolveCacheService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewSolveCacheService(client, testLogger())
}

// fourteen players, two of them keepers, enough for a clean 7v7
func testRoster() []solver.Player {
	players := make([]solver.Player, 0, 14)
	for i := 0; i < 14; i++ {
		p := solver.Player{
			ID:      fmt.Sprintf("p%02d", i),
			Name:    fmt.Sprintf("Player %02d", i),
			Age:     20 + i,
			Rating:  1 + i%5,
			MainPos: solver.PositionMID,
		}
		if i < 2 {
			p.MainPos = solver.PositionGK
		}
		players = append(players, p)
	}
	return players
}

func TestGenerateTeamsHeuristic(t *testing.T) {
	svc := NewTeamService(testConfig(), nil, nil, nil, testLogger())

	result, err := svc.GenerateTeams(context.Background(), "req-1", testRoster(), SolveOptions{Seed: 42})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, solver.ProviderHeuristic, result.Provider)
	assert.Len(t, result.Assignments, 14)
}

func TestGenerateTeamsDuplicateIDs(t *testing.T) {
	svc := NewTeamService(testConfig(), nil, nil, nil, testLogger())

	roster := testRoster()
	roster[1].ID = roster[0].ID

	result, err := svc.GenerateTeams(context.Background(), "req-1", roster, SolveOptions{Seed: 42})
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestGenerateTeamsCachesResult(t *testing.T) {
	solveCache := testCache(t)
	svc := NewTeamService(testConfig(), solveCache, nil, nil, testLogger())
	ctx := context.Background()

	first, err := svc.GenerateTeams(ctx, "req-1", testRoster(), SolveOptions{Seed: 42})
	require.NoError(t, err)

	roster, err := solver.NormalizeRoster(testRoster())
	require.NoError(t, err)
	stored, err := solveCache.GetSolveResult(ctx, solveCacheKey(roster, 42))
	require.NoError(t, err)
	assert.Equal(t, first, stored)

	second, err := svc.GenerateTeams(ctx, "req-2", testRoster(), SolveOptions{Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateTeamsExactProvider(t *testing.T) {
	sidecar := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.Write([]byte(`{"status":"healthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(solver.SolveResult{
			Success: true,
			Message: "Optimal split found",
			Assignments: []solver.PlayerAssignment{
				{PlayerID: "p00", PlayerName: "Player 00", Team: solver.TeamRed, Role: solver.PositionGK},
			},
			TeamMetrics: []solver.TeamMetrics{{Team: solver.TeamRed, PlayerCount: 1}},
			Warnings:    []string{},
		})
	}))
	defer sidecar.Close()

	provider := providers.NewExactSolverClient(sidecar.URL, 2*time.Second, 3, testLogger())
	require.NoError(t, provider.Probe(context.Background()))

	svc := NewTeamService(testConfig(), nil, provider, nil, testLogger())

	result, err := svc.GenerateTeams(context.Background(), "req-1", testRoster(), SolveOptions{Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, providers.ProviderExact, result.Provider)
	assert.Equal(t, "Optimal split found", result.Message)
}

func TestGenerateTeamsFallsBackWhenSidecarFails(t *testing.T) {
	sidecar := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.Write([]byte(`{"status":"healthy"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer sidecar.Close()

	provider := providers.NewExactSolverClient(sidecar.URL, 2*time.Second, 3, testLogger())
	require.NoError(t, provider.Probe(context.Background()))

	svc := NewTeamService(testConfig(), nil, provider, nil, testLogger())

	result, err := svc.GenerateTeams(context.Background(), "req-1", testRoster(), SolveOptions{Seed: 42})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, solver.ProviderHeuristic, result.Provider)
}

func TestGenerateTeamsSkipsSidecarForSmallRoster(t *testing.T) {
	solveCalls := 0
	sidecar := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.Write([]byte(`{"status":"healthy"}`))
			return
		}
		solveCalls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer sidecar.Close()

	provider := providers.NewExactSolverClient(sidecar.URL, 2*time.Second, 3, testLogger())
	require.NoError(t, provider.Probe(context.Background()))

	svc := NewTeamService(testConfig(), nil, provider, nil, testLogger())

	result, err := svc.GenerateTeams(context.Background(), "req-1", testRoster()[:4], SolveOptions{Seed: 42})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 0, solveCalls)
}

func TestGenerateTeamsRespectsUseExactSolverFalse(t *testing.T) {
	solveCalls := 0
	sidecar := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.Write([]byte(`{"status":"healthy"}`))
			return
		}
		solveCalls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(solver.SolveResult{Success: true, Message: "should not be used"})
	}))
	defer sidecar.Close()

	provider := providers.NewExactSolverClient(sidecar.URL, 2*time.Second, 3, testLogger())
	require.NoError(t, provider.Probe(context.Background()))

	svc := NewTeamService(testConfig(), nil, provider, nil, testLogger())

	noExact := false
	result, err := svc.GenerateTeams(context.Background(), "req-1", testRoster(), SolveOptions{Seed: 42, UseExactSolver: &noExact})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, solver.ProviderHeuristic, result.Provider)
	assert.Equal(t, 0, solveCalls)
}

func TestSolveCacheKeyCanonical(t *testing.T) {
	roster := testRoster()
	shuffled := append([]solver.Player(nil), roster...)
	shuffled[0], shuffled[13] = shuffled[13], shuffled[0]
	shuffled[3], shuffled[7] = shuffled[7], shuffled[3]

	assert.Equal(t, solveCacheKey(roster, 42), solveCacheKey(shuffled, 42))
	assert.NotEqual(t, solveCacheKey(roster, 42), solveCacheKey(roster, 43))

	changed := append([]solver.Player(nil), roster...)
	changed[5].Rating = 5
	assert.NotEqual(t, solveCacheKey(roster, 42), solveCacheKey(changed, 42))
}

func TestStartProbesWithoutSidecar(t *testing.T) {
	svc := NewTeamService(testConfig(), nil, nil, nil, testLogger())
	assert.NoError(t, svc.StartProbes())
	svc.Stop()
}
