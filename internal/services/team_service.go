package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/jaydenshimshi/LineUp-sub000/internal/providers"
	"github.com/jaydenshimshi/LineUp-sub000/internal/solver"
	"github.com/jaydenshimshi/LineUp-sub000/internal/websocket"
	"github.com/jaydenshimshi/LineUp-sub000/pkg/cache"
	"github.com/jaydenshimshi/LineUp-sub000/pkg/config"
)

// TeamService chains the solve cache, the optional exact solver sidecar and
// the local heuristic into a single entry point. Every path returns the same
// SolveResult shape, stamped with the provider that produced it.
type TeamService struct {
	cfg       *config.Config
	cache     *cache.SolveCacheService
	provider  *providers.ExactSolverClient
	wsHub     *websocket.Hub
	logger    *logrus.Logger
	cron      *cron.Cron
	solverCfg solver.SolverConfig
}

// NewTeamService creates a team generation service.
func NewTeamService(
	cfg *config.Config,
	solveCache *cache.SolveCacheService,
	provider *providers.ExactSolverClient,
	wsHub *websocket.Hub,
	logger *logrus.Logger,
) *TeamService {
	solverCfg := solver.DefaultConfig()
	solverCfg.InitialTemp = cfg.SolverInitialTemp
	solverCfg.CoolingRate = cfg.SolverCoolingRate
	solverCfg.MinTemp = cfg.SolverMinTemp
	solverCfg.IterationsPerTemp = cfg.SolverIterationsPerTemp
	solverCfg.SkillGapWarning = cfg.SkillGapWarning

	return &TeamService{
		cfg:       cfg,
		cache:     solveCache,
		provider:  provider,
		wsHub:     wsHub,
		logger:    logger,
		cron:      cron.New(),
		solverCfg: solverCfg,
	}
}

// SolveOptions carries the per-request solve knobs. A nil UseExactSolver
// leaves the sidecar decision to the service.
type SolveOptions struct {
	Seed           int64
	UseExactSolver *bool
}

// GenerateTeams solves one roster. Results are cached per canonical roster
// and seed, so re-posting the same check-in list inside the TTL returns the
// same teams instead of reshuffling them.
func (s *TeamService) GenerateTeams(ctx context.Context, requestID string, players []solver.Player, opts SolveOptions) (*solver.SolveResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"request_id":   requestID,
		"player_count": len(players),
	})

	roster, err := solver.NormalizeRoster(players)
	if err != nil {
		return nil, err
	}

	key := solveCacheKey(roster, opts.Seed)
	if s.cache != nil && s.cache.Enabled() {
		cached, err := s.cache.GetSolveResult(ctx, key)
		if err == nil {
			log.WithFields(logrus.Fields{
				"cache_key": key,
				"provider":  cached.Provider,
			}).Info("Returning cached solve result")
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) && !errors.Is(err, cache.ErrCacheDisabled) {
			log.WithError(err).Warn("Solve cache lookup failed")
		}
	}

	wantExact := opts.UseExactSolver == nil || *opts.UseExactSolver
	if wantExact && len(roster) >= solver.MinPlayers && s.provider != nil && s.provider.Healthy() {
		result, err := s.provider.Solve(ctx, roster)
		if err != nil {
			log.WithError(err).Warn("Exact solver failed, falling back to heuristic")
		} else {
			log.WithField("provider", result.Provider).Info("Solve served by exact sidecar")
			s.storeResult(ctx, key, result, log)
			return result, nil
		}
	}

	cfg := s.solverCfg
	cfg.Seed = opts.Seed
	if s.wsHub != nil && requestID != "" {
		progressChan := make(chan solver.ProgressUpdate, 64)
		go s.forwardProgressToWebSocket(requestID, progressChan)
		defer close(progressChan)
		cfg.Progress = func(update solver.ProgressUpdate) {
			select {
			case progressChan <- update:
			default:
			}
		}
	}

	result, err := solver.SolveTeams(roster, cfg)
	if err != nil {
		return nil, err
	}
	if result.Success {
		s.storeResult(ctx, key, result, log)
	}
	return result, nil
}

func (s *TeamService) forwardProgressToWebSocket(requestID string, progressChan <-chan solver.ProgressUpdate) {
	for progress := range progressChan {
		s.wsHub.BroadcastToRequest(requestID, progress)
	}
}

func (s *TeamService) storeResult(ctx context.Context, key string, result *solver.SolveResult, log *logrus.Entry) {
	if s.cache == nil || !s.cache.Enabled() {
		return
	}
	if err := s.cache.SetSolveResult(ctx, key, result, s.cfg.CacheTTL); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		log.WithError(err).Warn("Failed to cache solve result")
	}
}

// solveCacheKey hashes the roster and seed. Players are sorted by ID first
// so the same group hashes identically regardless of check-in order.
func solveCacheKey(roster []solver.Player, seed int64) string {
	canonical := append([]solver.Player(nil), roster...)
	sort.Slice(canonical, func(i, j int) bool { return canonical[i].ID < canonical[j].ID })

	payload := struct {
		Players []solver.Player `json:"players"`
		Seed    int64           `json:"seed"`
	}{canonical, seed}

	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// StartProbes schedules recurring health probes of the exact solver sidecar.
// Without a configured sidecar this is a no-op.
func (s *TeamService) StartProbes() error {
	if s.provider == nil || !s.provider.Enabled() {
		s.logger.WithField("component", "team_service").Info("Exact solver not configured, probes not scheduled")
		return nil
	}

	probe := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ExactSolverTimeout)
		defer cancel()
		s.provider.Probe(ctx)
	}

	if _, err := s.cron.AddFunc(s.cfg.ExactProbeSchedule, probe); err != nil {
		return fmt.Errorf("failed to schedule exact solver probe: %w", err)
	}
	s.cron.Start()

	// The first cron tick can be a full interval away, probe once now.
	go probe()

	s.logger.WithFields(logrus.Fields{
		"component": "team_service",
		"schedule":  s.cfg.ExactProbeSchedule,
	}).Info("Exact solver probes scheduled")
	return nil
}

// Stop shuts down the probe scheduler and waits briefly for running jobs.
func (s *TeamService) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.logger.WithField("component", "team_service").Warn("Probe scheduler stop timed out")
	}
}
