package solver

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jaydenshimshi/LineUp-sub000/pkg/logger"
)

// ProviderHeuristic tags results produced by this package's annealing
// pipeline, as opposed to an external exact solve.
const ProviderHeuristic = "heuristic"

// SolveTeams partitions a roster into evenly matched teams. The run is
// synchronous and self-contained: normalize the roster, plan the team
// structure, build a greedy seed, anneal, then flatten the best partition
// seen into a result. A roster below MinPlayers comes back as an
// unsuccessful result rather than an error; only malformed input, such as
// duplicate player IDs, errors out.
func SolveTeams(players []Player, cfg SolverConfig) (*SolveResult, error) {
	start := time.Now()
	cfg = cfg.sanitize()

	solveID := uuid.New().String()
	log := logger.WithSolveContext(solveID, len(players), 0)

	roster, err := NormalizeRoster(players)
	if err != nil {
		log.WithError(err).Warn("Roster rejected")
		return nil, err
	}

	if len(roster) < MinPlayers {
		log.WithField("player_count", len(roster)).Info("Roster too small to split")
		return &SolveResult{
			Success:     false,
			Message:     fmt.Sprintf("Not enough players (%d). Need at least %d.", len(roster), MinPlayers),
			Provider:    ProviderHeuristic,
			Assignments: []PlayerAssignment{},
			TeamMetrics: []TeamMetrics{},
			Warnings:    []string{},
			SolveTimeMs: time.Since(start).Milliseconds(),
		}, nil
	}

	plan := PlanStructure(len(roster))
	log = logger.WithSolveContext(solveID, len(roster), plan.TeamCount)

	seedVal := cfg.Seed
	if seedVal == 0 {
		seedVal = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedVal))

	seed := buildInitial(roster, plan)
	seedScore := scoreSolution(seed, plan)

	best, bestScore := anneal(seed, plan, cfg, rng)

	result := buildResult(roster, best, plan, cfg.SkillGapWarning)
	result.Provider = ProviderHeuristic
	result.SolveTimeMs = time.Since(start).Milliseconds()
	result.Message = fmt.Sprintf("Teams generated (heuristic) in %dms", result.SolveTimeMs)

	log.WithFields(logrus.Fields{
		"seed_score":    seedScore,
		"best_score":    bestScore,
		"sub_count":     plan.SubCount,
		"solve_time_ms": result.SolveTimeMs,
		"warning_count": len(result.Warnings),
	}).Info("Solve completed")

	return result, nil
}
