package solver

import (
	"math"
	"math/rand"
	"time"
)

// Default annealing schedule. Roughly 1800 cooling steps at 25 moves
// each, which keeps a full 22-player solve well under a second.
const (
	DefaultInitialTemp       = 1000.0
	DefaultCoolingRate       = 0.995
	DefaultMinTemp           = 0.1
	DefaultIterationsPerTemp = 25
	DefaultSkillGapWarning   = 5
)

// Move mix per iteration: mostly inter-team swaps, a slice of bench
// rotation, a sliver of size rebalancing.
const (
	moveSwapTeams = 0.70
	moveSwapBench = 0.20
)

// progressEvery is the number of cooling steps between progress
// callbacks.
const progressEvery = 100

// ProgressUpdate reports how far the cooling schedule has run.
type ProgressUpdate struct {
	Progress    float64   `json:"progress"`
	Temperature float64   `json:"temperature"`
	BestScore   float64   `json:"bestScore"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// ProgressFunc receives updates during a solve. Called synchronously from
// the search loop, so keep it cheap; fan-out belongs to the caller.
type ProgressFunc func(ProgressUpdate)

// SolverConfig bundles the annealing schedule, the RNG seed and the
// warning threshold for one solve run. Seed zero means seed from the
// wall clock; any other value makes the run fully reproducible.
type SolverConfig struct {
	InitialTemp       float64      `json:"initialTemp"`
	CoolingRate       float64      `json:"coolingRate"`
	MinTemp           float64      `json:"minTemp"`
	IterationsPerTemp int          `json:"iterationsPerTemp"`
	Seed              int64        `json:"seed"`
	SkillGapWarning   int          `json:"skillGapWarning"`
	Progress          ProgressFunc `json:"-"`
}

// DefaultConfig returns the production schedule.
func DefaultConfig() SolverConfig {
	return SolverConfig{
		InitialTemp:       DefaultInitialTemp,
		CoolingRate:       DefaultCoolingRate,
		MinTemp:           DefaultMinTemp,
		IterationsPerTemp: DefaultIterationsPerTemp,
		SkillGapWarning:   DefaultSkillGapWarning,
	}
}

// sanitize replaces unusable schedule values with defaults so a partially
// populated config off the wire can neither hang the loop nor skip it.
func (c SolverConfig) sanitize() SolverConfig {
	if c.InitialTemp <= 0 {
		c.InitialTemp = DefaultInitialTemp
	}
	if c.CoolingRate <= 0 || c.CoolingRate >= 1 {
		c.CoolingRate = DefaultCoolingRate
	}
	if c.MinTemp <= 0 || c.MinTemp >= c.InitialTemp {
		c.MinTemp = c.InitialTemp * (DefaultMinTemp / DefaultInitialTemp)
	}
	if c.IterationsPerTemp <= 0 {
		c.IterationsPerTemp = DefaultIterationsPerTemp
	}
	if c.SkillGapWarning <= 0 {
		c.SkillGapWarning = DefaultSkillGapWarning
	}
	return c
}

// coolingSteps is the number of temperature levels the schedule visits.
func coolingSteps(cfg SolverConfig) int {
	steps := int(math.Ceil(math.Log(cfg.MinTemp/cfg.InitialTemp) / math.Log(cfg.CoolingRate)))
	if steps < 1 {
		steps = 1
	}
	return steps
}

// anneal runs simulated annealing from the seed partition and returns the
// best partition ever observed together with its score. Worse neighbors
// are accepted with probability exp(-delta/T); the best-seen state is
// tracked outside the walk, so the result never regresses below the seed.
func anneal(seed *solution, plan TeamStructure, cfg SolverConfig, rng *rand.Rand) (*solution, float64) {
	cur := seed
	curScore := scoreSolution(cur, plan)
	best := cur.clone()
	bestScore := curScore

	totalSteps := coolingSteps(cfg)
	step := 0
	for temp := cfg.InitialTemp; temp > cfg.MinTemp; temp *= cfg.CoolingRate {
		for i := 0; i < cfg.IterationsPerTemp; i++ {
			next := neighbor(cur, plan, rng)
			nextScore := scoreSolution(next, plan)
			if acceptMove(curScore, nextScore, temp, rng) {
				cur, curScore = next, nextScore
				if curScore < bestScore {
					best = cur.clone()
					bestScore = curScore
				}
			}
		}
		step++
		if cfg.Progress != nil && step%progressEvery == 0 {
			cfg.Progress(ProgressUpdate{
				Progress:    math.Min(1, float64(step)/float64(totalSteps)),
				Temperature: temp,
				BestScore:   bestScore,
				Message:     "annealing",
				Timestamp:   time.Now(),
			})
		}
		if bestScore == 0 {
			break
		}
	}
	return best, bestScore
}

// acceptMove implements the Metropolis criterion. Equal-score moves pass
// so the walk can drift across plateaus.
func acceptMove(cur, next, temp float64, rng *rand.Rand) bool {
	if next <= cur {
		return true
	}
	if math.IsInf(next, 1) {
		return false
	}
	return rng.Float64() < math.Exp(-(next-cur)/temp)
}

// neighbor returns a copy of cur with one random move applied.
func neighbor(cur *solution, plan TeamStructure, rng *rand.Rand) *solution {
	next := cur.clone()
	roll := rng.Float64()
	switch {
	case roll < moveSwapTeams:
		swapBetweenTeams(next, rng)
	case roll < moveSwapTeams+moveSwapBench:
		if len(next.bench) > 0 {
			swapWithBench(next, rng)
		} else {
			swapBetweenTeams(next, rng)
		}
	default:
		shiftBetweenTeams(next, rng)
	}
	return next
}

// swapBetweenTeams exchanges one random player between two distinct
// random teams.
func swapBetweenTeams(sol *solution, rng *rand.Rand) {
	t1 := rng.Intn(len(sol.teams))
	t2 := rng.Intn(len(sol.teams) - 1)
	if t2 >= t1 {
		t2++
	}
	i := rng.Intn(len(sol.teams[t1]))
	j := rng.Intn(len(sol.teams[t2]))
	sol.teams[t1][i], sol.teams[t2][j] = sol.teams[t2][j], sol.teams[t1][i]
}

// swapWithBench exchanges a random team player with a random substitute.
// The bench slot keeps its team tag; only the bodies trade places.
func swapWithBench(sol *solution, rng *rand.Rand) {
	t := rng.Intn(len(sol.teams))
	i := rng.Intn(len(sol.teams[t]))
	b := rng.Intn(len(sol.bench))
	sol.teams[t][i], sol.bench[b].player = sol.bench[b].player, sol.teams[t][i]
}

// shiftBetweenTeams moves one player from a largest team to a smallest
// team, flipping which side carries the odd player on uneven splits. The
// donor always keeps at least two players, so no move can empty a team.
// When sizes already match it degrades to a plain swap.
func shiftBetweenTeams(sol *solution, rng *rand.Rand) {
	largest, smallest := 0, 0
	for t := range sol.teams {
		if len(sol.teams[t]) > len(sol.teams[largest]) {
			largest = t
		}
		if len(sol.teams[t]) < len(sol.teams[smallest]) {
			smallest = t
		}
	}
	if len(sol.teams[largest]) == len(sol.teams[smallest]) {
		swapBetweenTeams(sol, rng)
		return
	}
	i := rng.Intn(len(sol.teams[largest]))
	p := sol.teams[largest][i]
	sol.teams[largest] = append(sol.teams[largest][:i], sol.teams[largest][i+1:]...)
	sol.teams[smallest] = append(sol.teams[smallest], p)
}
