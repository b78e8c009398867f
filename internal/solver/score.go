package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Objective weights. Lower score is better; zero is a perfectly balanced
// plan. Skill balance dominates, an uncovered position outweighs one that
// a second-position player can patch, and goalkeeper coverage sits between
// the two. Age and versatility spread act as tiebreakers.
const (
	weightSkillSpread    = 1500.0
	weightSkillDeviation = 200.0
	weightAgeSpread      = 150.0
	weightMissingCovered = 250.0
	weightMissingOpen    = 800.0
	weightOverstacked    = 100.0
	weightMissingKeeper  = 600.0
	weightVersatility    = 30.0
)

// gkExpectedSize is the smallest team size whose formation reserves a
// goalkeeper slot. Smaller sides play without a keeper and are not
// penalized for lacking one.
const gkExpectedSize = 4

// scoreSolution computes the badness of a partition. Pure function of the
// state: no mutation, no randomness, identical input yields the identical
// float. A partition with an empty team scores +Inf so the search can
// never settle on a degenerate split.
func scoreSolution(sol *solution, plan TeamStructure) float64 {
	for _, team := range sol.teams {
		if len(team) == 0 {
			return math.Inf(1)
		}
	}

	nTeams := len(sol.teams)
	skills := make([]float64, nTeams)
	ages := make([]float64, nTeams)
	versatility := make([]float64, nTeams)

	playing := 0
	uneven := false
	for _, team := range sol.teams {
		playing += len(team)
		if len(team) != len(sol.teams[0]) {
			uneven = true
		}
	}
	meanSize := float64(playing) / float64(nTeams)

	for t, team := range sol.teams {
		skillSum, ageSum, dual := 0, 0, 0
		for _, p := range team {
			skillSum += p.Rating
			ageSum += p.Age
			if p.Versatile() {
				dual++
			}
		}
		size := float64(len(team))
		if uneven {
			// Uneven splits compare per-player strength scaled back to
			// team-total magnitude, otherwise the bigger team always
			// looks stronger.
			skills[t] = float64(skillSum) / size * meanSize
			ages[t] = float64(ageSum) / size * meanSize
		} else {
			skills[t] = float64(skillSum)
			ages[t] = float64(ageSum)
		}
		versatility[t] = float64(dual) / size
	}

	total := weightSkillSpread * (floats.Max(skills) - floats.Min(skills))

	mean := stat.Mean(skills, nil)
	for _, s := range skills {
		total += weightSkillDeviation * math.Abs(s-mean)
	}

	total += weightAgeSpread * (floats.Max(ages) - floats.Min(ages))
	total += weightVersatility * (floats.Max(versatility) - floats.Min(versatility))

	for _, team := range sol.teams {
		total += coveragePenalty(team)
	}
	return total
}

// coveragePenalty scores one team's positional shape against its
// formation: missing outfield positions, players stacked beyond the
// formation targets, and a missing goalkeeper on sides big enough to
// need one.
func coveragePenalty(team []Player) float64 {
	targets := FormationFor(len(team))
	primaries := make(map[Position]int, len(Positions))
	covered := make(map[Position]int, len(Positions))
	for _, p := range team {
		primaries[p.MainPos]++
		covered[p.MainPos]++
		if p.Versatile() {
			covered[p.AltPos]++
		}
	}

	pen := 0.0
	for _, pos := range fieldPositions {
		switch {
		case primaries[pos] == 0 && covered[pos] == 0:
			pen += weightMissingOpen
		case primaries[pos] == 0:
			pen += weightMissingCovered
		default:
			if extra := primaries[pos] - targets[pos]; extra > 0 {
				pen += weightOverstacked * float64(extra)
			}
		}
	}

	if len(team) >= gkExpectedSize {
		hasKeeper := false
		for _, p := range team {
			if p.CanKeep() {
				hasKeeper = true
				break
			}
		}
		if !hasKeeper {
			pen += weightMissingKeeper
		}
	}
	return pen
}
