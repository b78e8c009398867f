package solver

import (
	"sort"
)

// sortForDraft orders players strongest first. Ties go to the earlier
// check-in so the overflow that lands on the bench is the latest to
// arrive; players who never checked in sort after those who did, and ID
// breaks the last tie to keep the draft fully deterministic.
func sortForDraft(players []Player) []Player {
	out := make([]Player, len(players))
	copy(out, players)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		switch {
		case a.CheckedInAt != nil && b.CheckedInAt != nil:
			if !a.CheckedInAt.Equal(*b.CheckedInAt) {
				return a.CheckedInAt.Before(*b.CheckedInAt)
			}
		case a.CheckedInAt != nil:
			return true
		case b.CheckedInAt != nil:
			return false
		}
		return a.ID < b.ID
	})
	return out
}

// buildInitial constructs the greedy seed partition: goalkeepers spread
// one per team first, everyone else snake-drafted strongest first, and
// overflow sent to the bench in skill order. The annealer only ever
// improves on this, so the seed alone must already be a playable split.
func buildInitial(players []Player, plan TeamStructure) *solution {
	sol := newSolution(plan.TeamCount)
	drafted := sortForDraft(players)

	var keepers, field []Player
	for _, p := range drafted {
		if p.CanKeep() {
			keepers = append(keepers, p)
		} else {
			field = append(field, p)
		}
	}

	// One keeper per team while supply lasts. Spare keepers rejoin the
	// pool as ordinary picks.
	spread := 0
	for t := 0; t < plan.TeamCount && spread < len(keepers); t++ {
		sol.teams[t] = append(sol.teams[t], keepers[spread])
		spread++
	}
	pool := make([]Player, 0, len(drafted)-spread)
	pool = append(pool, keepers[spread:]...)
	pool = append(pool, field...)
	pool = sortForDraft(pool)

	// Snake draft: direction flips every pass so no team gets first pick
	// twice running. The keeper round counts as the first forward pass.
	forward := spread == 0
	idx := 0
	for idx < len(pool) {
		placed := false
		for step := 0; step < plan.TeamCount && idx < len(pool); step++ {
			t := step
			if !forward {
				t = plan.TeamCount - 1 - step
			}
			if len(sol.teams[t]) < plan.TeamSizes[t] {
				sol.teams[t] = append(sol.teams[t], pool[idx])
				idx++
				placed = true
			}
		}
		forward = !forward
		if !placed {
			break
		}
	}

	// Leftovers go to the bench strongest first, bench tags rotating so
	// call-up coverage spreads across teams.
	for bt := 0; idx < len(pool); idx++ {
		sol.bench = append(sol.bench, benchSlot{player: pool[idx], team: bt})
		bt = (bt + 1) % plan.TeamCount
	}

	// A plan without bench slots must still place every player.
	if plan.SubCount == 0 && len(sol.bench) > 0 {
		forceDistribute(sol)
	}
	return sol
}

// forceDistribute empties the bench onto the smallest teams one player at
// a time. Only reached when the plan allots no bench yet players
// overflowed; it keeps a miscounted plan from silently dropping anyone.
func forceDistribute(sol *solution) {
	for _, slot := range sol.bench {
		smallest := 0
		for t := range sol.teams {
			if len(sol.teams[t]) < len(sol.teams[smallest]) {
				smallest = t
			}
		}
		sol.teams[smallest] = append(sol.teams[smallest], slot.player)
	}
	sol.bench = nil
}
