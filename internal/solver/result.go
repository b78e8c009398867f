package solver

import (
	"fmt"
	"math"
)

// positionNouns spells positions out for warning text.
var positionNouns = map[Position]string{
	PositionGK:  "goalkeeper",
	PositionDF:  "defender",
	PositionMID: "midfielder",
	PositionST:  "striker",
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// buildResult flattens the optimized partition into the wire-facing
// report: assignment rows in roster order, per-team metrics derived from
// those rows, and the human-readable warning list. Substitutes keep their
// main position as role and carry the tag of the team they back up.
func buildResult(roster []Player, sol *solution, plan TeamStructure, warnGap int) *SolveResult {
	colorOf := make(map[string]TeamColor, len(roster))
	roleOf := make(map[string]Position, len(roster))
	benchOf := make(map[string]TeamColor, len(sol.bench))

	teamRoles := make([]map[string]Position, len(sol.teams))
	for t, team := range sol.teams {
		teamRoles[t] = assignRoles(team)
		for _, p := range team {
			colorOf[p.ID] = plan.Colors[t]
			roleOf[p.ID] = teamRoles[t][p.ID]
		}
	}
	for _, slot := range sol.bench {
		colorOf[slot.player.ID] = TeamSub
		roleOf[slot.player.ID] = slot.player.MainPos
		benchOf[slot.player.ID] = plan.Colors[slot.team]
	}

	assignments := make([]PlayerAssignment, 0, len(roster))
	for _, p := range roster {
		assignments = append(assignments, PlayerAssignment{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Team:       colorOf[p.ID],
			Role:       roleOf[p.ID],
			BenchTeam:  benchOf[p.ID],
		})
	}

	metrics := buildMetrics(sol, plan, teamRoles)

	return &SolveResult{
		Success:     true,
		Assignments: assignments,
		TeamMetrics: metrics,
		Warnings:    buildWarnings(sol, plan, warnGap),
	}
}

// buildMetrics summarizes each team plus, when occupied, the bench. The
// goalkeeper flag only counts a GK role held by a player who can actually
// keep, so a forced stand-in never masks a coverage gap.
func buildMetrics(sol *solution, plan TeamStructure, teamRoles []map[string]Position) []TeamMetrics {
	out := make([]TeamMetrics, 0, len(sol.teams)+1)
	for t, team := range sol.teams {
		m := TeamMetrics{
			Team:        plan.Colors[t],
			PlayerCount: len(team),
			Positions:   make(map[Position]int, len(Positions)),
		}
		for _, p := range team {
			m.SkillSum += p.Rating
			m.AgeSum += p.Age
			role := teamRoles[t][p.ID]
			m.Positions[role]++
			if role == PositionGK && p.CanKeep() {
				m.HasGoalkeeper = true
			}
		}
		if m.PlayerCount > 0 {
			m.SkillAvg = round2(float64(m.SkillSum) / float64(m.PlayerCount))
			m.AgeAvg = round2(float64(m.AgeSum) / float64(m.PlayerCount))
		}
		out = append(out, m)
	}

	if len(sol.bench) > 0 {
		m := TeamMetrics{
			Team:        TeamSub,
			PlayerCount: len(sol.bench),
			Positions:   make(map[Position]int, len(Positions)),
		}
		for _, slot := range sol.bench {
			p := slot.player
			m.SkillSum += p.Rating
			m.AgeSum += p.Age
			m.Positions[p.MainPos]++
			if p.CanKeep() {
				m.HasGoalkeeper = true
			}
		}
		m.SkillAvg = round2(float64(m.SkillSum) / float64(m.PlayerCount))
		m.AgeAvg = round2(float64(m.AgeSum) / float64(m.PlayerCount))
		out = append(out, m)
	}
	return out
}

// buildWarnings reports every imperfection the optimizer had to live
// with. Coverage warnings are capability-based: they fire when nobody on
// the team can play the position at all, not when someone merely covers
// it from their second position.
func buildWarnings(sol *solution, plan TeamStructure, warnGap int) []string {
	warnings := []string{}
	for t, team := range sol.teams {
		color := plan.Colors[t]
		hasKeeper := false
		covered := make(map[Position]bool, len(Positions))
		for _, p := range team {
			covered[p.MainPos] = true
			if p.Versatile() {
				covered[p.AltPos] = true
			}
			if p.CanKeep() {
				hasKeeper = true
			}
		}
		if !hasKeeper {
			warnings = append(warnings, fmt.Sprintf("Team %s is missing a goalkeeper", color))
		}
		for _, pos := range fieldPositions {
			if !covered[pos] {
				warnings = append(warnings, fmt.Sprintf("Team %s is missing a %s", color, positionNouns[pos]))
			}
		}
	}

	if gap := skillGap(sol); gap > warnGap {
		warnings = append(warnings, fmt.Sprintf("Skill gap between teams is %d points", gap))
	}
	return warnings
}

// skillGap is the raw spread of per-team skill totals.
func skillGap(sol *solution) int {
	if len(sol.teams) == 0 {
		return 0
	}
	minSum, maxSum := math.MaxInt, 0
	for _, team := range sol.teams {
		sum := 0
		for _, p := range team {
			sum += p.Rating
		}
		if sum < minSum {
			minSum = sum
		}
		if sum > maxSum {
			maxSum = sum
		}
	}
	return maxSum - minSum
}
