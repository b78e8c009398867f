package solver

// benchSlot binds a substitute to the team they back up. The team index
// stays with the slot when swaps rotate players through the bench, so
// call-up coverage remains spread across teams no matter how the search
// shuffles bodies.
type benchSlot struct {
	player Player
	team   int
}

// solution is the working partition during the search: one slice per
// playing team plus the bench. Every roster player sits in exactly one
// slot at all times; moves swap or shift players but never add or drop
// them.
type solution struct {
	teams [][]Player
	bench []benchSlot
}

func newSolution(teamCount int) *solution {
	return &solution{teams: make([][]Player, teamCount)}
}

// clone deep-copies the partition so a candidate move can be scored
// without touching the current state.
func (s *solution) clone() *solution {
	out := &solution{
		teams: make([][]Player, len(s.teams)),
		bench: make([]benchSlot, len(s.bench)),
	}
	for t, team := range s.teams {
		out.teams[t] = make([]Player, len(team))
		copy(out.teams[t], team)
	}
	copy(out.bench, s.bench)
	return out
}

// playerCount is the total number of players across teams and bench.
func (s *solution) playerCount() int {
	n := len(s.bench)
	for _, team := range s.teams {
		n += len(team)
	}
	return n
}

// playerIDs returns every player ID in the partition, teams first then
// bench. Used to check conservation against the input roster.
func (s *solution) playerIDs() []string {
	ids := make([]string, 0, s.playerCount())
	for _, team := range s.teams {
		for _, p := range team {
			ids = append(ids, p.ID)
		}
	}
	for _, slot := range s.bench {
		ids = append(ids, slot.player.ID)
	}
	return ids
}
