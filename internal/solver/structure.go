package solver

// MinPlayers is the smallest roster the solver accepts: two teams of
// three. Anything below that is refused outright.
const MinPlayers = 6

// maxTeamSize is the full-side headcount per team.
const maxTeamSize = 7

// TeamStructure is the planned shape of a match night: how many teams take
// the field, their target sizes, and how many players start on the bench.
type TeamStructure struct {
	TeamCount int         `json:"teamCount"`
	TeamSizes []int       `json:"teamSizes"`
	SubCount  int         `json:"subCount"`
	Colors    []TeamColor `json:"colors"`
}

// PlanStructure derives the team structure for a roster of n players.
// 21 or more fills three full sides, 15 to 20 fills two full sides with
// the rest on the bench, and smaller rosters split into two near-even
// teams with no bench at all. Callers must reject n < MinPlayers before
// planning; the function itself is total and deterministic.
func PlanStructure(n int) TeamStructure {
	switch {
	case n >= 3*maxTeamSize:
		return TeamStructure{
			TeamCount: 3,
			TeamSizes: []int{maxTeamSize, maxTeamSize, maxTeamSize},
			SubCount:  n - 3*maxTeamSize,
			Colors:    activeColors(3),
		}
	case n > 2*maxTeamSize:
		return TeamStructure{
			TeamCount: 2,
			TeamSizes: []int{maxTeamSize, maxTeamSize},
			SubCount:  n - 2*maxTeamSize,
			Colors:    activeColors(2),
		}
	default:
		first := (n + 1) / 2
		return TeamStructure{
			TeamCount: 2,
			TeamSizes: []int{first, n - first},
			SubCount:  0,
			Colors:    activeColors(2),
		}
	}
}

// PlayingSlots is the total on-field headcount across all teams.
func (s TeamStructure) PlayingSlots() int {
	total := 0
	for _, size := range s.TeamSizes {
		total += size
	}
	return total
}
