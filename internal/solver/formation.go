package solver

// formationTable maps team size to the target headcount per position.
// Three-a-side plays without a dedicated keeper; every larger side
// reserves exactly one goalkeeper slot.
var formationTable = map[int]map[Position]int{
	3: {PositionGK: 0, PositionDF: 1, PositionMID: 1, PositionST: 1},
	4: {PositionGK: 1, PositionDF: 1, PositionMID: 1, PositionST: 1},
	5: {PositionGK: 1, PositionDF: 2, PositionMID: 1, PositionST: 1},
	6: {PositionGK: 1, PositionDF: 2, PositionMID: 2, PositionST: 1},
	7: {PositionGK: 1, PositionDF: 2, PositionMID: 2, PositionST: 2},
}

// FormationFor returns a fresh copy of the formation targets for a team of
// the given size. Sizes outside the supported [3,7] range clamp to the
// nearest playable formation so callers always get a full target map.
func FormationFor(size int) map[Position]int {
	size = clampInt(size, 3, 7)
	targets := make(map[Position]int, len(Positions))
	for pos, n := range formationTable[size] {
		targets[pos] = n
	}
	return targets
}
