package solver

// assignRoles gives every player on one team a concrete on-field role.
// Goal is filled first since it is the scarce slot only some players can
// cover; after that players take their main position while the formation
// has room, then their alternate, then whatever slot is still open.
// Formation targets sum to the team size, so every player lands on a
// role.
func assignRoles(team []Player) map[string]Position {
	remaining := FormationFor(len(team))
	roles := make(map[string]Position, len(team))

	if remaining[PositionGK] > 0 {
		keeper := -1
		for i, p := range team {
			if !p.CanKeep() {
				continue
			}
			if keeper == -1 || (p.MainPos == PositionGK && team[keeper].MainPos != PositionGK) {
				keeper = i
			}
		}
		if keeper >= 0 {
			roles[team[keeper].ID] = PositionGK
			remaining[PositionGK]--
		}
	}

	for _, p := range team {
		if _, done := roles[p.ID]; done {
			continue
		}
		switch {
		case remaining[p.MainPos] > 0:
			roles[p.ID] = p.MainPos
			remaining[p.MainPos]--
		case p.AltPos != "" && remaining[p.AltPos] > 0:
			roles[p.ID] = p.AltPos
			remaining[p.AltPos]--
		default:
			roles[p.ID] = takeOpenSlot(remaining)
		}
	}
	return roles
}

// takeOpenSlot claims any open formation slot, outfield first, so goal
// only falls to an out-of-position player once nothing else is left.
func takeOpenSlot(remaining map[Position]int) Position {
	for _, pos := range []Position{PositionDF, PositionMID, PositionST, PositionGK} {
		if remaining[pos] > 0 {
			remaining[pos]--
			return pos
		}
	}
	return PositionMID
}
