package solver

import "fmt"

// ValidateRoster checks a roster without solving it. Errors block a solve,
// warnings flag values that would be clamped or produce degraded teams.
func ValidateRoster(players []Player) (errs []string, warnings []string) {
	errs = []string{}
	warnings = []string{}

	if len(players) < MinPlayers {
		errs = append(errs, fmt.Sprintf("Not enough players (%d). Need at least %d.", len(players), MinPlayers))
	}

	seen := make(map[string]bool, len(players))
	canKeep := false
	for i, p := range players {
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("Player at index %d has no id", i))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Sprintf("Duplicate player id %q", p.ID))
		}
		seen[p.ID] = true

		if p.Rating < MinRating || p.Rating > MaxRating {
			warnings = append(warnings, fmt.Sprintf("Player %q rating %d outside %d-%d, will be clamped", p.ID, p.Rating, MinRating, MaxRating))
		}
		if p.Age < MinAge || p.Age > MaxAge {
			warnings = append(warnings, fmt.Sprintf("Player %q age %d outside %d-%d, will be clamped", p.ID, p.Age, MinAge, MaxAge))
		}
		if p.CanKeep() {
			canKeep = true
		}
	}

	if len(players) > 0 && !canKeep {
		warnings = append(warnings, "No player can play goalkeeper")
	}

	return errs, warnings
}
