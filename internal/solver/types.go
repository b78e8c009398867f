package solver

import (
	"fmt"
	"strings"
	"time"
)

// Position is one of the four canonical on-field positions.
type Position string

const (
	PositionGK  Position = "GK"
	PositionDF  Position = "DF"
	PositionMID Position = "MID"
	PositionST  Position = "ST"
)

// Positions lists the canonical positions in formation order.
var Positions = []Position{PositionGK, PositionDF, PositionMID, PositionST}

// fieldPositions are the outfield positions checked for coverage.
var fieldPositions = []Position{PositionDF, PositionMID, PositionST}

func normalizePosition(raw string) (Position, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "GK", "GOALKEEPER", "KEEPER", "GOALIE":
		return PositionGK, true
	case "DF", "DEF", "D", "DEFENDER", "DEFENCE", "DEFENSE", "CB", "LB", "RB", "FB":
		return PositionDF, true
	case "MID", "MF", "M", "MIDFIELD", "MIDFIELDER", "CM", "CDM", "CAM":
		return PositionMID, true
	case "ST", "FW", "F", "S", "STRIKER", "FORWARD", "ATT", "ATTACKER", "WINGER":
		return PositionST, true
	default:
		return PositionMID, false
	}
}

// NormalizePosition maps free-form position strings onto the canonical
// codes. Unrecognized or empty values fall back to MID, the most flexible
// role on the pitch.
func NormalizePosition(raw string) Position {
	pos, _ := normalizePosition(raw)
	return pos
}

// PositionRecognized reports whether raw maps onto a canonical position
// without hitting the MID fallback.
func PositionRecognized(raw string) bool {
	_, ok := normalizePosition(raw)
	return ok
}

// TeamColor labels a playing team or the substitute pool.
type TeamColor string

const (
	TeamRed    TeamColor = "RED"
	TeamBlue   TeamColor = "BLUE"
	TeamYellow TeamColor = "YELLOW"
	TeamSub    TeamColor = "SUB"
)

// activeColors returns the playing-team colors for a team count in draft
// order. Yellow only takes the field in three-team matches.
func activeColors(count int) []TeamColor {
	if count >= 3 {
		return []TeamColor{TeamRed, TeamBlue, TeamYellow}
	}
	return []TeamColor{TeamRed, TeamBlue}
}

// Rating and age bounds enforced on every roster before solving.
const (
	MinRating = 1
	MaxRating = 5
	MinAge    = 5
	MaxAge    = 100
)

// Player is a single roster entry. The solver treats players as immutable
// values; clamping happens once in NormalizeRoster, never mid-search.
type Player struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Age         int        `json:"age"`
	Rating      int        `json:"rating"`
	MainPos     Position   `json:"mainPosition"`
	AltPos      Position   `json:"altPosition,omitempty"`
	CheckedInAt *time.Time `json:"checkedInAt,omitempty"`
}

// CanPlay reports whether pos is the player's main or alternate position.
func (p Player) CanPlay(pos Position) bool {
	return p.MainPos == pos || (p.AltPos != "" && p.AltPos == pos)
}

// CanKeep reports whether the player covers goal at all.
func (p Player) CanKeep() bool {
	return p.CanPlay(PositionGK)
}

// Versatile reports whether the player registered a second position.
func (p Player) Versatile() bool {
	return p.AltPos != "" && p.AltPos != p.MainPos
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NormalizeRoster clamps every rating into [MinRating, MaxRating] and every
// age into [MinAge, MaxAge], and rejects rosters containing duplicate
// player IDs. The input slice is not modified.
func NormalizeRoster(players []Player) ([]Player, error) {
	seen := make(map[string]struct{}, len(players))
	out := make([]Player, 0, len(players))
	for _, p := range players {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		p.Rating = clampInt(p.Rating, MinRating, MaxRating)
		p.Age = clampInt(p.Age, MinAge, MaxAge)
		out = append(out, p)
	}
	return out, nil
}

// PlayerAssignment is one row of the final answer: where a player ends up
// and what role they cover there.
type PlayerAssignment struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Team       TeamColor `json:"team"`
	Role       Position  `json:"role"`
	BenchTeam  TeamColor `json:"benchTeam,omitempty"`
}

// TeamMetrics summarizes one team of the final answer. Derived entirely
// from the assignment rows so the report can never drift from the roster.
type TeamMetrics struct {
	Team          TeamColor        `json:"team"`
	PlayerCount   int              `json:"playerCount"`
	SkillSum      int              `json:"skillSum"`
	SkillAvg      float64          `json:"skillAvg"`
	AgeSum        int              `json:"ageSum"`
	AgeAvg        float64          `json:"ageAvg"`
	HasGoalkeeper bool             `json:"hasGoalkeeper"`
	Positions     map[Position]int `json:"positions"`
}

// SolveResult is the full outcome of one solve run. Success is false only
// when the roster was too small to split; every other imperfection is
// reported through Warnings instead.
type SolveResult struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	Provider    string             `json:"provider,omitempty"`
	Assignments []PlayerAssignment `json:"assignments"`
	TeamMetrics []TeamMetrics      `json:"teamMetrics"`
	Warnings    []string           `json:"warnings"`
	SolveTimeMs int64              `json:"solveTimeMs"`
}
