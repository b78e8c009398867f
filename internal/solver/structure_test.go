package solver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanStructureTiers(t *testing.T) {
	tests := []struct {
		name      string
		players   int
		teamCount int
		teamSizes []int
		subCount  int
	}{
		{"two minimal teams", 6, 2, []int{3, 3}, 0},
		{"odd split leans first", 7, 2, []int{4, 3}, 0},
		{"ten a side night", 10, 2, []int{5, 5}, 0},
		{"two full teams exactly", 14, 2, []int{7, 7}, 0},
		{"first bench slot", 15, 2, []int{7, 7}, 1},
		{"max bench before third team", 20, 2, []int{7, 7}, 6},
		{"three full teams exactly", 21, 3, []int{7, 7, 7}, 0},
		{"three teams plus bench", 22, 3, []int{7, 7, 7}, 1},
		{"big crowd", 30, 3, []int{7, 7, 7}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanStructure(tt.players)
			assert.Equal(t, tt.teamCount, plan.TeamCount)
			assert.Equal(t, tt.teamSizes, plan.TeamSizes)
			assert.Equal(t, tt.subCount, plan.SubCount)
			assert.Len(t, plan.Colors, tt.teamCount)
			assert.Equal(t, tt.players, plan.PlayingSlots()+plan.SubCount)
		})
	}
}

func TestPlanStructureNearEvenSplits(t *testing.T) {
	// Below the bench threshold every player plays and sizes never
	// differ by more than one.
	for n := MinPlayers; n <= 14; n++ {
		plan := PlanStructure(n)
		require.Equal(t, 2, plan.TeamCount, "n=%d", n)
		assert.Zero(t, plan.SubCount, "n=%d", n)
		diff := plan.TeamSizes[0] - plan.TeamSizes[1]
		assert.LessOrEqual(t, diff, 1, "n=%d", n)
		assert.GreaterOrEqual(t, diff, 0, "n=%d", n)
		assert.Equal(t, n, plan.PlayingSlots(), "n=%d", n)
	}
}

func TestPlanStructureColors(t *testing.T) {
	assert.Equal(t, []TeamColor{TeamRed, TeamBlue}, PlanStructure(10).Colors)
	assert.Equal(t, []TeamColor{TeamRed, TeamBlue, TeamYellow}, PlanStructure(21).Colors)
}

func TestFormationTargets(t *testing.T) {
	for size := 3; size <= 7; size++ {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			targets := FormationFor(size)
			total := 0
			for _, n := range targets {
				total += n
			}
			assert.Equal(t, size, total, "targets must sum to team size")
			if size >= 4 {
				assert.Equal(t, 1, targets[PositionGK])
			} else {
				assert.Zero(t, targets[PositionGK])
			}
		})
	}
}

func TestFormationForClampsSize(t *testing.T) {
	assert.Equal(t, FormationFor(3), FormationFor(1))
	assert.Equal(t, FormationFor(7), FormationFor(11))
}

func TestFormationForReturnsCopy(t *testing.T) {
	first := FormationFor(7)
	first[PositionGK] = 99
	assert.Equal(t, 1, FormationFor(7)[PositionGK])
}

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		raw  string
		want Position
	}{
		{"GK", PositionGK},
		{"goalkeeper", PositionGK},
		{" keeper ", PositionGK},
		{"DF", PositionDF},
		{"defender", PositionDF},
		{"cb", PositionDF},
		{"MID", PositionMID},
		{"midfielder", PositionMID},
		{"ST", PositionST},
		{"striker", PositionST},
		{"forward", PositionST},
		{"", PositionMID},
		{"libero", PositionMID},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePosition(tt.raw), "raw=%q", tt.raw)
	}
}

func TestPositionRecognized(t *testing.T) {
	assert.True(t, PositionRecognized("GK"))
	assert.True(t, PositionRecognized(" keeper "))
	assert.True(t, PositionRecognized("winger"))
	assert.False(t, PositionRecognized("libero"))
	assert.False(t, PositionRecognized("sweeper"))
	assert.False(t, PositionRecognized(""))
}
