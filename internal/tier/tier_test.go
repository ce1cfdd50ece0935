package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForPoints(t *testing.T) {
	testCases := []struct {
		name     string
		points   int64
		expected Tier
	}{
		{"zero points", 0, Bronze},
		{"just below silver", 49, Bronze},
		{"silver floor", 50, Silver},
		{"mid silver", 75, Silver},
		{"silver ceiling", 100, Silver},
		{"just above silver", 101, Gold},
		{"deep gold", 10000, Gold},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ForPoints(tc.points))
		})
	}
}

// Tier must be total over non-negative totals and never regress as points grow.
func TestForPointsMonotonic(t *testing.T) {
	rank := map[Tier]int{Bronze: 0, Silver: 1, Gold: 2}

	prev := Bronze
	for points := int64(0); points <= 200; points++ {
		current := ForPoints(points)
		assert.True(t, current.Valid(), "points=%d produced unknown tier %q", points, current)
		assert.GreaterOrEqual(t, rank[current], rank[prev], "tier regressed at points=%d", points)
		prev = current
	}
}

func TestTierValid(t *testing.T) {
	assert.True(t, Bronze.Valid())
	assert.True(t, Silver.Valid())
	assert.True(t, Gold.Valid())
	assert.False(t, Tier("Platinum").Valid())
	assert.False(t, Tier("").Valid())
}
