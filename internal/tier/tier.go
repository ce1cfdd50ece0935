package tier

// Tier is the reward classification derived from a user's point total.
// It is never set directly by clients; it is recomputed from the full
// total on every points change.
type Tier string

const (
	Bronze Tier = "Bronze"
	Silver Tier = "Silver"
	Gold   Tier = "Gold"
)

// Thresholds for tier boundaries, in points.
const (
	silverFloor = 50
	goldFloor   = 101
)

// ForPoints maps a point total to its tier: Bronze below 50,
// Silver from 50 through 100 inclusive, Gold above 100.
func ForPoints(points int64) Tier {
	switch {
	case points >= goldFloor:
		return Gold
	case points >= silverFloor:
		return Silver
	default:
		return Bronze
	}
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case Bronze, Silver, Gold:
		return true
	}
	return false
}
