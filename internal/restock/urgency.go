package restock

import "fmt"

// Urgency is the restocking priority of a product. Lower values are more urgent.
type Urgency uint8

const (
	UrgencyCritical Urgency = iota
	UrgencyHigh
	UrgencyMedium
)

var urgencyNames = []string{"Critical", "High", "Medium"}

var recommendedActions = []string{
	"Order immediately",
	"Order within 24 hours",
	"Plan order this week",
}

// Classify returns the urgency tier for a stock level. Out of stock is Critical, at or below
// half the threshold (integer division) is High, anything else is Medium.
func Classify(quantity, minThreshold int) Urgency {
	switch {
	case quantity == 0:
		return UrgencyCritical
	case quantity <= minThreshold/2:
		return UrgencyHigh
	default:
		return UrgencyMedium
	}
}

// Rank orders urgencies for sorting, Critical first.
func (u Urgency) Rank() int {
	return int(u)
}

// RecommendedAction is the fixed action text for the tier.
func (u Urgency) RecommendedAction() string {
	return recommendedActions[u]
}

func (u Urgency) String() string {
	if int(u) >= len(urgencyNames) {
		return fmt.Sprintf("Urgency(%d)", u)
	}
	return urgencyNames[u]
}

func (u Urgency) MarshalText() ([]byte, error) {
	if int(u) >= len(urgencyNames) {
		return nil, fmt.Errorf("unknown urgency: %d", u)
	}
	return []byte(urgencyNames[u]), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *Urgency) UnmarshalText(text []byte) error {
	for i, n := range urgencyNames {
		if n == string(text) {
			*u = Urgency(i)
			return nil
		}
	}
	return fmt.Errorf("unknown urgency: %s", text)
}
