package event

// Condition classifies a plant's health at observation time.
type Condition string

const (
	// ConditionHealthy indicates a thriving plant.
	ConditionHealthy Condition = "healthy"
	// ConditionUnhealthy indicates a struggling plant.
	ConditionUnhealthy Condition = "unhealthy"
	// ConditionDying indicates a plant close to death.
	ConditionDying Condition = "dying"
)

// IsValid reports whether the condition is a known value.
func (c Condition) IsValid() bool {
	switch c {
	case ConditionHealthy, ConditionUnhealthy, ConditionDying:
		return true
	}
	return false
}

// SeededPayload captures the payload for plant.seeded events.
type SeededPayload struct {
	Owner string `json:"owner"`
}

// ObservedPayload captures the payload for plant.observed events.
type ObservedPayload struct {
	// HeightCm is the observed height in centimeters.
	HeightCm float64 `json:"height_cm"`
	// BudCount is the number of buds counted; it is the yield a harvest
	// would collect.
	BudCount int `json:"bud_count"`
	// Condition is the observed health classification.
	Condition Condition `json:"condition"`
}

// HarvestedPayload captures the payload for plant.harvested events.
type HarvestedPayload struct {
	// Yield is the bud count collected at harvest.
	Yield int `json:"yield"`
}
