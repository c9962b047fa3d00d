package models

// CategoriesRequest carries a player's category per line item.
// BillID is required by the stateless endpoint and optional for bill games,
// where the session already knows its bill.
type CategoriesRequest struct {
	BillID     string            `json:"bill_id"`
	Categories map[string]string `json:"categories"` // item id -> category
}

// OptimizationsRequest carries a player's optimization per line item.
type OptimizationsRequest struct {
	BillID        string            `json:"bill_id"`
	Optimizations map[string]string `json:"optimizations"` // item id -> optimization
}

// CreateBillGameRequest starts a bill game; an empty BillID picks a random bill.
type CreateBillGameRequest struct {
	BillID string `json:"bill_id,omitempty"`
}

// SeedRequest optionally pins the random stream of a new or reset session.
// Omit Seed for a fresh random seed.
type SeedRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

// ChoiceRequest submits the choice at ChoiceIndex on StageID.
type ChoiceRequest struct {
	StageID     string `json:"stage_id" binding:"required"`
	ChoiceIndex *int   `json:"choice_index" binding:"required"`
}

// CommitmentRequest moves the savings-plan slider.
type CommitmentRequest struct {
	Commitment *float64 `json:"commitment" binding:"required"`
}

// OrderingRequest submits a full ordering of step ids.
type OrderingRequest struct {
	Order []string `json:"order"`
}

// MatchRequest pairs a problem with a persona.
type MatchRequest struct {
	ProblemID *int   `json:"problem_id" binding:"required"`
	Persona   string `json:"persona" binding:"required"`
}

// MissionRequest answers the open mini-mission.
type MissionRequest struct {
	OptionID string `json:"option_id" binding:"required"`
}

// MaturityRequest is one scenario analysis.
type MaturityRequest struct {
	Stage      string   `json:"stage"`
	Challenges []string `json:"challenges"`
}

// PairCheckRequest checks one persona/responsibility pair.
type PairCheckRequest struct {
	Persona        string `json:"persona" binding:"required"`
	Responsibility string `json:"responsibility"`
}
