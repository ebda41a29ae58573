package model

// RiskLevel buckets a regret prediction into a recommendation tier.
type RiskLevel string

// Risk level constants.
const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// DraftImpulse is a prospective impulse the user is still composing.
// It exists only in memory; the predictor scores it before anything is
// persisted.
type DraftImpulse struct {
	Price    *float64
	Title    string
	Category ImpulseCategory
	Emotion  Emotion
	Hour     int
}

// PredictionFactor is one scored input of the regret model.
type PredictionFactor struct {
	Name   string
	Score  float64
	Weight float64
}

// Prediction is the regret predictor's output for a draft impulse.
// Confidence is a sample-size heuristic over the log, not a
// statistical interval.
type Prediction struct {
	Factors        []PredictionFactor
	Message        string
	Recommendation RiskLevel
	PredictedScore float64
	Confidence     float64
}
