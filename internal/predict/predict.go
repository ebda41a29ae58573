// Package predict scores the regret risk of a prospective impulse
// before it is persisted, using a fixed weighted multi-factor model
// built from the historical log.
package predict

import (
	"math"

	"github.com/thinktwice-app/thinktwice/internal/model"
)

// Factor weights. They always sum to 1.
const (
	weightEmotion      = 0.30
	weightCategory     = 0.20
	weightPrice        = 0.20
	weightTimeOfDay    = 0.10
	weightPastBehavior = 0.20
)

// Recommendation thresholds; the boundary is inclusive on the higher
// tier (a predicted 70 is high risk).
const (
	highRiskThreshold   = 70
	mediumRiskThreshold = 40
)

var emotionScores = map[model.Emotion]float64{
	model.EmotionFOMO:     80,
	model.EmotionStressed: 75,
	model.EmotionSad:      70,
	model.EmotionBored:    60,
	model.EmotionExcited:  40,
	model.EmotionHappy:    35,
	model.EmotionNeutral:  30,
}

var categoryDefaults = map[model.ImpulseCategory]float64{
	model.CategoryElectronics:   60,
	model.CategoryClothing:      55,
	model.CategoryEntertainment: 50,
	model.CategoryBeauty:        50,
	model.CategoryOther:         50,
	model.CategorySports:        45,
	model.CategoryHome:          45,
	model.CategoryTravel:        40,
	model.CategoryFood:          35,
	model.CategoryBooks:         30,
}

// Predict scores a draft impulse against the historical log.
func Predict(draft model.DraftImpulse, impulses []model.Impulse) model.Prediction {
	factors := []model.PredictionFactor{
		{Name: "emotion", Score: emotionScore(draft.Emotion), Weight: weightEmotion},
		{Name: "category", Score: categoryScore(draft.Category, impulses), Weight: weightCategory},
		{Name: "price", Score: priceScore(draft.Price, impulses), Weight: weightPrice},
		{Name: "time_of_day", Score: timeOfDayScore(draft.Hour), Weight: weightTimeOfDay},
		{Name: "past_behavior", Score: pastBehaviorScore(draft, impulses), Weight: weightPastBehavior},
	}

	var predicted float64
	for _, f := range factors {
		predicted += f.Score * f.Weight
	}

	recommendation := model.RiskLow
	switch {
	case predicted >= highRiskThreshold:
		recommendation = model.RiskHigh
	case predicted >= mediumRiskThreshold:
		recommendation = model.RiskMedium
	}

	return model.Prediction{
		PredictedScore: predicted,
		Confidence:     confidence(len(impulses)),
		Factors:        factors,
		Recommendation: recommendation,
		Message:        message(recommendation),
	}
}

func emotionScore(emotion model.Emotion) float64 {
	if score, ok := emotionScores[emotion]; ok {
		return score
	}
	// Unset or unknown emotions contribute a neutral 50.
	return 50
}

// categoryScore averages the regret outcomes of past impulses in the
// same category (100 for a regretted purchase, 0 otherwise). With no
// history in the category it falls back to a fixed per-category default.
func categoryScore(category model.ImpulseCategory, impulses []model.Impulse) float64 {
	var count int
	var sum float64
	for i := range impulses {
		if impulses[i].Category != category {
			continue
		}
		count++
		if impulses[i].Regretted() {
			sum += 100
		}
	}

	if count > 0 {
		return sum / float64(count)
	}
	if fallback, ok := categoryDefaults[category]; ok {
		return fallback
	}
	return 50
}

// priceScore compares the draft price against the average price of
// past regretted purchases, or against the overall average price when
// nothing has been regretted yet.
func priceScore(price *float64, impulses []model.Impulse) float64 {
	if price == nil {
		return 50
	}

	var regrettedSum, regrettedCount float64
	var allSum, allCount float64
	for i := range impulses {
		impulse := &impulses[i]
		if impulse.Price == nil {
			continue
		}
		allSum += *impulse.Price
		allCount++
		if impulse.Regretted() {
			regrettedSum += *impulse.Price
			regrettedCount++
		}
	}

	if regrettedCount > 0 {
		avg := regrettedSum / regrettedCount
		if avg > 0 {
			switch ratio := *price / avg; {
			case ratio > 1.2:
				return 75
			case ratio > 0.8:
				return 65
			default:
				return 40
			}
		}
		return 75
	}

	if allCount > 0 {
		avg := allSum / allCount
		if avg > 0 {
			switch {
			case *price > 1.5*avg:
				return 70
			case *price > avg:
				return 50
			default:
				return 30
			}
		}
	}
	return 30
}

// timeOfDayScore buckets the hour of the draft: late-night impulses
// carry the highest risk.
func timeOfDayScore(hour int) float64 {
	switch {
	case hour >= 22 || hour < 2:
		return 70
	case hour >= 18:
		return 55
	case hour >= 12:
		return 45
	default:
		return 35
	}
}

// pastBehaviorScore looks at near-identical past impulses (same
// category, same emotion, price within 30%) and returns the fraction
// that were regretted, scaled to 0-100.
func pastBehaviorScore(draft model.DraftImpulse, impulses []model.Impulse) float64 {
	var matches, regretted int
	for i := range impulses {
		impulse := &impulses[i]
		if impulse.Category != draft.Category || impulse.Emotion != draft.Emotion {
			continue
		}
		if !priceWithin(draft.Price, impulse.Price, 0.3) {
			continue
		}
		matches++
		if impulse.Regretted() {
			regretted++
		}
	}

	if matches == 0 {
		return 50
	}
	return 100 * float64(regretted) / float64(matches)
}

func priceWithin(a, b *float64, tolerance float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if *b == 0 {
		return *a == 0
	}
	return math.Abs(*a-*b) <= tolerance*math.Abs(*b)
}

// confidence is a step function of sample size only, not a statistical
// interval.
func confidence(logSize int) float64 {
	switch {
	case logSize >= 20:
		return 0.9
	case logSize >= 10:
		return 0.7
	case logSize >= 5:
		return 0.5
	default:
		return 0.3
	}
}

func message(risk model.RiskLevel) string {
	switch risk {
	case model.RiskHigh:
		return "High regret risk. Lock it and let the cool-down decide."
	case model.RiskMedium:
		return "Some regret risk. Worth sleeping on it."
	default:
		return "Low regret risk. This one looks considered."
	}
}
