package predict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thinktwice-app/thinktwice/internal/model"
)

func makeImpulse(category model.ImpulseCategory, emotion model.Emotion, price float64, regret bool) model.Impulse {
	impulse := model.Impulse{
		ID:           "test",
		Title:        "test impulse",
		Category:     category,
		Emotion:      emotion,
		Price:        &price,
		CreatedAt:    time.Now().Add(-72 * time.Hour),
		Status:       model.StatusExecuted,
		FinalFeeling: model.FeelingSatisfied,
	}
	if regret {
		impulse.FinalFeeling = model.FeelingRegret
	}
	return impulse
}

func TestConfidence_StepsWithLogSize(t *testing.T) {
	tests := []struct {
		size int
		want float64
	}{
		{0, 0.3},
		{4, 0.3},
		{5, 0.5},
		{9, 0.5},
		{10, 0.7},
		{19, 0.7},
		{20, 0.9},
		{100, 0.9},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, confidence(tt.size), 1e-9, "size=%d", tt.size)
	}
}

func TestConfidence_NonDecreasing(t *testing.T) {
	previous := 0.0
	for size := 0; size <= 30; size++ {
		c := confidence(size)
		assert.GreaterOrEqual(t, c, previous, "size=%d", size)
		previous = c
	}
}

// boundaryHistory builds a log whose factor scores for a FOMO draft at
// hour 23 priced 100 in CategoryHome come out as: emotion 80, price 65,
// time 70, past behavior 50, and category 100*regretted/total.
func boundaryHistory(total, regretted int) []model.Impulse {
	history := make([]model.Impulse, 0, total)
	// Four near-identical impulses, half regretted, give past behavior 50.
	history = append(history,
		makeImpulse(model.CategoryHome, model.EmotionFOMO, 100, true),
		makeImpulse(model.CategoryHome, model.EmotionFOMO, 100, true),
		makeImpulse(model.CategoryHome, model.EmotionFOMO, 100, false),
		makeImpulse(model.CategoryHome, model.EmotionFOMO, 100, false),
	)
	// The rest differ in emotion so they only count toward the category
	// regret rate and the regretted price average.
	for i := 4; i < total; i++ {
		history = append(history, makeImpulse(model.CategoryHome, model.EmotionHappy, 100, i < regretted+2))
	}
	return history
}

func TestRecommendationBoundary(t *testing.T) {
	price := 100.0
	draft := model.DraftImpulse{
		Category: model.CategoryHome,
		Emotion:  model.EmotionFOMO,
		Price:    &price,
		Hour:     23,
	}

	// 8 regretted of 10 puts the category factor at 80 and the weighted
	// total at exactly 70: 24 + 16 + 13 + 7 + 10.
	high := Predict(draft, boundaryHistory(10, 8))
	assert.InDelta(t, 70, high.PredictedScore, 1e-9)
	assert.Equal(t, model.RiskHigh, high.Recommendation)

	// 6 regretted of 8 drops the category factor to 75 and the total to 69.
	medium := Predict(draft, boundaryHistory(8, 6))
	assert.InDelta(t, 69, medium.PredictedScore, 1e-9)
	assert.Equal(t, model.RiskMedium, medium.Recommendation)
}

func TestPredict_WeightsSumToOne(t *testing.T) {
	prediction := Predict(model.DraftImpulse{Category: model.CategoryOther, Hour: 12}, nil)

	var total float64
	for _, factor := range prediction.Factors {
		total += factor.Weight
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Len(t, prediction.Factors, 5)
}

func TestPredict_HighRiskDraft(t *testing.T) {
	// Late-night FOMO purchase in a category with a perfect regret record.
	history := []model.Impulse{
		makeImpulse(model.CategoryElectronics, model.EmotionFOMO, 500, true),
		makeImpulse(model.CategoryElectronics, model.EmotionFOMO, 480, true),
	}

	price := 520.0
	prediction := Predict(model.DraftImpulse{
		Category: model.CategoryElectronics,
		Emotion:  model.EmotionFOMO,
		Price:    &price,
		Hour:     23,
	}, history)

	// emotion 80, category 100, price 65 (within 20% of regretted avg),
	// time 70, past behavior 100 -> 24 + 20 + 13 + 7 + 20 = 84.
	assert.InDelta(t, 84, prediction.PredictedScore, 1e-9)
	assert.Equal(t, model.RiskHigh, prediction.Recommendation)
}

func TestEmotionScore(t *testing.T) {
	assert.InDelta(t, 80, emotionScore(model.EmotionFOMO), 1e-9)
	assert.InDelta(t, 75, emotionScore(model.EmotionStressed), 1e-9)
	assert.InDelta(t, 40, emotionScore(model.EmotionExcited), 1e-9)
	assert.InDelta(t, 30, emotionScore(model.EmotionNeutral), 1e-9)
	assert.InDelta(t, 50, emotionScore(model.EmotionNone), 1e-9)
}

func TestCategoryScore(t *testing.T) {
	history := []model.Impulse{
		makeImpulse(model.CategoryBooks, model.EmotionNone, 20, false),
		makeImpulse(model.CategoryBooks, model.EmotionNone, 25, true),
	}

	// Half the past book impulses were regretted.
	assert.InDelta(t, 50, categoryScore(model.CategoryBooks, history), 1e-9)

	// No history falls back to the per-category default.
	assert.InDelta(t, 60, categoryScore(model.CategoryElectronics, nil), 1e-9)
	assert.InDelta(t, 30, categoryScore(model.CategoryBooks, nil), 1e-9)
}

func TestPriceScore_AgainstRegrettedAverage(t *testing.T) {
	history := []model.Impulse{
		makeImpulse(model.CategoryOther, model.EmotionNone, 100, true),
	}

	expensive := 130.0
	similar := 90.0
	cheap := 50.0

	assert.InDelta(t, 75, priceScore(&expensive, history), 1e-9)
	assert.InDelta(t, 65, priceScore(&similar, history), 1e-9)
	assert.InDelta(t, 40, priceScore(&cheap, history), 1e-9)
}

func TestPriceScore_NoRegretsUsesOverallAverage(t *testing.T) {
	history := []model.Impulse{
		makeImpulse(model.CategoryOther, model.EmotionNone, 100, false),
	}

	way := 160.0
	above := 110.0
	below := 80.0

	assert.InDelta(t, 70, priceScore(&way, history), 1e-9)
	assert.InDelta(t, 50, priceScore(&above, history), 1e-9)
	assert.InDelta(t, 30, priceScore(&below, history), 1e-9)
}

func TestTimeOfDayScore(t *testing.T) {
	tests := []struct {
		hour int
		want float64
	}{
		{23, 70},
		{0, 70},
		{1, 70},
		{2, 35},
		{8, 35},
		{12, 45},
		{17, 45},
		{18, 55},
		{21, 55},
		{22, 70},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, timeOfDayScore(tt.hour), 1e-9, "hour=%d", tt.hour)
	}
}

func TestPastBehaviorScore(t *testing.T) {
	history := []model.Impulse{
		makeImpulse(model.CategoryClothing, model.EmotionBored, 50, true),
		makeImpulse(model.CategoryClothing, model.EmotionBored, 55, false),
		// Different emotion, should not match.
		makeImpulse(model.CategoryClothing, model.EmotionHappy, 50, true),
		// Price too far off, should not match.
		makeImpulse(model.CategoryClothing, model.EmotionBored, 200, true),
	}

	price := 52.0
	draft := model.DraftImpulse{Category: model.CategoryClothing, Emotion: model.EmotionBored, Price: &price}

	assert.InDelta(t, 50, pastBehaviorScore(draft, history), 1e-9)

	// No matches defaults to 50.
	assert.InDelta(t, 50, pastBehaviorScore(model.DraftImpulse{Category: model.CategoryTravel}, history), 1e-9)
}
