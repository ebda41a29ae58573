// Package model defines the core domain models used throughout the application.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ImpulseCategory classifies what kind of purchase an impulse is.
type ImpulseCategory string

// Impulse category constants.
const (
	CategoryClothing      ImpulseCategory = "CLOTHING"
	CategoryElectronics   ImpulseCategory = "ELECTRONICS"
	CategoryFood          ImpulseCategory = "FOOD"
	CategoryEntertainment ImpulseCategory = "ENTERTAINMENT"
	CategoryHome          ImpulseCategory = "HOME"
	CategoryBeauty        ImpulseCategory = "BEAUTY"
	CategorySports        ImpulseCategory = "SPORTS"
	CategoryBooks         ImpulseCategory = "BOOKS"
	CategoryTravel        ImpulseCategory = "TRAVEL"
	CategoryOther         ImpulseCategory = "OTHER"
)

// AllCategories lists every valid impulse category.
func AllCategories() []ImpulseCategory {
	return []ImpulseCategory{
		CategoryClothing,
		CategoryElectronics,
		CategoryFood,
		CategoryEntertainment,
		CategoryHome,
		CategoryBeauty,
		CategorySports,
		CategoryBooks,
		CategoryTravel,
		CategoryOther,
	}
}

// ValidCategory reports whether c is a member of the closed category enum.
func ValidCategory(c ImpulseCategory) bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Emotion captures the user's emotional state when logging an impulse.
type Emotion string

// Emotion constants. EmotionNone means the user skipped the question.
const (
	EmotionNone     Emotion = "NONE"
	EmotionExcited  Emotion = "EXCITED"
	EmotionStressed Emotion = "STRESSED"
	EmotionBored    Emotion = "BORED"
	EmotionSad      Emotion = "SAD"
	EmotionFOMO     Emotion = "FOMO"
	EmotionHappy    Emotion = "HAPPY"
	EmotionNeutral  Emotion = "NEUTRAL"
)

// Urgency is the user's self-reported urgency for an impulse.
type Urgency string

// Urgency constants.
const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

// ImpulseStatus tracks an impulse through its cool-down lifecycle.
//
// Status is monotonic: LOCKED may transition exactly once to CANCELLED
// or EXECUTED. An EXECUTED impulse may later gain FinalFeeling and
// RegretRating through a follow-up, but its status never changes again.
type ImpulseStatus string

// Impulse status constants.
const (
	StatusLocked    ImpulseStatus = "LOCKED"
	StatusCancelled ImpulseStatus = "CANCELLED"
	StatusExecuted  ImpulseStatus = "EXECUTED"
)

// FinalFeeling is the post-purchase feedback collected during follow-up.
type FinalFeeling string

// Final feeling constants.
const (
	FeelingNone        FinalFeeling = "NONE"
	FeelingRelief      FinalFeeling = "RELIEF"
	FeelingSatisfied   FinalFeeling = "SATISFIED"
	FeelingIndifferent FinalFeeling = "INDIFFERENT"
	FeelingRegret      FinalFeeling = "REGRET"
)

// Impulse represents a single logged purchase impulse with its cool-down
// window and eventual outcome.
type Impulse struct {
	CreatedAt    time.Time
	ReviewAt     time.Time
	ExecutedAt   *time.Time
	Price        *float64
	RegretRating *int
	ID           string
	Title        string
	Category     ImpulseCategory
	Emotion      Emotion
	Urgency      Urgency
	Status       ImpulseStatus
	FinalFeeling FinalFeeling
}

// NewImpulse creates a LOCKED impulse with a fresh ID and the given
// cool-down duration.
func NewImpulse(title string, category ImpulseCategory, cooldown time.Duration) Impulse {
	now := time.Now()
	return Impulse{
		ID:           uuid.NewString(),
		Title:        title,
		Category:     category,
		Emotion:      EmotionNone,
		Urgency:      UrgencyMedium,
		CreatedAt:    now,
		ReviewAt:     now.Add(cooldown),
		Status:       StatusLocked,
		FinalFeeling: FeelingNone,
	}
}

// Regretted reports whether an executed impulse turned out to be a
// regretted purchase, either via the follow-up feeling or a regret
// rating of 3 or higher.
func (i *Impulse) Regretted() bool {
	if i.Status != StatusExecuted {
		return false
	}
	if i.FinalFeeling == FeelingRegret {
		return true
	}
	return i.RegretRating != nil && *i.RegretRating >= 3
}

// PriceValue returns the impulse price, or 0 when no price was recorded.
func (i *Impulse) PriceValue() float64 {
	if i.Price == nil {
		return 0
	}
	return *i.Price
}

// CoolingDown reports whether the impulse is still inside its review window.
func (i *Impulse) CoolingDown(now time.Time) bool {
	return i.Status == StatusLocked && now.Before(i.ReviewAt)
}
