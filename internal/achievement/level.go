package achievement

import "github.com/thinktwice-app/thinktwice/internal/model"

// xpPerLevelStep is the base cost of a level: clearing level L takes
// L * xpPerLevelStep XP, so the cumulative curve is 0, 100, 300, 600...
const xpPerLevelStep = 100

// LevelFromXP derives the user level from total XP. It is a stateless
// function of one integer; the same XP always maps to the same level.
func LevelFromXP(totalXP int) model.UserLevel {
	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	remaining := totalXP
	for remaining >= level*xpPerLevelStep {
		remaining -= level * xpPerLevelStep
		level++
	}

	cost := level * xpPerLevelStep
	return model.UserLevel{
		Level:     level,
		TotalXP:   totalXP,
		XPInLevel: remaining,
		XPToNext:  cost - remaining,
		Percent:   100 * float64(remaining) / float64(cost),
	}
}
