package model

import "time"

// ScoreTrend describes the direction of the impulse-control score
// relative to its estimated value a week ago.
type ScoreTrend string

// Score trend constants.
const (
	TrendImproving ScoreTrend = "IMPROVING"
	TrendDeclining ScoreTrend = "DECLINING"
	TrendStable    ScoreTrend = "STABLE"
)

// ScoreResult is the full output of one impulse-control score
// computation. PreviousScore is an estimate obtained by reversing the
// last week's impulse contributions, not a stored historical value.
type ScoreResult struct {
	Score         int
	PreviousScore int
	Trend         ScoreTrend
	Level         string
	Message       string
	NextMilestone string
}

// ScorePoint is one reconstructed day of score history.
type ScorePoint struct {
	Date  time.Time
	Score int
}
