package cli

import (
	"fmt"
	"strings"

	"github.com/thinktwice-app/thinktwice/internal/model"
)

// RenderScore formats a score result as a boxed report.
func RenderScore(result model.ScoreResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render(fmt.Sprintf("%d / 100", result.Score)), SubtleStyle.Render("("+result.Level+")"))
	fmt.Fprintf(&b, "Last week: %d (%s)\n", result.PreviousScore, trendLabel(result.Trend))
	if result.NextMilestone != "" {
		fmt.Fprintf(&b, "Next: %s\n", result.NextMilestone)
	}
	b.WriteString(result.Message)

	return RenderBox(ChartIcon+" Impulse control", b.String())
}

// RenderPrediction formats a regret prediction with its factors.
func RenderPrediction(prediction model.Prediction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Regret risk: %s (%.0f / 100, confidence %.0f%%)\n\n",
		riskLabel(prediction.Recommendation), prediction.PredictedScore, 100*prediction.Confidence)
	for _, factor := range prediction.Factors {
		fmt.Fprintf(&b, "  %-14s %5.1f × %.2f\n", factor.Name, factor.Score, factor.Weight)
	}
	b.WriteString("\n")
	b.WriteString(prediction.Message)

	return RenderBox(TargetIcon+" Prediction", b.String())
}

// ProgressBar renders a fixed-width ASCII bar for a 0-100 percentage.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100 * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func trendLabel(trend model.ScoreTrend) string {
	switch trend {
	case model.TrendImproving:
		return SuccessStyle.Render("improving ↑")
	case model.TrendDeclining:
		return ErrorStyle.Render("declining ↓")
	default:
		return SubtleStyle.Render("stable →")
	}
}

func riskLabel(risk model.RiskLevel) string {
	switch risk {
	case model.RiskHigh:
		return ErrorStyle.Render("HIGH")
	case model.RiskMedium:
		return WarningStyle.Render("MEDIUM")
	default:
		return SuccessStyle.Render("LOW")
	}
}
