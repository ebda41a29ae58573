// Package budget computes period-bounded spend, remaining budget, and
// threshold alerts over the impulse log. Everything here is a pure
// view: no state is kept between calls and alerts are regenerated
// every time.
package budget

import (
	"fmt"
	"time"

	"github.com/thinktwice-app/thinktwice/internal/model"
)

// Alert thresholds as percentages of the budget amount.
const (
	warningThreshold  = 75
	criticalThreshold = 90
	exceededThreshold = 100
)

// PeriodWindow returns the calendar window containing ref for the
// given period, in ref's location with full-day bounds: WEEKLY runs
// Sunday 00:00:00 through Saturday 23:59:59.999, MONTHLY first through
// last calendar day, YEARLY Jan 1 through Dec 31.
func PeriodWindow(period model.BudgetPeriod, ref time.Time) (start, end time.Time) {
	loc := ref.Location()

	switch period {
	case model.PeriodWeekly:
		sunday := ref.AddDate(0, 0, -int(ref.Weekday()))
		start = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 0, 0, 0, 0, loc)
		saturday := start.AddDate(0, 0, 6)
		end = endOfDay(saturday)
	case model.PeriodMonthly:
		start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
		end = endOfDay(start.AddDate(0, 1, -1))
	case model.PeriodYearly:
		start = time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, loc)
		end = endOfDay(time.Date(ref.Year(), time.December, 31, 0, 0, 0, 0, loc))
	default:
		start = time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
		end = endOfDay(ref)
	}

	return start, end
}

// Window returns the budget's effective window at now. A stored window
// that still contains now is reused; a lapsed or unmaterialized window
// is recomputed from now itself, never rolled forward from the old end
// date. Fully-skipped periods are not back-filled.
func Window(b model.Budget, now time.Time) (start, end time.Time) {
	if !b.StartDate.IsZero() && !b.EndDate.IsZero() && !now.After(b.EndDate) && !now.Before(b.StartDate) {
		return b.StartDate, b.EndDate
	}
	return PeriodWindow(b.Period, now)
}

// Progress computes the spend view for one budget at now. Spent sums
// the price of EXECUTED impulses created inside the window, filtered
// by category for CATEGORY budgets. A zero or negative budget amount
// clamps the percentage to 0 rather than producing NaN or Inf.
func Progress(b model.Budget, impulses []model.Impulse, now time.Time) model.BudgetProgress {
	start, end := Window(b, now)

	var spent float64
	for i := range impulses {
		impulse := &impulses[i]
		if impulse.Status != model.StatusExecuted {
			continue
		}
		if impulse.CreatedAt.Before(start) || impulse.CreatedAt.After(end) {
			continue
		}
		if b.Type == model.BudgetTypeCategory && b.Category != nil && impulse.Category != *b.Category {
			continue
		}
		spent += impulse.PriceValue()
	}

	var percentage float64
	if b.Amount > 0 {
		percentage = 100 * spent / b.Amount
	}

	remaining := b.Amount - spent
	if remaining < 0 {
		remaining = 0
	}

	daysRemaining := 0
	if now.Before(end) {
		daysRemaining = int(end.Sub(now).Hours()/24) + 1
	}

	return model.BudgetProgress{
		Budget:         b,
		PeriodStart:    start,
		PeriodEnd:      end,
		Spent:          spent,
		Remaining:      remaining,
		PercentageUsed: percentage,
		IsOverBudget:   spent > b.Amount,
		DaysRemaining:  daysRemaining,
	}
}

// Alerts regenerates threshold alerts for every active budget. Alerts
// are stateless; the caller owns de-duplication across calls. Each
// budget raises at most one alert, at its highest crossed tier.
func Alerts(budgets []model.Budget, impulses []model.Impulse, now time.Time) []model.BudgetAlert {
	var alerts []model.BudgetAlert
	for _, b := range budgets {
		if !b.IsActive {
			continue
		}

		progress := Progress(b, impulses, now)

		var level model.BudgetAlertLevel
		var message string
		switch {
		case progress.PercentageUsed >= exceededThreshold:
			level = model.AlertExceeded
			message = fmt.Sprintf("%s is exceeded: %.0f%% of %.2f spent", b.Name, progress.PercentageUsed, b.Amount)
		case progress.PercentageUsed >= criticalThreshold:
			level = model.AlertCritical
			message = fmt.Sprintf("%s is nearly spent: %.0f%% used", b.Name, progress.PercentageUsed)
		case progress.PercentageUsed >= warningThreshold:
			level = model.AlertWarning
			message = fmt.Sprintf("%s passed %d%%: %.0f%% used", b.Name, warningThreshold, progress.PercentageUsed)
		default:
			continue
		}

		alerts = append(alerts, model.BudgetAlert{
			BudgetID:       b.ID,
			BudgetName:     b.Name,
			Level:          level,
			Message:        message,
			PercentageUsed: progress.PercentageUsed,
		})
	}

	return alerts
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999999999, day.Location())
}
