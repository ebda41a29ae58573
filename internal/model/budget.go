package model

import (
	"time"

	"github.com/google/uuid"
)

// BudgetType distinguishes an overall spending budget from one scoped
// to a single impulse category.
type BudgetType string

// Budget type constants.
const (
	BudgetTypeTotal    BudgetType = "TOTAL"
	BudgetTypeCategory BudgetType = "CATEGORY"
)

// BudgetPeriod is the recurring calendar window a budget tracks.
type BudgetPeriod string

// Budget period constants.
const (
	PeriodWeekly  BudgetPeriod = "WEEKLY"
	PeriodMonthly BudgetPeriod = "MONTHLY"
	PeriodYearly  BudgetPeriod = "YEARLY"
)

// Budget caps executed-impulse spend over a recurring calendar period.
// StartDate/EndDate bound the currently materialized window; when the
// window lapses it is recomputed from the current time, never
// back-filled across skipped periods.
type Budget struct {
	StartDate time.Time        `json:"start_date"`
	EndDate   time.Time        `json:"end_date"`
	Category  *ImpulseCategory `json:"category,omitempty"`
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      BudgetType       `json:"type"`
	Period    BudgetPeriod     `json:"period"`
	Amount    float64          `json:"amount"`
	IsActive  bool             `json:"is_active"`
}

// NewBudget creates an active budget; its window is materialized on
// first progress computation.
func NewBudget(name string, budgetType BudgetType, period BudgetPeriod, amount float64, category *ImpulseCategory) Budget {
	return Budget{
		ID:       uuid.NewString(),
		Name:     name,
		Type:     budgetType,
		Period:   period,
		Amount:   amount,
		Category: category,
		IsActive: true,
	}
}

// BudgetProgress is the derived spend view for one budget window.
type BudgetProgress struct {
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Budget         Budget
	Spent          float64
	Remaining      float64
	PercentageUsed float64
	DaysRemaining  int
	IsOverBudget   bool
}

// BudgetAlertLevel orders alert severity.
type BudgetAlertLevel string

// Budget alert level constants.
const (
	AlertWarning  BudgetAlertLevel = "WARNING"
	AlertCritical BudgetAlertLevel = "CRITICAL"
	AlertExceeded BudgetAlertLevel = "EXCEEDED"
)

// BudgetAlert is a stateless threshold crossing regenerated on every
// call; de-duplicating repeated alerts is the caller's concern.
type BudgetAlert struct {
	BudgetID       string
	BudgetName     string
	Level          BudgetAlertLevel
	Message        string
	PercentageUsed float64
}
