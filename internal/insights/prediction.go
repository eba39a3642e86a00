package insights

// BudgetPrediction is a linear run-rate projection for a budget period in
// progress: period-end spend extrapolated from spend-to-date.
type BudgetPrediction struct {
	CurrentSpent     int64   `json:"current_spent"`
	DaysElapsed      int     `json:"days_elapsed"`
	DaysInPeriod     int     `json:"days_in_period"`
	BudgetAmount     int64   `json:"budget_amount"`
	DailyAverage     float64 `json:"daily_average"`
	PredictedTotal   float64 `json:"predicted_total"`
	RemainingBudget  int64   `json:"remaining_budget"`
	PredictedOverage float64 `json:"predicted_overage"`
	IsOnTrack        bool    `json:"is_on_track"`

	// Confidence is a [0,100] score that grows linearly with the fraction
	// of the period elapsed: more observed days, more trust in the run rate.
	Confidence float64 `json:"confidence"`
}

// NewBudgetPrediction computes the projection. Zero elapsed days yield a
// zero daily average instead of dividing by zero.
func NewBudgetPrediction(currentSpent int64, daysElapsed, daysInPeriod int, budgetAmount int64) BudgetPrediction {
	var dailyAverage float64
	if daysElapsed > 0 {
		dailyAverage = float64(currentSpent) / float64(daysElapsed)
	}
	predictedTotal := dailyAverage * float64(daysInPeriod)

	overage := predictedTotal - float64(budgetAmount)
	if overage < 0 {
		overage = 0
	}

	var confidence float64
	if daysInPeriod > 0 {
		confidence = float64(daysElapsed) / float64(daysInPeriod) * 100
		if confidence > 100 {
			confidence = 100
		}
		if confidence < 0 {
			confidence = 0
		}
	}

	return BudgetPrediction{
		CurrentSpent:     currentSpent,
		DaysElapsed:      daysElapsed,
		DaysInPeriod:     daysInPeriod,
		BudgetAmount:     budgetAmount,
		DailyAverage:     dailyAverage,
		PredictedTotal:   predictedTotal,
		RemainingBudget:  budgetAmount - currentSpent,
		PredictedOverage: overage,
		IsOnTrack:        predictedTotal <= float64(budgetAmount),
		Confidence:       confidence,
	}
}

// UsagePercentage is spend-to-date as a percentage of the budget.
func (p BudgetPrediction) UsagePercentage() float64 {
	if p.BudgetAmount <= 0 {
		return 0
	}
	return float64(p.CurrentSpent) / float64(p.BudgetAmount) * 100
}

// PredictedUsagePercentage is the projected period-end spend as a percentage
// of the budget.
func (p BudgetPrediction) PredictedUsagePercentage() float64 {
	if p.BudgetAmount <= 0 {
		return 0
	}
	return p.PredictedTotal / float64(p.BudgetAmount) * 100
}
