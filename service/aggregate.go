package service

import (
	"strings"

	"myfinances/models"
)

// RecordSet is the full in-memory record set of one user, as loaded for a
// view. All aggregation functions below are pure and deterministic over it.
type RecordSet struct {
	Transactions []models.Transaction
	Investments  []models.Investment
	Properties   []models.Property
	Budgets      []models.BudgetCategory
}

// TotalAssets is the sum of investment current values plus property equity
// (value minus outstanding mortgage).
func TotalAssets(rs RecordSet) float64 {
	var total float64
	for _, inv := range rs.Investments {
		total += inv.CurrentValue
	}
	for _, p := range rs.Properties {
		total += p.Value - p.Mortgage
	}
	return total
}

// YTDReturn sums currentValue − amount over all investments regardless of
// purchase date. Despite the name this is lifetime unrealized return, not
// strictly year-to-date; the historical name is kept for API compatibility.
func YTDReturn(rs RecordSet) float64 {
	var total float64
	for _, inv := range rs.Investments {
		total += inv.CurrentValue - inv.Amount
	}
	return total
}

// MonthlyIncome is the expected rental income across properties, scaled by
// occupancy. Occupancy is stored normalized (absent values become 100 at the
// storage boundary); a stored 0 means vacant and contributes nothing.
func MonthlyIncome(rs RecordSet) float64 {
	var total float64
	for _, p := range rs.Properties {
		total += p.MonthlyRent * (p.Occupancy / 100)
	}
	return total
}

// MonthlyExpenses sums expense transactions falling within the given month
// ("YYYY-MM" prefix match on the transaction date).
func MonthlyExpenses(rs RecordSet, month string) float64 {
	var total float64
	for _, t := range rs.Transactions {
		if t.Type == models.TransactionExpense && strings.HasPrefix(t.Date, month) {
			total += t.Amount
		}
	}
	return total
}

// MonthlyBudget sums budgets whose legacy month field matches. Callers that
// need period-aware filtering must use Period/PeriodKey directly.
func MonthlyBudget(rs RecordSet, month string) float64 {
	var total float64
	for _, b := range rs.Budgets {
		if b.Month == month {
			total += b.Budgeted
		}
	}
	return total
}

// Budget progress tiers.
const (
	TierOK      = "ok"
	TierWarning = "warning"
	TierAlert   = "alert"
)

// BudgetProgress is the budget-vs-spend state of one category in a period.
type BudgetProgress struct {
	ID         uint    `json:"id"`
	Category   string  `json:"category"`
	Budgeted   float64 `json:"budgeted"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
	Tier       string  `json:"tier"`
}

// progressTier classifies raw spend ratio: above 90% is alert, above 75% is
// warning. Both comparisons are strict, so exactly 90% is still warning and
// exactly 75% is still ok.
func progressTier(spent, budgeted float64) string {
	if budgeted <= 0 {
		return TierAlert
	}
	percentage := (spent / budgeted) * 100
	if percentage > 90 {
		return TierAlert
	}
	if percentage > 75 {
		return TierWarning
	}
	return TierOK
}

// BudgetProgressFor computes per-category budget-vs-spend progress for the
// budgets of the given period and key. Spent sums expense transactions whose
// date starts with the key and whose category matches. Remaining clamps at
// zero and the displayed percentage caps at 100; the tier is classified on
// the uncapped ratio.
func BudgetProgressFor(rs RecordSet, period, key string) []BudgetProgress {
	spentByCategory := make(map[string]float64)
	for _, t := range rs.Transactions {
		if t.Type != models.TransactionExpense || !strings.HasPrefix(t.Date, key) {
			continue
		}
		spentByCategory[t.Category] += t.Amount
	}

	var result []BudgetProgress
	for _, b := range rs.Budgets {
		if b.Period != period || b.PeriodKey != key {
			continue
		}
		spent := spentByCategory[b.Category]
		remaining := b.Budgeted - spent
		if remaining < 0 {
			remaining = 0
		}
		percentage := 0.0
		if b.Budgeted > 0 {
			percentage = (spent / b.Budgeted) * 100
			if percentage > 100 {
				percentage = 100
			}
		}
		result = append(result, BudgetProgress{
			ID:         b.ID,
			Category:   b.Category,
			Budgeted:   b.Budgeted,
			Spent:      spent,
			Remaining:  remaining,
			Percentage: percentage,
			Tier:       progressTier(spent, b.Budgeted),
		})
	}
	return result
}

// RecurringProjection is the annual projection of one recurring monthly
// budget category.
type RecurringProjection struct {
	Category      string  `json:"category"`
	MonthlyAmount float64 `json:"monthly_amount"`
	AnnualAmount  float64 `json:"annual_amount"`
	StartDate     string  `json:"start_date,omitempty"`
}

// RecurringAnnualProjection groups recurring monthly budget rows of the given
// year by category. When a category has several rows the later one in
// iteration order overwrites the monthly amount (recurring rows share the
// amount, so this is normally a no-op); the annual amount is monthly × 12.
func RecurringAnnualProjection(rs RecordSet, year string) []RecurringProjection {
	var result []RecurringProjection
	index := make(map[string]int)
	for _, b := range rs.Budgets {
		if b.Period != models.BudgetPeriodMonthly || !b.IsRecurring || !strings.HasPrefix(b.PeriodKey, year) {
			continue
		}
		if i, ok := index[b.Category]; ok {
			result[i].MonthlyAmount = b.Budgeted
			result[i].AnnualAmount = b.Budgeted * 12
			continue
		}
		index[b.Category] = len(result)
		result = append(result, RecurringProjection{
			Category:      b.Category,
			MonthlyAmount: b.Budgeted,
			AnnualAmount:  b.Budgeted * 12,
			StartDate:     b.StartDate,
		})
	}
	return result
}
