package service

import (
	"testing"

	"myfinances/models"

	"github.com/stretchr/testify/assert"
)

func TestTotalAssets(t *testing.T) {
	rs := RecordSet{
		Investments: []models.Investment{
			{CurrentValue: 1500},
			{CurrentValue: 2500},
		},
		Properties: []models.Property{
			{Value: 250000, Mortgage: 180000},
		},
	}
	assert.Equal(t, 74000.0, TotalAssets(rs))
}

func TestTotalAssets_Empty(t *testing.T) {
	assert.Equal(t, 0.0, TotalAssets(RecordSet{}))
}

func TestYTDReturn_IsLifetimeReturn(t *testing.T) {
	// sums over all investments regardless of purchase year
	rs := RecordSet{
		Investments: []models.Investment{
			{Amount: 1000, CurrentValue: 1200, PurchaseDate: "2020-01-01"},
			{Amount: 500, CurrentValue: 450, PurchaseDate: "2026-03-01"},
		},
	}
	assert.Equal(t, 150.0, YTDReturn(rs))
}

func TestMonthlyIncome_OccupancyScaling(t *testing.T) {
	rs := RecordSet{
		Properties: []models.Property{
			{MonthlyRent: 1000, Occupancy: 100},
			{MonthlyRent: 800, Occupancy: 50},
			{MonthlyRent: 600, Occupancy: 0}, // vacant
		},
	}
	assert.Equal(t, 1400.0, MonthlyIncome(rs))
}

func TestMonthlyExpenses_PrefixMatch(t *testing.T) {
	rs := RecordSet{
		Transactions: []models.Transaction{
			{Type: models.TransactionExpense, Date: "2026-03-05", Amount: 50},
			{Type: models.TransactionExpense, Date: "2026-03-28", Amount: 30},
			{Type: models.TransactionExpense, Date: "2026-04-01", Amount: 99},
			{Type: models.TransactionIncome, Date: "2026-03-10", Amount: 5000},
		},
	}
	assert.Equal(t, 80.0, MonthlyExpenses(rs, "2026-03"))
	assert.Equal(t, 99.0, MonthlyExpenses(rs, "2026-04"))
	assert.Equal(t, 0.0, MonthlyExpenses(rs, "2026-05"))
}

func TestMonthlyBudget_LegacyMonthField(t *testing.T) {
	rs := RecordSet{
		Budgets: []models.BudgetCategory{
			{Month: "2026-03", Budgeted: 400},
			{Month: "2026-03", Budgeted: 200},
			{Month: "2026-04", Budgeted: 999},
		},
	}
	assert.Equal(t, 600.0, MonthlyBudget(rs, "2026-03"))
}

func TestProgressTier_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		spent    float64
		budgeted float64
		want     string
	}{
		{"half spent", 50, 100, TierOK},
		{"exactly 75", 75, 100, TierOK},
		{"just above 75", 75.01, 100, TierWarning},
		{"80", 80, 100, TierWarning},
		{"exactly 90", 90, 100, TierWarning},
		{"just above 90", 90.01, 100, TierAlert},
		{"overspent", 110, 100, TierAlert},
		{"zero budget", 10, 0, TierAlert},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progressTier(tt.spent, tt.budgeted))
		})
	}
}

func TestBudgetProgressFor(t *testing.T) {
	rs := RecordSet{
		Transactions: []models.Transaction{
			{Type: models.TransactionExpense, Category: "groceries", Date: "2026-03-02", Amount: 250},
			{Type: models.TransactionExpense, Category: "groceries", Date: "2026-03-20", Amount: 200},
			{Type: models.TransactionExpense, Category: "groceries", Date: "2026-02-20", Amount: 999},
			{Type: models.TransactionIncome, Category: "groceries", Date: "2026-03-05", Amount: 50},
			{Type: models.TransactionExpense, Category: "transport", Date: "2026-03-08", Amount: 40},
		},
		Budgets: []models.BudgetCategory{
			{ID: 1, Category: "groceries", Budgeted: 400, Period: models.BudgetPeriodMonthly, PeriodKey: "2026-03"},
			{ID: 2, Category: "transport", Budgeted: 100, Period: models.BudgetPeriodMonthly, PeriodKey: "2026-03"},
			{ID: 3, Category: "groceries", Budgeted: 5000, Period: models.BudgetPeriodAnnual, PeriodKey: "2026"},
		},
	}

	progress := BudgetProgressFor(rs, models.BudgetPeriodMonthly, "2026-03")
	assert.Len(t, progress, 2)

	groceries := progress[0]
	assert.Equal(t, "groceries", groceries.Category)
	assert.Equal(t, 450.0, groceries.Spent)
	// overspent: remaining clamps at zero, percentage caps at 100
	assert.Equal(t, 0.0, groceries.Remaining)
	assert.Equal(t, 100.0, groceries.Percentage)
	assert.Equal(t, TierAlert, groceries.Tier)

	transport := progress[1]
	assert.Equal(t, 40.0, transport.Spent)
	assert.Equal(t, 60.0, transport.Remaining)
	assert.Equal(t, 40.0, transport.Percentage)
	assert.Equal(t, TierOK, transport.Tier)
}

func TestBudgetProgressFor_AnnualUsesYearPrefix(t *testing.T) {
	rs := RecordSet{
		Transactions: []models.Transaction{
			{Type: models.TransactionExpense, Category: "travel", Date: "2026-01-10", Amount: 300},
			{Type: models.TransactionExpense, Category: "travel", Date: "2026-11-02", Amount: 700},
			{Type: models.TransactionExpense, Category: "travel", Date: "2025-12-31", Amount: 999},
		},
		Budgets: []models.BudgetCategory{
			{ID: 1, Category: "travel", Budgeted: 2000, Period: models.BudgetPeriodAnnual, PeriodKey: "2026"},
		},
	}

	progress := BudgetProgressFor(rs, models.BudgetPeriodAnnual, "2026")
	assert.Len(t, progress, 1)
	assert.Equal(t, 1000.0, progress[0].Spent)
	assert.Equal(t, 50.0, progress[0].Percentage)
	assert.Equal(t, TierOK, progress[0].Tier)
}

func TestRecurringAnnualProjection(t *testing.T) {
	rs := RecordSet{
		Budgets: []models.BudgetCategory{
			{Category: "rent", Budgeted: 900, Period: models.BudgetPeriodMonthly, PeriodKey: "2026-01", IsRecurring: true, StartDate: "2026-01-01"},
			{Category: "rent", Budgeted: 900, Period: models.BudgetPeriodMonthly, PeriodKey: "2026-02", IsRecurring: true, StartDate: "2026-01-01"},
			{Category: "gym", Budgeted: 40, Period: models.BudgetPeriodMonthly, PeriodKey: "2026-06", IsRecurring: true, StartDate: "2026-06-01"},
			{Category: "one-off", Budgeted: 500, Period: models.BudgetPeriodMonthly, PeriodKey: "2026-03"},
			{Category: "rent", Budgeted: 999, Period: models.BudgetPeriodMonthly, PeriodKey: "2025-12", IsRecurring: true, StartDate: "2025-01-01"},
		},
	}

	projection := RecurringAnnualProjection(rs, "2026")
	assert.Len(t, projection, 2)

	assert.Equal(t, "rent", projection[0].Category)
	assert.Equal(t, 900.0, projection[0].MonthlyAmount)
	assert.Equal(t, 10800.0, projection[0].AnnualAmount)
	assert.Equal(t, "2026-01-01", projection[0].StartDate)

	assert.Equal(t, "gym", projection[1].Category)
	assert.Equal(t, 480.0, projection[1].AnnualAmount)
}

func TestRecurringAnnualProjection_LaterRowOverwritesAmount(t *testing.T) {
	rs := RecordSet{
		Budgets: []models.BudgetCategory{
			{Category: "rent", Budgeted: 900, Period: models.BudgetPeriodMonthly, PeriodKey: "2026-01", IsRecurring: true, StartDate: "2026-01-01"},
			{Category: "rent", Budgeted: 950, Period: models.BudgetPeriodMonthly, PeriodKey: "2026-07", IsRecurring: true, StartDate: "2026-07-01"},
		},
	}

	projection := RecurringAnnualProjection(rs, "2026")
	assert.Len(t, projection, 1)
	// amount follows the later row, the start date stays with the first
	assert.Equal(t, 950.0, projection[0].MonthlyAmount)
	assert.Equal(t, 11400.0, projection[0].AnnualAmount)
	assert.Equal(t, "2026-01-01", projection[0].StartDate)
}
