package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgetCategory_Normalize(t *testing.T) {
	// legacy row: only Month carries the key
	b := BudgetCategory{Month: "2025-07"}
	b.Normalize()
	assert.Equal(t, BudgetPeriodMonthly, b.Period)
	assert.Equal(t, "2025-07", b.PeriodKey)

	// modern row stays untouched
	b2 := BudgetCategory{Period: BudgetPeriodAnnual, PeriodKey: "2026", Month: "2020-01"}
	b2.Normalize()
	assert.Equal(t, BudgetPeriodAnnual, b2.Period)
	assert.Equal(t, "2026", b2.PeriodKey)
}

func TestBudgetCategory_NormalizeIsIdempotent(t *testing.T) {
	b := BudgetCategory{Month: "2025-07"}
	b.Normalize()
	b.Normalize()
	assert.Equal(t, "2025-07", b.PeriodKey)
	assert.Equal(t, BudgetPeriodMonthly, b.Period)
}
