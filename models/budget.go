package models

import (
	"time"

	"gorm.io/gorm"
)

// Budget periods.
const (
	BudgetPeriodMonthly = "monthly"
	BudgetPeriodAnnual  = "annual"
)

// BudgetCategory is a spending budget for one category and one period.
//
// A recurring monthly budget is stored as one row per month from its start
// month through December of that year, each sharing category and amount —
// not as a single row reused across months.
//
// PeriodKey is the normalized period discriminator ("YYYY-MM" for monthly,
// "YYYY" for annual). Legacy rows carried the key only in Month; hooks
// resolve the fallback once at write/load so call sites never re-implement it.
type BudgetCategory struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Category    string         `json:"category" gorm:"size:50;not null"`
	Budgeted    float64        `json:"budgeted" gorm:"type:decimal(12,2);not null"`
	Period      string         `json:"period" gorm:"size:10;default:monthly"`
	PeriodKey   string         `json:"period_key" gorm:"size:7;index"`
	Month       string         `json:"month,omitempty" gorm:"size:7"` // legacy field, superseded by PeriodKey
	IsRecurring bool           `json:"is_recurring" gorm:"default:false"`
	StartDate   string         `json:"start_date,omitempty" gorm:"size:10"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (BudgetCategory) TableName() string {
	return "budgets"
}

// Normalize fills Period and PeriodKey from legacy fields.
func (b *BudgetCategory) Normalize() {
	if b.Period == "" {
		b.Period = BudgetPeriodMonthly
	}
	if b.PeriodKey == "" {
		b.PeriodKey = b.Month
	}
}

// BeforeSave normalizes the period key before any insert or update.
func (b *BudgetCategory) BeforeSave(*gorm.DB) error {
	b.Normalize()
	return nil
}

// AfterFind normalizes legacy rows loaded from storage.
func (b *BudgetCategory) AfterFind(*gorm.DB) error {
	b.Normalize()
	return nil
}
