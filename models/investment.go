package models

import (
	"time"

	"gorm.io/gorm"
)

// Valuation modes. Auto-valued investments have their current value
// maintained from market prices; manual ones are edited directly.
const (
	ValuationAuto   = "auto"
	ValuationManual = "manual"
)

// Investment types.
const (
	InvestmentStocks  = "stocks"
	InvestmentETF     = "etf"
	InvestmentFunds   = "funds"
	InvestmentCrypto  = "crypto"
	InvestmentBonds   = "bonds"
	InvestmentSavings = "savings"
	InvestmentOther   = "other"
)

// Investment is a portfolio position.
//
// When Type is savings or ValuationMode is manual, Shares, PurchasePrice and
// CurrentPrice take no part in valuation: CurrentValue is authoritative and
// mutated independently. When ValuationMode is auto, CurrentValue is kept
// equal to Shares × CurrentPrice by the valuation updater.
type Investment struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	UserID            uint           `json:"user_id" gorm:"index;not null"`
	Name              string         `json:"name" gorm:"size:100;not null"`
	ISIN              string         `json:"isin" gorm:"size:20"` // ticker or ISIN; empty for manual/savings
	Shares            float64        `json:"shares" gorm:"type:decimal(16,6);default:0"`
	PurchasePrice     float64        `json:"purchase_price" gorm:"type:decimal(12,4);default:0"` // per share
	Amount            float64        `json:"amount" gorm:"type:decimal(12,2);default:0"`         // total invested
	CurrentValue      float64        `json:"current_value" gorm:"type:decimal(12,2);default:0"`
	CurrentPrice      *float64       `json:"current_price,omitempty" gorm:"type:decimal(12,4)"`
	ValuationMode     string         `json:"valuation_mode" gorm:"size:10;default:auto"`
	PurchaseDate      string         `json:"purchase_date" gorm:"size:10"` // YYYY-MM-DD
	Type              string         `json:"type" gorm:"size:20;not null"`
	SavingsRate       *float64       `json:"savings_rate,omitempty" gorm:"type:decimal(6,3)"` // % annual
	SavingsLastUpdate *string        `json:"savings_last_update,omitempty" gorm:"size:10"`    // date of last accrual
	Contributions     []Contribution `json:"contributions" gorm:"foreignKey:InvestmentID"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
	User              User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Investment) TableName() string {
	return "investments"
}

// GetInvestmentTypes returns all known investment types.
func GetInvestmentTypes() []string {
	return []string{
		InvestmentStocks,
		InvestmentETF,
		InvestmentFunds,
		InvestmentCrypto,
		InvestmentBonds,
		InvestmentSavings,
		InvestmentOther,
	}
}

// IsValidInvestmentType reports whether t is a known investment type.
func IsValidInvestmentType(t string) bool {
	for _, known := range GetInvestmentTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// IsAutoPriced reports whether the valuation updater should fetch market
// prices for this investment.
func (i *Investment) IsAutoPriced() bool {
	return i.ValuationMode != ValuationManual && i.Type != InvestmentSavings
}

// IsSavings reports whether this investment accrues interest.
func (i *Investment) IsSavings() bool {
	return i.Type == InvestmentSavings
}
