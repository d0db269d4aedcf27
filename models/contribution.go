package models

import (
	"time"

	"gorm.io/gorm"
)

// Contribution is a single deposit into an investment. Amount is user-entered
// and not forced to equal Shares × PricePerShare. Contributions belong to
// exactly one investment and are removed with it.
type Contribution struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	InvestmentID  uint           `json:"investment_id" gorm:"index;not null"`
	Date          string         `json:"date" gorm:"size:10;not null"` // YYYY-MM-DD
	Amount        float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Shares        float64        `json:"shares" gorm:"type:decimal(16,6);default:0"`
	PricePerShare float64        `json:"price_per_share" gorm:"type:decimal(12,4);default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
	Investment    Investment     `json:"-" gorm:"foreignKey:InvestmentID"`
}

// TableName sets the table name.
func (Contribution) TableName() string {
	return "contributions"
}
