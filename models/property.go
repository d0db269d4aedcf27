package models

import (
	"time"

	"gorm.io/gorm"
)

// Property is a real-estate holding.
type Property struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	UserID          uint           `json:"user_id" gorm:"index;not null"`
	Name            string         `json:"name" gorm:"size:100;not null"`
	Value           float64        `json:"value" gorm:"type:decimal(14,2);not null"`
	Mortgage        float64        `json:"mortgage" gorm:"type:decimal(14,2);default:0"`
	MortgagePayment float64        `json:"mortgage_payment" gorm:"type:decimal(12,2);default:0"`
	MonthlyRent     float64        `json:"monthly_rent" gorm:"type:decimal(12,2);default:0"`
	AnnualCosts     float64        `json:"annual_costs" gorm:"type:decimal(12,2);default:0"`
	PurchaseDate    string         `json:"purchase_date" gorm:"size:10"` // YYYY-MM-DD
	Appreciation    float64        `json:"appreciation" gorm:"type:decimal(6,3);default:0"` // % annual
	Occupancy       float64        `json:"occupancy" gorm:"type:decimal(5,2);default:100"`  // 0-100
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
	User            User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Property) TableName() string {
	return "properties"
}
