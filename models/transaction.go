package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction types.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is a single income or expense entry. Transactions are
// immutable once created; the only mutation is deletion.
type Transaction struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Date        string         `json:"date" gorm:"size:10;not null"` // YYYY-MM-DD
	Category    string         `json:"category" gorm:"size:50;not null"`
	Description string         `json:"description" gorm:"size:255"`
	Amount      float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Type        string         `json:"type" gorm:"size:10;not null"` // income / expense
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Transaction) TableName() string {
	return "transactions"
}

// IsValidTransactionType reports whether t is a known transaction type.
func IsValidTransactionType(t string) bool {
	return t == TransactionIncome || t == TransactionExpense
}
