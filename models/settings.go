package models

import (
	"time"

	"gorm.io/gorm"
)

// Supported currencies and their display symbols.
var CurrencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"ARS": "$",
	"MXN": "$",
	"COP": "$",
}

// Settings is the per-user preference row, created lazily with defaults on
// first access. There is deliberately no process-wide settings cache:
// handlers load the row per request and pass it to formatting explicitly.
type Settings struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UserID         uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	Currency       string         `json:"currency" gorm:"size:3;default:USD"`
	CurrencySymbol string         `json:"currency_symbol" gorm:"size:4;default:$"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
	User           User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings returns the settings created on first load.
func DefaultSettings(userID uint) Settings {
	return Settings{
		UserID:         userID,
		Currency:       "USD",
		CurrencySymbol: "$",
	}
}

// SymbolForCurrency maps a currency code to its symbol, defaulting to "$"
// for unknown codes.
func SymbolForCurrency(currency string) string {
	if s, ok := CurrencySymbols[currency]; ok {
		return s
	}
	return "$"
}

// IsValidCurrency reports whether the currency code is supported.
func IsValidCurrency(currency string) bool {
	_, ok := CurrencySymbols[currency]
	return ok
}
