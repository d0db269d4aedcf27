package service

import (
	"fmt"
	"math"

	"myfinances/models"
)

// FormatAmount renders an amount with the user's currency symbol. Settings
// are passed explicitly; there is no process-wide settings cache to go stale.
func FormatAmount(settings models.Settings, amount float64) string {
	symbol := settings.CurrencySymbol
	if symbol == "" {
		symbol = models.SymbolForCurrency(settings.Currency)
	}
	return fmt.Sprintf("%s%.2f", symbol, math.Abs(amount))
}
