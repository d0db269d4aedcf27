package service

import (
	"context"
	"log"
	"sync"
	"time"

	"myfinances/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Valuator refreshes investment valuations on portfolio load: market prices
// for auto-priced positions and interest accrual for savings positions.
type Valuator struct {
	db     *gorm.DB
	prices PriceLookup
	now    func() time.Time
}

// NewValuator builds a valuator over the given store and price lookup.
func NewValuator(db *gorm.DB, prices PriceLookup) *Valuator {
	return &Valuator{db: db, prices: prices, now: time.Now}
}

// WithClock replaces the clock, for tests.
func (v *Valuator) WithClock(now func() time.Time) *Valuator {
	v.now = now
	return v
}

// DaysBetween returns the number of whole days from one ISO date to another,
// floored and clamped at zero. Unparseable dates count as zero days.
func DaysBetween(fromDate, toDate string) int {
	from, err := time.Parse(dateLayout, fromDate)
	if err != nil {
		return 0
	}
	to, err := time.Parse(dateLayout, toDate)
	if err != nil {
		return 0
	}
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// AccruedInterest computes simple interest prorated by elapsed days:
// currentValue × rate/100 × days/365, rounded to cents. Decimal arithmetic
// keeps repeated small accruals from drifting.
func AccruedInterest(currentValue, annualRate float64, days int) float64 {
	interest := decimal.NewFromFloat(currentValue).
		Mul(decimal.NewFromFloat(annualRate)).
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(36500)).
		Round(2)
	f, _ := interest.Float64()
	return f
}

// investmentUpdate is one pending write produced by a refresh pass.
type investmentUpdate struct {
	id     uint
	fields map[string]interface{}
}

// RefreshUser runs one valuation pass over the user's investments:
//
//  1. auto-priced positions (mode ≠ manual and type ≠ savings) get current
//     prices from the batch lookup; a price that differs from the stored one
//     updates currentPrice and currentValue = shares × price,
//  2. savings positions accrue simple interest for the days elapsed since
//     the last accrual (falling back to the purchase date), advancing
//     savingsLastUpdate to today.
//
// Updates are issued concurrently without ordering guarantees. Lookup
// failures for individual identifiers are skipped; a total failure of the
// batch lookup aborts the pass silently, leaving values stale until the next
// attempt. Returns the number of investments updated; the caller should
// reload records when it is non-zero.
func (v *Valuator) RefreshUser(ctx context.Context, userID uint) (int, error) {
	var investments []models.Investment
	if err := v.db.Where("user_id = ?", userID).Find(&investments).Error; err != nil {
		return 0, err
	}
	if len(investments) == 0 {
		return 0, nil
	}

	var symbols []string
	for _, inv := range investments {
		if inv.IsAutoPriced() {
			symbols = append(symbols, TickerForISIN(inv.ISIN))
		}
	}

	var priceMap map[string]float64
	if len(symbols) > 0 {
		priceMap = v.prices.FetchPrices(ctx, symbols)
		if priceMap == nil {
			log.Printf("valuation: price batch failed for user %d, keeping stale values", userID)
			return 0, nil
		}
	}

	today := v.now().Format(dateLayout)

	var updates []investmentUpdate
	for _, inv := range investments {
		switch {
		case inv.IsAutoPriced():
			price, ok := priceMap[TickerForISIN(inv.ISIN)]
			if !ok {
				continue
			}
			if inv.CurrentPrice != nil && *inv.CurrentPrice == price {
				continue
			}
			updates = append(updates, investmentUpdate{
				id: inv.ID,
				fields: map[string]interface{}{
					"current_price": price,
					"current_value": inv.Shares * price,
				},
			})

		case inv.IsSavings():
			var rate float64
			if inv.SavingsRate != nil {
				rate = *inv.SavingsRate
			}
			lastUpdate := today
			if inv.SavingsLastUpdate != nil && *inv.SavingsLastUpdate != "" {
				lastUpdate = *inv.SavingsLastUpdate
			} else if inv.PurchaseDate != "" {
				lastUpdate = inv.PurchaseDate
			}
			days := DaysBetween(lastUpdate, today)
			if rate <= 0 || days <= 0 {
				continue
			}
			interest := AccruedInterest(inv.CurrentValue, rate, days)
			updates = append(updates, investmentUpdate{
				id: inv.ID,
				fields: map[string]interface{}{
					"current_value":       inv.CurrentValue + interest,
					"savings_last_update": today,
				},
			})
		}
	}

	if len(updates) == 0 {
		return 0, nil
	}

	// Persist all updates concurrently and wait for the batch. Individual
	// write failures are logged, not surfaced: the next pass retries.
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for _, u := range updates {
		wg.Add(1)
		go func(u investmentUpdate) {
			defer wg.Done()
			err := v.db.Model(&models.Investment{}).
				Where("id = ? AND user_id = ?", u.id, userID).
				Updates(u.fields).Error
			if err != nil {
				log.Printf("valuation: update investment %d failed: %v", u.id, err)
				return
			}
			mu.Lock()
			applied++
			mu.Unlock()
		}(u)
	}
	wg.Wait()

	return applied, nil
}
