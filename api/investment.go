package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"myfinances/database"
	"myfinances/middleware"
	"myfinances/models"
	"myfinances/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Price entry modes for auto-valued investments.
const (
	PriceModeHistorical = "historical"
	PriceModeCurrent    = "current"
)

// InvestmentHandler handles portfolio positions and their contributions.
type InvestmentHandler struct {
	prices service.PriceLookup
}

// NewInvestmentHandler creates the investment handler.
func NewInvestmentHandler(prices service.PriceLookup) *InvestmentHandler {
	return &InvestmentHandler{prices: prices}
}

// CreateInvestmentRequest is the creation payload. Which fields matter
// depends on the entry mode:
//
//   - valuation_mode=auto, price_mode=historical: shares and purchase_price;
//     the current price is fetched once at creation time,
//   - valuation_mode=auto, price_mode=current: shares, current_price and
//     total_invested; the purchase price is back-computed,
//   - valuation_mode=manual: amount and current_value only.
//
// Savings-type investments are always stored in manual mode.
type CreateInvestmentRequest struct {
	Name          string  `json:"name" example:"iShares Core MSCI World"`
	ISIN          string  `json:"isin" example:"IE00B4L5Y983"`
	Type          string  `json:"type" binding:"required" example:"etf"`
	PurchaseDate  string  `json:"purchase_date" binding:"required" example:"2025-01-15"`
	ValuationMode string  `json:"valuation_mode" example:"auto"`
	PriceMode     string  `json:"price_mode" example:"historical"`
	Shares        float64 `json:"shares" example:"10"`
	PurchasePrice float64 `json:"purchase_price" example:"95.20"`
	CurrentPrice  float64 `json:"current_price" example:"101.40"`
	TotalInvested float64 `json:"total_invested" example:"952.00"`
	Amount        float64 `json:"amount" example:"1000"`
	CurrentValue  float64 `json:"current_value" example:"1000"`
	SavingsRate   float64 `json:"savings_rate" example:"2.5"`
}

// UpdateInvestmentRequest is the partial update payload; only provided
// fields change.
type UpdateInvestmentRequest struct {
	Name          *string  `json:"name"`
	ISIN          *string  `json:"isin"`
	Shares        *float64 `json:"shares"`
	PurchasePrice *float64 `json:"purchase_price"`
	Amount        *float64 `json:"amount"`
	CurrentValue  *float64 `json:"current_value"`
	SavingsRate   *float64 `json:"savings_rate"`
	ValuationMode *string  `json:"valuation_mode"`
}

// CreateContributionRequest is the contribution payload.
type CreateContributionRequest struct {
	Date          string  `json:"date" binding:"required" example:"2025-02-01"`
	Amount        float64 `json:"amount" binding:"required,gt=0" example:"250"`
	Shares        float64 `json:"shares" example:"2.5"`
	PricePerShare float64 `json:"price_per_share" example:"100"`
}

// Create adds an investment through one of three entry modes.
// @Summary Create investment
// @Description Create an investment. Auto/historical mode fetches the
// @Description current market price once; a failed lookup aborts creation.
// @Tags investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateInvestmentRequest true "investment payload"
// @Success 200 {object} Response{data=models.Investment} "created"
// @Failure 400 {object} Response "invalid payload or unresolvable price"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/investments [post]
func (h *InvestmentHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	if !models.IsValidInvestmentType(req.Type) {
		BadRequest(c, "unknown investment type")
		return
	}
	if _, err := time.Parse("2006-01-02", req.PurchaseDate); err != nil {
		BadRequest(c, "invalid purchase_date, expected YYYY-MM-DD")
		return
	}

	mode := req.ValuationMode
	if mode == "" {
		mode = models.ValuationAuto
	}
	if mode != models.ValuationAuto && mode != models.ValuationManual {
		BadRequest(c, "valuation_mode must be auto or manual")
		return
	}

	var investment models.Investment

	switch {
	case req.Type == models.InvestmentSavings:
		// savings accounts are always manual; market fields are unused
		if req.Name == "" {
			BadRequest(c, "name is required for savings investments")
			return
		}
		rate := req.SavingsRate
		lastUpdate := req.PurchaseDate
		investment = models.Investment{
			UserID:            userID,
			Name:              req.Name,
			ISIN:              "",
			Shares:            0,
			PurchasePrice:     0,
			Amount:            req.Amount,
			CurrentValue:      req.CurrentValue,
			ValuationMode:     models.ValuationManual,
			PurchaseDate:      req.PurchaseDate,
			Type:              models.InvestmentSavings,
			SavingsRate:       &rate,
			SavingsLastUpdate: &lastUpdate,
		}

	case mode == models.ValuationManual:
		if req.Name == "" {
			BadRequest(c, "name is required for manual investments")
			return
		}
		investment = models.Investment{
			UserID:        userID,
			Name:          req.Name,
			ISIN:          req.ISIN,
			Shares:        0,
			PurchasePrice: 0,
			Amount:        req.Amount,
			CurrentValue:  req.CurrentValue,
			ValuationMode: models.ValuationManual,
			PurchaseDate:  req.PurchaseDate,
			Type:          req.Type,
		}

	default: // auto
		if req.ISIN == "" {
			BadRequest(c, "isin is required for auto-valued investments")
			return
		}
		if req.Shares <= 0 {
			BadRequest(c, "shares must be positive")
			return
		}

		priceMode := req.PriceMode
		if priceMode == "" {
			priceMode = PriceModeHistorical
		}

		var currentPrice, amount, purchasePrice float64

		switch priceMode {
		case PriceModeHistorical:
			if req.PurchasePrice <= 0 {
				BadRequest(c, "purchase_price must be positive")
				return
			}
			ticker := service.TickerForISIN(req.ISIN)
			fetched, ok := h.prices.FetchPrice(c.Request.Context(), ticker)
			if !ok {
				BadRequest(c, fmt.Sprintf("could not resolve a current price for %s, check the ISIN/ticker", req.ISIN))
				return
			}
			currentPrice = fetched
			purchasePrice = req.PurchasePrice
			amount = req.Shares * req.PurchasePrice

		case PriceModeCurrent:
			if req.CurrentPrice <= 0 || req.TotalInvested <= 0 {
				BadRequest(c, "current_price and total_invested must be positive")
				return
			}
			currentPrice = req.CurrentPrice
			amount = req.TotalInvested
			purchasePrice = req.TotalInvested / req.Shares

		default:
			BadRequest(c, "price_mode must be historical or current")
			return
		}

		name := req.Name
		if name == "" {
			name = service.TickerForISIN(req.ISIN)
		}

		investment = models.Investment{
			UserID:        userID,
			Name:          name,
			ISIN:          req.ISIN,
			Shares:        req.Shares,
			PurchasePrice: purchasePrice,
			Amount:        amount,
			CurrentValue:  req.Shares * currentPrice,
			CurrentPrice:  &currentPrice,
			ValuationMode: models.ValuationAuto,
			PurchaseDate:  req.PurchaseDate,
			Type:          req.Type,
		}
	}

	if err := database.DB.Create(&investment).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create investment failed"))
		return
	}

	SuccessWithMessage(c, "created", investment)
}

// List returns the user's investments with contributions.
// @Summary List investments
// @Description List the authenticated user's investments, contributions included.
// @Tags investments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Investment} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/investments [get]
func (h *InvestmentHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var investments []models.Investment
	if err := database.DB.Where("user_id = ?", userID).
		Preload("Contributions", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC, id ASC")
		}).
		Order("id ASC").
		Find(&investments).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, investments)
}

// Update applies a partial edit. The effective valuation mode decides which
// fields are honored, mirroring the creation modes; the mode is persisted,
// never re-inferred from the data.
// @Summary Update investment
// @Description Partially update an investment; only provided fields change.
// @Tags investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "investment id"
// @Param request body UpdateInvestmentRequest true "fields to update"
// @Success 200 {object} Response{data=models.Investment} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/investments/{id} [put]
func (h *InvestmentHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var investment models.Investment
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&investment).Error; err != nil {
		NotFound(c, "investment not found")
		return
	}

	var req UpdateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}

	mode := investment.ValuationMode
	if req.ValuationMode != nil {
		mode = *req.ValuationMode
	}

	switch {
	case investment.Type == models.InvestmentSavings:
		// savings stay manual; a rate change restarts accrual from today
		updates["valuation_mode"] = models.ValuationManual
		if req.Amount != nil {
			updates["amount"] = *req.Amount
		}
		if req.CurrentValue != nil {
			updates["current_value"] = *req.CurrentValue
		}
		if req.SavingsRate != nil {
			oldRate := 0.0
			if investment.SavingsRate != nil {
				oldRate = *investment.SavingsRate
			}
			updates["savings_rate"] = *req.SavingsRate
			if *req.SavingsRate != oldRate {
				updates["savings_last_update"] = time.Now().Format("2006-01-02")
			}
		}

	case mode == models.ValuationManual:
		updates["valuation_mode"] = models.ValuationManual
		updates["shares"] = 0
		updates["purchase_price"] = 0
		updates["current_price"] = nil
		if req.ISIN != nil {
			updates["isin"] = strings.TrimSpace(*req.ISIN)
		}
		if req.Amount != nil {
			updates["amount"] = *req.Amount
		}
		if req.CurrentValue != nil {
			updates["current_value"] = *req.CurrentValue
		}

	default: // auto
		updates["valuation_mode"] = models.ValuationAuto
		if req.ISIN != nil {
			updates["isin"] = strings.TrimSpace(*req.ISIN)
		}
		shares := investment.Shares
		if req.Shares != nil {
			shares = *req.Shares
			updates["shares"] = shares
		}
		purchasePrice := investment.PurchasePrice
		if req.PurchasePrice != nil {
			purchasePrice = *req.PurchasePrice
			updates["purchase_price"] = purchasePrice
		}
		if req.Shares != nil || req.PurchasePrice != nil {
			updates["amount"] = shares * purchasePrice
			if investment.CurrentPrice != nil {
				updates["current_value"] = shares * *investment.CurrentPrice
			}
		}
	}

	if err := database.DB.Model(&investment).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update failed"))
		return
	}

	database.DB.Preload("Contributions").First(&investment, investment.ID)
	SuccessWithMessage(c, "updated", investment)
}

// Delete removes an investment and its contributions.
// @Summary Delete investment
// @Description Delete an investment; its contributions are removed with it.
// @Tags investments
// @Produce json
// @Security BearerAuth
// @Param id path int true "investment id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/investments/{id} [delete]
func (h *InvestmentHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var investment models.Investment
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&investment).Error; err != nil {
		NotFound(c, "investment not found")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("investment_id = ?", investment.ID).Delete(&models.Contribution{}).Error; err != nil {
			return err
		}
		return tx.Delete(&investment).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}

// AddContribution appends a contribution to an investment. Ownership is
// enforced through the parent investment.
// @Summary Add contribution
// @Description Append a contribution to one of the user's investments.
// @Tags investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "investment id"
// @Param request body CreateContributionRequest true "contribution payload"
// @Success 200 {object} Response{data=models.Contribution} "created"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "investment not found"
// @Router /api/v1/investments/{id}/contributions [post]
func (h *InvestmentHandler) AddContribution(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var investment models.Investment
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&investment).Error; err != nil {
		NotFound(c, "investment not found")
		return
	}

	var req CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		BadRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	contribution := models.Contribution{
		InvestmentID:  investment.ID,
		Date:          req.Date,
		Amount:        req.Amount,
		Shares:        req.Shares,
		PricePerShare: req.PricePerShare,
	}

	if err := database.DB.Create(&contribution).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create contribution failed"))
		return
	}

	SuccessWithMessage(c, "created", contribution)
}

// DeleteContribution removes a contribution, checking ownership through the
// parent investment.
// @Summary Delete contribution
// @Description Delete a contribution from one of the user's investments.
// @Tags investments
// @Produce json
// @Security BearerAuth
// @Param id path int true "investment id"
// @Param cid path int true "contribution id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/investments/{id}/contributions/{cid} [delete]
func (h *InvestmentHandler) DeleteContribution(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}
	cid, err := strconv.ParseUint(c.Param("cid"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid contribution id")
		return
	}

	var investment models.Investment
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&investment).Error; err != nil {
		NotFound(c, "investment not found")
		return
	}

	var contribution models.Contribution
	if err := database.DB.Where("id = ? AND investment_id = ?", cid, investment.ID).First(&contribution).Error; err != nil {
		NotFound(c, "contribution not found")
		return
	}

	if err := database.DB.Delete(&contribution).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}
