package api

import (
	"fmt"
	"strconv"
	"time"

	"myfinances/database"
	"myfinances/middleware"
	"myfinances/models"
	"myfinances/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BudgetHandler handles budget categories.
type BudgetHandler struct{}

// NewBudgetHandler creates the budget handler.
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// CreateBudgetRequest is the creation payload. PeriodKey is "YYYY-MM" for
// monthly budgets and "YYYY" for annual ones. A recurring monthly budget
// expands into one row per month from the key's month through December.
type CreateBudgetRequest struct {
	Category    string  `json:"category" binding:"required" example:"groceries"`
	Budgeted    float64 `json:"budgeted" binding:"required,gt=0" example:"400"`
	Period      string  `json:"period" example:"monthly"`
	PeriodKey   string  `json:"period_key" binding:"required" example:"2025-03"`
	IsRecurring bool    `json:"is_recurring" example:"false"`
}

// UpdateBudgetRequest is the partial update payload.
type UpdateBudgetRequest struct {
	Category *string  `json:"category"`
	Budgeted *float64 `json:"budgeted"`
}

func validPeriodKey(period, key string) bool {
	switch period {
	case models.BudgetPeriodMonthly:
		_, err := time.Parse("2006-01", key)
		return err == nil
	case models.BudgetPeriodAnnual:
		_, err := time.Parse("2006", key)
		return err == nil
	}
	return false
}

// Create adds a budget category. Recurring monthly budgets are expanded at
// creation time into one row per month through December of the start year.
// @Summary Create budget
// @Description Create a budget category; recurring monthly budgets expand
// @Description into one row per remaining month of the year.
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "budget payload"
// @Success 200 {object} Response{data=[]models.BudgetCategory} "created rows"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	period := req.Period
	if period == "" {
		period = models.BudgetPeriodMonthly
	}
	if period != models.BudgetPeriodMonthly && period != models.BudgetPeriodAnnual {
		BadRequest(c, "period must be monthly or annual")
		return
	}
	if !validPeriodKey(period, req.PeriodKey) {
		BadRequest(c, "period_key must be YYYY-MM for monthly budgets and YYYY for annual ones")
		return
	}
	if req.IsRecurring && period != models.BudgetPeriodMonthly {
		BadRequest(c, "only monthly budgets can recur")
		return
	}

	var rows []models.BudgetCategory
	if req.IsRecurring {
		start, _ := time.Parse("2006-01", req.PeriodKey)
		startDate := req.PeriodKey + "-01"
		for m := int(start.Month()); m <= 12; m++ {
			rows = append(rows, models.BudgetCategory{
				UserID:      userID,
				Category:    req.Category,
				Budgeted:    req.Budgeted,
				Period:      models.BudgetPeriodMonthly,
				PeriodKey:   fmt.Sprintf("%04d-%02d", start.Year(), m),
				IsRecurring: true,
				StartDate:   startDate,
			})
		}
	} else {
		rows = append(rows, models.BudgetCategory{
			UserID:    userID,
			Category:  req.Category,
			Budgeted:  req.Budgeted,
			Period:    period,
			PeriodKey: req.PeriodKey,
		})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "create budget failed"))
		return
	}

	SuccessWithMessage(c, "created", rows)
}

// List returns budget categories, optionally filtered by period and key.
// @Summary List budgets
// @Description List the user's budget categories. Filter by period
// @Description (monthly/annual) and period_key (YYYY-MM or YYYY).
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param period query string false "monthly or annual"
// @Param period_key query string false "YYYY-MM or YYYY"
// @Success 200 {object} Response{data=[]models.BudgetCategory} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if period := c.Query("period"); period != "" {
		query = query.Where("period = ?", period)
	}
	if key := c.Query("period_key"); key != "" {
		query = query.Where("period_key = ?", key)
	}

	var budgets []models.BudgetCategory
	if err := query.Order("period_key ASC, id ASC").Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, budgets)
}

// Progress reports spending against each budget of a period.
// @Summary Budget progress
// @Description Spent, remaining and alert tier per budget of the given
// @Description period. Tier thresholds apply to the raw ratio; the reported
// @Description percentage is capped at 100.
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param period query string true "monthly or annual"
// @Param period_key query string true "YYYY-MM or YYYY"
// @Success 200 {object} Response{data=[]service.BudgetProgress} "ok"
// @Failure 400 {object} Response "missing period filter"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/budgets/progress [get]
func (h *BudgetHandler) Progress(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	period := c.Query("period")
	key := c.Query("period_key")
	if !validPeriodKey(period, key) {
		BadRequest(c, "period and period_key are required")
		return
	}

	var budgets []models.BudgetCategory
	if err := database.DB.Where("user_id = ? AND period = ? AND period_key = ?", userID, period, key).
		Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	// the period key is a date prefix for both granularities
	var transactions []models.Transaction
	if err := database.DB.Where("user_id = ? AND type = ? AND date LIKE ?",
		userID, models.TransactionExpense, key+"%").
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	rs := service.RecordSet{Transactions: transactions, Budgets: budgets}
	Success(c, service.BudgetProgressFor(rs, period, key))
}

// Update edits a budget row's category or amount.
// @Summary Update budget
// @Description Partially update one budget row; only provided fields change.
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Param request body UpdateBudgetRequest true "fields to update"
// @Success 200 {object} Response{data=models.BudgetCategory} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var budget models.BudgetCategory
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		NotFound(c, "budget not found")
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	updates := make(map[string]interface{})
	if req.Category != nil && *req.Category != "" {
		updates["category"] = *req.Category
	}
	if req.Budgeted != nil {
		if *req.Budgeted <= 0 {
			BadRequest(c, "budgeted must be positive")
			return
		}
		updates["budgeted"] = *req.Budgeted
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&budget).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update failed"))
			return
		}
	}

	database.DB.First(&budget, budget.ID)
	SuccessWithMessage(c, "updated", budget)
}

// Delete removes a single budget row. Rows created by a recurring expansion
// are independent; deleting one month leaves the others in place.
// @Summary Delete budget
// @Description Delete one budget row.
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var budget models.BudgetCategory
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		NotFound(c, "budget not found")
		return
	}

	if err := database.DB.Delete(&budget).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}
