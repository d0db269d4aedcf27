package api

import (
	"time"

	"myfinances/database"
	"myfinances/middleware"
	"myfinances/models"
	"myfinances/service"

	"github.com/gin-gonic/gin"
)

// PortfolioHandler serves cross-record aggregates and the valuation refresh.
type PortfolioHandler struct {
	valuator *service.Valuator
}

// NewPortfolioHandler creates the portfolio handler.
func NewPortfolioHandler(valuator *service.Valuator) *PortfolioHandler {
	return &PortfolioHandler{valuator: valuator}
}

// SummaryResponse is the dashboard aggregate view.
type SummaryResponse struct {
	TotalAssets        float64 `json:"total_assets"`
	YTDReturn          float64 `json:"ytd_return"`
	MonthlyIncome      float64 `json:"monthly_income"`
	MonthlyExpenses    float64 `json:"monthly_expenses"`
	MonthlyBudget      float64 `json:"monthly_budget"`
	Month              string  `json:"month"`
	TotalAssetsDisplay string  `json:"total_assets_display"`
	YTDReturnDisplay   string  `json:"ytd_return_display"`
}

// RefreshResponse reports the outcome of a valuation pass.
type RefreshResponse struct {
	Updated int `json:"updated"`
}

// loadRecordSet pulls the user's full record set for aggregation.
func loadRecordSet(userID uint) (service.RecordSet, error) {
	var rs service.RecordSet
	if err := database.DB.Where("user_id = ?", userID).Find(&rs.Transactions).Error; err != nil {
		return rs, err
	}
	if err := database.DB.Where("user_id = ?", userID).Find(&rs.Investments).Error; err != nil {
		return rs, err
	}
	if err := database.DB.Where("user_id = ?", userID).Find(&rs.Properties).Error; err != nil {
		return rs, err
	}
	if err := database.DB.Where("user_id = ?", userID).Find(&rs.Budgets).Error; err != nil {
		return rs, err
	}
	return rs, nil
}

// Summary returns the dashboard aggregates for a month.
// @Summary Portfolio summary
// @Description Total assets, lifetime return and the month's income,
// @Description expenses and budget. Month defaults to the current one.
// @Tags portfolio
// @Produce json
// @Security BearerAuth
// @Param month query string false "YYYY-MM, defaults to current month"
// @Success 200 {object} Response{data=SummaryResponse} "ok"
// @Failure 400 {object} Response "invalid month"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/portfolio/summary [get]
func (h *PortfolioHandler) Summary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	} else if _, err := time.Parse("2006-01", month); err != nil {
		BadRequest(c, "invalid month, expected YYYY-MM")
		return
	}

	rs, err := loadRecordSet(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	var settings models.Settings
	if err := database.DB.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		settings = models.DefaultSettings(userID)
	}

	totalAssets := service.TotalAssets(rs)
	ytdReturn := service.YTDReturn(rs)

	Success(c, SummaryResponse{
		TotalAssets:        totalAssets,
		YTDReturn:          ytdReturn,
		MonthlyIncome:      service.MonthlyIncome(rs),
		MonthlyExpenses:    service.MonthlyExpenses(rs, month),
		MonthlyBudget:      service.MonthlyBudget(rs, month),
		Month:              month,
		TotalAssetsDisplay: service.FormatAmount(settings, totalAssets),
		YTDReturnDisplay:   service.FormatAmount(settings, ytdReturn),
	})
}

// Projection returns the annual projection of recurring budgets.
// @Summary Recurring budget projection
// @Description Per-category annual projection of recurring monthly budgets
// @Description for the given year (defaults to the current year).
// @Tags portfolio
// @Produce json
// @Security BearerAuth
// @Param year query string false "YYYY, defaults to current year"
// @Success 200 {object} Response{data=[]service.RecurringProjection} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/portfolio/projection [get]
func (h *PortfolioHandler) Projection(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	year := c.Query("year")
	if year == "" {
		year = time.Now().Format("2006")
	} else if _, err := time.Parse("2006", year); err != nil {
		BadRequest(c, "invalid year, expected YYYY")
		return
	}

	var budgets []models.BudgetCategory
	if err := database.DB.Where("user_id = ?", userID).Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	rs := service.RecordSet{Budgets: budgets}
	Success(c, service.RecurringAnnualProjection(rs, year))
}

// Refresh runs one valuation pass over the user's investments.
// @Summary Refresh valuations
// @Description Fetch market prices for auto-valued investments and accrue
// @Description interest on savings accounts. Returns how many rows changed;
// @Description a total price-feed outage updates nothing and still succeeds.
// @Tags portfolio
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=RefreshResponse} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/portfolio/refresh [post]
func (h *PortfolioHandler) Refresh(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	updated, err := h.valuator.RefreshUser(c.Request.Context(), userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "valuation refresh failed"))
		return
	}

	Success(c, RefreshResponse{Updated: updated})
}
