package api

import (
	"strconv"
	"strings"
	"time"

	"myfinances/database"
	"myfinances/middleware"
	"myfinances/models"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles income/expense records.
type TransactionHandler struct{}

// NewTransactionHandler creates the transaction handler.
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// CreateTransactionRequest is the creation payload.
type CreateTransactionRequest struct {
	Date        string  `json:"date" binding:"required" example:"2025-01-15"`
	Category    string  `json:"category" binding:"required" example:"Groceries"`
	Description string  `json:"description" example:"weekly shop"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"42.50"`
	Type        string  `json:"type" binding:"required" example:"expense"`
}

// TransactionListRequest is the list query.
type TransactionListRequest struct {
	Page     int    `form:"page" example:"1"`
	PageSize int    `form:"page_size" example:"20"`
	Month    string `form:"month" example:"2025-01"`
	Category string `form:"category" example:"Groceries"`
	Type     string `form:"type" example:"expense"`
}

// Create records a transaction. Transactions are immutable once created;
// there is no update endpoint.
// @Summary Create transaction
// @Description Record a new income or expense transaction.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "transaction payload"
// @Success 200 {object} Response{data=models.Transaction} "created"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		BadRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}
	if !models.IsValidTransactionType(req.Type) {
		BadRequest(c, "type must be income or expense")
		return
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		BadRequest(c, "category must not be empty")
		return
	}

	transaction := models.Transaction{
		UserID:      userID,
		Date:        req.Date,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
	}

	if err := database.DB.Create(&transaction).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create transaction failed"))
		return
	}

	SuccessWithMessage(c, "created", transaction)
}

// List returns the user's transactions, paged and filtered.
// @Summary List transactions
// @Description List the authenticated user's transactions with paging and filters.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Param month query string false "month filter (YYYY-MM)"
// @Param category query string false "category filter"
// @Param type query string false "type filter (income/expense)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid query"))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if req.Month != "" {
		query = query.Where("date LIKE ?", req.Month+"%")
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("date DESC, id DESC").Offset(offset).Limit(req.PageSize).Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     transactions,
	})
}

// Delete removes a transaction.
// @Summary Delete transaction
// @Description Delete one of the authenticated user's transactions.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var transaction models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&transaction).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	if err := database.DB.Delete(&transaction).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}
