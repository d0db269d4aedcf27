package api

import (
	"strconv"
	"time"

	"myfinances/database"
	"myfinances/middleware"
	"myfinances/models"

	"github.com/gin-gonic/gin"
)

// PropertyHandler handles real-estate records.
type PropertyHandler struct{}

// NewPropertyHandler creates the property handler.
func NewPropertyHandler() *PropertyHandler {
	return &PropertyHandler{}
}

// CreatePropertyRequest is the creation payload. Occupancy is a percentage
// in [0,100]; when omitted it defaults to fully occupied.
type CreatePropertyRequest struct {
	Name            string   `json:"name" binding:"required" example:"Downtown flat"`
	Value           float64  `json:"value" binding:"required,gt=0" example:"250000"`
	Mortgage        float64  `json:"mortgage" example:"180000"`
	MortgagePayment float64  `json:"mortgage_payment" example:"850"`
	MonthlyRent     float64  `json:"monthly_rent" example:"1200"`
	AnnualCosts     float64  `json:"annual_costs" example:"2400"`
	PurchaseDate    string   `json:"purchase_date" example:"2020-06-01"`
	Appreciation    float64  `json:"appreciation" example:"2.5"`
	Occupancy       *float64 `json:"occupancy" example:"100"`
}

// UpdatePropertyRequest is the partial update payload.
type UpdatePropertyRequest struct {
	Name            *string  `json:"name"`
	Value           *float64 `json:"value"`
	Mortgage        *float64 `json:"mortgage"`
	MortgagePayment *float64 `json:"mortgage_payment"`
	MonthlyRent     *float64 `json:"monthly_rent"`
	AnnualCosts     *float64 `json:"annual_costs"`
	PurchaseDate    *string  `json:"purchase_date"`
	Appreciation    *float64 `json:"appreciation"`
	Occupancy       *float64 `json:"occupancy"`
}

// Create adds a property.
// @Summary Create property
// @Description Create a real-estate record for the authenticated user.
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePropertyRequest true "property payload"
// @Success 200 {object} Response{data=models.Property} "created"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	occupancy := 100.0
	if req.Occupancy != nil {
		occupancy = *req.Occupancy
	}
	if occupancy < 0 || occupancy > 100 {
		BadRequest(c, "occupancy must be between 0 and 100")
		return
	}

	if req.PurchaseDate != "" {
		if _, err := time.Parse("2006-01-02", req.PurchaseDate); err != nil {
			BadRequest(c, "invalid purchase_date, expected YYYY-MM-DD")
			return
		}
	}

	property := models.Property{
		UserID:          userID,
		Name:            req.Name,
		Value:           req.Value,
		Mortgage:        req.Mortgage,
		MortgagePayment: req.MortgagePayment,
		MonthlyRent:     req.MonthlyRent,
		AnnualCosts:     req.AnnualCosts,
		PurchaseDate:    req.PurchaseDate,
		Appreciation:    req.Appreciation,
		Occupancy:       occupancy,
	}

	if err := database.DB.Create(&property).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create property failed"))
		return
	}

	SuccessWithMessage(c, "created", property)
}

// List returns the user's properties.
// @Summary List properties
// @Description List the authenticated user's real-estate records.
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Property} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var properties []models.Property
	if err := database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&properties).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, properties)
}

// Update applies a partial edit to a property.
// @Summary Update property
// @Description Partially update a property; only provided fields change.
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "property id"
// @Param request body UpdatePropertyRequest true "fields to update"
// @Success 200 {object} Response{data=models.Property} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var property models.Property
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&property).Error; err != nil {
		NotFound(c, "property not found")
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Value != nil {
		if *req.Value <= 0 {
			BadRequest(c, "value must be positive")
			return
		}
		updates["value"] = *req.Value
	}
	if req.Mortgage != nil {
		updates["mortgage"] = *req.Mortgage
	}
	if req.MortgagePayment != nil {
		updates["mortgage_payment"] = *req.MortgagePayment
	}
	if req.MonthlyRent != nil {
		updates["monthly_rent"] = *req.MonthlyRent
	}
	if req.AnnualCosts != nil {
		updates["annual_costs"] = *req.AnnualCosts
	}
	if req.PurchaseDate != nil {
		if _, err := time.Parse("2006-01-02", *req.PurchaseDate); err != nil {
			BadRequest(c, "invalid purchase_date, expected YYYY-MM-DD")
			return
		}
		updates["purchase_date"] = *req.PurchaseDate
	}
	if req.Appreciation != nil {
		updates["appreciation"] = *req.Appreciation
	}
	if req.Occupancy != nil {
		if *req.Occupancy < 0 || *req.Occupancy > 100 {
			BadRequest(c, "occupancy must be between 0 and 100")
			return
		}
		updates["occupancy"] = *req.Occupancy
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&property).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update failed"))
			return
		}
	}

	database.DB.First(&property, property.ID)
	SuccessWithMessage(c, "updated", property)
}

// Delete removes a property.
// @Summary Delete property
// @Description Delete one of the user's properties.
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param id path int true "property id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/properties/{id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var property models.Property
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&property).Error; err != nil {
		NotFound(c, "property not found")
		return
	}

	if err := database.DB.Delete(&property).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}
