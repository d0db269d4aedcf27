package api

import (
	"fmt"
	"net/http"
	"time"

	"myfinances/database"
	"myfinances/middleware"
	"myfinances/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportVersion is the backup format version written to every export.
const ExportVersion = "1.0"

// ExportHandler handles backup export and restore.
type ExportHandler struct{}

// NewExportHandler creates the export handler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// ExportData is the record portion of a backup.
type ExportData struct {
	Transactions []models.Transaction    `json:"transactions"`
	Investments  []models.Investment     `json:"investments"`
	Properties   []models.Property       `json:"properties"`
	Budgets      []models.BudgetCategory `json:"budgets"`
}

// ExportSettings is the preference portion of a backup.
type ExportSettings struct {
	Currency string `json:"currency"`
}

// ExportEnvelope is the full backup document.
type ExportEnvelope struct {
	Version   string         `json:"version"`
	Timestamp string         `json:"timestamp"`
	Data      ExportData     `json:"data"`
	Settings  ExportSettings `json:"settings"`
}

// ImportRequest is the restore payload. Data and Settings are required;
// a payload missing either is rejected before anything is deleted.
type ImportRequest struct {
	Version   string          `json:"version"`
	Timestamp string          `json:"timestamp"`
	Data      *ExportData     `json:"data" binding:"required"`
	Settings  *ExportSettings `json:"settings" binding:"required"`
}

// ExportJSON returns all of the user's records as one backup document.
// @Summary Export backup
// @Description Export all records and settings as a JSON backup document.
// @Tags export
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=ExportEnvelope} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var data ExportData
	if err := database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&data.Transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	if err := database.DB.Where("user_id = ?", userID).
		Preload("Contributions", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC, id ASC")
		}).
		Order("id ASC").Find(&data.Investments).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	if err := database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&data.Properties).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	if err := database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&data.Budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	settings, err := loadOrCreateSettings(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "load settings failed"))
		return
	}

	Success(c, ExportEnvelope{
		Version:   ExportVersion,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
		Settings:  ExportSettings{Currency: settings.Currency},
	})
}

// ImportJSON replaces all of the user's records with a backup document.
// The restore is destructive: existing rows are deleted per table before
// the backup rows are inserted. Validation happens first, so an invalid
// payload leaves the data untouched.
// @Summary Import backup
// @Description Replace all records with a backup document. Destructive:
// @Description existing data is deleted before the backup is inserted.
// @Tags export
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ImportRequest true "backup document"
// @Success 200 {object} Response "imported"
// @Failure 400 {object} Response "invalid backup document"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export [post]
func (h *ExportHandler) ImportJSON(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "backup document must contain data and settings")
		return
	}
	if req.Settings.Currency != "" && !models.IsValidCurrency(req.Settings.Currency) {
		BadRequest(c, "unsupported currency in backup settings")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// wipe, then restore table by table
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		var ownedIDs []uint
		if err := tx.Model(&models.Investment{}).Where("user_id = ?", userID).Pluck("id", &ownedIDs).Error; err != nil {
			return err
		}
		if len(ownedIDs) > 0 {
			if err := tx.Unscoped().Where("investment_id IN ?", ownedIDs).Delete(&models.Contribution{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Investment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Property{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.BudgetCategory{}).Error; err != nil {
			return err
		}

		for _, t := range req.Data.Transactions {
			t.ID = 0
			t.UserID = userID
			if err := tx.Create(&t).Error; err != nil {
				return err
			}
		}
		// investments go one by one so contributions can follow their new ids
		for _, inv := range req.Data.Investments {
			contributions := inv.Contributions
			inv.ID = 0
			inv.UserID = userID
			inv.Contributions = nil
			if err := tx.Create(&inv).Error; err != nil {
				return err
			}
			for _, con := range contributions {
				con.ID = 0
				con.InvestmentID = inv.ID
				if err := tx.Create(&con).Error; err != nil {
					return err
				}
			}
		}
		for _, p := range req.Data.Properties {
			p.ID = 0
			p.UserID = userID
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}
		for _, b := range req.Data.Budgets {
			b.ID = 0
			b.UserID = userID
			if err := tx.Create(&b).Error; err != nil {
				return err
			}
		}

		// settings last, and only when the backup carries a currency
		if req.Settings.Currency != "" {
			var settings models.Settings
			err := tx.Where("user_id = ?", userID).First(&settings).Error
			if err == gorm.ErrRecordNotFound {
				settings = models.DefaultSettings(userID)
			} else if err != nil {
				return err
			}
			settings.Currency = req.Settings.Currency
			settings.CurrencySymbol = models.SymbolForCurrency(req.Settings.Currency)
			return tx.Save(&settings).Error
		}
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "import failed"))
		return
	}

	SuccessWithMessage(c, "imported", nil)
}

// ExportExcel streams the user's records as an Excel workbook, one sheet
// per record type.
// @Summary Export Excel workbook
// @Description Download all records as an .xlsx workbook.
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary "workbook"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var transactions []models.Transaction
	var investments []models.Investment
	var properties []models.Property
	var budgets []models.BudgetCategory
	database.DB.Where("user_id = ?", userID).Order("date ASC, id ASC").Find(&transactions)
	database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&investments)
	database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&properties)
	database.DB.Where("user_id = ?", userID).Order("period_key ASC, id ASC").Find(&budgets)

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Transactions"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Date", "Type", "Category", "Amount", "Description"}
	for i, head := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, head)
	}
	for row, t := range transactions {
		values := []interface{}{t.Date, t.Type, t.Category, t.Amount, t.Description}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	sheet = "Investments"
	f.NewSheet(sheet)
	headers = []string{"Name", "ISIN", "Type", "Shares", "Purchase Price", "Invested", "Current Value", "Valuation Mode", "Purchase Date"}
	for i, head := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, head)
	}
	for row, inv := range investments {
		values := []interface{}{inv.Name, inv.ISIN, inv.Type, inv.Shares, inv.PurchasePrice, inv.Amount, inv.CurrentValue, inv.ValuationMode, inv.PurchaseDate}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	sheet = "Properties"
	f.NewSheet(sheet)
	headers = []string{"Name", "Value", "Mortgage", "Monthly Rent", "Occupancy"}
	for i, head := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, head)
	}
	for row, p := range properties {
		values := []interface{}{p.Name, p.Value, p.Mortgage, p.MonthlyRent, p.Occupancy}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	sheet = "Budgets"
	f.NewSheet(sheet)
	headers = []string{"Category", "Budgeted", "Period", "Period Key", "Recurring"}
	for i, head := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, head)
	}
	for row, b := range budgets {
		values := []interface{}{b.Category, b.Budgeted, b.Period, b.PeriodKey, b.IsRecurring}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("finances_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
