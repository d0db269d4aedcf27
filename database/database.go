package database

import (
	"fmt"
	"log"

	"myfinances/config"
	"myfinances/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the database connection and migrates the schema.
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.Investment{},
		&models.Contribution{},
		&models.Property{},
		&models.BudgetCategory{},
		&models.Settings{},
		&models.PasswordReset{},
	); err != nil {
		return err
	}

	// Legacy data: old budget rows carried the period key only in the month
	// column. Normalize once here so queries can rely on period_key.
	_ = DB.Model(&models.BudgetCategory{}).
		Where("(period_key IS NULL OR period_key = '') AND month <> ''").
		Update("period_key", gorm.Expr("month")).Error
	_ = DB.Model(&models.BudgetCategory{}).
		Where("period IS NULL OR period = ''").
		Update("period", models.BudgetPeriodMonthly).Error

	// Legacy data: occupancy was added after the first property rows; absent
	// values were written as 0 and must read as fully occupied.
	_ = DB.Model(&models.Property{}).
		Where("occupancy IS NULL").
		Update("occupancy", 100).Error

	log.Println("database initialized")
	return nil
}

// GetDB returns the database handle.
func GetDB() *gorm.DB {
	return DB
}
