package config

import (
	"fmt"

	"foodgram-backend/internal/logging"
	"foodgram-backend/internal/utils"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		utils.GetConfig("DB_HOST"),
		utils.GetConfig("DB_USER"),
		utils.GetConfig("DB_PASSWORD"),
		utils.GetConfig("DB_NAME"),
		utils.GetConfigDefault("DB_PORT", "5432"),
		utils.GetConfigDefault("DB_SSLMODE", "disable"),
	)

	// duplicates come back as gorm.ErrDuplicatedKey
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := db.Use(otelgorm.NewPlugin()); err != nil {
		return nil, fmt.Errorf("failed to instrument database: %w", err)
	}

	logging.Logger().Info("database connected", "host", utils.GetConfig("DB_HOST"), "name", utils.GetConfig("DB_NAME"))
	return db, nil
}
