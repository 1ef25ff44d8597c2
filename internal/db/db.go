package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/navarro-barbers/agenda-api/internal/config"
	"github.com/navarro-barbers/agenda-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Barber{},
		&models.Service{},
		&models.Appointment{},
		&models.BusinessSetting{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Commit-time guard against two requests winning the same slot.
	// Partial, so cancelled and completed rows never block a rebooking.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_slot
        ON appointments (barber_id, date, start_time)
        WHERE status IN ('confirmed', 'pending')
    `)

	return db
}
