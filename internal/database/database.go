package database

import (
	"fmt"
	"log"

	"github.com/yktwalker/event-registration-api/internal/config"
	"github.com/yktwalker/event-registration-api/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.SystemUser{},
		&models.Event{},
		&models.Participant{},
		&models.Directory{},
		&models.DirectoryMembership{},
		&models.Registration{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// At most one event may have registration_active = true. The partial
	// unique index makes the store itself reject a concurrent second
	// activation that slips past the application-level check.
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_events_one_active
		ON events (registration_active) WHERE registration_active`)

	log.Println("database migrated")
}

// SeedAdmin creates the initial admin account when no admin exists yet.
// A blank admin password disables seeding.
func SeedAdmin(db *gorm.DB, cfg *config.Config) {
	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, admin seed skipped")
		return
	}

	var count int64
	db.Model(&models.SystemUser{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	admin := models.SystemUser{
		Username:     cfg.AdminUsername,
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
		FullName:     "Administrator",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	log.Printf("seeded admin user %q", admin.Username)
}
