package database

import (
	"log"

	"backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Client{},
		&model.Vehicle{},
		&model.WorkOrder{},
		&model.Invoice{},
		&model.Setting{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Seed inserts the default admin account and workshop settings when the
// database is empty. Idempotent: existing rows are left untouched.
func Seed(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&model.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &model.User{
			Name:     "Administrador",
			Email:    "admin@sysmecanica.com",
			Password: string(hash),
			Role:     model.RoleAdmin,
			Status:   model.UserStatusActive,
		}
		if err := db.Create(admin).Error; err != nil {
			return err
		}
		log.Println("Seeded default admin user (admin@sysmecanica.com); change this password in production")
	}

	defaults := []model.Setting{
		{Key: "workshop_name", Value: "Taller Mecánico SysMecanica", Description: "Workshop display name", ValueType: "string"},
		{Key: "address", Value: "", Description: "Workshop address", ValueType: "string"},
		{Key: "phone", Value: "", Description: "Contact phone", ValueType: "string"},
		{Key: "email", Value: "contacto@sysmecanica.com", Description: "Contact email", ValueType: "string"},
		{Key: "tax_rate", Value: "19", Description: "Tax percentage applied to invoices", ValueType: "number"},
		{Key: "currency", Value: "COP", Description: "System currency", ValueType: "string"},
		{Key: "order_format", Value: "ORD-{YYYY}-{NNNN}", Description: "Work order number format", ValueType: "string"},
		{Key: "invoice_format", Value: "FAC-{YYYY}-{NNNN}", Description: "Invoice number format", ValueType: "string"},
	}
	for _, setting := range defaults {
		var count int64
		if err := db.Model(&model.Setting{}).Where("key = ?", setting.Key).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&setting).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
