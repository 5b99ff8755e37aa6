package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle type constants
const (
	VehicleTypeCar        = "car"
	VehicleTypeMotorcycle = "motorcycle"
	VehicleTypeTruck      = "truck"
	VehicleTypeVan        = "van"
)

// Vehicle represents a client's vehicle serviced by the workshop
type Vehicle struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"client_id"`
	Client      *Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Make        string         `gorm:"type:varchar(100);not null;index" json:"make"`
	Model       string         `gorm:"type:varchar(100);not null" json:"model"`
	Year        int            `gorm:"not null" json:"year"`
	Plate       string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"plate"`
	VIN         string         `gorm:"type:varchar(50)" json:"vin"`
	Color       string         `gorm:"type:varchar(50)" json:"color"`
	Mileage     int            `json:"mileage"`
	VehicleType string         `gorm:"type:varchar(20);default:car" json:"vehicle_type"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
