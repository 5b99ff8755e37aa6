package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client represents a customer of the workshop
type Client struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName string         `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName  string         `gorm:"type:varchar(255);not null" json:"last_name"`
	IDNumber  string         `gorm:"type:varchar(50);index" json:"id_number"` // national/tax id, optional but unique when set
	Email     string         `gorm:"type:varchar(255)" json:"email"`
	Phone     string         `gorm:"type:varchar(50)" json:"phone"`
	Mobile    string         `gorm:"type:varchar(50)" json:"mobile"`
	Address   string         `gorm:"type:text" json:"address"`
	City      string         `gorm:"type:varchar(100);index" json:"city"`
	Notes     string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
