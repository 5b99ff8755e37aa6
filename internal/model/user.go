package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role constants. The permission matrix in internal/auth keys off these values.
const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleFrontDesk = "front_desk"
	RoleMechanic  = "mechanic"
)

// User status constants. Only active users may authenticate.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents a staff account of the workshop
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Role      string         `gorm:"type:varchar(50);not null" json:"role"`
	Status    string         `gorm:"type:varchar(20);not null;default:active" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// ValidRole reports whether role is one of the shipped roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleFrontDesk, RoleMechanic:
		return true
	}
	return false
}

// ValidUserStatus reports whether status is a known account status.
func ValidUserStatus(status string) bool {
	return status == UserStatusActive || status == UserStatusInactive
}
