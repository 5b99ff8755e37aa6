package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Work order status constants
const (
	OrderStatusReceived   = "received"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// WorkOrder represents a repair job on a vehicle
type WorkOrder struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Client      *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	VehicleID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	Vehicle     *Vehicle        `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	MechanicID  *uuid.UUID      `gorm:"type:uuid;index" json:"mechanic_id"` // nil until assigned
	Mechanic    *User           `gorm:"foreignKey:MechanicID" json:"mechanic,omitempty"`
	Status      string          `gorm:"type:varchar(20);not null;default:received;index" json:"status"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Diagnosis   string          `gorm:"type:text" json:"diagnosis"`
	Total       decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"total"`
	Invoiced    bool            `gorm:"default:false" json:"invoiced"`
	ReceivedAt  time.Time       `gorm:"not null" json:"received_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ValidOrderStatus reports whether status names a known work order state.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusReceived, OrderStatusInProgress, OrderStatusCompleted,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
