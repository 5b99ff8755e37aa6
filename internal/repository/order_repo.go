package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

// OrderFilters narrows List queries; zero values mean "no filter".
type OrderFilters struct {
	Status     string
	ClientID   string
	VehicleID  string
	MechanicID string
}

// OrderRepository defines the interface for data access of WorkOrder entities
type OrderRepository interface {
	Create(ctx context.Context, order *model.WorkOrder) error
	GetByID(ctx context.Context, id string) (*model.WorkOrder, error)
	List(ctx context.Context, filters OrderFilters, offset, limit int) ([]model.WorkOrder, int64, error)
	Update(ctx context.Context, order *model.WorkOrder) error
	Delete(ctx context.Context, id string) error
	NextOrderNumber(ctx context.Context) (string, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.WorkOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.WorkOrder, error) {
	var order model.WorkOrder
	if err := GetDB(ctx, r.db).
		Preload("Client").
		Preload("Vehicle").
		Preload("Mechanic").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filters OrderFilters, offset, limit int) ([]model.WorkOrder, int64, error) {
	var orders []model.WorkOrder
	var total int64

	query := GetDB(ctx, r.db).Model(&model.WorkOrder{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.ClientID != "" {
		query = query.Where("client_id = ?", filters.ClientID)
	}
	if filters.VehicleID != "" {
		query = query.Where("vehicle_id = ?", filters.VehicleID)
	}
	if filters.MechanicID != "" {
		query = query.Where("mechanic_id = ?", filters.MechanicID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Client").
		Preload("Vehicle").
		Preload("Mechanic").
		Order("received_at desc").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.WorkOrder) error {
	return GetDB(ctx, r.db).Save(order).Error
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.WorkOrder{}).Error
}

// NextOrderNumber produces ORD-<year>-<NNNN>, counting soft-deleted rows too
// so numbers are never reused.
func (r *orderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	var count int64
	if err := GetDB(ctx, r.db).
		Unscoped().
		Model(&model.WorkOrder{}).
		Where("order_number LIKE ?", fmt.Sprintf("ORD-%d-%%", year)).
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%d-%04d", year, count+1), nil
}
