package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// VehicleFilters narrows List queries; zero values mean "no filter".
type VehicleFilters struct {
	Search   string // matches plate, make, model, or VIN
	ClientID string
}

// VehicleRepository defines the interface for data access of Vehicle entities
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error)
	List(ctx context.Context, filters VehicleFilters, offset, limit int) ([]model.Vehicle, int64, error)
	Search(ctx context.Context, term string, limit int) ([]model.Vehicle, error)
	Makes(ctx context.Context) ([]string, error)
	Update(ctx context.Context, vehicle *model.Vehicle) error
	Delete(ctx context.Context, id string) error
	GetHistory(ctx context.Context, vehicleID string, limit int) ([]model.WorkOrder, error)
}

type vehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return GetDB(ctx, r.db).Create(vehicle).Error
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := GetDB(ctx, r.db).Preload("Client").First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := GetDB(ctx, r.db).First(&vehicle, "plate = ?", plate).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) List(ctx context.Context, filters VehicleFilters, offset, limit int) ([]model.Vehicle, int64, error) {
	var vehicles []model.Vehicle
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Vehicle{})
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("plate ILIKE ? OR make ILIKE ? OR model ILIKE ? OR vin ILIKE ?", like, like, like, like)
	}
	if filters.ClientID != "" {
		query = query.Where("client_id = ?", filters.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Client").Order("created_at desc").Offset(offset).Limit(limit).Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}

	return vehicles, total, nil
}

func (r *vehicleRepository) Search(ctx context.Context, term string, limit int) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	like := "%" + term + "%"
	err := GetDB(ctx, r.db).
		Where("plate ILIKE ? OR make ILIKE ? OR model ILIKE ?", like, like, like).
		Limit(limit).
		Find(&vehicles).Error
	return vehicles, err
}

// Makes returns the distinct vehicle makes present in the registry.
func (r *vehicleRepository) Makes(ctx context.Context) ([]string, error) {
	var makes []string
	err := GetDB(ctx, r.db).
		Model(&model.Vehicle{}).
		Distinct("make").
		Order("make").
		Pluck("make", &makes).Error
	return makes, err
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *model.Vehicle) error {
	return GetDB(ctx, r.db).Save(vehicle).Error
}

func (r *vehicleRepository) Delete(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Vehicle{}).Error
}

func (r *vehicleRepository) GetHistory(ctx context.Context, vehicleID string, limit int) ([]model.WorkOrder, error) {
	var orders []model.WorkOrder
	err := GetDB(ctx, r.db).
		Preload("Mechanic").
		Where("vehicle_id = ?", vehicleID).
		Order("received_at desc").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
