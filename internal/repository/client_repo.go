package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// ClientFilters narrows List queries; zero values mean "no filter".
type ClientFilters struct {
	Search string // matches first/last name, id number, or email
	City   string
}

// ClientRepository defines the interface for data access of Client entities
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, id string) (*model.Client, error)
	GetByIDNumber(ctx context.Context, idNumber string) (*model.Client, error)
	List(ctx context.Context, filters ClientFilters, offset, limit int) ([]model.Client, int64, error)
	Search(ctx context.Context, term string, limit int) ([]model.Client, error)
	Update(ctx context.Context, client *model.Client) error
	Delete(ctx context.Context, id string) error
	GetVehicles(ctx context.Context, clientID string) ([]model.Vehicle, error)
	GetHistory(ctx context.Context, clientID string, limit int) ([]model.WorkOrder, error)
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	return GetDB(ctx, r.db).Create(client).Error
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*model.Client, error) {
	var client model.Client
	if err := GetDB(ctx, r.db).First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) GetByIDNumber(ctx context.Context, idNumber string) (*model.Client, error) {
	var client model.Client
	if err := GetDB(ctx, r.db).First(&client, "id_number = ?", idNumber).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, filters ClientFilters, offset, limit int) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Client{})
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR id_number ILIKE ? OR email ILIKE ?", like, like, like, like)
	}
	if filters.City != "" {
		query = query.Where("city = ?", filters.City)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

// Search is the lightweight autocomplete lookup used by the frontend.
func (r *clientRepository) Search(ctx context.Context, term string, limit int) ([]model.Client, error) {
	var clients []model.Client
	like := "%" + term + "%"
	err := GetDB(ctx, r.db).
		Where("first_name ILIKE ? OR last_name ILIKE ? OR id_number ILIKE ?", like, like, like).
		Limit(limit).
		Find(&clients).Error
	return clients, err
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	return GetDB(ctx, r.db).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Client{}).Error
}

func (r *clientRepository) GetVehicles(ctx context.Context, clientID string) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := GetDB(ctx, r.db).
		Where("client_id = ?", clientID).
		Order("created_at desc").
		Find(&vehicles).Error
	return vehicles, err
}

func (r *clientRepository) GetHistory(ctx context.Context, clientID string, limit int) ([]model.WorkOrder, error) {
	var orders []model.WorkOrder
	err := GetDB(ctx, r.db).
		Preload("Vehicle").
		Where("client_id = ?", clientID).
		Order("received_at desc").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
