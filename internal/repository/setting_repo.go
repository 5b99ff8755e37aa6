package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// SettingRepository defines the interface for data access of Setting rows
type SettingRepository interface {
	List(ctx context.Context) ([]model.Setting, error)
	GetByKey(ctx context.Context, key string) (*model.Setting, error)
	Update(ctx context.Context, setting *model.Setting) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) List(ctx context.Context) ([]model.Setting, error) {
	var settings []model.Setting
	err := GetDB(ctx, r.db).Order("key").Find(&settings).Error
	return settings, err
}

func (r *settingRepository) GetByKey(ctx context.Context, key string) (*model.Setting, error) {
	var setting model.Setting
	if err := GetDB(ctx, r.db).First(&setting, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) Update(ctx context.Context, setting *model.Setting) error {
	return GetDB(ctx, r.db).Save(setting).Error
}
