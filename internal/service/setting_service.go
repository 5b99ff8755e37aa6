package service

import (
	"context"
	"errors"
	"strconv"

	"backend/internal/model"
	"backend/internal/repository"
)

type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

type SettingResponse struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
	ValueType   string `json:"value_type"`
}

type SettingService interface {
	ListSettings(ctx context.Context) ([]SettingResponse, error)
	UpdateSetting(ctx context.Context, key string, req UpdateSettingRequest) (*SettingResponse, error)
}

type settingService struct {
	repo repository.SettingRepository
}

func NewSettingService(repo repository.SettingRepository) SettingService {
	return &settingService{repo: repo}
}

func mapSettingToResponse(s *model.Setting) SettingResponse {
	return SettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		ValueType:   s.ValueType,
	}
}

func (s *settingService) ListSettings(ctx context.Context) ([]SettingResponse, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]SettingResponse, 0, len(settings))
	for i := range settings {
		responses = append(responses, mapSettingToResponse(&settings[i]))
	}
	return responses, nil
}

// UpdateSetting changes the value of an existing key. New keys cannot be
// created through the API; the set of keys is fixed at seed time.
func (s *settingService) UpdateSetting(ctx context.Context, key string, req UpdateSettingRequest) (*SettingResponse, error) {
	setting, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, errors.New("setting not found")
	}

	if setting.ValueType == "number" {
		if _, err := strconv.ParseFloat(req.Value, 64); err != nil {
			return nil, errors.New("value must be numeric")
		}
	}

	setting.Value = req.Value
	if err := s.repo.Update(ctx, setting); err != nil {
		return nil, err
	}

	resp := mapSettingToResponse(setting)
	return &resp, nil
}
