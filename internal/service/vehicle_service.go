package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- Vehicle DTOs ---

type CreateVehicleRequest struct {
	ClientID    string `json:"client_id" binding:"required,uuid"`
	Make        string `json:"make" binding:"required"`
	Model       string `json:"model" binding:"required"`
	Year        int    `json:"year" binding:"required"`
	Plate       string `json:"plate" binding:"required"`
	VIN         string `json:"vin"`
	Color       string `json:"color"`
	Mileage     int    `json:"mileage"`
	VehicleType string `json:"vehicle_type"`
}

type UpdateVehicleRequest struct {
	Make        *string `json:"make"`
	Model       *string `json:"model"`
	Year        *int    `json:"year"`
	Plate       *string `json:"plate"`
	VIN         *string `json:"vin"`
	Color       *string `json:"color"`
	Mileage     *int    `json:"mileage"`
	VehicleType *string `json:"vehicle_type"`
}

type VehicleResponse struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	ClientName  string    `json:"client_name,omitempty"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	Plate       string    `json:"plate"`
	VIN         string    `json:"vin"`
	Color       string    `json:"color"`
	Mileage     int       `json:"mileage"`
	VehicleType string    `json:"vehicle_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Interface ---

type VehicleService interface {
	CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*VehicleResponse, error)
	GetVehicleByID(ctx context.Context, id string) (*VehicleResponse, error)
	ListVehicles(ctx context.Context, filters repository.VehicleFilters, offset, limit int) ([]VehicleResponse, int64, error)
	SearchVehicles(ctx context.Context, term string) ([]VehicleResponse, error)
	GetMakes(ctx context.Context) ([]string, error)
	UpdateVehicle(ctx context.Context, id string, req UpdateVehicleRequest) (*VehicleResponse, error)
	DeleteVehicle(ctx context.Context, id string) error
	GetVehicleHistory(ctx context.Context, id string, limit int) ([]model.WorkOrder, error)
}

type vehicleService struct {
	repo    repository.VehicleRepository
	clients repository.ClientRepository
}

func NewVehicleService(repo repository.VehicleRepository, clients repository.ClientRepository) VehicleService {
	return &vehicleService{repo: repo, clients: clients}
}

func mapVehicleToResponse(v *model.Vehicle) VehicleResponse {
	resp := VehicleResponse{
		ID:          v.ID,
		ClientID:    v.ClientID,
		Make:        v.Make,
		Model:       v.Model,
		Year:        v.Year,
		Plate:       v.Plate,
		VIN:         v.VIN,
		Color:       v.Color,
		Mileage:     v.Mileage,
		VehicleType: v.VehicleType,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if v.Client != nil {
		resp.ClientName = v.Client.FirstName + " " + v.Client.LastName
	}
	return resp
}

// normalizePlate upcases and trims so lookups match regardless of input casing.
func normalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func (s *vehicleService) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*VehicleResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, errors.New("invalid client_id")
	}
	if _, err := s.clients.GetByID(ctx, clientID.String()); err != nil {
		return nil, errors.New("client not found")
	}

	plate := normalizePlate(req.Plate)
	if _, err := s.repo.GetByPlate(ctx, plate); err == nil {
		return nil, errors.New("a vehicle with this plate already exists")
	}

	currentYear := time.Now().Year()
	if req.Year < 1900 || req.Year > currentYear+1 {
		return nil, errors.New("invalid year")
	}

	vehicleType := req.VehicleType
	if vehicleType == "" {
		vehicleType = model.VehicleTypeCar
	}

	vehicle := &model.Vehicle{
		ClientID:    clientID,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		Plate:       plate,
		VIN:         strings.ToUpper(strings.TrimSpace(req.VIN)),
		Color:       req.Color,
		Mileage:     req.Mileage,
		VehicleType: vehicleType,
	}

	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	resp := mapVehicleToResponse(vehicle)
	return &resp, nil
}

func (s *vehicleService) GetVehicleByID(ctx context.Context, id string) (*VehicleResponse, error) {
	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("vehicle not found")
	}
	resp := mapVehicleToResponse(vehicle)
	return &resp, nil
}

func (s *vehicleService) ListVehicles(ctx context.Context, filters repository.VehicleFilters, offset, limit int) ([]VehicleResponse, int64, error) {
	vehicles, total, err := s.repo.List(ctx, filters, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		responses = append(responses, mapVehicleToResponse(&vehicles[i]))
	}
	return responses, total, nil
}

func (s *vehicleService) SearchVehicles(ctx context.Context, term string) ([]VehicleResponse, error) {
	if term == "" {
		return []VehicleResponse{}, nil
	}

	vehicles, err := s.repo.Search(ctx, term, 10)
	if err != nil {
		return nil, err
	}

	responses := make([]VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		responses = append(responses, mapVehicleToResponse(&vehicles[i]))
	}
	return responses, nil
}

func (s *vehicleService) GetMakes(ctx context.Context) ([]string, error) {
	return s.repo.Makes(ctx)
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, id string, req UpdateVehicleRequest) (*VehicleResponse, error) {
	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("vehicle not found")
	}

	if req.Plate != nil {
		plate := normalizePlate(*req.Plate)
		if plate != vehicle.Plate {
			if _, err := s.repo.GetByPlate(ctx, plate); err == nil {
				return nil, errors.New("a vehicle with this plate already exists")
			}
			vehicle.Plate = plate
		}
	}
	if req.Year != nil {
		currentYear := time.Now().Year()
		if *req.Year < 1900 || *req.Year > currentYear+1 {
			return nil, errors.New("invalid year")
		}
		vehicle.Year = *req.Year
	}
	if req.Make != nil {
		vehicle.Make = *req.Make
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.VIN != nil {
		vehicle.VIN = strings.ToUpper(strings.TrimSpace(*req.VIN))
	}
	if req.Color != nil {
		vehicle.Color = *req.Color
	}
	if req.Mileage != nil {
		vehicle.Mileage = *req.Mileage
	}
	if req.VehicleType != nil {
		vehicle.VehicleType = *req.VehicleType
	}

	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	resp := mapVehicleToResponse(vehicle)
	return &resp, nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return errors.New("vehicle not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *vehicleService) GetVehicleHistory(ctx context.Context, id string, limit int) ([]model.WorkOrder, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, errors.New("vehicle not found")
	}
	if limit <= 0 {
		limit = 10
	}
	return s.repo.GetHistory(ctx, id, limit)
}
