package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- Client DTOs ---

type CreateClientRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	IDNumber  string `json:"id_number"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Mobile    string `json:"mobile"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Notes     string `json:"notes"`
}

type UpdateClientRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	IDNumber  *string `json:"id_number"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Mobile    *string `json:"mobile"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	Notes     *string `json:"notes"`
}

type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IDNumber  string    `json:"id_number"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Mobile    string    `json:"mobile"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Interface ---

type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResponse, error)
	GetClientByID(ctx context.Context, id string) (*ClientResponse, error)
	ListClients(ctx context.Context, filters repository.ClientFilters, offset, limit int) ([]ClientResponse, int64, error)
	SearchClients(ctx context.Context, term string) ([]ClientResponse, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (*ClientResponse, error)
	DeleteClient(ctx context.Context, id string) error
	GetClientVehicles(ctx context.Context, id string) ([]model.Vehicle, error)
	GetClientHistory(ctx context.Context, id string, limit int) ([]model.WorkOrder, error)
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func mapClientToResponse(c *model.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		IDNumber:  c.IDNumber,
		Email:     c.Email,
		Phone:     c.Phone,
		Mobile:    c.Mobile,
		Address:   c.Address,
		City:      c.City,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func validateClientEmail(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("invalid email format")
	}
	return nil
}

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	if err := validateClientEmail(req.Email); err != nil {
		return nil, err
	}

	if req.IDNumber != "" {
		if _, err := s.repo.GetByIDNumber(ctx, req.IDNumber); err == nil {
			return nil, errors.New("a client with this id number already exists")
		}
	}

	client := &model.Client{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IDNumber:  req.IDNumber,
		Email:     req.Email,
		Phone:     req.Phone,
		Mobile:    req.Mobile,
		Address:   req.Address,
		City:      req.City,
		Notes:     req.Notes,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}

	resp := mapClientToResponse(client)
	return &resp, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*ClientResponse, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("client not found")
	}
	resp := mapClientToResponse(client)
	return &resp, nil
}

func (s *clientService) ListClients(ctx context.Context, filters repository.ClientFilters, offset, limit int) ([]ClientResponse, int64, error) {
	clients, total, err := s.repo.List(ctx, filters, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, mapClientToResponse(&clients[i]))
	}
	return responses, total, nil
}

func (s *clientService) SearchClients(ctx context.Context, term string) ([]ClientResponse, error) {
	if term == "" {
		return []ClientResponse{}, nil
	}

	clients, err := s.repo.Search(ctx, term, 10)
	if err != nil {
		return nil, err
	}

	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, mapClientToResponse(&clients[i]))
	}
	return responses, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("client not found")
	}

	if req.Email != nil {
		if err := validateClientEmail(*req.Email); err != nil {
			return nil, err
		}
		client.Email = *req.Email
	}
	if req.IDNumber != nil && *req.IDNumber != client.IDNumber {
		if *req.IDNumber != "" {
			if _, err := s.repo.GetByIDNumber(ctx, *req.IDNumber); err == nil {
				return nil, errors.New("a client with this id number already exists")
			}
		}
		client.IDNumber = *req.IDNumber
	}
	if req.FirstName != nil {
		client.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		client.LastName = *req.LastName
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Mobile != nil {
		client.Mobile = *req.Mobile
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.City != nil {
		client.City = *req.City
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}

	resp := mapClientToResponse(client)
	return &resp, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return errors.New("client not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *clientService) GetClientVehicles(ctx context.Context, id string) ([]model.Vehicle, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, errors.New("client not found")
	}
	return s.repo.GetVehicles(ctx, id)
}

func (s *clientService) GetClientHistory(ctx context.Context, id string, limit int) ([]model.WorkOrder, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, errors.New("client not found")
	}
	if limit <= 0 {
		limit = 10
	}
	return s.repo.GetHistory(ctx, id, limit)
}
