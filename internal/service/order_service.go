package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventPublisher pushes entity-change events to connected dashboard clients.
type EventPublisher interface {
	Publish(event string, payload interface{})
}

// Event names pushed over the websocket hub
const (
	EventOrderCreated       = "order.created"
	EventOrderAssigned      = "order.assigned"
	EventOrderStatusChanged = "order.status_changed"
)

// --- Order DTOs ---

type CreateOrderRequest struct {
	ClientID    string `json:"client_id" binding:"required,uuid"`
	VehicleID   string `json:"vehicle_id" binding:"required,uuid"`
	Description string `json:"description" binding:"required"`
	Diagnosis   string `json:"diagnosis"`
}

type UpdateOrderRequest struct {
	Description *string `json:"description"`
	Diagnosis   *string `json:"diagnosis"`
	Status      *string `json:"status"`
	Total       *string `json:"total"` // decimal string, e.g. "150000.00"
}

type AssignOrderRequest struct {
	MechanicID string `json:"mechanic_id" binding:"required,uuid"`
}

type OrderResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderNumber  string          `json:"order_number"`
	ClientID     uuid.UUID       `json:"client_id"`
	ClientName   string          `json:"client_name,omitempty"`
	VehicleID    uuid.UUID       `json:"vehicle_id"`
	VehiclePlate string          `json:"vehicle_plate,omitempty"`
	MechanicID   *uuid.UUID      `json:"mechanic_id"`
	MechanicName string          `json:"mechanic_name,omitempty"`
	Status       string          `json:"status"`
	Description  string          `json:"description"`
	Diagnosis    string          `json:"diagnosis"`
	Total        decimal.Decimal `json:"total"`
	Invoiced     bool            `json:"invoiced"`
	ReceivedAt   time.Time       `json:"received_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
}

// --- Interface ---

type OrderService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error)
	GetOrderByID(ctx context.Context, id string) (*OrderResponse, error)
	ListOrders(ctx context.Context, filters repository.OrderFilters, offset, limit int) ([]OrderResponse, int64, error)
	UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (*OrderResponse, error)
	AssignMechanic(ctx context.Context, actor *model.User, orderID string, req AssignOrderRequest) (*OrderResponse, error)
	DeleteOrder(ctx context.Context, id string) error
}

type orderService struct {
	repo     repository.OrderRepository
	clients  repository.ClientRepository
	vehicles repository.VehicleRepository
	users    repository.UserRepository
	audit    repository.AuditRepository
	events   EventPublisher
}

func NewOrderService(
	repo repository.OrderRepository,
	clients repository.ClientRepository,
	vehicles repository.VehicleRepository,
	users repository.UserRepository,
	audit repository.AuditRepository,
	events EventPublisher,
) OrderService {
	return &orderService{
		repo:     repo,
		clients:  clients,
		vehicles: vehicles,
		users:    users,
		audit:    audit,
		events:   events,
	}
}

// validTransitions encodes the work order lifecycle. Delivered and cancelled
// are terminal.
var validTransitions = map[string][]string{
	model.OrderStatusReceived:   {model.OrderStatusInProgress, model.OrderStatusCancelled},
	model.OrderStatusInProgress: {model.OrderStatusCompleted, model.OrderStatusCancelled},
	model.OrderStatusCompleted:  {model.OrderStatusDelivered},
	model.OrderStatusDelivered:  {},
	model.OrderStatusCancelled:  {},
}

func canTransition(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func mapOrderToResponse(o *model.WorkOrder) OrderResponse {
	resp := OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		ClientID:    o.ClientID,
		VehicleID:   o.VehicleID,
		MechanicID:  o.MechanicID,
		Status:      o.Status,
		Description: o.Description,
		Diagnosis:   o.Diagnosis,
		Total:       o.Total,
		Invoiced:    o.Invoiced,
		ReceivedAt:  o.ReceivedAt,
		CompletedAt: o.CompletedAt,
	}
	if o.Client != nil {
		resp.ClientName = o.Client.FirstName + " " + o.Client.LastName
	}
	if o.Vehicle != nil {
		resp.VehiclePlate = o.Vehicle.Plate
	}
	if o.Mechanic != nil {
		resp.MechanicName = o.Mechanic.Name
	}
	return resp
}

func (s *orderService) publish(event string, order *model.WorkOrder) {
	if s.events == nil {
		return
	}
	s.events.Publish(event, map[string]interface{}{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"status":       order.Status,
	})
}

func (s *orderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if _, err := s.clients.GetByID(ctx, req.ClientID); err != nil {
		return nil, errors.New("client not found")
	}

	vehicle, err := s.vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, errors.New("vehicle not found")
	}
	if vehicle.ClientID.String() != req.ClientID {
		return nil, errors.New("vehicle does not belong to the given client")
	}

	orderNumber, err := s.repo.NextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	order := &model.WorkOrder{
		OrderNumber: orderNumber,
		ClientID:    vehicle.ClientID,
		VehicleID:   vehicle.ID,
		Status:      model.OrderStatusReceived,
		Description: req.Description,
		Diagnosis:   req.Diagnosis,
		Total:       decimal.Zero,
		ReceivedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(EventOrderCreated, order)

	resp := mapOrderToResponse(order)
	return &resp, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id string) (*OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("order not found")
	}
	resp := mapOrderToResponse(order)
	return &resp, nil
}

func (s *orderService) ListOrders(ctx context.Context, filters repository.OrderFilters, offset, limit int) ([]OrderResponse, int64, error) {
	orders, total, err := s.repo.List(ctx, filters, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, mapOrderToResponse(&orders[i]))
	}
	return responses, total, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("order not found")
	}

	statusChanged := false
	if req.Status != nil && *req.Status != order.Status {
		if !model.ValidOrderStatus(*req.Status) {
			return nil, errors.New("invalid status")
		}
		if !canTransition(order.Status, *req.Status) {
			return nil, fmt.Errorf("cannot change status from %s to %s", order.Status, *req.Status)
		}
		order.Status = *req.Status
		statusChanged = true

		if order.Status == model.OrderStatusCompleted {
			now := time.Now()
			order.CompletedAt = &now
		}
	}

	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.Diagnosis != nil {
		order.Diagnosis = *req.Diagnosis
	}
	if req.Total != nil {
		total, err := decimal.NewFromString(*req.Total)
		if err != nil || total.IsNegative() {
			return nil, errors.New("invalid total")
		}
		order.Total = total
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	if statusChanged {
		s.publish(EventOrderStatusChanged, order)
	}

	resp := mapOrderToResponse(order)
	return &resp, nil
}

// AssignMechanic sets the responsible mechanic. The target user must hold the
// mechanic role and be active.
func (s *orderService) AssignMechanic(ctx context.Context, actor *model.User, orderID string, req AssignOrderRequest) (*OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.New("order not found")
	}

	if order.Status == model.OrderStatusDelivered || order.Status == model.OrderStatusCancelled {
		return nil, errors.New("cannot assign a mechanic to a closed order")
	}

	mechanic, err := s.users.GetByID(ctx, req.MechanicID)
	if err != nil {
		return nil, errors.New("mechanic not found")
	}
	if mechanic.Role != model.RoleMechanic {
		return nil, errors.New("assignee must hold the mechanic role")
	}
	if mechanic.Status != model.UserStatusActive {
		return nil, errors.New("assignee is inactive")
	}

	order.MechanicID = &mechanic.ID
	order.Mechanic = mechanic

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	if actor != nil {
		recordAudit(ctx, s.audit, &actor.ID, model.ActionAssignOrder, order.ID.String(), order.OrderNumber)
	}
	s.publish(EventOrderAssigned, order)

	resp := mapOrderToResponse(order)
	return &resp, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.New("order not found")
	}
	if order.Invoiced {
		return errors.New("cannot delete an invoiced order")
	}
	return s.repo.Delete(ctx, id)
}
