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

const EventInvoiceCancelled = "invoice.cancelled"

// --- Invoice DTOs ---

type CreateInvoiceRequest struct {
	OrderID string `json:"order_id" binding:"required,uuid"`
}

type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number,omitempty"`
	ClientID      uuid.UUID       `json:"client_id"`
	ClientName    string          `json:"client_name,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	IssuedAt      time.Time       `json:"issued_at"`
	CancelledAt   *time.Time      `json:"cancelled_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error)
	GetInvoiceByID(ctx context.Context, id string) (*InvoiceResponse, error)
	ListInvoices(ctx context.Context, filters repository.InvoiceFilters, offset, limit int) ([]InvoiceResponse, int64, error)
	CancelInvoice(ctx context.Context, actor *model.User, id string) (*InvoiceResponse, error)
	MarkPaid(ctx context.Context, id string) (*InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
}

type invoiceService struct {
	repo      repository.InvoiceRepository
	orders    repository.OrderRepository
	settings  repository.SettingRepository
	audit     repository.AuditRepository
	txManager repository.TransactionManager
	events    EventPublisher
}

func NewInvoiceService(
	repo repository.InvoiceRepository,
	orders repository.OrderRepository,
	settings repository.SettingRepository,
	audit repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) InvoiceService {
	return &invoiceService{
		repo:      repo,
		orders:    orders,
		settings:  settings,
		audit:     audit,
		txManager: txManager,
		events:    events,
	}
}

func mapInvoiceToResponse(inv *model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		OrderID:       inv.OrderID,
		ClientID:      inv.ClientID,
		Subtotal:      inv.Subtotal,
		TaxRate:       inv.TaxRate,
		TaxAmount:     inv.TaxAmount,
		Total:         inv.Total,
		Status:        inv.Status,
		IssuedAt:      inv.IssuedAt,
		CancelledAt:   inv.CancelledAt,
	}
	if inv.Order != nil {
		resp.OrderNumber = inv.Order.OrderNumber
	}
	if inv.Client != nil {
		resp.ClientName = inv.Client.FirstName + " " + inv.Client.LastName
	}
	return resp
}

// taxRate reads the configured percentage, falling back to 19 when unset.
func (s *invoiceService) taxRate(ctx context.Context) decimal.Decimal {
	fallback := decimal.NewFromInt(19)
	setting, err := s.settings.GetByKey(ctx, "tax_rate")
	if err != nil {
		return fallback
	}
	rate, err := decimal.NewFromString(setting.Value)
	if err != nil || rate.IsNegative() {
		return fallback
	}
	return rate
}

// CreateInvoice issues an invoice for a completed work order. Marking the
// order invoiced and inserting the invoice happen in one transaction.
func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	order, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, errors.New("order not found")
	}

	if order.Status != model.OrderStatusCompleted && order.Status != model.OrderStatusDelivered {
		return nil, errors.New("only completed orders can be invoiced")
	}
	if order.Invoiced {
		return nil, errors.New("order is already invoiced")
	}
	if order.Total.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("order total must be set before invoicing")
	}

	rate := s.taxRate(ctx)
	subtotal := order.Total
	taxAmount := subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(taxAmount)

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := s.repo.NextInvoiceNumber(txCtx)
		if err != nil {
			return fmt.Errorf("failed to generate invoice number: %w", err)
		}

		invoice = &model.Invoice{
			InvoiceNumber: number,
			OrderID:       order.ID,
			ClientID:      order.ClientID,
			Subtotal:      subtotal,
			TaxRate:       rate,
			TaxAmount:     taxAmount,
			Total:         total,
			Status:        model.InvoiceStatusIssued,
			IssuedAt:      time.Now(),
		}
		if err := s.repo.Create(txCtx, invoice); err != nil {
			return err
		}

		order.Invoiced = true
		return s.orders.Update(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	resp := mapInvoiceToResponse(invoice)
	return &resp, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, id string) (*InvoiceResponse, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("invoice not found")
	}
	resp := mapInvoiceToResponse(invoice)
	return &resp, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filters repository.InvoiceFilters, offset, limit int) ([]InvoiceResponse, int64, error) {
	invoices, total, err := s.repo.List(ctx, filters, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, mapInvoiceToResponse(&invoices[i]))
	}
	return responses, total, nil
}

// CancelInvoice voids an issued invoice and reopens its order for invoicing.
func (s *invoiceService) CancelInvoice(ctx context.Context, actor *model.User, id string) (*InvoiceResponse, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("invoice not found")
	}

	if invoice.Status == model.InvoiceStatusCancelled {
		return nil, errors.New("invoice is already cancelled")
	}
	if invoice.Status == model.InvoiceStatusPaid {
		return nil, errors.New("cannot cancel a paid invoice")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		now := time.Now()
		invoice.Status = model.InvoiceStatusCancelled
		invoice.CancelledAt = &now
		if err := s.repo.Update(txCtx, invoice); err != nil {
			return err
		}

		order, err := s.orders.GetByID(txCtx, invoice.OrderID.String())
		if err != nil {
			return err
		}
		order.Invoiced = false
		return s.orders.Update(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	if actor != nil {
		recordAudit(ctx, s.audit, &actor.ID, model.ActionCancelInvoice, invoice.ID.String(), invoice.InvoiceNumber)
	}
	if s.events != nil {
		s.events.Publish(EventInvoiceCancelled, map[string]interface{}{
			"invoice_id":     invoice.ID.String(),
			"invoice_number": invoice.InvoiceNumber,
		})
	}

	resp := mapInvoiceToResponse(invoice)
	return &resp, nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, id string) (*InvoiceResponse, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("invoice not found")
	}

	if invoice.Status != model.InvoiceStatusIssued {
		return nil, errors.New("only issued invoices can be marked paid")
	}

	invoice.Status = model.InvoiceStatusPaid
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	resp := mapInvoiceToResponse(invoice)
	return &resp, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.New("invoice not found")
	}
	if invoice.Status != model.InvoiceStatusCancelled {
		return errors.New("only cancelled invoices can be deleted")
	}
	return s.repo.Delete(ctx, id)
}
