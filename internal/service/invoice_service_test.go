package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
	seq      int
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (r *stubInvoiceRepo) Create(_ context.Context, invoice *model.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *stubInvoiceRepo) GetByID(_ context.Context, id string) (*model.Invoice, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("record not found")
	}
	invoice, ok := r.invoices[parsed]
	if !ok {
		return nil, errors.New("record not found")
	}
	return invoice, nil
}

func (r *stubInvoiceRepo) List(_ context.Context, _ repository.InvoiceFilters, _, _ int) ([]model.Invoice, int64, error) {
	out := make([]model.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, invoice *model.Invoice) error {
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *stubInvoiceRepo) Delete(_ context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return errors.New("record not found")
	}
	delete(r.invoices, parsed)
	return nil
}

func (r *stubInvoiceRepo) NextInvoiceNumber(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("FAC-2026-%04d", r.seq), nil
}

type stubSettingRepo struct {
	settings map[string]*model.Setting
}

func (r *stubSettingRepo) List(_ context.Context) ([]model.Setting, error) {
	out := make([]model.Setting, 0, len(r.settings))
	for _, s := range r.settings {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSettingRepo) GetByKey(_ context.Context, key string) (*model.Setting, error) {
	s, ok := r.settings[key]
	if !ok {
		return nil, errors.New("record not found")
	}
	return s, nil
}

func (r *stubSettingRepo) Update(_ context.Context, setting *model.Setting) error {
	r.settings[setting.Key] = setting
	return nil
}

// stubTxManager runs the callback directly; there is no real transaction.
type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type invoiceFixture struct {
	svc      InvoiceService
	invoices *stubInvoiceRepo
	orders   *stubOrderRepo
	audit    *stubAuditRepo
	events   *stubPublisher
	order    *model.WorkOrder
}

func newInvoiceFixture(t *testing.T, taxRate string) *invoiceFixture {
	t.Helper()

	order := &model.WorkOrder{
		ID:          uuid.New(),
		OrderNumber: "ORD-2026-0001",
		ClientID:    uuid.New(),
		VehicleID:   uuid.New(),
		Status:      model.OrderStatusCompleted,
		Total:       decimal.RequireFromString("100000"),
		ReceivedAt:  time.Now(),
	}

	settings := &stubSettingRepo{settings: map[string]*model.Setting{}}
	if taxRate != "" {
		settings.settings["tax_rate"] = &model.Setting{Key: "tax_rate", Value: taxRate, ValueType: "number"}
	}

	invoices := newStubInvoiceRepo()
	orders := newStubOrderRepo(order)
	audit := &stubAuditRepo{}
	events := &stubPublisher{}

	svc := NewInvoiceService(invoices, orders, settings, audit, stubTxManager{}, events)

	return &invoiceFixture{
		svc:      svc,
		invoices: invoices,
		orders:   orders,
		audit:    audit,
		events:   events,
		order:    order,
	}
}

func TestCreateInvoiceComputesTax(t *testing.T) {
	f := newInvoiceFixture(t, "19")

	invoice, err := f.svc.CreateInvoice(context.Background(), CreateInvoiceRequest{OrderID: f.order.ID.String()})
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	if invoice.InvoiceNumber == "" {
		t.Error("invoice number not assigned")
	}
	if !invoice.Subtotal.Equal(decimal.RequireFromString("100000")) {
		t.Errorf("subtotal = %s, want 100000", invoice.Subtotal)
	}
	if !invoice.TaxAmount.Equal(decimal.RequireFromString("19000")) {
		t.Errorf("tax amount = %s, want 19000", invoice.TaxAmount)
	}
	if !invoice.Total.Equal(decimal.RequireFromString("119000")) {
		t.Errorf("total = %s, want 119000", invoice.Total)
	}
	if invoice.Status != model.InvoiceStatusIssued {
		t.Errorf("status = %s, want issued", invoice.Status)
	}
	if !f.order.Invoiced {
		t.Error("order not marked invoiced")
	}
}

func TestCreateInvoiceFallsBackToDefaultTaxRate(t *testing.T) {
	f := newInvoiceFixture(t, "")

	invoice, err := f.svc.CreateInvoice(context.Background(), CreateInvoiceRequest{OrderID: f.order.ID.String()})
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	if !invoice.TaxRate.Equal(decimal.NewFromInt(19)) {
		t.Errorf("tax rate = %s, want 19", invoice.TaxRate)
	}
}

func TestCreateInvoiceGuards(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *invoiceFixture)
	}{
		{"order not completed", func(f *invoiceFixture) { f.order.Status = model.OrderStatusInProgress }},
		{"order cancelled", func(f *invoiceFixture) { f.order.Status = model.OrderStatusCancelled }},
		{"already invoiced", func(f *invoiceFixture) { f.order.Invoiced = true }},
		{"zero total", func(f *invoiceFixture) { f.order.Total = decimal.Zero }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInvoiceFixture(t, "19")
			tt.setup(f)
			if _, err := f.svc.CreateInvoice(context.Background(), CreateInvoiceRequest{OrderID: f.order.ID.String()}); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestCancelInvoiceReopensOrder(t *testing.T) {
	f := newInvoiceFixture(t, "19")
	actor := testUser(t, "admin@taller.com", "secret123", model.RoleAdmin, model.UserStatusActive)

	created, err := f.svc.CreateInvoice(context.Background(), CreateInvoiceRequest{OrderID: f.order.ID.String()})
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	cancelled, err := f.svc.CancelInvoice(context.Background(), actor, created.ID.String())
	if err != nil {
		t.Fatalf("CancelInvoice failed: %v", err)
	}
	if cancelled.Status != model.InvoiceStatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Error("CancelledAt not set")
	}
	if f.order.Invoiced {
		t.Error("order still marked invoiced after cancellation")
	}

	found := false
	for _, action := range f.audit.actions() {
		if action == model.ActionCancelInvoice {
			found = true
		}
	}
	if !found {
		t.Error("cancellation was not audited")
	}

	// Cancelling twice is rejected
	if _, err := f.svc.CancelInvoice(context.Background(), actor, created.ID.String()); err == nil {
		t.Error("double cancel succeeded, want error")
	}
}

func TestCancelInvoiceRejectsPaid(t *testing.T) {
	f := newInvoiceFixture(t, "19")
	actor := testUser(t, "admin@taller.com", "secret123", model.RoleAdmin, model.UserStatusActive)

	created, err := f.svc.CreateInvoice(context.Background(), CreateInvoiceRequest{OrderID: f.order.ID.String()})
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	if _, err := f.svc.MarkPaid(context.Background(), created.ID.String()); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	if _, err := f.svc.CancelInvoice(context.Background(), actor, created.ID.String()); err == nil {
		t.Error("cancelling a paid invoice succeeded, want error")
	}
}

func TestDeleteInvoiceOnlyCancelled(t *testing.T) {
	f := newInvoiceFixture(t, "19")
	actor := testUser(t, "admin@taller.com", "secret123", model.RoleAdmin, model.UserStatusActive)

	created, err := f.svc.CreateInvoice(context.Background(), CreateInvoiceRequest{OrderID: f.order.ID.String()})
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	if err := f.svc.DeleteInvoice(context.Background(), created.ID.String()); err == nil {
		t.Error("deleting an issued invoice succeeded, want error")
	}

	if _, err := f.svc.CancelInvoice(context.Background(), actor, created.ID.String()); err != nil {
		t.Fatalf("CancelInvoice failed: %v", err)
	}
	if err := f.svc.DeleteInvoice(context.Background(), created.ID.String()); err != nil {
		t.Errorf("deleting a cancelled invoice failed: %v", err)
	}
}
