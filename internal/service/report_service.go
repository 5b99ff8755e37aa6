package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

type ReportSummary struct {
	StartDate      time.Time                `json:"start_date"`
	EndDate        time.Time                `json:"end_date"`
	OrdersByStatus []repository.StatusCount `json:"orders_by_status"`
	TotalOrders    int64                    `json:"total_orders"`
	Revenue        decimal.Decimal          `json:"revenue"`
	InvoiceCount   int64                    `json:"invoice_count"`
	ClientCount    int64                    `json:"client_count"`
	VehicleCount   int64                    `json:"vehicle_count"`
}

type ReportService interface {
	GetSummary(ctx context.Context, start, end time.Time) (*ReportSummary, error)
	ExportCSV(ctx context.Context, start, end time.Time) ([]byte, error)
}

type reportService struct {
	repo repository.ReportRepository
}

func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) GetSummary(ctx context.Context, start, end time.Time) (*ReportSummary, error) {
	summary := &ReportSummary{StartDate: start, EndDate: end}

	counts, err := s.repo.OrdersByStatus(ctx, start, end)
	if err != nil {
		return nil, err
	}
	summary.OrdersByStatus = counts
	for _, c := range counts {
		summary.TotalOrders += c.Count
	}

	revenue, invoiceCount, err := s.repo.Revenue(ctx, start, end)
	if err != nil {
		return nil, err
	}
	summary.Revenue = revenue
	summary.InvoiceCount = invoiceCount

	if summary.ClientCount, err = s.repo.ClientCount(ctx); err != nil {
		return nil, err
	}
	if summary.VehicleCount, err = s.repo.VehicleCount(ctx); err != nil {
		return nil, err
	}

	return summary, nil
}

// ExportCSV renders the summary as a flat metric,value CSV document.
func (s *reportService) ExportCSV(ctx context.Context, start, end time.Time) ([]byte, error) {
	summary, err := s.GetSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"metric", "value"},
		{"start_date", start.Format("2006-01-02")},
		{"end_date", end.Format("2006-01-02")},
		{"total_orders", fmt.Sprintf("%d", summary.TotalOrders)},
		{"revenue", summary.Revenue.StringFixed(2)},
		{"invoice_count", fmt.Sprintf("%d", summary.InvoiceCount)},
		{"client_count", fmt.Sprintf("%d", summary.ClientCount)},
		{"vehicle_count", fmt.Sprintf("%d", summary.VehicleCount)},
	}
	for _, c := range summary.OrdersByStatus {
		records = append(records, []string{"orders_" + c.Status, fmt.Sprintf("%d", c.Count)})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), nil
}
