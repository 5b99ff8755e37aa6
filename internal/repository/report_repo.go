package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatusCount pairs a work order status with its row count
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ReportRepository aggregates workshop activity for the reports endpoints
type ReportRepository interface {
	OrdersByStatus(ctx context.Context, start, end time.Time) ([]StatusCount, error)
	Revenue(ctx context.Context, start, end time.Time) (decimal.Decimal, int64, error)
	ClientCount(ctx context.Context) (int64, error)
	VehicleCount(ctx context.Context) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) OrdersByStatus(ctx context.Context, start, end time.Time) ([]StatusCount, error) {
	var counts []StatusCount
	err := GetDB(ctx, r.db).
		Model(&model.WorkOrder{}).
		Select("status, COUNT(*) as count").
		Where("received_at >= ? AND received_at <= ?", start, end).
		Group("status").
		Order("status").
		Scan(&counts).Error
	return counts, err
}

// Revenue sums non-cancelled invoice totals in the window and returns the
// matching invoice count.
func (r *reportRepository) Revenue(ctx context.Context, start, end time.Time) (decimal.Decimal, int64, error) {
	var result struct {
		Total string
		Count int64
	}
	err := GetDB(ctx, r.db).
		Model(&model.Invoice{}).
		Select("COALESCE(CAST(SUM(total) AS TEXT), '0') as total, COUNT(*) as count").
		Where("status <> ? AND issued_at >= ? AND issued_at <= ?", model.InvoiceStatusCancelled, start, end).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, 0, err
	}

	total, err := decimal.NewFromString(result.Total)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return total, result.Count, nil
}

func (r *reportRepository) ClientCount(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Client{}).Count(&total).Error
	return total, err
}

func (r *reportRepository) VehicleCount(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Vehicle{}).Count(&total).Error
	return total, err
}
