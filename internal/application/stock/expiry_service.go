package stock

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
)

// ExpiryWarning is one batch approaching or past its use-by date
type ExpiryWarning struct {
	BinContentID   uuid.UUID          `json:"bin_content_id"`
	BinID          uuid.UUID          `json:"bin_id"`
	WarehouseID    uuid.UUID          `json:"warehouse_id"`
	ProductID      uuid.UUID          `json:"product_id"`
	BatchNumber    string             `json:"batch_number"`
	Quantity       decimal.Decimal    `json:"quantity"`
	UseByDate      time.Time          `json:"use_by_date"`
	DaysUntilUseBy int                `json:"days_until_use_by"`
	Urgency        stock.UrgencyLevel `json:"urgency"`
}

// ExpiryReport lists warnings soonest first with per-level counts
type ExpiryReport struct {
	Items   []ExpiryWarning            `json:"items"`
	Summary map[stock.UrgencyLevel]int `json:"summary"`
}

// WarningQuery narrows an expiry report
type WarningQuery struct {
	WarehouseID *uuid.UUID
	// MinLevel drops everything less urgent than the given level
	MinLevel *stock.UrgencyLevel
}

// ExpiryService classifies stock by how soon it must leave the warehouse
type ExpiryService struct {
	contentRepo stock.BinContentRepository
	thresholds  stock.UrgencyThresholds
	now         func() time.Time
}

// NewExpiryService creates a new ExpiryService
func NewExpiryService(contentRepo stock.BinContentRepository, thresholds stock.UrgencyThresholds) *ExpiryService {
	return &ExpiryService{
		contentRepo: contentRepo,
		thresholds:  thresholds,
		now:         time.Now,
	}
}

// SetClock overrides the wall clock, for tests
func (s *ExpiryService) SetClock(now func() time.Time) {
	s.now = now
}

// Warnings builds an expiry report over all stock still on hand
func (s *ExpiryService) Warnings(ctx context.Context, query WarningQuery) (*ExpiryReport, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 0 // unpaged, reports cover the full ledger
	if query.WarehouseID != nil {
		filter.Filters["warehouse_id"] = *query.WarehouseID
	}
	contents, err := s.contentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	asOf := s.now()
	report := &ExpiryReport{
		Items:   make([]ExpiryWarning, 0, len(contents)),
		Summary: make(map[stock.UrgencyLevel]int),
	}

	for _, c := range contents {
		if c.Status != stock.ContentStatusAvailable || c.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		days := c.DaysUntilUseBy(asOf)
		level := s.thresholds.Classify(days)
		report.Summary[level]++
		if query.MinLevel != nil && level.Severity() < query.MinLevel.Severity() {
			continue
		}
		report.Items = append(report.Items, ExpiryWarning{
			BinContentID:   c.ID,
			BinID:          c.BinID,
			WarehouseID:    c.WarehouseID,
			ProductID:      c.ProductID,
			BatchNumber:    c.BatchNumber,
			Quantity:       c.Quantity,
			UseByDate:      c.UseByDate,
			DaysUntilUseBy: days,
			Urgency:        level,
		})
	}

	sort.Slice(report.Items, func(i, j int) bool {
		if !report.Items[i].UseByDate.Equal(report.Items[j].UseByDate) {
			return report.Items[i].UseByDate.Before(report.Items[j].UseByDate)
		}
		return report.Items[i].BatchNumber < report.Items[j].BatchNumber
	})
	return report, nil
}
