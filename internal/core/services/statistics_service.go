package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/scolaris/school_fees_app/internal/middleware"
)

// StatisticsService exposes the reporting aggregates of the ledger.
type StatisticsService struct {
	statisticsRepo portsrepo.StatisticsRepository
}

// NewStatisticsService creates a new statistics service.
func NewStatisticsService(statisticsRepo portsrepo.StatisticsRepository) *StatisticsService {
	return &StatisticsService{statisticsRepo: statisticsRepo}
}

// Ensure StatisticsService implements portssvc.StatisticsSvcFacade
var _ portssvc.StatisticsSvcFacade = (*StatisticsService)(nil)

func (s *StatisticsService) CollectedTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.statisticsRepo.CollectedTotal(ctx, from, to)
}

func (s *StatisticsService) ByPaymentMode(ctx context.Context, from, to time.Time) ([]domain.ModeBreakdownRow, error) {
	return s.statisticsRepo.ByPaymentMode(ctx, from, to)
}

func (s *StatisticsService) PendingTotal(ctx context.Context) (domain.PendingTotals, error) {
	return s.statisticsRepo.PendingTotals(ctx)
}

func (s *StatisticsService) DailySeries(ctx context.Context, from, to time.Time) ([]domain.DailyCollectionPoint, error) {
	return s.statisticsRepo.DailySeries(ctx, from, to)
}

func (s *StatisticsService) InvoicingTotals(ctx context.Context) (domain.InvoicingTotals, error) {
	return s.statisticsRepo.InvoicingTotals(ctx, time.Now())
}

// Summary bundles all ledger statistics for one date range. Aggregates are
// read without a shared snapshot; slight staleness between them is accepted.
func (s *StatisticsService) Summary(ctx context.Context, from, to time.Time) (*dto.StatisticsSummaryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	collected, err := s.statisticsRepo.CollectedTotal(ctx, from, to)
	if err != nil {
		logger.Error("Failed to compute collected total", slog.String("error", err.Error()))
		return nil, err
	}
	byMode, err := s.statisticsRepo.ByPaymentMode(ctx, from, to)
	if err != nil {
		logger.Error("Failed to compute mode breakdown", slog.String("error", err.Error()))
		return nil, err
	}
	pending, err := s.statisticsRepo.PendingTotals(ctx)
	if err != nil {
		logger.Error("Failed to compute pending totals", slog.String("error", err.Error()))
		return nil, err
	}
	daily, err := s.statisticsRepo.DailySeries(ctx, from, to)
	if err != nil {
		logger.Error("Failed to compute daily series", slog.String("error", err.Error()))
		return nil, err
	}
	invoicing, err := s.statisticsRepo.InvoicingTotals(ctx, time.Now())
	if err != nil {
		logger.Error("Failed to compute invoicing totals", slog.String("error", err.Error()))
		return nil, err
	}

	return &dto.StatisticsSummaryResponse{
		From:           from,
		To:             to,
		CollectedTotal: collected,
		ByMode:         byMode,
		Pending:        pending,
		DailySeries:    daily,
		Invoicing:      invoicing,
	}, nil
}
