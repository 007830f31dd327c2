package service

import (
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/util"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DashboardService handles dashboard-related business logic
type DashboardService struct {
	userRepo        domain.UserRepository
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	userRepo domain.UserRepository,
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// reference loads the user and expresses now in their timezone
func (s *DashboardService) reference(userID uuid.UUID, now time.Time) (*domain.User, time.Time, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, time.Time{}, err
	}
	return user, now.In(user.Location()), nil
}

// GetSummary returns income, expense and net for the financial month containing now
func (s *DashboardService) GetSummary(userID uuid.UUID, now time.Time) (*domain.DashboardSummary, error) {
	user, ref, err := s.reference(userID, now)
	if err != nil {
		return nil, err
	}

	start, end := util.MonthWindow(ref, user.MonthStartDay, 0)
	transactions, err := s.transactionRepo.GetInRange(userID, start, end, nil)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSummary{
		PeriodTotals: AggregatePeriod(transactions, ref, user.MonthStartDay),
		Currency:     user.Currency,
	}, nil
}

// GetTrend returns per-month totals for the last months windows, oldest first.
// A non-positive months falls back to DefaultTrendMonths.
func (s *DashboardService) GetTrend(userID uuid.UUID, now time.Time, months int) (*domain.DashboardTrend, error) {
	user, ref, err := s.reference(userID, now)
	if err != nil {
		return nil, err
	}

	start, end := TrendRange(ref, user.MonthStartDay, months)
	transactions, err := s.transactionRepo.GetInRange(userID, start, end, nil)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardTrend{
		Trend:    BuildTrend(transactions, ref, user.MonthStartDay, months),
		Currency: user.Currency,
	}, nil
}

// GetBreakdown returns the share of each category in the current window's totals for txType
func (s *DashboardService) GetBreakdown(userID uuid.UUID, now time.Time, txType domain.TransactionType) (*domain.DashboardBreakdown, error) {
	if !txType.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}

	user, ref, err := s.reference(userID, now)
	if err != nil {
		return nil, err
	}
	start, end := util.MonthWindow(ref, user.MonthStartDay, 0)

	var (
		transactions []*domain.Transaction
		categories   []*domain.Category
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		transactions, err = s.transactionRepo.GetInRange(userID, start, end, &txType)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.GetAll(userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	shares, total := BuildCategoryBreakdown(filterWindow(transactions, start, end), txType, byID)
	return &domain.DashboardBreakdown{
		Breakdown: shares,
		Total:     total,
		Currency:  user.Currency,
		Type:      txType,
	}, nil
}
