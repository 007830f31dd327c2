package service

import (
	"sort"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Money is reported with two decimals, rounding half away from zero.
const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// AggregatePeriod totals the transactions that fall in the financial month containing ref.
// The input is expected to be owner-filtered; soft-deleted rows are skipped.
func AggregatePeriod(transactions []*domain.Transaction, ref time.Time, monthStartDay int) domain.PeriodTotals {
	start, end := util.MonthWindow(ref, monthStartDay, 0)
	return aggregateWindow(transactions, start, end)
}

func aggregateWindow(transactions []*domain.Transaction, start, end time.Time) domain.PeriodTotals {
	income := decimal.Zero
	expense := decimal.Zero
	count := 0

	for _, tx := range transactions {
		if tx.IsDeleted() || !util.InWindow(tx.TransactionAt, start, end) {
			continue
		}
		count++
		if tx.Type == domain.TransactionTypeIncome {
			income = income.Add(tx.Amount)
		} else {
			expense = expense.Add(tx.Amount)
		}
	}

	return domain.PeriodTotals{
		WindowStart:      start,
		WindowEnd:        end,
		TotalIncome:      income.Round(moneyPlaces),
		TotalExpense:     expense.Round(moneyPlaces),
		NetBalance:       income.Sub(expense).Round(moneyPlaces),
		TransactionCount: count,
	}
}

// TrendRange returns the span covered by a trend of months windows ending at the current period
func TrendRange(ref time.Time, monthStartDay, months int) (start, end time.Time) {
	if months <= 0 {
		months = domain.DefaultTrendMonths
	}
	start, _ = util.MonthWindow(ref, monthStartDay, -(months - 1))
	_, end = util.MonthWindow(ref, monthStartDay, 0)
	return start, end
}

// BuildTrend aggregates months consecutive windows, oldest first, ending at the window containing ref
func BuildTrend(transactions []*domain.Transaction, ref time.Time, monthStartDay, months int) []domain.TrendPoint {
	if months <= 0 {
		months = domain.DefaultTrendMonths
	}

	points := make([]domain.TrendPoint, 0, months)
	for offset := -(months - 1); offset <= 0; offset++ {
		start, end := util.MonthWindow(ref, monthStartDay, offset)
		totals := aggregateWindow(transactions, start, end)
		points = append(points, domain.TrendPoint{
			Month:       util.MonthLabel(start),
			WindowStart: start,
			WindowEnd:   end,
			Income:      totals.TotalIncome,
			Expense:     totals.TotalExpense,
			Net:         totals.NetBalance,
		})
	}
	return points
}

// BuildCategoryBreakdown groups transactions of txType by category, ordered by descending
// amount. Equal amounts keep the order in which their categories were first seen.
// Category details come from the transaction's joined category, then from categories.
func BuildCategoryBreakdown(transactions []*domain.Transaction, txType domain.TransactionType, categories map[uuid.UUID]*domain.Category) ([]domain.CategoryShare, decimal.Decimal) {
	order := make([]uuid.UUID, 0)
	sums := make(map[uuid.UUID]decimal.Decimal)
	joined := make(map[uuid.UUID]*domain.Category)
	total := decimal.Zero

	for _, tx := range transactions {
		if tx.IsDeleted() || tx.Type != txType {
			continue
		}
		if _, seen := sums[tx.CategoryID]; !seen {
			order = append(order, tx.CategoryID)
			sums[tx.CategoryID] = decimal.Zero
		}
		sums[tx.CategoryID] = sums[tx.CategoryID].Add(tx.Amount)
		total = total.Add(tx.Amount)

		if tx.Category != nil && joined[tx.CategoryID] == nil {
			joined[tx.CategoryID] = tx.Category
		}
	}

	shares := make([]domain.CategoryShare, 0, len(order))
	for _, id := range order {
		amount := sums[id]
		percentage := decimal.Zero
		if total.IsPositive() {
			percentage = amount.Mul(hundred).Div(total).Round(moneyPlaces)
		}

		share := domain.CategoryShare{
			CategoryID: id,
			Amount:     amount.Round(moneyPlaces),
			Percentage: percentage,
		}
		cat := joined[id]
		if cat == nil {
			cat = categories[id]
		}
		if cat != nil {
			share.Name = cat.Name
			share.Color = cat.Color
		}
		shares = append(shares, share)
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount.GreaterThan(shares[j].Amount)
	})

	return shares, total.Round(moneyPlaces)
}

// filterWindow keeps transactions inside [start, end]
func filterWindow(transactions []*domain.Transaction, start, end time.Time) []*domain.Transaction {
	filtered := make([]*domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if util.InWindow(tx.TransactionAt, start, end) {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}
