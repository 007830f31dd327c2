package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTrendMonths is the number of periods returned when the caller does not ask for a count
const DefaultTrendMonths = 6

// PeriodTotals is the aggregate of one financial month window
type PeriodTotals struct {
	WindowStart      time.Time
	WindowEnd        time.Time
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	NetBalance       decimal.Decimal
	TransactionCount int
}

// TrendPoint is one window of a monthly trend, labelled like "Jan 2024"
type TrendPoint struct {
	Month       string
	WindowStart time.Time
	WindowEnd   time.Time
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Net         decimal.Decimal
}

// CategoryShare is one category's slice of a breakdown
type CategoryShare struct {
	CategoryID uuid.UUID
	Name       string
	Color      string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

type DashboardSummary struct {
	PeriodTotals
	Currency string
}

type DashboardTrend struct {
	Trend    []TrendPoint
	Currency string
}

type DashboardBreakdown struct {
	Breakdown []CategoryShare
	Total     decimal.Decimal
	Currency  string
	Type      TransactionType
}
