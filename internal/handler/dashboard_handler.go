package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/middleware"
	"github.com/dafibh/spendwise/spendwise-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// MaxTrendMonths bounds the trend endpoint's months parameter
const MaxTrendMonths = 24

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	now              func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		now:              time.Now,
	}
}

// WindowResponse describes the bounds of a financial month as RFC 3339 instants
// in the user's timezone. Both bounds are inclusive, and end is midnight
// starting the window's last day.
type WindowResponse struct {
	Start string `json:"start" format:"date-time"`
	End   string `json:"end" format:"date-time"`
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	TotalIncome      string         `json:"totalIncome"`
	TotalExpense     string         `json:"totalExpense"`
	NetBalance       string         `json:"netBalance"`
	TransactionCount int            `json:"transactionCount"`
	Currency         string         `json:"currency"`
	Window           WindowResponse `json:"window"`
}

// TrendPointResponse represents one month of the trend
type TrendPointResponse struct {
	Month   string         `json:"month"`
	Income  string         `json:"income"`
	Expense string         `json:"expense"`
	Net     string         `json:"net"`
	Window  WindowResponse `json:"window"`
}

// DashboardTrendResponse represents the trend API response
type DashboardTrendResponse struct {
	Trend    []TrendPointResponse `json:"trend"`
	Currency string               `json:"currency"`
}

// CategoryShareResponse represents one category of the breakdown
type CategoryShareResponse struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Amount     string `json:"amount"`
	Percentage string `json:"percentage"`
}

// DashboardBreakdownResponse represents the breakdown API response
type DashboardBreakdownResponse struct {
	Type      string                  `json:"type"`
	Total     string                  `json:"total"`
	Currency  string                  `json:"currency"`
	Breakdown []CategoryShareResponse `json:"breakdown"`
}

func toWindowResponse(start, end time.Time) WindowResponse {
	return WindowResponse{
		Start: start.Format(time.RFC3339),
		End:   end.Format(time.RFC3339),
	}
}

// dashboardError renders errors common to the dashboard endpoints
func dashboardError(c echo.Context, err error, msg string) error {
	userID := middleware.GetUserID(c)
	if errors.Is(err, domain.ErrUserNotFound) {
		return NewNotFoundError(c, "User not found")
	}
	log.Error().Err(err).Str("user_id", userID.String()).Msg(msg)
	return NewInternalError(c, msg)
}

// GetSummary godoc
// @Summary Totals for the current financial month
// @Description The window starts on the user's month start day in their timezone
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardSummaryResponse
// @Failure 401 {object} ProblemDetails
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)

	summary, err := h.dashboardService.GetSummary(userID, h.now())
	if err != nil {
		return dashboardError(c, err, "Failed to get dashboard summary")
	}

	return c.JSON(http.StatusOK, DashboardSummaryResponse{
		TotalIncome:      summary.TotalIncome.StringFixed(2),
		TotalExpense:     summary.TotalExpense.StringFixed(2),
		NetBalance:       summary.NetBalance.StringFixed(2),
		TransactionCount: summary.TransactionCount,
		Currency:         summary.Currency,
		Window:           toWindowResponse(summary.WindowStart, summary.WindowEnd),
	})
}

// GetTrend godoc
// @Summary Income and expense per financial month
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param months query int false "Number of months, 1 to 24" default(6)
// @Success 200 {object} DashboardTrendResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /dashboard/trend [get]
func (h *DashboardHandler) GetTrend(c echo.Context) error {
	userID := middleware.GetUserID(c)

	months := domain.DefaultTrendMonths
	if monthsStr := c.QueryParam("months"); monthsStr != "" {
		parsed, err := strconv.Atoi(monthsStr)
		if err != nil || parsed < 1 || parsed > MaxTrendMonths {
			return NewValidationError(c, "Invalid months", []ValidationError{
				{Field: "months", Message: "Must be an integer between 1 and 24"},
			})
		}
		months = parsed
	}

	trend, err := h.dashboardService.GetTrend(userID, h.now(), months)
	if err != nil {
		return dashboardError(c, err, "Failed to get dashboard trend")
	}

	points := make([]TrendPointResponse, len(trend.Trend))
	for i, p := range trend.Trend {
		points[i] = TrendPointResponse{
			Month:   p.Month,
			Income:  p.Income.StringFixed(2),
			Expense: p.Expense.StringFixed(2),
			Net:     p.Net.StringFixed(2),
			Window:  toWindowResponse(p.WindowStart, p.WindowEnd),
		}
	}

	return c.JSON(http.StatusOK, DashboardTrendResponse{
		Trend:    points,
		Currency: trend.Currency,
	})
}

// GetBreakdown godoc
// @Summary Category breakdown for the current financial month
// @Description Sorted by amount descending; percentages are of the window total
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param type query string false "expense or income" default(expense)
// @Success 200 {object} DashboardBreakdownResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /dashboard/breakdown [get]
func (h *DashboardHandler) GetBreakdown(c echo.Context) error {
	userID := middleware.GetUserID(c)

	txType := domain.TransactionTypeExpense
	if typeStr := c.QueryParam("type"); typeStr != "" {
		txType = domain.TransactionType(typeStr)
		if !txType.IsValid() {
			return NewValidationError(c, "Invalid type (must be 'income' or 'expense')", []ValidationError{
				{Field: "type", Message: "Must be either expense or income"},
			})
		}
	}

	breakdown, err := h.dashboardService.GetBreakdown(userID, h.now(), txType)
	if err != nil {
		return dashboardError(c, err, "Failed to get dashboard breakdown")
	}

	shares := make([]CategoryShareResponse, len(breakdown.Breakdown))
	for i, s := range breakdown.Breakdown {
		shares[i] = CategoryShareResponse{
			CategoryID: s.CategoryID.String(),
			Name:       s.Name,
			Color:      s.Color,
			Amount:     s.Amount.StringFixed(2),
			Percentage: s.Percentage.StringFixed(2),
		}
	}

	return c.JSON(http.StatusOK, DashboardBreakdownResponse{
		Type:      string(breakdown.Type),
		Total:     breakdown.Total.StringFixed(2),
		Currency:  breakdown.Currency,
		Breakdown: shares,
	})
}
