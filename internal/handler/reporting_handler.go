package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aluvasquez/schoolledger/internal/service"
	"github.com/labstack/echo/v4"
)

// ReportingHandler exposes delinquency, account-statement, trend, and
// dashboard reports.
type ReportingHandler struct {
	reporting *service.ReportingService
}

func NewReportingHandler(reporting *service.ReportingService) *ReportingHandler {
	return &ReportingHandler{reporting: reporting}
}

func (h *ReportingHandler) Dashboard(c echo.Context) error {
	summary, err := h.reporting.DashboardSummary()
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *ReportingHandler) Delinquency(c echo.Context) error {
	report, err := h.reporting.DelinquencyReport()
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *ReportingHandler) AccountStatement(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("representativeId"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid representative id", nil)
	}
	statement, err := h.reporting.RepresentativeAccountStatement(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, statement)
}

func parseReportRange(c echo.Context) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", c.QueryParam("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse("2006-01-02", c.QueryParam("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func (h *ReportingHandler) BillingPaymentTrend(c echo.Context) error {
	from, to, err := parseReportRange(c)
	if err != nil {
		return NewValidationError(c, "from and to query params must be in YYYY-MM-DD format", nil)
	}
	points, err := h.reporting.MonthlyBillingPaymentTrend(from, to)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, points)
}

func (h *ReportingHandler) ExpensesByCategory(c echo.Context) error {
	from, to, err := parseReportRange(c)
	if err != nil {
		return NewValidationError(c, "from and to query params must be in YYYY-MM-DD format", nil)
	}
	summary, err := h.reporting.ExpenseSummaryByCategory(from, to, c.QueryParam("exclude_salaries") == "true")
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *ReportingHandler) ExpensesBySupplier(c echo.Context) error {
	from, to, err := parseReportRange(c)
	if err != nil {
		return NewValidationError(c, "from and to query params must be in YYYY-MM-DD format", nil)
	}
	summary, err := h.reporting.ExpenseSummaryBySupplier(from, to, c.QueryParam("exclude_salaries") == "true")
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *ReportingHandler) ExpenseTrend(c echo.Context) error {
	from, to, err := parseReportRange(c)
	if err != nil {
		return NewValidationError(c, "from and to query params must be in YYYY-MM-DD format", nil)
	}
	granularity := c.QueryParam("granularity")
	if granularity == "" {
		granularity = "month"
	}
	trend, err := h.reporting.ExpenseTrend(from, to, granularity, c.QueryParam("exclude_salaries") == "true")
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, trend)
}
