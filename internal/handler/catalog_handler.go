package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// CatalogHandler exposes the grade-level, charge-concept, exchange-rate, and
// school-configuration catalogues.
type CatalogHandler struct {
	gradeLevels    *service.GradeLevelService
	chargeConcepts *service.ChargeConceptService
	config         *service.SchoolConfigurationService
	currency       *service.CurrencyService
}

func NewCatalogHandler(
	gradeLevels *service.GradeLevelService,
	chargeConcepts *service.ChargeConceptService,
	config *service.SchoolConfigurationService,
	currency *service.CurrencyService,
) *CatalogHandler {
	return &CatalogHandler{gradeLevels: gradeLevels, chargeConcepts: chargeConcepts, config: config, currency: currency}
}

func (h *CatalogHandler) CreateGradeLevel(c echo.Context) error {
	var gl domain.GradeLevel
	if err := c.Bind(&gl); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	created, err := h.gradeLevels.Create(&gl)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *CatalogHandler) ListGradeLevels(c echo.Context) error {
	levels, err := h.gradeLevels.List()
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, levels)
}

func (h *CatalogHandler) UpdateGradeLevel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	var gl domain.GradeLevel
	if err := c.Bind(&gl); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	gl.ID = int32(id)
	updated, err := h.gradeLevels.Update(&gl)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler) DeactivateGradeLevel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	gl, err := h.gradeLevels.Deactivate(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, gl)
}

func (h *CatalogHandler) CreateChargeConcept(c echo.Context) error {
	var concept domain.ChargeConcept
	if err := c.Bind(&concept); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	created, err := h.chargeConcepts.Create(&concept)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *CatalogHandler) GetChargeConcept(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	concept, err := h.chargeConcepts.Get(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, concept)
}

func (h *CatalogHandler) ListChargeConcepts(c echo.Context) error {
	filter := domain.ChargeConceptFilter{ActiveOnly: c.QueryParam("active_only") == "true"}
	concepts, err := h.chargeConcepts.List(filter)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, concepts)
}

func (h *CatalogHandler) UpdateChargeConcept(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	var concept domain.ChargeConcept
	if err := c.Bind(&concept); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	concept.ID = int32(id)
	updated, err := h.chargeConcepts.Update(&concept)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler) DeactivateChargeConcept(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	concept, err := h.chargeConcepts.Deactivate(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, concept)
}

func (h *CatalogHandler) GetConfig(c echo.Context) error {
	cfg, err := h.config.Get()
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *CatalogHandler) UpdateConfig(c echo.Context) error {
	var cfg domain.SchoolConfiguration
	if err := c.Bind(&cfg); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	updated, err := h.config.Update(&cfg)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

type putRateRequest struct {
	FromCurrency domain.Currency `json:"fromCurrency"`
	ToCurrency   domain.Currency `json:"toCurrency"`
	RateDate     string          `json:"rateDate"`
	Rate         decimal.Decimal `json:"rate"`
}

func (h *CatalogHandler) PutExchangeRate(c echo.Context) error {
	var req putRateRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	date, err := time.Parse("2006-01-02", req.RateDate)
	if err != nil {
		return NewValidationError(c, "rateDate must be in YYYY-MM-DD format", nil)
	}
	created, err := h.currency.PutRate(req.FromCurrency, req.ToCurrency, date, req.Rate)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *CatalogHandler) UpdateExchangeRate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	var body struct {
		Rate decimal.Decimal `json:"rate"`
	}
	if err := c.Bind(&body); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	updated, err := h.currency.UpdateRate(int32(id), body.Rate)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler) ExchangeRateDailyStatus(c echo.Context) error {
	status, err := h.currency.DailyStatus()
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, status)
}
