package handler

import (
	"errors"
	"net/http"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/labstack/echo/v4"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://schoolledger.app/errors/validation"
	ErrorTypeNotFound     = "https://schoolledger.app/errors/not-found"
	ErrorTypeUnauthorized = "https://schoolledger.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://schoolledger.app/errors/forbidden"
	ErrorTypeConflict     = "https://schoolledger.app/errors/conflict"
	ErrorTypeInternal     = "https://schoolledger.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// HandleError maps a domain error onto the appropriate RFC 7807 response.
// Every handler funnels its service-layer errors through this single place.
func HandleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRepresentativeNotFound),
		errors.Is(err, domain.ErrStudentNotFound),
		errors.Is(err, domain.ErrGradeLevelNotFound),
		errors.Is(err, domain.ErrChargeConceptNotFound),
		errors.Is(err, domain.ErrExchangeRateNotFound),
		errors.Is(err, domain.ErrAppliedChargeNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrInvoiceNotFound),
		errors.Is(err, domain.ErrCreditNoteNotFound),
		errors.Is(err, domain.ErrConfigurationNotFound),
		errors.Is(err, domain.ErrEmployeeNotFound),
		errors.Is(err, domain.ErrDepartmentNotFound),
		errors.Is(err, domain.ErrPositionNotFound),
		errors.Is(err, domain.ErrSalaryComponentNotFound),
		errors.Is(err, domain.ErrPayrollRunNotFound),
		errors.Is(err, domain.ErrPayrollRunDetailNotFound),
		errors.Is(err, domain.ErrEmployeePayableItemNotFound),
		errors.Is(err, domain.ErrEmployeePaymentNotFound),
		errors.Is(err, domain.ErrPayslipNotFound),
		errors.Is(err, domain.ErrExpenseNotFound),
		errors.Is(err, domain.ErrExpenseCategoryNotFound),
		errors.Is(err, domain.ErrSupplierNotFound):
		return NewNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvoiceAlreadyAnnulled),
		errors.Is(err, domain.ErrAppliedChargeAlreadyCancelled),
		errors.Is(err, domain.ErrAppliedChargeFullyPaid):
		return NewConflictError(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return NewUnauthorizedError(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return NewForbiddenError(c, err.Error())
	case errors.Is(err, domain.ErrInternalError):
		return NewInternalError(c, err.Error())
	}

	switch err.(type) {
	case domain.ErrBusinessRuleViolation, domain.ErrMustPayEarlierMonth,
		domain.ErrRateMissing, domain.ErrInsufficientCredit, domain.ErrInvalidStatusTransition:
		return NewValidationError(c, err.Error(), nil)
	}

	return NewValidationError(c, err.Error(), nil)
}
