// Package application holds the orchestration layer: the error taxonomy
// surfaced to HTTP callers and the ports the payment orchestrator depends on.
package application

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError is the structured error surfaced to the HTTP layer.
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeBookingNotFound     = "BOOKING_NOT_FOUND"
	ErrCodePaymentNotFound     = "PAYMENT_NOT_FOUND"
	ErrCodeBookingAccessDenied = "BOOKING_ACCESS_DENIED"
	ErrCodeBookingNotPayable   = "BOOKING_NOT_PAYABLE"
	ErrCodeAmountNotChargeable = "BOOKING_AMOUNT_NOT_CHARGEABLE"
	ErrCodeStatusChanged       = "BOOKING_STATUS_CHANGED"
	ErrCodeActivePayment       = "ACTIVE_PAYMENT_EXISTS"
	ErrCodeRequestDuplicate    = "PAYMENT_REQUEST_DUPLICATE"
	ErrCodeIdentifiersMissing  = "WEBHOOK_IDENTIFIERS_MISSING"
	ErrCodeSignatureMissing    = "WEBHOOK_SIGNATURE_MISSING"
	ErrCodeSignatureInvalid    = "WEBHOOK_SIGNATURE_INVALID"
	ErrCodeProviderRejected    = "FINIK_INIT_FAILED"
	ErrCodeProviderUnreachable = "FINIK_UNREACHABLE"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

func NewBookingNotFoundError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeBookingNotFound,
		Message:    "Booking not found",
		HTTPStatus: http.StatusNotFound,
	}
}

func NewPaymentNotFoundError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodePaymentNotFound,
		Message:    "Payment record not found for booking",
		HTTPStatus: http.StatusNotFound,
	}
}

func NewBookingAccessDeniedError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeBookingAccessDenied,
		Message:    "You can only access your own booking",
		HTTPStatus: http.StatusForbidden,
	}
}

func NewBookingNotPayableError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeBookingNotPayable,
		Message:    "Only a pending booking can be paid",
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewAmountNotChargeableError(amount int64) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeAmountNotChargeable,
		Message:    fmt.Sprintf("Computed deposit amount %d is not chargeable", amount),
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewStatusChangedError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeStatusChanged,
		Message:    "Booking status changed during payment init",
		HTTPStatus: http.StatusConflict,
	}
}

func NewActivePaymentError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeActivePayment,
		Message:    "Payment is already in progress or completed",
		HTTPStatus: http.StatusConflict,
	}
}

func NewRequestDuplicateError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeRequestDuplicate,
		Message:    "Duplicate payment request detected",
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

func NewIdentifiersMissingError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeIdentifiersMissing,
		Message:    "request_id or provider_payment_id is required in webhook payload",
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewSignatureMissingError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeSignatureMissing,
		Message:    "Webhook signature is required",
		HTTPStatus: http.StatusUnauthorized,
	}
}

func NewSignatureInvalidError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeSignatureInvalid,
		Message:    "Webhook signature is invalid",
		HTTPStatus: http.StatusUnauthorized,
	}
}

func NewProviderRejectedError(upstreamStatus int, err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeProviderRejected,
		Message:    fmt.Sprintf("Payment initialization rejected by provider (status %d)", upstreamStatus),
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewProviderUnreachableError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeProviderUnreachable,
		Message:    "Could not reach payment provider",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
