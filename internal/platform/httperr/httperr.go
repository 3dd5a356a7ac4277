// Package httperr defines the error kinds the billing API can surface and
// renders them as the stable JSON envelope {code, message, correlationId,
// timestamp}. Internal errors are logged in full but never leak store detail
// to the client.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeDuplicateBill Code = "DUPLICATE_BILL"
	CodeBillNotFound  Code = "BILL_NOT_FOUND"
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyPaid   Code = "ALREADY_PAID"
	CodeBillVoided    Code = "BILL_VOIDED"
	CodeInternal      Code = "INTERNAL_ERROR"
)

// Error carries an API error kind together with the HTTP status it maps to.
type Error struct {
	Code    Code
	Status  int
	Message string
	Err     error // wrapped cause, logged but never surfaced
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: message}
}

func DuplicateBill() *Error {
	return &Error{Code: CodeDuplicateBill, Status: http.StatusConflict, Message: "Bill already exists for this appointment"}
}

func BillNotFound(message string) *Error {
	return &Error{Code: CodeBillNotFound, Status: http.StatusNotFound, Message: message}
}

func AlreadyPaid() *Error {
	return &Error{Code: CodeAlreadyPaid, Status: http.StatusBadRequest, Message: "Bill already paid"}
}

func BillVoided(message string) *Error {
	return &Error{Code: CodeBillVoided, Status: http.StatusBadRequest, Message: message}
}

func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: "An internal error occurred", Err: err}
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// Envelope is the error body returned for every failed request.
type Envelope struct {
	Code          Code   `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
	Timestamp     string `json:"timestamp"`
}

// Handler returns an echo HTTPErrorHandler that translates errors into the
// envelope. Unknown errors are masked as INTERNAL_ERROR and logged with full
// detail server-side.
func Handler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		rid, _ := c.Get("request_id").(string)

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				// Routing-level errors (404 on unknown paths, 405, body too
				// large) keep their status but use the envelope shape.
				apiErr = &Error{
					Code:    codeForStatus(httpErr.Code),
					Status:  httpErr.Code,
					Message: fmt.Sprintf("%v", httpErr.Message),
				}
			} else {
				apiErr = Internal(err)
			}
		}

		if apiErr.Code == CodeInternal {
			logger.Error().
				Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Msg("internal error")
		}

		_ = c.JSON(apiErr.Status, Envelope{
			Code:          apiErr.Code,
			Message:       apiErr.Message,
			CorrelationID: rid,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// codeForStatus maps routing-level statuses to generic codes. A 404 here is
// an unknown path, not a missing bill, so it never claims BILL_NOT_FOUND.
func codeForStatus(status int) Code {
	switch status {
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusBadRequest:
		return CodeValidation
	default:
		return CodeInternal
	}
}
