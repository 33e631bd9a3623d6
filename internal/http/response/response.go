// Package response writes JSON bodies and the shared error envelope.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

const (
	CodeNotFound      = "RESOURCE_NOT_FOUND"
	CodeInvalidSplit  = "INVALID_SPLIT"
	CodeInvalidAmount = "INVALID_AMOUNT"
	CodeValidation    = "VALIDATION_ERROR"
	CodeInternal      = "INTERNAL_SERVER_ERROR"
)

type ErrorDetails struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type ErrorBody struct {
	Error     ErrorDetails `json:"error"`
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error maps err onto a status code and writes the error envelope. Unknown
// errors are logged and hidden behind a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classify(err)

	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}

	write(w, status, code, message, nil)
}

// Validation writes a 400 VALIDATION_ERROR with one detail per failed field.
func Validation(w http.ResponseWriter, err error) {
	var details []string

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details = append(details, describe(fe))
		}

		write(w, http.StatusBadRequest, CodeValidation, "Invalid input data", details)

		return
	}

	write(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
}

// Decode reports a request body that could not be decoded. Over-precise or
// out of range amounts are INVALID_AMOUNT; anything else is a validation failure.
func Decode(w http.ResponseWriter, err error) {
	if errors.Is(err, money.ErrTooPrecise) || errors.Is(err, money.ErrOutOfRange) {
		write(w, http.StatusBadRequest, CodeInvalidAmount, err.Error(), nil)
		return
	}

	write(w, http.StatusBadRequest, CodeValidation, "malformed request body: "+err.Error(), nil)
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, bill.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, bill.ErrInvalidSplit):
		return http.StatusBadRequest, CodeInvalidSplit, err.Error()
	case errors.Is(err, bill.ErrInvalidAmount), errors.Is(err, money.ErrTooPrecise), errors.Is(err, money.ErrOutOfRange):
		return http.StatusBadRequest, CodeInvalidAmount, err.Error()
	case errors.Is(err, bill.ErrValidation):
		return http.StatusBadRequest, CodeValidation, err.Error()
	}

	return http.StatusInternalServerError, CodeInternal, "An unexpected error occurred"
}

func write(w http.ResponseWriter, status int, code, message string, details []string) {
	JSON(w, status, ErrorBody{
		Error: ErrorDetails{
			Code:    code,
			Message: message,
			Details: details,
		},
		Status:    "ERROR",
		Timestamp: time.Now().UTC().Truncate(time.Second),
	})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "min":
		return fe.Field() + " must have at least " + fe.Param() + " element(s)"
	case "datetime":
		return fe.Field() + " must be a date formatted as " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	}

	return fe.Field() + " is invalid"
}
