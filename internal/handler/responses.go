package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/solcade/treasury/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encode through a pooled buffer; headers are already sent so an encode
	// failure can only be logged.
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgInsufficientBalanceError   = "Not enough balance"
	ErrMsgAccountNotFoundError       = "Account not found"
	ErrMsgDuplicateConfirmationError = "This deposit has already been credited"
	ErrMsgLedgerWriteFailedError     = "Transaction confirmed on chain but not yet recorded. Contact support before retrying."
	ErrMsgChainUnavailableError      = "Chain is temporarily unavailable. Please try again later."
	ErrMsgChainTimeoutError          = "Transaction outcome unknown. Retry with the same confirmation token."
	ErrMsgChainRejectedError         = "Transaction was rejected by the chain"
	ErrMsgItemNotFoundError          = "Item not found"
	ErrMsgItemNotHeldError           = "Item is no longer held in custody"
	ErrMsgSlotTakenError             = "That slot is already occupied"
	ErrMsgInvalidAmountError         = "Invalid amount"
	ErrMsgAmountTooSmallError        = "Amount is too small to withdraw"
	ErrMsgInvalidInputError          = "Invalid request. Please check your inputs."
	ErrMsgUnknownAssetError          = "Unknown asset type"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses. Internal service errors become appropriate status codes and
// messages the caller can act on.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusBadRequest, ErrMsgInsufficientBalanceError
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusBadRequest, ErrMsgAccountNotFoundError
	case errors.Is(err, domain.ErrDuplicateConfirmation):
		return http.StatusConflict, ErrMsgDuplicateConfirmationError
	case errors.Is(err, domain.ErrLedgerWriteFailed):
		return http.StatusInternalServerError, ErrMsgLedgerWriteFailedError
	case errors.Is(err, domain.ErrChainTimeout):
		return http.StatusServiceUnavailable, ErrMsgChainTimeoutError
	case errors.Is(err, domain.ErrChainUnavailable):
		return http.StatusServiceUnavailable, ErrMsgChainUnavailableError
	case errors.Is(err, domain.ErrChainRejected):
		return http.StatusBadRequest, ErrMsgChainRejectedError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusBadRequest, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrItemNotHeld):
		return http.StatusConflict, ErrMsgItemNotHeldError
	case errors.Is(err, domain.ErrSlotTaken):
		return http.StatusConflict, ErrMsgSlotTakenError
	case errors.Is(err, domain.ErrAmountTooSmall):
		return http.StatusBadRequest, ErrMsgAmountTooSmallError
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, ErrMsgInvalidAmountError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrUnknownAsset):
		return http.StatusBadRequest, ErrMsgUnknownAssetError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError logs a failed service call and writes the mapped
// user-facing error response.
func respondServiceError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	status, message := mapServiceErrorToUserMessage(err)
	if status >= http.StatusInternalServerError {
		slog.Error(logMsg, "error", err)
	}
	respondError(w, status, message)
}
