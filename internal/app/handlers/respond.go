package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/farm-market/internal/service"
)

var validate = validator.New()

// ErrorResponse — единый формат ошибки для клиента
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MessageResponse — успешный ответ без данных
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, ErrorResponse{Success: false, Message: message})
}

// writeServiceError переводит ошибку сервиса в HTTP-статус.
// Текст внутренних ошибок клиенту не отдаётся.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		writeError(w, logger, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, service.ErrEmptyCart):
		writeError(w, logger, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, service.ErrInvalidPaymentMethod):
		writeError(w, logger, http.StatusBadRequest, "Invalid payment method")
	case errors.Is(err, service.ErrValidation):
		writeError(w, logger, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, logger, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, logger, http.StatusForbidden, "Access denied")
	case errors.Is(err, service.ErrConflict):
		writeError(w, logger, http.StatusConflict, "Conflict with current state")
	default:
		logger.Error("internal error", slog.Any("error", err))
		writeError(w, logger, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeAndValidate читает JSON-тело и проверяет теги validate
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// currentUser достаёт пользователя, положенного JWT middleware
func currentUser(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	userID, ok := jwtmiddleware.FromContext(r.Context())
	if !ok {
		logger.Error("userID not found in context")
		writeError(w, logger, http.StatusUnauthorized, "unauthorized")
	}
	return userID, ok
}

func uuidParam(w http.ResponseWriter, r *http.Request, logger *slog.Logger, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		logger.Warn("invalid path parameter", slog.String("param", name), slog.Any("error", err))
		writeError(w, logger, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
