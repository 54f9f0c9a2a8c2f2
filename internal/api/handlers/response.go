package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"

	maxBodyBytes = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
// Kind и Retryable заполняются для доменных ошибок
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// DecodeJSON декодирует тело запроса в v, неизвестные поля запрещены
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// RespondJSON пишет v в формате JSON с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError пишет ошибку с указанным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError пишет доменную ошибку и возвращает true
// Если err не доменная ошибка, ничего не пишет и возвращает false
//
//	InvalidInput -> 400
//	остальные ошибки валидации -> 422
//	ошибки конкурентного доступа -> 409, retryable
//	не найдено -> 404
func RespondDomainError(w http.ResponseWriter, err error) bool {
	de, ok := domain.AsError(err)
	if !ok {
		return false
	}

	RespondJSON(w, StatusFor(de), ErrorResponse{
		Error:     de.Error(),
		Kind:      string(de.Kind),
		Retryable: de.Retryable(),
	})
	return true
}

// StatusFor возвращает HTTP статус доменной ошибки
func StatusFor(de *domain.Error) int {
	switch de.Category {
	case domain.CategoryValidation:
		if de.Kind == domain.KindInvalidInput {
			return http.StatusBadRequest
		}
		return http.StatusUnprocessableEntity
	case domain.CategoryConcurrency:
		return http.StatusConflict
	case domain.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PathInt64 разбирает положительный int64 из переменной пути gorilla/mux
func PathInt64(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, fmt.Errorf("path variable %q is missing", name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("path variable %q must be a positive integer, got %q", name, raw)
	}
	return id, nil
}
