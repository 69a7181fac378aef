package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

const (
	msgInternalError = "internal server error"

	// maxBodyBytes ограничение размера тела запроса
	maxBodyBytes = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// RespondJSON пишет ответ в JSON. data == nil - пустое тело.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError пишет ошибку с кодом
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, string(domain.KindBadRequest), message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, "unauthorized", message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, string(domain.KindForbidden), message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, string(domain.KindNotFound), message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, string(domain.KindConflict), message)
}

func RespondTooManyRequests(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusTooManyRequests, "rate_limited", message)
}

// RespondInternalError детали внутренних ошибок клиенту не отдаются
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, "internal", msgInternalError)
}

// StatusFor переводит категорию ошибки в HTTP код; false - ошибка внутренняя
func StatusFor(err error) (int, bool) {
	kind, ok := domain.KindOf(err)
	if !ok {
		return http.StatusInternalServerError, false
	}
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound, true
	case domain.KindConflict:
		return http.StatusConflict, true
	case domain.KindForbidden:
		return http.StatusForbidden, true
	case domain.KindBadRequest:
		return http.StatusBadRequest, true
	default:
		return http.StatusInternalServerError, false
	}
}

// RespondDomainError отвечает по категории ошибки бизнес-логики.
// Возвращает false для внутренних ошибок, их логирует вызывающий.
func RespondDomainError(w http.ResponseWriter, err error) bool {
	status, ok := StatusFor(err)
	if !ok {
		RespondInternalError(w)
		return false
	}
	kind, _ := domain.KindOf(err)
	RespondError(w, status, string(kind), err.Error())
	return true
}

// DecodeJSON декодирует тело запроса, запрещая неизвестные поля
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return err
	}
	return nil
}

// DecodeAndValidate декодирует тело и проверяет теги validate
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	return Validate(v)
}

// Validate проверяет теги validate и возвращает первую ошибку в читаемом виде
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("field %s failed on '%s'", fe.Field(), fe.Tag())
		}
		return err
	}
	return nil
}

// PathID достает положительный int64 параметр пути
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// ParseDate разбирает дату YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateFormat, s)
}
