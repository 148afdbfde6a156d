package response

import (
	"context"
	"encoding/json"
	"net/http"

	domainerror "github.com/missionboard/missionboard/domain/error"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

type Envelope struct {
	Status  bool                  `json:"status"`
	Message string                `json:"message"`
	Data    interface{}           `json:"data"`
	Code    domainerror.ErrorCode `json:"code,omitempty"`
	Details string                `json:"details,omitempty"`
}

func write(w http.ResponseWriter, statusCode int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope)
}

func WriteJSON(w http.ResponseWriter, statusCode int, status bool, message string, data interface{}) {
	write(w, statusCode, Envelope{Status: status, Message: message, Data: data})
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	WriteJSON(w, statusCode, true, message, data)
}

// WriteError renders an AppError with its stable code.
func WriteError(w http.ResponseWriter, appErr *domainerror.AppError) {
	write(w, appErr.Status, Envelope{
		Status:  false,
		Message: appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

// Fail classifies err through the error catalog and renders it. Server
// errors are logged with their cause; client errors are not.
func Fail(ctx context.Context, w http.ResponseWriter, log logger.Logger, err error) {
	appErr := domainerror.From(err)
	if appErr.Status >= http.StatusInternalServerError && log != nil {
		log.Error(ctx, "Request failed", err, map[string]interface{}{"code": appErr.Code})
	}
	WriteError(w, appErr)
}

func BadRequest(w http.ResponseWriter, details string) {
	WriteError(w, domainerror.ErrInvalidRequest(details))
}
