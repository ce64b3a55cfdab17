package handlers

import (
	"errors"
	"net/http"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

// handleBusinessError переводит ошибки бизнес-логики в HTTP-ответ.
// Возвращает false, если ошибка не бизнесовая - тогда вызывающий
// отвечает 500
func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	response := dto.ErrorResponse{Message: businessErr.Message}
	if businessErr.Code == "VALIDATION_ERROR" {
		response.Errors = make(map[string][]string, len(businessErr.Details))
		for field, messages := range businessErr.Details {
			if list, ok := messages.([]string); ok {
				response.Errors[field] = list
			}
		}
	}

	responseWithJSON(w, statusCode, response)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "VALIDATION_ERROR":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
