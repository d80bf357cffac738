package handlers

import (
	"net/http"

	"todoConsole/internal/handlers/dto"
	"todoConsole/internal/logger"
	"todoConsole/internal/models/task"
	"todoConsole/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	businessErr, ok := service.AsBusinessError(service.FromValidation(err))
	if !ok {
		return false
	}
	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

// newValidationProblems собирает все проблемы сырого ввода в одну BusinessError.
// field и reason берутся из первой проблемы, чтобы форма details совпадала
// с ошибкой валидации сущности.
func newValidationProblems(problems []*task.ValidationError) *service.BusinessError {
	return service.NewBusinessError(service.CodeValidation, "Validation errors",
		service.ToDetail("field", problems[0].Field),
		service.ToDetail("reason", problems[0].Reason),
		service.ToDetail("problems", dto.FromValidationErrors(problems)),
	)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
