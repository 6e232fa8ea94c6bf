package handlers

import (
	"errors"
	"net/http"

	"taskPlanner/internal/logger"
	"taskPlanner/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
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

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidationError:
		return http.StatusBadRequest
	case service.CodeProviderUnavailable:
		return http.StatusServiceUnavailable
	case service.CodeVersionConflict:
		return http.StatusConflict
	case service.CodeTaskDeleted:
		return http.StatusGone
	case service.CodeNotDeleted:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
