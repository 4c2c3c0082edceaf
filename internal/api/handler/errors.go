package handler

import (
	"errors"
	"net/http"

	"github.com/kiranshivaraju/yaktalk/internal/api/response"
	"github.com/kiranshivaraju/yaktalk/internal/consultation"
)

const maxBodyBytes = 64 << 10

// writeConsultationError maps a pipeline failure onto the error envelope.
func writeConsultationError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, consultation.ErrEmptyQuestion):
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			"메시지를 입력해주세요.", nil)
	case errors.Is(err, consultation.ErrSetupRequired):
		response.Error(w, http.StatusServiceUnavailable, "SETUP_REQUIRED",
			"시스템이 초기화되지 않았습니다. 약품 데이터를 먼저 적재해주세요.", nil)
	default:
		if message == "" {
			message = "An unexpected error occurred"
		}
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
	}
}
