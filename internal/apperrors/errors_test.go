package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"cablestock-service/internal/apperrors"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"validation", apperrors.NewValidation("bad input"), apperrors.CodeValidation, http.StatusBadRequest},
		{"not found", apperrors.NewNotFound("missing"), apperrors.CodeNotFound, http.StatusNotFound},
		{"conflict", apperrors.NewConflict("oversell"), apperrors.CodeConflict, http.StatusConflict},
		{"send failed", apperrors.NewSend("smtp down", errors.New("dial tcp")), apperrors.CodeSendFailed, http.StatusBadGateway},
		{"internal", apperrors.NewInternal("boom", nil), apperrors.CodeInternal, http.StatusInternalServerError},
		{"untyped", errors.New("plain"), apperrors.CodeInternal, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("context: %w", apperrors.NewConflict("oversell")), apperrors.CodeConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, status := apperrors.Categorize(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := apperrors.NewSend("mail delivery failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "mail delivery failed")
	assert.Contains(t, err.Error(), "refused")
}
