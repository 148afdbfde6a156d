package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/domain/entity"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "created", map[string]string{"id": "b-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":true,"message":"created","data":{"id":"b-1"}}`, rec.Body.String())
}

func TestFail(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "joined rejection",
			err:            fmt.Errorf("%w: %w", inbound.ErrAuthenticationRejected, inbound.ErrRefreshNotCurrent),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":false,"message":"Authentication rejected","data":null,"code":"AUTH-001"}`,
		},
		{
			name:           "domain error",
			err:            fmt.Errorf("moving column: %w", entity.ErrColumnSequenceUnchanged),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":false,"message":"Column sequence did not change","data":null,"code":"COLUMN-003"}`,
		},
		{
			name:           "unknown error hides cause",
			err:            errors.New("pq: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":false,"message":"Internal server error","data":null,"code":"SERVER-001"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Fail(context.Background(), rec, logger.NewNop(), tt.err)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}

func TestBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequest(rec, "board id is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Invalid request","data":null,"code":"REQ-001","details":"board id is required"}`, rec.Body.String())
}
