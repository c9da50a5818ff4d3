package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebooking/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"validation", domain.NewValidationError("end time must be strictly after start time"), http.StatusBadRequest, ErrCodeBadRequest, "end time must be strictly after start time"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials"},
		{"forbidden wrapped", fmt.Errorf("%w: event has already ended", domain.ErrForbidden), http.StatusForbidden, ErrCodeForbidden, "forbidden: event has already ended"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound, "not found"},
		{"booking conflict", domain.ErrConflict, http.StatusConflict, ErrCodeConflict, "venue is already booked for this date and time range"},
		{"event full", domain.ErrEventFull, http.StatusConflict, ErrCodeConflict, "event is full"},
		{"venue in use", domain.ErrVenueInUse, http.StatusConflict, ErrCodeConflict, "venue still has events"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, ErrCodeInternalError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			WriteServiceError(rr, req, testLogger, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			resp := decodeEnvelope(t, rr)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
			assert.Nil(t, resp.Data)
		})
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

func (n nameRequest) Validate() []string {
	if n.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantOK  bool
		wantMsg string
	}{
		{"valid", `{"name":"Hall"}`, true, ""},
		{"missing field", `{}`, false, "name is required"},
		{"unknown field", `{"name":"Hall","extra":1}`, false, "unknown field"},
		{"malformed", `{`, false, "unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/venues", strings.NewReader(tt.body))
			var dest nameRequest
			ok := DecodeAndValidate(rr, req, &dest)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Contains(t, decodeEnvelope(t, rr).Error.Message, tt.wantMsg)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  domain.PaginationParams
	}{
		{"", domain.PaginationParams{Page: 1, PageSize: 20}},
		{"page=3&page_size=5", domain.PaginationParams{Page: 3, PageSize: 5}},
		{"page=0&page_size=500", domain.PaginationParams{Page: 1, PageSize: 100}},
		{"page=x&page_size=-1", domain.PaginationParams{Page: 1, PageSize: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/events?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(req))
		})
	}
	assert.Equal(t, PaginationMeta{Page: 2, PageSize: 10, Total: 21, TotalPages: 3}, NewPaginationMeta(2, 10, 21))
	assert.Equal(t, 0, NewPaginationMeta(1, 0, 5).TotalPages)
}
