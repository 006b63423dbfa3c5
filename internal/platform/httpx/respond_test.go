package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/internal/shared"
)

func TestOKEnvelope(t *testing.T) {
	recorder := httptest.NewRecorder()
	OK(recorder, http.StatusCreated, "Created", map[string]string{"id": "1"})

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "Created", envelope.Message)
	assert.NotNil(t, envelope.Data)
}

func TestFailFieldsEnvelope(t *testing.T) {
	recorder := httptest.NewRecorder()
	FailFields(recorder, http.StatusBadRequest, "Validation failed", []FieldError{
		{Field: "email", Message: "must be a valid email"},
	})

	var envelope Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	require.Len(t, envelope.Errors, 1)
	assert.Equal(t, "email", envelope.Errors[0].Field)
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unauthenticated is uniform", fmt.Errorf("%w: token expired", shared.ErrUnauthenticated),
			http.StatusUnauthorized, "Access denied."},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, "Forbidden"},
		{"validation keeps detail", fmt.Errorf("%w: Invalid role ID", shared.ErrValidation),
			http.StatusBadRequest, "Invalid role ID"},
		{"conflict keeps detail", fmt.Errorf("%w: User already exists with this email", shared.ErrConflict),
			http.StatusConflict, "User already exists with this email"},
		{"not found keeps detail", fmt.Errorf("%w: Role not found", shared.ErrNotFound),
			http.StatusNotFound, "Role not found"},
		{"unexpected errors stay opaque", fmt.Errorf("pq: connection reset"),
			http.StatusInternalServerError, "Server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			RespondError(recorder, tc.err)
			require.Equal(t, tc.status, recorder.Code)

			var envelope Envelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.False(t, envelope.Success)
			assert.Equal(t, tc.message, envelope.Message)
		})
	}
}
