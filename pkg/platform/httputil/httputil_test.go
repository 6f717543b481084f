package httputil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "inv-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"inv-1"}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	t.Run("client errors carry a description", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, http.StatusBadRequest, "invalid_request", "entity_id is required")

		assert.JSONEq(t, `{"error":"invalid_request","error_description":"entity_id is required"}`, rec.Body.String())
	})

	t.Run("server errors omit the description", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, http.StatusInternalServerError, "internal_error", "pq: connection refused")

		assert.JSONEq(t, `{"error":"internal_error"}`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "pq:")
	})
}

func TestDecode(t *testing.T) {
	type payload struct {
		EntityID string `json:"entity_id"`
	}

	t.Run("valid body", func(t *testing.T) {
		body, _ := json.Marshal(payload{EntityID: "user-1"})
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))

		got, err := Decode[payload](req)
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.EntityID)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"entity_id":"u","extra":1}`)))
		_, err := Decode[payload](req)
		assert.Error(t, err)
	})
}
