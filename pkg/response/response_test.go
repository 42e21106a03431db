package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestUnprocessableEntity(t *testing.T) {
	rec := httptest.NewRecorder()
	UnprocessableEntity(rec, "", map[string]string{"field": "reason"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Unprocessable entity", body.Message)
	assert.Equal(t, map[string]interface{}{"field": "reason"}, body.Error)
}

func TestConflict(t *testing.T) {
	rec := httptest.NewRecorder()
	Conflict(rec, "stale version")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "stale version", decode(t, rec).Message)
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, &Meta{Page: 2, Limit: 20, Total: 41, TotalPages: 3}, NewMeta(2, 20, 41))
	assert.Equal(t, 0, NewMeta(1, 0, 5).TotalPages)
}
