package httputil_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"student-records/internal/httputil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithData(t *testing.T) {
	w := httptest.NewRecorder()

	httputil.RespondWithData(w, http.StatusCreated, "Student created successfully", map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var env httputil.Envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	assert.True(t, env.Success)
	assert.Equal(t, "Student created successfully", env.Message)
	assert.NotNil(t, env.Data)
	assert.Nil(t, env.Count)
	assert.Nil(t, env.Errors)
}

func TestRespondWithList(t *testing.T) {
	w := httptest.NewRecorder()

	httputil.RespondWithList(w, http.StatusOK, "ok", []string{"a", "b"}, 2)

	var env httputil.Envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)
}

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()

	httputil.RespondWithError(w, http.StatusNotFound, "Route not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var env httputil.Envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, "Route not found", env.Message)
	assert.Nil(t, env.Data)
}

func TestRespondWithFieldErrors(t *testing.T) {
	w := httptest.NewRecorder()

	httputil.RespondWithFieldErrors(w, http.StatusBadRequest, "Validation failed", map[string][]string{
		"email": {"Invalid email address"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env httputil.Envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, []string{"Invalid email address"}, env.Errors["email"])
}
