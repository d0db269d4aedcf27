package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	h := NewSettingsHandler()
	router.GET("/settings", h.Get)
	router.PUT("/settings", h.Update)
	return router
}

func settingsColumns() []string {
	return []string{"id", "user_id", "currency", "currency_symbol", "created_at", "updated_at", "deleted_at"}
}

func TestSettingsHandler_Get_CreatesDefaultsOnFirstAccess(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `settings`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `settings`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := settingsRouter()

	req := httptest.NewRequest("GET", "/settings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "USD", data["currency"])
	assert.Equal(t, "$", data["currency_symbol"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsHandler_Update_SymbolFollowsCurrency(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `settings`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows(settingsColumns()).
			AddRow(1, 1, "USD", "$", now, now, nil))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `settings`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := settingsRouter()

	body := `{"currency":"EUR"}`
	req := httptest.NewRequest("PUT", "/settings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "EUR", data["currency"])
	assert.Equal(t, "€", data["currency_symbol"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsHandler_Update_UnsupportedCurrency(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := settingsRouter()

	body := `{"currency":"XYZ"}`
	req := httptest.NewRequest("PUT", "/settings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
