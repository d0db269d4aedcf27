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

func exportRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	h := NewExportHandler()
	router.GET("/export", h.ExportJSON)
	router.POST("/export", h.ImportJSON)
	router.GET("/export/excel", h.ExportExcel)
	return router
}

func TestExportHandler_ExportJSON(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "date", "category", "description", "amount", "type", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, 1, "2026-03-05", "groceries", "", 42.5, "expense", now, now, nil))
	mock.ExpectQuery("SELECT .* FROM `investments`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "type", "valuation_mode", "created_at", "updated_at", "deleted_at"}))
	mock.ExpectQuery("SELECT .* FROM `properties`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "value", "created_at", "updated_at", "deleted_at"}))
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category", "budgeted", "period", "period_key", "month", "is_recurring", "start_date", "created_at", "updated_at", "deleted_at"}))
	mock.ExpectQuery("SELECT .* FROM `settings`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "currency", "currency_symbol", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, 1, "EUR", "€", now, now, nil))

	router := exportRouter()

	req := httptest.NewRequest("GET", "/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "1.0", data["version"])
	assert.NotEmpty(t, data["timestamp"])

	payload := data["data"].(map[string]interface{})
	assert.Len(t, payload["transactions"], 1)

	settings := data["settings"].(map[string]interface{})
	assert.Equal(t, "EUR", settings["currency"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ImportJSON_MissingDataRejectedBeforeDelete(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// no DB expectations: validation fails before anything is touched
	router := exportRouter()

	body := `{"version":"1.0","settings":{"currency":"USD"}}`
	req := httptest.NewRequest("POST", "/export", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ImportJSON_ReplacesRecords(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectBegin()
	// destructive wipe, table by table
	mock.ExpectExec("DELETE FROM `transactions`").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery("SELECT `id` FROM `investments`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec("DELETE FROM `contributions`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `investments`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `properties`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `budgets`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// restore
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `investments`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `contributions`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	// currency last
	mock.ExpectQuery("SELECT .* FROM `settings`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "currency", "currency_symbol", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, 1, "USD", "$", now, now, nil))
	mock.ExpectExec("UPDATE `settings`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := exportRouter()

	body := `{
		"version": "1.0",
		"data": {
			"transactions": [{"date":"2026-03-05","category":"groceries","amount":42.5,"type":"expense"}],
			"investments": [{"name":"Apple","isin":"US0378331005","type":"stocks","valuation_mode":"auto","shares":5,"purchase_price":100,"amount":500,"current_value":550,"purchase_date":"2026-01-15","contributions":[{"date":"2026-02-01","amount":250,"shares":2.5,"price_per_share":100}]}],
			"properties": [],
			"budgets": []
		},
		"settings": {"currency": "EUR"}
	}`
	req := httptest.NewRequest("POST", "/export", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "imported", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ImportJSON_BadCurrencyRejected(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	router := exportRouter()

	body := `{"data":{"transactions":[],"investments":[],"properties":[],"budgets":[]},"settings":{"currency":"XYZ"}}`
	req := httptest.NewRequest("POST", "/export", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportExcel(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "date", "category", "description", "amount", "type"}))
	mock.ExpectQuery("SELECT .* FROM `investments`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "type", "valuation_mode"}))
	mock.ExpectQuery("SELECT .* FROM `properties`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "value"}))
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category", "budgeted"}))

	router := exportRouter()

	req := httptest.NewRequest("GET", "/export/excel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
	require.NoError(t, mock.ExpectationsWereMet())
}
