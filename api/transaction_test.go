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

func transactionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	h := NewTransactionHandler()
	router.POST("/transactions", h.Create)
	router.GET("/transactions", h.List)
	router.DELETE("/transactions/:id", h.Delete)
	return router
}

func TestTransactionHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := transactionRouter()

	body := `{"date":"2026-03-05","category":"groceries","description":"weekly shop","amount":42.5,"type":"expense"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "created", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Create_BadDate(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := transactionRouter()

	body := `{"date":"03/05/2026","category":"groceries","amount":42.5,"type":"expense"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestTransactionHandler_Create_BadType(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := transactionRouter()

	body := `{"date":"2026-03-05","category":"groceries","amount":42.5,"type":"transfer"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestTransactionHandler_List_MonthFilter(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT count.* FROM `transactions`").
		WithArgs(uint(1), "2026-03%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1), "2026-03%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "date", "category", "description", "amount", "type", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, 1, "2026-03-05", "groceries", "", 42.5, "expense", now, now, nil))

	router := transactionRouter()

	req := httptest.NewRequest("GET", "/transactions?month=2026-03", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Delete_NotOwned(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint64(7), uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	router := transactionRouter()

	req := httptest.NewRequest("DELETE", "/transactions/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
