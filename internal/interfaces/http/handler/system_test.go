package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/w7-mgfcode/warehouse-management-system/internal/interfaces/http/dto"
)

func newSystemRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	h := NewSystemHandler(db)
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/system/info", h.GetSystemInfo)
	return router
}

func TestSystemHandlerHealth(t *testing.T) {
	router := newSystemRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
}

func TestSystemHandlerReady(t *testing.T) {
	router := newSystemRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ready", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ready", data["status"])
	assert.Equal(t, "up", data["database"])
}

func TestSystemHandlerInfo(t *testing.T) {
	router := newSystemRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/system/info", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Warehouse Management API", data["name"])
	assert.NotEmpty(t, data["go_version"])
}
