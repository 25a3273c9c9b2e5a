package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/settings/repository"
	"github.com/fekuna/omnipos-register/internal/settings/usecase"
	"github.com/fekuna/omnipos-register/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSettingsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	uc := usecase.NewSettingsUseCase(repository.NewKVRepository(store.NewMemoryStore()), event.Nop{}, logger.NewNop())
	r := gin.New()
	NewSettingsHandler(uc, logger.NewNop()).Register(r.Group("/api"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"storeName":"My Supermarket","taxRate":5,"currency":"USD"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{"storeName":"Corner Shop","taxRate":7.5,"currency":"EUR"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	assert.JSONEq(t, `{"storeName":"Corner Shop","taxRate":7.5,"currency":"EUR"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{"taxRate":"high"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
