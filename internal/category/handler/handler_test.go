package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-register/internal/category/repository"
	"github.com/fekuna/omnipos-register/internal/category/usecase"
	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	st := store.NewMemoryStore()
	uc := usecase.NewCategoryUseCase(st, repository.NewKVRepository(st), event.Nop{}, logger.NewNop())

	r := gin.New()
	NewCategoryHandler(uc, logger.NewNop()).Register(r.Group("/api"))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCategoryRoutes(t *testing.T) {
	r := newRouter()

	w := do(r, http.MethodGet, "/api/categories", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dairy")

	w = do(r, http.MethodPost, "/api/categories", `{"name":"Pet Food"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Pet Food")

	w = do(r, http.MethodPost, "/api/categories", `{"name":"Pet Food"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/categories", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/categories", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/api/categories/Pet%20Food", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Pet Food")
}
