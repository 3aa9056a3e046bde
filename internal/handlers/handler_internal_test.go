package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/fireflow/fireflow_backend/internal/dto"
	"github.com/fireflow/fireflow_backend/internal/handlers"
	"github.com/fireflow/fireflow_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var assertAnError = errors.New("database is on fire")

func newInternalRouter(secret string, processor *MockRecurringProcessor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	internal := r.Group("/api/v1/internal", middleware.CronSecretMiddleware(secret))
	handlers.RegisterInternalRoutes(internal, processor)
	return r
}

func TestRunRecurring_Success(t *testing.T) {
	processor := new(MockRecurringProcessor)
	summary := domain.CatchUpSummary{
		RunAt:               time.Date(2024, 1, 20, 6, 0, 0, 0, time.UTC),
		Today:               time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		TemplatesChecked:    3,
		TemplatesProcessed:  2,
		TransactionsCreated: 5,
	}
	processor.On("RunCatchUp", mock.Anything, mock.AnythingOfType("time.Time")).Return(summary, nil).Once()

	r := newInternalRouter("s3cret", processor)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/internal/recurring/run", nil)
	req.Header.Set(middleware.CronSecretHeader, "s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.CatchUpSummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2024-01-20", resp.Today)
	assert.Equal(t, 5, resp.TransactionsCreated)
	processor.AssertExpectations(t)
}

func TestRunRecurring_WrongSecret(t *testing.T) {
	processor := new(MockRecurringProcessor)
	r := newInternalRouter("s3cret", processor)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/internal/recurring/run", nil)
	req.Header.Set(middleware.CronSecretHeader, "guess")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	processor.AssertNotCalled(t, "RunCatchUp")
}

func TestRunRecurring_DisabledWithoutSecret(t *testing.T) {
	processor := new(MockRecurringProcessor)
	r := newInternalRouter("", processor)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/internal/recurring/run", nil)
	req.Header.Set(middleware.CronSecretHeader, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	processor.AssertNotCalled(t, "RunCatchUp")
}

func TestRunRecurring_StoreFailure(t *testing.T) {
	processor := new(MockRecurringProcessor)
	processor.On("RunCatchUp", mock.Anything, mock.Anything).Return(domain.CatchUpSummary{}, assertAnError).Once()

	r := newInternalRouter("s3cret", processor)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/internal/recurring/run", nil)
	req.Header.Set(middleware.CronSecretHeader, "s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
