package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/fireflow/fireflow_backend/internal/dto"
	"github.com/fireflow/fireflow_backend/internal/handlers"
	"github.com/fireflow/fireflow_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RecurringHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockRecurringService *MockRecurringService
	userID               string
	token                string
}

func (suite *RecurringHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())
}

func (suite *RecurringHandlerTestSuite) SetupTest() {
	suite.router = gin.New()
	suite.mockRecurringService = new(MockRecurringService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret, testAudience))
	handlers.RegisterRecurringRoutes(v1, suite.mockRecurringService)

	suite.userID = uuid.NewString()
	token, err := generateTestToken(testJWTSecret, suite.userID)
	suite.Require().NoError(err)
	suite.token = token
}

func (suite *RecurringHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RecurringHandlerTestSuite) gymTemplate() *domain.RecurringTransaction {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.RecurringTransaction{
		RecurringTransactionID: uuid.NewString(),
		UserID:                 suite.userID,
		Description:            "Gym",
		Category:               "Health",
		Type:                   domain.Expense,
		Amount:                 decimal.NewFromInt(30),
		Frequency:              domain.Weekly,
		StartDate:              start,
		NextRunDate:            start,
		IsActive:               true,
		AuditFields:            domain.AuditFields{Version: 1},
	}
}

func (suite *RecurringHandlerTestSuite) TestCreateRecurring_Success() {
	rt := suite.gymTemplate()
	suite.mockRecurringService.On("CreateRecurringTransaction",
		mock.Anything,
		suite.userID,
		mock.MatchedBy(func(req dto.CreateRecurringTransactionRequest) bool {
			return req.Frequency == domain.Weekly && req.StartDate == "2024-01-01" && req.Amount.Equal(decimal.NewFromInt(30))
		}),
	).Return(rt, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/recurring-transactions", map[string]any{
		"description": "Gym",
		"category":    "Health",
		"type":        "expense",
		"amount":      "30",
		"frequency":   "weekly",
		"startDate":   "2024-01-01",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.RecurringTransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(rt.RecurringTransactionID, resp.RecurringTransactionID)
	suite.Equal("2024-01-01", resp.NextRunDate)
	suite.True(resp.IsActive)
	suite.mockRecurringService.AssertExpectations(suite.T())
}

func (suite *RecurringHandlerTestSuite) TestCreateRecurring_UnknownFrequency() {
	w := suite.do(http.MethodPost, "/api/v1/recurring-transactions", map[string]any{
		"category":  "Health",
		"type":      "expense",
		"amount":    "30",
		"frequency": "hourly",
		"startDate": "2024-01-01",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRecurringService.AssertNotCalled(suite.T(), "CreateRecurringTransaction")
}

func (suite *RecurringHandlerTestSuite) TestCreateRecurring_BadStartDate() {
	w := suite.do(http.MethodPost, "/api/v1/recurring-transactions", map[string]any{
		"category":  "Health",
		"type":      "expense",
		"amount":    "30",
		"frequency": "monthly",
		"startDate": "01/02/2024",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRecurringService.AssertNotCalled(suite.T(), "CreateRecurringTransaction")
}

func (suite *RecurringHandlerTestSuite) TestCreateRecurring_ServiceValidationError() {
	suite.mockRecurringService.On("CreateRecurringTransaction", mock.Anything, suite.userID, mock.Anything).
		Return(nil, apperrors.NewValidationFailedError("amount must be positive")).Once()

	w := suite.do(http.MethodPost, "/api/v1/recurring-transactions", map[string]any{
		"category":  "Health",
		"type":      "expense",
		"amount":    "-5",
		"frequency": "monthly",
		"startDate": "2024-01-01",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "amount must be positive")
}

func (suite *RecurringHandlerTestSuite) TestRequiresToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/recurring-transactions", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockRecurringService.AssertNotCalled(suite.T(), "ListRecurringTransactions")
}

func (suite *RecurringHandlerTestSuite) TestGetRecurring_NotFound() {
	id := uuid.NewString()
	suite.mockRecurringService.On("GetRecurringTransactionByID", mock.Anything, id, suite.userID).
		Return(nil, apperrors.NewNotFoundError("recurring transaction not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/recurring-transactions/"+id, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.JSONEq(`{"error":"recurring transaction not found"}`, w.Body.String())
}

func (suite *RecurringHandlerTestSuite) TestUpdateRecurring_StaleVersion() {
	id := uuid.NewString()
	suite.mockRecurringService.On("UpdateRecurringTransaction", mock.Anything, id, suite.userID,
		mock.MatchedBy(func(req dto.UpdateRecurringTransactionRequest) bool { return req.Version == 3 }),
	).Return(nil, apperrors.NewStaleWriteError("recurring transaction was modified by another request")).Once()

	w := suite.do(http.MethodPut, "/api/v1/recurring-transactions/"+id, map[string]any{
		"description": "Gym (new plan)",
		"version":     3,
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockRecurringService.AssertExpectations(suite.T())
}

func (suite *RecurringHandlerTestSuite) TestUpdateRecurring_MissingVersion() {
	w := suite.do(http.MethodPut, "/api/v1/recurring-transactions/"+uuid.NewString(), map[string]any{
		"description": "Gym",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRecurringService.AssertNotCalled(suite.T(), "UpdateRecurringTransaction")
}

func (suite *RecurringHandlerTestSuite) TestActivateRecurring_Expired() {
	id := uuid.NewString()
	suite.mockRecurringService.On("SetRecurringTransactionActive", mock.Anything, id, suite.userID, true).
		Return(nil, apperrors.NewValidationFailedError("recurring transaction has passed its end date")).Once()

	w := suite.do(http.MethodPost, "/api/v1/recurring-transactions/"+id+"/activate", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRecurringService.AssertExpectations(suite.T())
}

func (suite *RecurringHandlerTestSuite) TestDeactivateRecurring_Success() {
	rt := suite.gymTemplate()
	rt.IsActive = false
	suite.mockRecurringService.On("SetRecurringTransactionActive", mock.Anything, rt.RecurringTransactionID, suite.userID, false).
		Return(rt, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/recurring-transactions/"+rt.RecurringTransactionID+"/deactivate", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RecurringTransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.IsActive)
}

func (suite *RecurringHandlerTestSuite) TestDeleteRecurring_Success() {
	id := uuid.NewString()
	suite.mockRecurringService.On("DeleteRecurringTransaction", mock.Anything, id, suite.userID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/recurring-transactions/"+id, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockRecurringService.AssertExpectations(suite.T())
}

func (suite *RecurringHandlerTestSuite) TestPreviewUpcoming() {
	id := uuid.NewString()
	dates := []time.Time{
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC),
	}
	suite.mockRecurringService.On("PreviewUpcoming", mock.Anything, id, suite.userID, 3).Return(dates, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/recurring-transactions/"+id+"/upcoming?count=3", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UpcomingOccurrencesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal([]string{"2024-01-31", "2024-02-29", "2024-03-29"}, resp.Dates)
}

func (suite *RecurringHandlerTestSuite) TestPreviewUpcoming_DefaultCount() {
	id := uuid.NewString()
	suite.mockRecurringService.On("PreviewUpcoming", mock.Anything, id, suite.userID, 5).Return([]time.Time{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/recurring-transactions/"+id+"/upcoming", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockRecurringService.AssertExpectations(suite.T())
}

func (suite *RecurringHandlerTestSuite) TestPreviewUpcoming_CountTooLarge() {
	w := suite.do(http.MethodGet, "/api/v1/recurring-transactions/"+uuid.NewString()+"/upcoming?count=100", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRecurringService.AssertNotCalled(suite.T(), "PreviewUpcoming")
}

func TestRecurringHandler(t *testing.T) {
	suite.Run(t, new(RecurringHandlerTestSuite))
}
