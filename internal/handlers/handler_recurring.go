package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/dto"
	"github.com/fireflow/fireflow_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// recurringHandler handles HTTP requests related to recurring transaction templates.
type recurringHandler struct {
	recurringService portssvc.RecurringTransactionSvcFacade
}

func newRecurringHandler(rs portssvc.RecurringTransactionSvcFacade) *recurringHandler {
	return &recurringHandler{
		recurringService: rs,
	}
}

// RegisterRecurringRoutes registers routes related to recurring transactions.
func RegisterRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringTransactionSvcFacade) {
	h := newRecurringHandler(recurringService)

	recurring := rg.Group("/recurring-transactions")
	{
		recurring.POST("", h.createRecurring)
		recurring.GET("", h.listRecurring)
		recurring.GET("/:id", h.getRecurring)
		recurring.PUT("/:id", h.updateRecurring)
		recurring.DELETE("/:id", h.deleteRecurring)
		recurring.POST("/:id/activate", h.activateRecurring)
		recurring.POST("/:id/deactivate", h.deactivateRecurring)
		recurring.GET("/:id/upcoming", h.previewUpcoming)
	}
}

// createRecurring godoc
// @Summary Create a recurring transaction
// @Description Creates a template whose first occurrence is due on its start date
// @Tags recurring-transactions
// @Accept  json
// @Produce  json
// @Param   recurring body dto.CreateRecurringTransactionRequest true "Template details"
// @Success 201 {object} dto.RecurringTransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to create recurring transaction"
// @Security BearerAuth
// @Router /recurring-transactions [post]
func (h *recurringHandler) createRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRecurringTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRecurringTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	rt, err := h.recurringService.CreateRecurringTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create recurring transaction")
		return
	}

	logger.Info("Recurring transaction created",
		slog.String("recurring_transaction_id", rt.RecurringTransactionID),
		slog.String("frequency", string(rt.Frequency)))
	c.JSON(http.StatusCreated, dto.ToRecurringTransactionResponse(rt))
}

// listRecurring godoc
// @Summary List recurring transactions
// @Tags recurring-transactions
// @Produce  json
// @Success 200 {object} dto.ListRecurringTransactionsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list recurring transactions"
// @Security BearerAuth
// @Router /recurring-transactions [get]
func (h *recurringHandler) listRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	rts, err := h.recurringService.ListRecurringTransactions(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list recurring transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListRecurringTransactionsResponse(rts))
}

// getRecurring godoc
// @Summary Get a recurring transaction by ID
// @Tags recurring-transactions
// @Produce  json
// @Param   id path string true "Recurring transaction ID"
// @Success 200 {object} dto.RecurringTransactionResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Recurring transaction not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve recurring transaction"
// @Security BearerAuth
// @Router /recurring-transactions/{id} [get]
func (h *recurringHandler) getRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recurringID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	rt, err := h.recurringService.GetRecurringTransactionByID(c.Request.Context(), recurringID, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("recurring_transaction_id", recurringID)), err, "Failed to retrieve recurring transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringTransactionResponse(rt))
}

// updateRecurring godoc
// @Summary Update a recurring transaction
// @Description Edits a template. The version must match the one last read.
// @Tags recurring-transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Recurring transaction ID"
// @Param   recurring body dto.UpdateRecurringTransactionRequest true "Fields to update"
// @Success 200 {object} dto.RecurringTransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Recurring transaction not found"
// @Failure 409 {object} dto.ErrorResponse "Recurring transaction was modified concurrently"
// @Failure 500 {object} dto.ErrorResponse "Failed to update recurring transaction"
// @Security BearerAuth
// @Router /recurring-transactions/{id} [put]
func (h *recurringHandler) updateRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recurringID := c.Param("id")
	var req dto.UpdateRecurringTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRecurringTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("recurring_transaction_id", recurringID))
	rt, err := h.recurringService.UpdateRecurringTransaction(c.Request.Context(), recurringID, userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update recurring transaction")
		return
	}

	logger.Info("Recurring transaction updated")
	c.JSON(http.StatusOK, dto.ToRecurringTransactionResponse(rt))
}

// deleteRecurring godoc
// @Summary Delete a recurring transaction
// @Description Removes a template. Transactions it already generated are kept.
// @Tags recurring-transactions
// @Param   id path string true "Recurring transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Recurring transaction not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to delete recurring transaction"
// @Security BearerAuth
// @Router /recurring-transactions/{id} [delete]
func (h *recurringHandler) deleteRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recurringID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("recurring_transaction_id", recurringID))
	if err := h.recurringService.DeleteRecurringTransaction(c.Request.Context(), recurringID, userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete recurring transaction")
		return
	}

	logger.Info("Recurring transaction deleted")
	c.Status(http.StatusNoContent)
}

// activateRecurring godoc
// @Summary Resume a recurring transaction
// @Tags recurring-transactions
// @Produce  json
// @Param   id path string true "Recurring transaction ID"
// @Success 200 {object} dto.RecurringTransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Template has passed its end date"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Recurring transaction not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to activate recurring transaction"
// @Security BearerAuth
// @Router /recurring-transactions/{id}/activate [post]
func (h *recurringHandler) activateRecurring(c *gin.Context) {
	h.setActive(c, true)
}

// deactivateRecurring godoc
// @Summary Pause a recurring transaction
// @Tags recurring-transactions
// @Produce  json
// @Param   id path string true "Recurring transaction ID"
// @Success 200 {object} dto.RecurringTransactionResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Recurring transaction not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to deactivate recurring transaction"
// @Security BearerAuth
// @Router /recurring-transactions/{id}/deactivate [post]
func (h *recurringHandler) deactivateRecurring(c *gin.Context) {
	h.setActive(c, false)
}

func (h *recurringHandler) setActive(c *gin.Context, active bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recurringID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("recurring_transaction_id", recurringID), slog.Bool("active", active))
	rt, err := h.recurringService.SetRecurringTransactionActive(c.Request.Context(), recurringID, userID, active)
	if err != nil {
		msg := "Failed to deactivate recurring transaction"
		if active {
			msg = "Failed to activate recurring transaction"
		}
		respondWithError(c, logger, err, msg)
		return
	}

	logger.Info("Recurring transaction state changed")
	c.JSON(http.StatusOK, dto.ToRecurringTransactionResponse(rt))
}

// previewUpcoming godoc
// @Summary Preview upcoming occurrences
// @Description Lists the next due dates of a template without generating anything
// @Tags recurring-transactions
// @Produce  json
// @Param   id path string true "Recurring transaction ID"
// @Param   count query int false "Number of dates" default(5)
// @Success 200 {object} dto.UpcomingOccurrencesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid count"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Recurring transaction not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to preview occurrences"
// @Security BearerAuth
// @Router /recurring-transactions/{id}/upcoming [get]
func (h *recurringHandler) previewUpcoming(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recurringID := c.Param("id")
	var params dto.UpcomingParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for PreviewUpcoming", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	dates, err := h.recurringService.PreviewUpcoming(c.Request.Context(), recurringID, userID, params.Count)
	if err != nil {
		respondWithError(c, logger.With(slog.String("recurring_transaction_id", recurringID)), err, "Failed to preview occurrences")
		return
	}

	c.JSON(http.StatusOK, dto.ToUpcomingOccurrencesResponse(recurringID, dates))
}
