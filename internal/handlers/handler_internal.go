package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/dto"
	"github.com/fireflow/fireflow_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// internalHandler serves endpoints called by schedulers rather than users.
type internalHandler struct {
	processor portssvc.RecurringProcessorSvc
	now       func() time.Time
}

// RegisterInternalRoutes registers scheduler-triggered routes. The group must already be
// guarded by CronSecretMiddleware.
func RegisterInternalRoutes(rg *gin.RouterGroup, processor portssvc.RecurringProcessorSvc) {
	h := &internalHandler{processor: processor, now: time.Now}
	rg.POST("/recurring/run", h.runRecurring)
}

// runRecurring godoc
// @Summary Run the recurring generator
// @Description Materializes every occurrence due today or earlier for all active templates
// @Tags internal
// @Produce  json
// @Param   X-Cron-Secret header string true "Shared scheduler secret"
// @Success 200 {object} dto.CatchUpSummaryResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid secret"
// @Failure 500 {object} dto.ErrorResponse "Failed to run recurring generator"
// @Router /internal/recurring/run [post]
func (h *internalHandler) runRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("run_id", uuid.NewString()))
	ctx := middleware.WithLogger(c.Request.Context(), logger)

	summary, err := h.processor.RunCatchUp(ctx, h.now())
	if err != nil {
		logger.Error("Recurring generator run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run recurring generator"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCatchUpSummaryResponse(summary))
}
