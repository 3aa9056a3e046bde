package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/dto"
	"github.com/fireflow/fireflow_backend/internal/middleware"
	"github.com/fireflow/fireflow_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// goalHandler handles HTTP requests related to savings goals and their collaborators.
type goalHandler struct {
	goalService   portssvc.GoalSvcFacade
	posthogClient *utils.PosthogClientWrapper
}

func newGoalHandler(gs portssvc.GoalSvcFacade, posthogClient *utils.PosthogClientWrapper) *goalHandler {
	return &goalHandler{
		goalService:   gs,
		posthogClient: posthogClient,
	}
}

// RegisterGoalRoutes registers routes related to goals, contributions and participants.
func RegisterGoalRoutes(rg *gin.RouterGroup, goalService portssvc.GoalSvcFacade, posthogClient *utils.PosthogClientWrapper) {
	h := newGoalHandler(goalService, posthogClient)

	goals := rg.Group("/goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.GET("/:id", h.getGoal)
		goals.PUT("/:id", h.updateGoal)
		goals.DELETE("/:id", h.deleteGoal)
		goals.GET("/:id/progress", h.getProgress)

		goals.POST("/:id/contributions", h.addContribution)
		goals.GET("/:id/contributions", h.listContributions)

		goals.POST("/:id/participants", h.addParticipant)
		goals.GET("/:id/participants", h.listParticipants)
		goals.DELETE("/:id/participants/:userID", h.removeParticipant)
	}
}

// createGoal godoc
// @Summary Create a savings goal
// @Description Creates a goal owned by the logged-in user
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   goal body dto.CreateGoalRequest true "Goal details"
// @Success 201 {object} dto.GoalResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to create goal"
// @Security BearerAuth
// @Router /goals [post]
func (h *goalHandler) createGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGoal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create goal")
		return
	}

	logger.Info("Goal created", slog.String("goal_id", goal.GoalID))
	c.JSON(http.StatusCreated, dto.ToGoalResponse(goal))
}

// listGoals godoc
// @Summary List goals
// @Description Lists goals the logged-in user owns or collaborates on
// @Tags goals
// @Produce  json
// @Success 200 {object} dto.ListGoalsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list goals"
// @Security BearerAuth
// @Router /goals [get]
func (h *goalHandler) listGoals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	goals, err := h.goalService.ListGoals(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list goals")
		return
	}

	c.JSON(http.StatusOK, dto.ToListGoalsResponse(goals))
}

// getGoal godoc
// @Summary Get a goal by ID
// @Tags goals
// @Produce  json
// @Param   id path string true "Goal ID"
// @Success 200 {object} dto.GoalResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Goal not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve goal"
// @Security BearerAuth
// @Router /goals/{id} [get]
func (h *goalHandler) getGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	goal, err := h.goalService.GetGoalByID(c.Request.Context(), goalID, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("goal_id", goalID)), err, "Failed to retrieve goal")
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// updateGoal godoc
// @Summary Update a goal
// @Description Edits a goal. Owner only; the version must match the one last read.
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   id path string true "Goal ID"
// @Param   goal body dto.UpdateGoalRequest true "Fields to update"
// @Success 200 {object} dto.GoalResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Goal not found"
// @Failure 409 {object} dto.ErrorResponse "Goal was modified concurrently"
// @Failure 500 {object} dto.ErrorResponse "Failed to update goal"
// @Security BearerAuth
// @Router /goals/{id} [put]
func (h *goalHandler) updateGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("id")
	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateGoal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("goal_id", goalID))
	goal, err := h.goalService.UpdateGoal(c.Request.Context(), goalID, userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update goal")
		return
	}

	logger.Info("Goal updated")
	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// deleteGoal godoc
// @Summary Delete a goal
// @Description Removes a goal with its participants and contributions. Owner only.
// @Tags goals
// @Param   id path string true "Goal ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Goal not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to delete goal"
// @Security BearerAuth
// @Router /goals/{id} [delete]
func (h *goalHandler) deleteGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("goal_id", goalID))
	if err := h.goalService.DeleteGoal(c.Request.Context(), goalID, userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete goal")
		return
	}

	logger.Info("Goal deleted")
	c.Status(http.StatusNoContent)
}

// getProgress godoc
// @Summary Get goal progress
// @Description Current amount, target, remaining and percent (two decimals, capped at 100)
// @Tags goals
// @Produce  json
// @Param   id path string true "Goal ID"
// @Success 200 {object} domain.GoalProgress
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Goal not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute progress"
// @Security BearerAuth
// @Router /goals/{id}/progress [get]
func (h *goalHandler) getProgress(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	progress, err := h.goalService.GetProgress(c.Request.Context(), goalID, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("goal_id", goalID)), err, "Failed to compute progress")
		return
	}

	c.JSON(http.StatusOK, progress)
}

// addContribution godoc
// @Summary Contribute to a goal
// @Description Allocates money to a goal. The goal is completed once the target is reached.
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   id path string true "Goal ID"
// @Param   contribution body dto.AddContributionRequest true "Contribution"
// @Success 201 {object} dto.ContributionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or goal already completed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Goal not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to add contribution"
// @Security BearerAuth
// @Router /goals/{id}/contributions [post]
func (h *goalHandler) addContribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("id")
	var req dto.AddContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddContribution", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("goal_id", goalID))
	contribution, goal, err := h.goalService.AddContribution(c.Request.Context(), goalID, userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add contribution")
		return
	}

	logger.Info("Contribution added", slog.String("contribution_id", contribution.ContributionID))
	if goal.IsCompleted {
		middleware.PosthogEvent(c, h.posthogClient, "goal_completed", map[string]any{
			"goal_id":       goal.GoalID,
			"target_amount": goal.TargetAmount.String(),
		})
	}
	c.JSON(http.StatusCreated, dto.ToContributionResponse(contribution))
}

// listContributions godoc
// @Summary List goal contributions
// @Tags goals
// @Produce  json
// @Param   id path string true "Goal ID"
// @Success 200 {object} dto.ListContributionsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Goal not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list contributions"
// @Security BearerAuth
// @Router /goals/{id}/contributions [get]
func (h *goalHandler) listContributions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	contributions, err := h.goalService.ListContributions(c.Request.Context(), goalID, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("goal_id", goalID)), err, "Failed to list contributions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListContributionsResponse(contributions))
}

// addParticipant godoc
// @Summary Invite a collaborator
// @Description Adds an accepted friend to a goal as a collaborator. Owner only.
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   id path string true "Goal ID"
// @Param   participant body dto.AddParticipantRequest true "Friend to add"
// @Success 201 {object} dto.ParticipantResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or not a friend"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Goal or user not found"
// @Failure 409 {object} dto.ErrorResponse "Already a participant"
// @Failure 500 {object} dto.ErrorResponse "Failed to add participant"
// @Security BearerAuth
// @Router /goals/{id}/participants [post]
func (h *goalHandler) addParticipant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("id")
	var req dto.AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddParticipant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("goal_id", goalID), slog.String("target_user_id", req.UserID))
	participant, err := h.goalService.AddParticipant(c.Request.Context(), goalID, userID, req.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add participant")
		return
	}

	logger.Info("Participant added")
	c.JSON(http.StatusCreated, dto.ParticipantResponse{
		UserID:      participant.UserID,
		Email:       participant.Email,
		DisplayName: participant.DisplayName,
		Role:        participant.Role,
		JoinedAt:    participant.JoinedAt,
	})
}

// listParticipants godoc
// @Summary List goal participants
// @Tags goals
// @Produce  json
// @Param   id path string true "Goal ID"
// @Success 200 {object} dto.ListParticipantsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Goal not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list participants"
// @Security BearerAuth
// @Router /goals/{id}/participants [get]
func (h *goalHandler) listParticipants(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	participants, err := h.goalService.ListParticipants(c.Request.Context(), goalID, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("goal_id", goalID)), err, "Failed to list participants")
		return
	}

	c.JSON(http.StatusOK, dto.ToListParticipantsResponse(participants))
}

// removeParticipant godoc
// @Summary Remove a participant
// @Description The owner removes a collaborator, or a collaborator leaves. The owner cannot be removed.
// @Tags goals
// @Param   id path string true "Goal ID"
// @Param   userID path string true "User ID of the participant"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Owner cannot be removed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Goal or participant not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to remove participant"
// @Security BearerAuth
// @Router /goals/{id}/participants/{userID} [delete]
func (h *goalHandler) removeParticipant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("id")
	targetUserID := c.Param("userID")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("goal_id", goalID), slog.String("target_user_id", targetUserID))
	if err := h.goalService.RemoveParticipant(c.Request.Context(), goalID, userID, targetUserID); err != nil {
		respondWithError(c, logger, err, "Failed to remove participant")
		return
	}

	logger.Info("Participant removed")
	c.Status(http.StatusNoContent)
}
