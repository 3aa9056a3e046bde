package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/dto"
	"github.com/fireflow/fireflow_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// friendHandler handles HTTP requests related to friendships.
type friendHandler struct {
	friendService portssvc.FriendSvcFacade
}

func newFriendHandler(fs portssvc.FriendSvcFacade) *friendHandler {
	return &friendHandler{
		friendService: fs,
	}
}

// RegisterFriendRoutes registers routes related to friends and friend requests.
func RegisterFriendRoutes(rg *gin.RouterGroup, friendService portssvc.FriendSvcFacade) {
	h := newFriendHandler(friendService)

	friends := rg.Group("/friends")
	{
		friends.GET("", h.listFriends)
		friends.DELETE("/:userID", h.removeFriend)

		friends.POST("/requests", h.sendRequest)
		friends.GET("/requests", h.listRequests)
		friends.POST("/requests/:id/accept", h.acceptRequest)
		friends.POST("/requests/:id/decline", h.declineRequest)
	}
}

// listFriends godoc
// @Summary List friends
// @Tags friends
// @Produce  json
// @Success 200 {object} dto.ListFriendsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list friends"
// @Security BearerAuth
// @Router /friends [get]
func (h *friendHandler) listFriends(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	friends, err := h.friendService.ListFriends(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list friends")
		return
	}

	c.JSON(http.StatusOK, dto.ToListFriendsResponse(friends))
}

// removeFriend godoc
// @Summary Remove a friend
// @Tags friends
// @Param   userID path string true "User ID of the friend"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Friendship not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to remove friend"
// @Security BearerAuth
// @Router /friends/{userID} [delete]
func (h *friendHandler) removeFriend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	friendID := c.Param("userID")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("friend_id", friendID))
	if err := h.friendService.RemoveFriend(c.Request.Context(), userID, friendID); err != nil {
		respondWithError(c, logger, err, "Failed to remove friend")
		return
	}

	logger.Info("Friend removed")
	c.Status(http.StatusNoContent)
}

// sendRequest godoc
// @Summary Send a friend request
// @Tags friends
// @Accept  json
// @Produce  json
// @Param   request body dto.SendFriendRequest true "User to befriend"
// @Success 201 {object} dto.FriendRequestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Friendship or request already exists"
// @Failure 500 {object} dto.ErrorResponse "Failed to send friend request"
// @Security BearerAuth
// @Router /friends/requests [post]
func (h *friendHandler) sendRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SendFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SendFriendRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("addressee_id", req.UserID))
	friendship, err := h.friendService.SendRequest(c.Request.Context(), userID, req.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to send friend request")
		return
	}

	logger.Info("Friend request sent", slog.String("friendship_id", friendship.FriendshipID))
	c.JSON(http.StatusCreated, dto.ToFriendRequestResponse(friendship))
}

// listRequests godoc
// @Summary List incoming friend requests
// @Tags friends
// @Produce  json
// @Success 200 {object} dto.ListFriendRequestsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list friend requests"
// @Security BearerAuth
// @Router /friends/requests [get]
func (h *friendHandler) listRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	requests, err := h.friendService.ListPendingRequests(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list friend requests")
		return
	}

	c.JSON(http.StatusOK, dto.ToListFriendRequestsResponse(requests))
}

// acceptRequest godoc
// @Summary Accept a friend request
// @Tags friends
// @Produce  json
// @Param   id path string true "Friendship ID"
// @Success 200 {object} dto.FriendRequestResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the addressee"
// @Failure 404 {object} dto.ErrorResponse "Friend request not found"
// @Failure 409 {object} dto.ErrorResponse "Already answered"
// @Failure 500 {object} dto.ErrorResponse "Failed to answer friend request"
// @Security BearerAuth
// @Router /friends/requests/{id}/accept [post]
func (h *friendHandler) acceptRequest(c *gin.Context) {
	h.respond(c, true)
}

// declineRequest godoc
// @Summary Decline a friend request
// @Tags friends
// @Produce  json
// @Param   id path string true "Friendship ID"
// @Success 200 {object} dto.FriendRequestResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the addressee"
// @Failure 404 {object} dto.ErrorResponse "Friend request not found"
// @Failure 409 {object} dto.ErrorResponse "Already answered"
// @Failure 500 {object} dto.ErrorResponse "Failed to answer friend request"
// @Security BearerAuth
// @Router /friends/requests/{id}/decline [post]
func (h *friendHandler) declineRequest(c *gin.Context) {
	h.respond(c, false)
}

func (h *friendHandler) respond(c *gin.Context, accept bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	friendshipID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("friendship_id", friendshipID), slog.Bool("accept", accept))
	friendship, err := h.friendService.RespondToRequest(c.Request.Context(), friendshipID, userID, accept)
	if err != nil {
		respondWithError(c, logger, err, "Failed to answer friend request")
		return
	}

	logger.Info("Friend request answered", slog.String("status", string(friendship.Status)))
	c.JSON(http.StatusOK, dto.ToFriendRequestResponse(friendship))
}
