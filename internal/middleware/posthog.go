package middleware

import (
	"net/http"
	"strings"

	"github.com/fireflow/fireflow_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// productEvents names the routes worth a dedicated analytics event.
// Keys are "METHOD route template".
var productEvents = map[string]string{
	"POST /api/v1/transactions":                          "transaction_created",
	"DELETE /api/v1/transactions/:id":                    "transaction_deleted",
	"POST /api/v1/recurring-transactions":                "recurring_created",
	"POST /api/v1/recurring-transactions/:id/deactivate": "recurring_paused",
	"POST /api/v1/recurring-transactions/:id/activate":   "recurring_resumed",
	"POST /api/v1/goals":                                 "goal_created",
	"POST /api/v1/goals/:id/contributions":               "goal_contribution_added",
	"POST /api/v1/goals/:id/participants":                "goal_participant_added",
	"POST /api/v1/friends/requests":                      "friend_request_sent",
	"POST /api/v1/friends/requests/:id/accept":           "friend_request_accepted",
}

// PosthogMiddleware records an event for every successful authenticated request.
// Routes listed in productEvents get their own event name; the rest are sent as api_request.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if posthogClient == nil || !posthogClient.IsInitialized() {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest || c.FullPath() == "" {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		route := c.Request.Method + " " + c.FullPath()
		props := map[string]any{
			"route":       route,
			"status_code": c.Writer.Status(),
		}
		if id := c.Param("id"); id != "" {
			props["resource_id"] = id
		}

		event, ok := productEvents[route]
		if !ok {
			event = "api_request"
			props["resource"] = resourceOf(c.FullPath())
		}
		posthogClient.Enqueue(userID, event, props)
	}
}

// resourceOf returns the first path segment after /api/v1, e.g. "goals".
func resourceOf(fullPath string) string {
	rest := strings.TrimPrefix(fullPath, "/api/v1/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// PosthogEvent sends a custom event for the authenticated caller.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if posthogClient == nil || !posthogClient.IsInitialized() {
		return
	}
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["route"] = c.Request.Method + " " + c.FullPath()
	posthogClient.Enqueue(userID, eventName, properties)
}
