package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
)

// SubscriptionChecker reports whether a user holds an active subscription.
type SubscriptionChecker interface {
	HasActiveSubscription(ctx context.Context, userID string) bool
}

// RequireActiveSubscription blocks team-management routes for users without
// an active subscription.
func RequireActiveSubscription(checker SubscriptionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := GetUserID(c)

		if !checker.HasActiveSubscription(c.Request.Context(), userID) {
			apierrors.Respond(c, apierrors.NewAccessDeniedError(apierrors.ErrCodeSubscriptionRequired, "An active subscription is required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
