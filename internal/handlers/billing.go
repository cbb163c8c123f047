package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	"github.com/yukikurage/team-task-tracker/internal/dto"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/middleware"
	"github.com/yukikurage/team-task-tracker/internal/services"
)

type BillingHandler struct {
	billingService *services.BillingService
	accessService  *services.AccessService
}

func NewBillingHandler(billingService *services.BillingService, accessService *services.AccessService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		accessService:  accessService,
	}
}

// CheckAccess reports whether the caller may use team-management features,
// along with their subscription row if one exists
func (h *BillingHandler) CheckAccess(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	ctx := c.Request.Context()
	c.JSON(http.StatusOK, dto.AccessDTO{
		HasAccess:    h.accessService.HasActiveSubscription(ctx, userID),
		Subscription: dto.ToSubscriptionDTO(h.accessService.SubscriptionOf(ctx, userID)),
	})
}

// CreateCheckoutSession returns the hosted checkout URL for a subscription
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	url, err := h.billingService.CreateCheckoutSession(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// CreatePortalSession returns the billing portal URL of the caller
func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	url, err := h.billingService.CreatePortalSession(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Webhook receives payment provider events. The raw body is needed for
// signature verification, so it is read before any binding.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxWebhookBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			apierrors.BadRequest(c, "Webhook payload too large")
			return
		}
		apierrors.BadRequest(c, "Failed to read webhook payload")
		return
	}

	if err := h.billingService.HandleWebhook(c.Request.Context(), payload, c.GetHeader(constants.HeaderStripeSignature)); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
