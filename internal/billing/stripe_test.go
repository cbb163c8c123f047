package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test"

func sign(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func newTestProvider() *StripeProvider {
	return NewStripeProvider(StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: testWebhookSecret,
		PriceID:       "price_123",
		BaseURL:       "https://app.example.com/",
	})
}

func TestParseWebhook_CheckoutCompleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"object": "checkout.session",
			"client_reference_id": "fallback-user",
			"metadata": {"user_id": "user-1"},
			"subscription": "sub_1",
			"customer": "cus_1"
		}}
	}`)

	event, err := newTestProvider().ParseWebhook(payload, sign(payload, testWebhookSecret))

	require.NoError(t, err)
	assert.Equal(t, Event{
		ID:             "evt_1",
		Type:           EventCheckoutCompleted,
		UserID:         "user-1",
		SubscriptionID: "sub_1",
		CustomerID:     "cus_1",
	}, event)
}

func TestParseWebhook_CheckoutFallsBackToClientReference(t *testing.T) {
	payload := []byte(`{
		"id": "evt_2",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_2", "object": "checkout.session", "client_reference_id": "user-2", "subscription": "sub_2"}}
	}`)

	event, err := newTestProvider().ParseWebhook(payload, sign(payload, testWebhookSecret))

	require.NoError(t, err)
	assert.Equal(t, "user-2", event.UserID)
	assert.Equal(t, "sub_2", event.SubscriptionID)
	assert.Empty(t, event.CustomerID)
}

func TestParseWebhook_SubscriptionDeleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_3",
		"object": "event",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_3", "object": "subscription", "customer": "cus_3"}}
	}`)

	event, err := newTestProvider().ParseWebhook(payload, sign(payload, testWebhookSecret))

	require.NoError(t, err)
	assert.Equal(t, EventSubscriptionDeleted, event.Type)
	assert.Equal(t, "sub_3", event.SubscriptionID)
	assert.Equal(t, "cus_3", event.CustomerID)
}

func TestParseWebhook_InvalidSignature(t *testing.T) {
	payload := []byte(`{"id": "evt_4", "object": "event", "type": "checkout.session.completed", "data": {"object": {}}}`)

	_, err := newTestProvider().ParseWebhook(payload, sign(payload, "whsec_other"))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = newTestProvider().ParseWebhook(payload, "")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestStripeProvider_NotConfigured(t *testing.T) {
	provider := NewStripeProvider(StripeConfig{})

	_, err := provider.ParseWebhook([]byte(`{}`), "t=1,v1=00")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = provider.CreateCheckoutSession(context.Background(), CheckoutRequest{UserID: "u1"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = provider.CreatePortalSession(context.Background(), "cus_1", "https://app.example.com/dashboard")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewStripeProvider_TrimsBaseURL(t *testing.T) {
	assert.Equal(t, "https://app.example.com", newTestProvider().cfg.BaseURL)
}
