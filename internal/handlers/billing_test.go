package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-tracker/internal/billing"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	"github.com/yukikurage/team-task-tracker/internal/dto"
	"github.com/yukikurage/team-task-tracker/internal/testutil"
)

func sendWebhook(env *testEnv, payload, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/billing/webhook", strings.NewReader(payload))
	req.Header.Set(constants.HeaderStripeSignature, signature)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func checkAccess(t *testing.T, env *testEnv, userID string) dto.AccessDTO {
	w := env.do(http.MethodGet, "/api/billing/access", nil, userID)
	require.Equal(t, http.StatusOK, w.Code)
	var body dto.AccessDTO
	decode(t, w, &body)
	return body
}

func hasAccess(t *testing.T, env *testEnv, userID string) bool {
	return checkAccess(t, env, userID).HasAccess
}

func TestWebhook_GrantsAndRevokesAccess(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	user := testutil.CreateUser(t, env.db, "paid@example.com")

	env.provider.On("ParseWebhook", []byte("completed"), "sig").Return(billing.Event{
		ID:             "evt_1",
		Type:           billing.EventCheckoutCompleted,
		UserID:         user.ID,
		SubscriptionID: "sub_1",
		CustomerID:     "cus_1",
	}, nil)
	env.provider.On("ParseWebhook", []byte("deleted"), "sig").Return(billing.Event{
		ID:             "evt_2",
		Type:           billing.EventSubscriptionDeleted,
		SubscriptionID: "sub_1",
	}, nil)

	before := checkAccess(t, env, user.ID)
	assert.False(t, before.HasAccess)
	assert.Nil(t, before.Subscription)

	w := sendWebhook(env, "completed", "sig")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received": true}`, w.Body.String())
	granted := checkAccess(t, env, user.ID)
	assert.True(t, granted.HasAccess)
	require.NotNil(t, granted.Subscription)
	assert.Equal(t, "sub_1", granted.Subscription.SubscriptionID)
	assert.True(t, granted.Subscription.Active)

	w = sendWebhook(env, "deleted", "sig")
	require.Equal(t, http.StatusOK, w.Code)
	revoked := checkAccess(t, env, user.ID)
	assert.False(t, revoked.HasAccess)
	require.NotNil(t, revoked.Subscription)
	assert.False(t, revoked.Subscription.Active)
}

func TestWebhook_InvalidSignature(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.provider.On("ParseWebhook", mock.Anything, "forged").Return(billing.Event{}, billing.ErrInvalidSignature)

	w := sendWebhook(env, `{"type":"checkout.session.completed"}`, "forged")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_PayloadTooLarge(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := sendWebhook(env, strings.Repeat("x", constants.MaxWebhookBodyBytes+1), "sig")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.provider.AssertNotCalled(t, "ParseWebhook", mock.Anything, mock.Anything)
}

func TestCheckoutAndPortal(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	user := testutil.CreateUser(t, env.db, "buyer@example.com")

	env.provider.On("CreateCheckoutSession", mock.Anything, billing.CheckoutRequest{
		UserID: user.ID,
		Email:  "buyer@example.com",
	}).Return("https://checkout.example.com/c/1", nil)

	w := env.do(http.MethodPost, "/api/billing/checkout", nil, user.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url": "https://checkout.example.com/c/1"}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/billing/portal", nil, user.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckout_NotConfigured(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	user := testutil.CreateUser(t, env.db, "buyer@example.com")
	env.provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return("", billing.ErrNotConfigured)

	w := env.do(http.MethodPost, "/api/billing/checkout", nil, user.ID)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCheckout_DeletedAccountIsUnauthorized(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.do(http.MethodPost, "/api/billing/checkout", nil, "gone-user")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}
