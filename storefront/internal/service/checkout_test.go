package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	commonErrors "github.com/novadent/novadent/internal/common/errors"
	"github.com/novadent/novadent/storefront/internal/store"
	"github.com/novadent/novadent/storefront/pkg/request"
)

func TestServiceStep(t *testing.T) {
	t.Run("given next within the pre-billing steps should advance", func(t *testing.T) {
		c := context.Background()
		storefrontService := newTestService(t, "")
		sessionId := uuid.NewString()

		step, err := storefrontService.Step(c, sessionId, request.Step{Direction: "next"})

		assert.NoError(t, err)
		assert.Equal(t, store.StepShipping, step)
	})
	t.Run("given a jump past billing without agreed terms should refuse", func(t *testing.T) {
		c := context.Background()
		storefrontService := newTestService(t, "")
		sessionId := uuid.NewString()

		step, err := storefrontService.Step(c, sessionId, request.Step{Step: intPtr(store.StepFinalReview)})

		assert.ErrorIs(t, err, commonErrors.ErrTermsNotAgreed)
		assert.Equal(t, store.StepCartReview, step)
	})
	t.Run("given agreed terms should allow moving past billing", func(t *testing.T) {
		c := context.Background()
		storefrontService := newTestService(t, "")
		sessionId := uuid.NewString()
		storefrontService.UpdateConsentFlags(c, sessionId, request.ConsentFlags{TermsAgreed: boolPtr(true)})

		step, err := storefrontService.Step(c, sessionId, request.Step{Step: intPtr(store.StepFinalReview)})

		assert.NoError(t, err)
		assert.Equal(t, store.StepFinalReview, step)
	})
	t.Run("given moving backwards from final review should not require terms", func(t *testing.T) {
		c := context.Background()
		storefrontService := newTestService(t, "")
		sessionId := uuid.NewString()
		storefrontService.UpdateConsentFlags(c, sessionId, request.ConsentFlags{TermsAgreed: boolPtr(true)})
		_, err := storefrontService.Step(c, sessionId, request.Step{Step: intPtr(store.StepFinalReview)})
		assert.NoError(t, err)
		storefrontService.UpdateConsentFlags(c, sessionId, request.ConsentFlags{TermsAgreed: boolPtr(false)})

		step, err := storefrontService.Step(c, sessionId, request.Step{Direction: "previous"})

		assert.NoError(t, err)
		assert.Equal(t, store.StepBilling, step)
	})
	t.Run("given neither a step nor a direction should refuse", func(t *testing.T) {
		c := context.Background()
		storefrontService := newTestService(t, "")
		sessionId := uuid.NewString()

		_, err := storefrontService.Step(c, sessionId, request.Step{Direction: "sideways"})

		assert.ErrorIs(t, err, commonErrors.ErrInvalidDirection)
	})
}

func TestServiceConfirmOrder(t *testing.T) {
	t.Run("given agreed terms and a healthy backend should clear the session", func(t *testing.T) {
		c := context.Background()
		var submitted []byte
		backend := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				submitted, _ = io.ReadAll(r.Body)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				io.WriteString(w, `{"orderId":"ORD-2024-0193"}`)
			}),
		)
		defer backend.Close()

		storefrontService := newTestService(t, backend.URL)
		sessionId := uuid.NewString()
		storefrontService.AddToCart(c, sessionId, glovesId, 2)
		storefrontService.UpdateConsentFlags(c, sessionId, request.ConsentFlags{TermsAgreed: boolPtr(true)})

		confirmation, err := storefrontService.ConfirmOrder(c, sessionId, "")

		assert.NoError(t, err)
		assert.NotEmpty(t, submitted)
		assert.Equal(t, "ORD-2024-0193", confirmation.OrderId)
		assert.True(t, decimal.RequireFromString("50.00").Equal(confirmation.Quote.Subtotal))

		cart := storefrontService.Cart(c, sessionId)
		assert.Empty(t, cart.Items)
		checkout := storefrontService.Checkout(c, sessionId)
		assert.Equal(t, store.StepCartReview, checkout.CurrentStep)
		assert.False(t, checkout.TermsAgreed)
	})
	t.Run("given terms not agreed should refuse without calling the backend", func(t *testing.T) {
		c := context.Background()
		backendCalled := false
		backend := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				backendCalled = true
			}),
		)
		defer backend.Close()

		storefrontService := newTestService(t, backend.URL)
		sessionId := uuid.NewString()
		storefrontService.AddToCart(c, sessionId, glovesId, 2)

		_, err := storefrontService.ConfirmOrder(c, sessionId, "")

		assert.ErrorIs(t, err, commonErrors.ErrTermsNotAgreed)
		assert.False(t, backendCalled)
	})
	t.Run("given a failing backend should keep the local state for retry", func(t *testing.T) {
		c := context.Background()
		backend := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				io.WriteString(w, `{"message":"order intake is down"}`)
			}),
		)
		defer backend.Close()

		storefrontService := newTestService(t, backend.URL)
		sessionId := uuid.NewString()
		storefrontService.AddToCart(c, sessionId, glovesId, 2)
		storefrontService.UpdateConsentFlags(c, sessionId, request.ConsentFlags{TermsAgreed: boolPtr(true)})

		_, err := storefrontService.ConfirmOrder(c, sessionId, "")

		assert.Error(t, err)
		cart := storefrontService.Cart(c, sessionId)
		assert.Len(t, cart.Items, 1)
		checkout := storefrontService.Checkout(c, sessionId)
		assert.True(t, checkout.TermsAgreed)
	})
	t.Run("given a bearer token should forward it to the backend", func(t *testing.T) {
		c := context.Background()
		var seenAuthorization string
		backend := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenAuthorization = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, `{"orderId":"ORD-2024-0194"}`)
			}),
		)
		defer backend.Close()

		storefrontService := newTestService(t, backend.URL)
		sessionId := uuid.NewString()
		storefrontService.AddToCart(c, sessionId, glovesId, 1)
		storefrontService.UpdateConsentFlags(c, sessionId, request.ConsentFlags{TermsAgreed: boolPtr(true)})

		_, err := storefrontService.ConfirmOrder(c, sessionId, "token-123")

		assert.NoError(t, err)
		assert.Equal(t, "Bearer token-123", seenAuthorization)
	})
}

func TestServiceCancelCheckout(t *testing.T) {
	c := context.Background()
	storefrontService := newTestService(t, "")
	sessionId := uuid.NewString()
	storefrontService.UpdateOrderMetadata(c, sessionId, request.OrderMetadata{PONumber: strPtr("PO-77")})
	storefrontService.UpdateConsentFlags(c, sessionId, request.ConsentFlags{TermsAgreed: boolPtr(true)})

	state := storefrontService.CancelCheckout(c, sessionId)

	assert.Empty(t, state.PONumber)
	assert.False(t, state.TermsAgreed)
	assert.Equal(t, store.StepCartReview, state.CurrentStep)
}

func TestServiceBillingSameAsShipping(t *testing.T) {
	c := context.Background()
	storefrontService := newTestService(t, "")
	sessionId := uuid.NewString()

	state := storefrontService.SetBillingSameAsShipping(c, sessionId, false)
	assert.False(t, state.SameAsShipping)

	state = storefrontService.UpdateBillingAddress(c, sessionId, store.AddressPatch{Name: strPtr("Accounts Payable")})
	assert.Equal(t, "Accounts Payable", state.BillingAddress.Name)

	state = storefrontService.SetBillingSameAsShipping(c, sessionId, true)
	assert.True(t, state.SameAsShipping)
	assert.Equal(t, store.Address{}, state.BillingAddress)
}
