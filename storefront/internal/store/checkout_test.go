package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func typePtr(t PaymentMethodType) *PaymentMethodType {
	return &t
}

func TestCheckoutStepNavigation(t *testing.T) {
	tests := []struct {
		name     string
		navigate func(checkout *Checkout) int
		expected int
	}{
		{
			name: "given a step above the last should clamp to confirmation",
			navigate: func(checkout *Checkout) int {
				return checkout.SetStep(9)
			},
			expected: StepConfirmation,
		},
		{
			name: "given a step below the first should clamp to cart review",
			navigate: func(checkout *Checkout) int {
				return checkout.SetStep(-3)
			},
			expected: StepCartReview,
		},
		{
			name: "given next from the first step should advance by one",
			navigate: func(checkout *Checkout) int {
				return checkout.NextStep()
			},
			expected: StepShipping,
		},
		{
			name: "given previous from the first step should stay on cart review",
			navigate: func(checkout *Checkout) int {
				return checkout.PreviousStep()
			},
			expected: StepCartReview,
		},
		{
			name: "given next from the last step should stay on confirmation",
			navigate: func(checkout *Checkout) int {
				checkout.SetStep(StepConfirmation)
				return checkout.NextStep()
			},
			expected: StepConfirmation,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			checkout := NewCheckout()
			assert.Equal(t, test.expected, test.navigate(checkout))
			assert.Equal(t, test.expected, checkout.CurrentStep())
		})
	}
}

func TestCheckoutAddressPatch(t *testing.T) {
	t.Run("given a partial patch should only overwrite the given fields", func(t *testing.T) {
		checkout := NewCheckout()
		before := checkout.State().ShippingAddress

		checkout.UpdateShippingAddress(AddressPatch{City: strPtr("Dallas"), Zip: strPtr("75201")})

		after := checkout.State().ShippingAddress
		assert.Equal(t, "Dallas", after.City)
		assert.Equal(t, "75201", after.Zip)
		assert.Equal(t, before.Name, after.Name)
		assert.Equal(t, before.Street, after.Street)
	})
	t.Run("given a billing patch should not touch the shipping address", func(t *testing.T) {
		checkout := NewCheckout()
		shipping := checkout.State().ShippingAddress

		checkout.UpdateBillingAddress(AddressPatch{Name: strPtr("Accounts Payable")})

		state := checkout.State()
		assert.Equal(t, "Accounts Payable", state.BillingAddress.Name)
		assert.Equal(t, shipping, state.ShippingAddress)
	})
}

func TestCheckoutBillingSameAsShipping(t *testing.T) {
	t.Run("given same as shipping turned on should clear the billing address", func(t *testing.T) {
		checkout := NewCheckout()
		checkout.SetBillingSameAsShipping(false)
		checkout.UpdateBillingAddress(AddressPatch{Name: strPtr("Accounts Payable")})

		checkout.SetBillingSameAsShipping(true)

		state := checkout.State()
		assert.True(t, state.SameAsShipping)
		assert.Equal(t, Address{}, state.BillingAddress)
	})
	t.Run("given same as shipping turned off should keep the entered billing address", func(t *testing.T) {
		checkout := NewCheckout()
		checkout.SetBillingSameAsShipping(false)
		checkout.UpdateBillingAddress(AddressPatch{Name: strPtr("Accounts Payable")})

		checkout.SetBillingSameAsShipping(false)

		state := checkout.State()
		assert.False(t, state.SameAsShipping)
		assert.Equal(t, "Accounts Payable", state.BillingAddress.Name)
	})
}

func TestCheckoutPaymentMethod(t *testing.T) {
	t.Run("given card fields on the card variant should merge them", func(t *testing.T) {
		checkout := NewCheckout()

		checkout.UpdatePaymentMethod(PaymentMethodPatch{
			CardNumber:     strPtr("4111111111111111"),
			CardholderName: strPtr("Sarah Mitchell"),
		})

		payment := checkout.State().PaymentMethod
		assert.Equal(t, PaymentCard, payment.Type)
		assert.Equal(t, "4111111111111111", payment.CardNumber)
		assert.Equal(t, "Sarah Mitchell", payment.CardholderName)
	})
	t.Run("given a type switch should clear the previous variant fields", func(t *testing.T) {
		checkout := NewCheckout()
		checkout.UpdatePaymentMethod(PaymentMethodPatch{
			CardNumber: strPtr("4111111111111111"),
			CardCvv:    strPtr("123"),
		})

		checkout.UpdatePaymentMethod(PaymentMethodPatch{Type: typePtr(PaymentNet30)})

		payment := checkout.State().PaymentMethod
		assert.Equal(t, PaymentNet30, payment.Type)
		assert.Empty(t, payment.CardNumber)
		assert.Empty(t, payment.CardCvv)
	})
	t.Run("given card fields on a non-card variant should ignore them", func(t *testing.T) {
		checkout := NewCheckout()
		checkout.UpdatePaymentMethod(PaymentMethodPatch{Type: typePtr(PaymentWire)})

		checkout.UpdatePaymentMethod(PaymentMethodPatch{CardNumber: strPtr("4111111111111111")})

		payment := checkout.State().PaymentMethod
		assert.Equal(t, PaymentWire, payment.Type)
		assert.Empty(t, payment.CardNumber)
	})
	t.Run("given a switch back to card should start from empty card fields", func(t *testing.T) {
		checkout := NewCheckout()
		checkout.UpdatePaymentMethod(PaymentMethodPatch{CardNumber: strPtr("4111111111111111")})
		checkout.UpdatePaymentMethod(PaymentMethodPatch{Type: typePtr(PaymentFinancing)})

		checkout.UpdatePaymentMethod(PaymentMethodPatch{Type: typePtr(PaymentCard)})

		payment := checkout.State().PaymentMethod
		assert.Equal(t, PaymentCard, payment.Type)
		assert.Empty(t, payment.CardNumber)
	})
}

func TestCheckoutReset(t *testing.T) {
	checkout := NewCheckout()
	checkout.SetStep(StepFinalReview)
	checkout.UpdatePONumber("PO-2024-0042")
	checkout.SetTermsAgreed(true)
	checkout.SetApplyTaxExemption(true)

	checkout.Reset()

	assert.Equal(t, defaultState(), checkout.State())
}

func TestCheckoutRestore(t *testing.T) {
	t.Run("given a snapshot should restore the full state", func(t *testing.T) {
		checkout := NewCheckout()
		checkout.SetStep(StepBilling)
		checkout.UpdateDepartment("Procurement")
		checkout.SetHipaaAgreed(true)
		snapshot := checkout.Snapshot()

		restored := NewCheckout()
		restored.Restore(snapshot)

		assert.Equal(t, snapshot, restored.State())
	})
	t.Run("given a snapshot with an out-of-range step should clamp it", func(t *testing.T) {
		snapshot := defaultState()
		snapshot.CurrentStep = 42

		restored := NewCheckout()
		restored.Restore(snapshot)

		assert.Equal(t, StepConfirmation, restored.CurrentStep())
	})
}
