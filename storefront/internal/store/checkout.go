package store

import (
	"sync"
)

const (
	StepCartReview   = 1
	StepShipping     = 2
	StepBilling      = 3
	StepFinalReview  = 4
	StepConfirmation = 5
)

type Address struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Phone   string `json:"phone"`
}

type AddressPatch struct {
	Name    *string `json:"name,omitempty"`
	Company *string `json:"company,omitempty"`
	Street  *string `json:"street,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Zip     *string `json:"zip,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

func (a *Address) apply(patch AddressPatch) {
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Company != nil {
		a.Company = *patch.Company
	}
	if patch.Street != nil {
		a.Street = *patch.Street
	}
	if patch.City != nil {
		a.City = *patch.City
	}
	if patch.State != nil {
		a.State = *patch.State
	}
	if patch.Zip != nil {
		a.Zip = *patch.Zip
	}
	if patch.Phone != nil {
		a.Phone = *patch.Phone
	}
}

type PaymentMethodType string

const (
	PaymentCard      PaymentMethodType = "card"
	PaymentNet30     PaymentMethodType = "net30"
	PaymentWire      PaymentMethodType = "wire"
	PaymentFinancing PaymentMethodType = "financing"
)

// PaymentMethod is a tagged variant; only the card variant carries the card
// fields. Switching the type clears fields of the previously active variant.
type PaymentMethod struct {
	Type           PaymentMethodType `json:"type"`
	CardNumber     string            `json:"cardNumber,omitempty"`
	CardExpiry     string            `json:"cardExpiry,omitempty"`
	CardCvv        string            `json:"cardCvv,omitempty"`
	CardholderName string            `json:"cardholderName,omitempty"`
}

type PaymentMethodPatch struct {
	Type           *PaymentMethodType `json:"type,omitempty"`
	CardNumber     *string            `json:"cardNumber,omitempty"`
	CardExpiry     *string            `json:"cardExpiry,omitempty"`
	CardCvv        *string            `json:"cardCvv,omitempty"`
	CardholderName *string            `json:"cardholderName,omitempty"`
}

// CheckoutState is the full wizard state as exposed to callers.
type CheckoutState struct {
	CurrentStep         int           `json:"currentStep"`
	ShippingAddress     Address       `json:"shippingAddress"`
	BillingAddress      Address       `json:"billingAddress"`
	SameAsShipping      bool          `json:"sameAsShipping"`
	PaymentMethod       PaymentMethod `json:"paymentMethod"`
	PONumber            string        `json:"poNumber"`
	Department          string        `json:"department"`
	SpecialInstructions string        `json:"specialInstructions"`
	ApplyTaxExemption   bool          `json:"applyTaxExemption"`
	TermsAgreed         bool          `json:"termsAgreed"`
	MarketingAgreed     bool          `json:"marketingAgreed"`
	HipaaAgreed         bool          `json:"hipaaAgreed"`
}

// Checkout holds the five step purchase wizard for one buyer session.
// Navigation is clamped to [1,5]; validation gates (such as the terms-of-sale
// agreement before leaving billing) belong to the calling layer, not here.
type Checkout struct {
	mu    sync.RWMutex
	state CheckoutState
}

// defaultState prefills the shipping address with the demo buyer account the
// storefront logs in with; this is fixture data, not a real practice.
func defaultState() CheckoutState {
	return CheckoutState{
		CurrentStep: StepCartReview,
		ShippingAddress: Address{
			Name:    "Dr. Sarah Mitchell",
			Company: "Bright Smile Dental Group",
			Street:  "450 Commerce Park Dr, Suite 210",
			City:    "Austin",
			State:   "TX",
			Zip:     "78701",
			Phone:   "(512) 555-0187",
		},
		BillingAddress: Address{},
		SameAsShipping: true,
		PaymentMethod:  PaymentMethod{Type: PaymentCard},
	}
}

func NewCheckout() *Checkout {
	return &Checkout{state: defaultState()}
}

func (s *Checkout) State() CheckoutState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func clampStep(step int) int {
	if step < StepCartReview {
		return StepCartReview
	}
	if step > StepConfirmation {
		return StepConfirmation
	}
	return step
}

func (s *Checkout) SetStep(step int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentStep = clampStep(step)
	return s.state.CurrentStep
}

func (s *Checkout) NextStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentStep = clampStep(s.state.CurrentStep + 1)
	return s.state.CurrentStep
}

func (s *Checkout) PreviousStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentStep = clampStep(s.state.CurrentStep - 1)
	return s.state.CurrentStep
}

func (s *Checkout) CurrentStep() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentStep
}

func (s *Checkout) UpdateShippingAddress(patch AddressPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ShippingAddress.apply(patch)
}

func (s *Checkout) UpdateBillingAddress(patch AddressPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.BillingAddress.apply(patch)
}

// SetBillingSameAsShipping clears the billing fields when mirroring is turned
// on; turning it off keeps whatever was entered so the buyer can edit it.
func (s *Checkout) SetBillingSameAsShipping(same bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SameAsShipping = same
	if same {
		s.state.BillingAddress = Address{}
	}
}

func (s *Checkout) UpdatePaymentMethod(patch PaymentMethodPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Type != nil && *patch.Type != s.state.PaymentMethod.Type {
		s.state.PaymentMethod = PaymentMethod{Type: *patch.Type}
	}
	if s.state.PaymentMethod.Type != PaymentCard {
		return
	}
	if patch.CardNumber != nil {
		s.state.PaymentMethod.CardNumber = *patch.CardNumber
	}
	if patch.CardExpiry != nil {
		s.state.PaymentMethod.CardExpiry = *patch.CardExpiry
	}
	if patch.CardCvv != nil {
		s.state.PaymentMethod.CardCvv = *patch.CardCvv
	}
	if patch.CardholderName != nil {
		s.state.PaymentMethod.CardholderName = *patch.CardholderName
	}
}

func (s *Checkout) UpdatePONumber(poNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PONumber = poNumber
}

func (s *Checkout) UpdateDepartment(department string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Department = department
}

func (s *Checkout) UpdateSpecialInstructions(instructions string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SpecialInstructions = instructions
}

func (s *Checkout) SetApplyTaxExemption(apply bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ApplyTaxExemption = apply
}

func (s *Checkout) SetTermsAgreed(agreed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.TermsAgreed = agreed
}

func (s *Checkout) SetMarketingAgreed(agreed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.MarketingAgreed = agreed
}

func (s *Checkout) SetHipaaAgreed(agreed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HipaaAgreed = agreed
}

func (s *Checkout) TermsAgreed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.TermsAgreed
}

func (s *Checkout) ApplyTaxExemption() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ApplyTaxExemption
}

// Reset restores the session-initial defaults, used after order confirmation
// and for explicit checkout cancellation.
func (s *Checkout) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = defaultState()
}

func (s *Checkout) Snapshot() CheckoutState {
	return s.State()
}

func (s *Checkout) Restore(snapshot CheckoutState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot.CurrentStep = clampStep(snapshot.CurrentStep)
	s.state = snapshot
}
