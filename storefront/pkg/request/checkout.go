package request

type Step struct {
	Direction string `json:"direction,omitempty" validate:"omitempty,oneof=next previous"`
	Step      *int   `json:"step,omitempty"      validate:"omitempty,gte=1,lte=5"`
}

type BillingSameAsShipping struct {
	Same *bool `json:"same" validate:"required"`
}

type OrderMetadata struct {
	PONumber            *string `json:"poNumber,omitempty"`
	Department          *string `json:"department,omitempty"`
	SpecialInstructions *string `json:"specialInstructions,omitempty"`
}

type ConsentFlags struct {
	ApplyTaxExemption *bool `json:"applyTaxExemption,omitempty"`
	TermsAgreed       *bool `json:"termsAgreed,omitempty"`
	MarketingAgreed   *bool `json:"marketingAgreed,omitempty"`
	HipaaAgreed       *bool `json:"hipaaAgreed,omitempty"`
}
