// Package pricing derives the order totals shown throughout checkout. A quote
// is a pure function of the cart lines, a catalog snapshot and the tax
// exemption flag; it is recomputed on every read and never cached, so a stale
// total cannot survive a cart mutation.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/novadent/novadent/storefront/internal/store"
)

var (
	volumeDiscountThreshold = decimal.NewFromInt(2000)
	volumeDiscountRate      = decimal.NewFromFloat(0.05)
	freeShippingThreshold   = decimal.NewFromInt(100)
	flatShippingFee         = decimal.NewFromInt(45)
	taxRate                 = decimal.NewFromFloat(0.0875)
)

// ProductLookup resolves a cart line's product to its unit price. Lines whose
// product cannot be resolved contribute nothing to the quote.
type ProductLookup interface {
	UnitPrice(productID uuid.UUID) (decimal.Decimal, bool)
}

type Quote struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	VolumeDiscount decimal.Decimal `json:"volumeDiscount"`
	Shipping       decimal.Decimal `json:"shipping"`
	Tax            decimal.Decimal `json:"tax"`
	TaxExemption   decimal.Decimal `json:"taxExemption"`
	Total          decimal.Decimal `json:"total"`
}

func zeroQuote() Quote {
	zero := decimal.Zero.Round(2)
	return Quote{
		Subtotal:       zero,
		VolumeDiscount: zero,
		Shipping:       zero,
		Tax:            zero,
		TaxExemption:   zero,
		Total:          zero,
	}
}

// Calculate derives the quote from the given cart lines. A cart with no
// resolvable lines quotes zero across the board; in particular the flat
// shipping fee is never charged on an empty cart.
//
// The tax line always shows the full computed tax; the exemption is a separate
// line subtracted from the total, so toggling it moves the total by exactly
// the displayed tax amount.
func Calculate(items []store.CartItem, lookup ProductLookup, applyTaxExemption bool) Quote {
	subtotal := decimal.Zero
	resolved := 0
	for _, item := range items {
		unitPrice, ok := lookup.UnitPrice(item.ProductID)
		if !ok {
			continue
		}
		resolved++
		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	if resolved == 0 {
		return zeroQuote()
	}

	volumeDiscount := decimal.Zero
	if subtotal.GreaterThan(volumeDiscountThreshold) {
		volumeDiscount = subtotal.Mul(volumeDiscountRate)
	}

	shipping := decimal.Zero
	if subtotal.LessThanOrEqual(freeShippingThreshold) {
		shipping = flatShippingFee
	}

	tax := subtotal.Mul(taxRate)

	// Round each line first so the total is the exact sum of the displayed
	// lines and the exemption cancels the tax line to the cent.
	quote := Quote{
		Subtotal:       subtotal.Round(2),
		VolumeDiscount: volumeDiscount.Round(2),
		Shipping:       shipping.Round(2),
		Tax:            tax.Round(2),
		TaxExemption:   decimal.Zero.Round(2),
	}
	if applyTaxExemption {
		quote.TaxExemption = quote.Tax
	}
	quote.Total = quote.Subtotal.
		Sub(quote.VolumeDiscount).
		Add(quote.Shipping).
		Add(quote.Tax).
		Sub(quote.TaxExemption)
	return quote
}
