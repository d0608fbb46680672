package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	commonErrors "github.com/novadent/novadent/internal/common/errors"
	"github.com/novadent/novadent/internal/log"
	"github.com/novadent/novadent/storefront/internal/common/otel"
	"github.com/novadent/novadent/storefront/internal/pricing"
	"github.com/novadent/novadent/storefront/internal/store"
	"github.com/novadent/novadent/storefront/pkg/request"
	"github.com/novadent/novadent/storefront/pkg/response"
)

func (s StorefrontService) Checkout(c context.Context, sessionID string) response.Checkout {
	c, span := otel.Tracer.Start(c, "StorefrontService Checkout")
	defer span.End()

	sess := s.sessions.Resolve(c, sessionID)
	state := sess.Checkout.State()
	quote := pricing.Calculate(sess.Cart.Items(), s.catalog, state.ApplyTaxExemption)
	return response.Checkout{CheckoutState: state, Quote: quote}
}

// Step navigates the wizard. The store itself only clamps; the terms-of-sale
// gate lives here, on the calling side, so a buyer cannot move past billing
// until termsAgreed is set.
func (s StorefrontService) Step(
	c context.Context,
	sessionID string,
	param request.Step,
) (int, error) {
	c, span := otel.Tracer.Start(c, "StorefrontService Step")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "StorefrontService Step").
		Str(log.KEY_PROCESS, "navigating checkout step").
		Logger()

	sess := s.sessions.Resolve(c, sessionID)
	current := sess.Checkout.CurrentStep()

	target := current
	switch {
	case param.Step != nil:
		target = *param.Step
	case param.Direction == "next":
		target = current + 1
	case param.Direction == "previous":
		target = current - 1
	default:
		err := fmt.Errorf(
			"failed navigating checkout step with error=%w",
			commonErrors.ErrInvalidDirection,
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return current, err
	}

	if current <= store.StepBilling && target > store.StepBilling && !sess.Checkout.TermsAgreed() {
		err := fmt.Errorf(
			"failed navigating from step=%d to step=%d with error=%w",
			current,
			target,
			commonErrors.ErrTermsNotAgreed,
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return current, err
	}

	step := sess.Checkout.SetStep(target)
	logger.Info().Int(log.KEY_CHECKOUT_STEP, step).Msg("navigated checkout step")
	s.sessions.Persist(c, sess)
	return step, nil
}

func (s StorefrontService) UpdateShippingAddress(
	c context.Context,
	sessionID string,
	patch store.AddressPatch,
) store.CheckoutState {
	c, span := otel.Tracer.Start(c, "StorefrontService UpdateShippingAddress")
	defer span.End()

	sess := s.sessions.Resolve(c, sessionID)
	sess.Checkout.UpdateShippingAddress(patch)
	s.sessions.Persist(c, sess)
	return sess.Checkout.State()
}

func (s StorefrontService) UpdateBillingAddress(
	c context.Context,
	sessionID string,
	patch store.AddressPatch,
) store.CheckoutState {
	c, span := otel.Tracer.Start(c, "StorefrontService UpdateBillingAddress")
	defer span.End()

	sess := s.sessions.Resolve(c, sessionID)
	sess.Checkout.UpdateBillingAddress(patch)
	s.sessions.Persist(c, sess)
	return sess.Checkout.State()
}

func (s StorefrontService) SetBillingSameAsShipping(
	c context.Context,
	sessionID string,
	same bool,
) store.CheckoutState {
	c, span := otel.Tracer.Start(c, "StorefrontService SetBillingSameAsShipping")
	defer span.End()

	sess := s.sessions.Resolve(c, sessionID)
	sess.Checkout.SetBillingSameAsShipping(same)
	s.sessions.Persist(c, sess)
	return sess.Checkout.State()
}

func (s StorefrontService) UpdatePaymentMethod(
	c context.Context,
	sessionID string,
	patch store.PaymentMethodPatch,
) store.CheckoutState {
	c, span := otel.Tracer.Start(c, "StorefrontService UpdatePaymentMethod")
	defer span.End()

	sess := s.sessions.Resolve(c, sessionID)
	sess.Checkout.UpdatePaymentMethod(patch)
	s.sessions.Persist(c, sess)
	return sess.Checkout.State()
}

func (s StorefrontService) UpdateOrderMetadata(
	c context.Context,
	sessionID string,
	param request.OrderMetadata,
) store.CheckoutState {
	c, span := otel.Tracer.Start(c, "StorefrontService UpdateOrderMetadata")
	defer span.End()

	sess := s.sessions.Resolve(c, sessionID)
	if param.PONumber != nil {
		sess.Checkout.UpdatePONumber(*param.PONumber)
	}
	if param.Department != nil {
		sess.Checkout.UpdateDepartment(*param.Department)
	}
	if param.SpecialInstructions != nil {
		sess.Checkout.UpdateSpecialInstructions(*param.SpecialInstructions)
	}
	s.sessions.Persist(c, sess)
	return sess.Checkout.State()
}

func (s StorefrontService) UpdateConsentFlags(
	c context.Context,
	sessionID string,
	param request.ConsentFlags,
) store.CheckoutState {
	c, span := otel.Tracer.Start(c, "StorefrontService UpdateConsentFlags")
	defer span.End()

	sess := s.sessions.Resolve(c, sessionID)
	if param.ApplyTaxExemption != nil {
		sess.Checkout.SetApplyTaxExemption(*param.ApplyTaxExemption)
	}
	if param.TermsAgreed != nil {
		sess.Checkout.SetTermsAgreed(*param.TermsAgreed)
	}
	if param.MarketingAgreed != nil {
		sess.Checkout.SetMarketingAgreed(*param.MarketingAgreed)
	}
	if param.HipaaAgreed != nil {
		sess.Checkout.SetHipaaAgreed(*param.HipaaAgreed)
	}
	s.sessions.Persist(c, sess)
	return sess.Checkout.State()
}

type submitOrderItem struct {
	ProductId string `json:"productId"`
	Quantity  int32  `json:"quantity"`
}

type submitOrder struct {
	Items               []submitOrderItem   `json:"items"`
	ShippingAddress     store.Address       `json:"shippingAddress"`
	BillingAddress      store.Address       `json:"billingAddress"`
	SameAsShipping      bool                `json:"sameAsShipping"`
	PaymentMethod       store.PaymentMethod `json:"paymentMethod"`
	PONumber            string              `json:"poNumber"`
	Department          string              `json:"department"`
	SpecialInstructions string              `json:"specialInstructions"`
	Quote               pricing.Quote       `json:"quote"`
}

// ConfirmOrder submits the order to the backend and, on success, clears the
// cart and resets the wizard to its session-initial defaults. On failure the
// local state is left untouched so the buyer can retry.
func (s StorefrontService) ConfirmOrder(
	c context.Context,
	sessionID string,
	bearerToken string,
) (response.Confirmation, error) {
	c, span := otel.Tracer.Start(c, "StorefrontService ConfirmOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "StorefrontService ConfirmOrder").
		Logger()

	sess := s.sessions.Resolve(c, sessionID)
	state := sess.Checkout.State()
	if !state.TermsAgreed {
		err := fmt.Errorf(
			"failed confirming order with error=%w",
			commonErrors.ErrTermsNotAgreed,
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Confirmation{}, err
	}

	items := sess.Cart.Items()
	quote := pricing.Calculate(items, s.catalog, state.ApplyTaxExemption)

	logger = logger.With().Str(log.KEY_PROCESS, "creating order request").Logger()
	logger.Info().Msg("creating order request")
	order := submitOrder{
		Items:               make([]submitOrderItem, 0, len(items)),
		ShippingAddress:     state.ShippingAddress,
		BillingAddress:      state.BillingAddress,
		SameAsShipping:      state.SameAsShipping,
		PaymentMethod:       state.PaymentMethod,
		PONumber:            state.PONumber,
		Department:          state.Department,
		SpecialInstructions: state.SpecialInstructions,
		Quote:               quote,
	}
	for _, item := range items {
		order.Items = append(order.Items, submitOrderItem{
			ProductId: item.ProductID.String(),
			Quantity:  item.Quantity,
		})
	}
	orderJson, err := json.Marshal(order)
	if err != nil {
		err = fmt.Errorf("failed marshaling order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Confirmation{}, err
	}
	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		s.backend.BaseUrl+"/api/orders",
		bytes.NewBuffer(orderJson),
	)
	if err != nil {
		err = fmt.Errorf("failed creating order request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Confirmation{}, err
	}
	if bearerToken != "" {
		req.Header.Add("Authorization", "Bearer "+bearerToken)
	}
	req.Header.Add(log.KEY_REQUEST_ID, log.RequestIDFromContext(c))
	logger.Info().Msg("created order request")

	logger = logger.With().Str(log.KEY_PROCESS, "submitting order").Logger()
	logger.Info().Msg("submitting order")
	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed submitting order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Confirmation{}, err
	}
	defer resp.Body.Close()

	respBody := map[string]interface{}{}
	err = json.NewDecoder(resp.Body).Decode(&respBody)
	if err != nil && resp.StatusCode == http.StatusOK {
		err = fmt.Errorf("failed decoding order response with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Confirmation{}, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err = fmt.Errorf(
			"order backend returned status code=%d with message=%v",
			resp.StatusCode,
			respBody["message"],
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Confirmation{}, err
	}
	orderId, _ := respBody["orderId"].(string)
	logger.Info().Msg("submitted order")

	logger = logger.With().Str(log.KEY_PROCESS, "resetting session").Logger()
	logger.Info().Msg("clearing cart and resetting checkout")
	sess.Cart.Clear()
	sess.Checkout.Reset()
	s.sessions.Persist(c, sess)
	logger.Info().Msg("cleared cart and reset checkout")

	return response.Confirmation{OrderId: orderId, Quote: quote}, nil
}

// CancelCheckout is plain Reset; there is no separate cancellation state.
func (s StorefrontService) CancelCheckout(
	c context.Context,
	sessionID string,
) store.CheckoutState {
	c, span := otel.Tracer.Start(c, "StorefrontService CancelCheckout")
	defer span.End()

	sess := s.sessions.Resolve(c, sessionID)
	sess.Checkout.Reset()
	s.sessions.Persist(c, sess)
	return sess.Checkout.State()
}
