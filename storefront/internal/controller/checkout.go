package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	commonErrors "github.com/novadent/novadent/internal/common/errors"
	commonHttp "github.com/novadent/novadent/internal/common/http"
	"github.com/novadent/novadent/internal/log"
	"github.com/novadent/novadent/internal/middleware"
	"github.com/novadent/novadent/storefront/internal/common/otel"
	"github.com/novadent/novadent/storefront/internal/service"
	"github.com/novadent/novadent/storefront/internal/store"
	"github.com/novadent/novadent/storefront/pkg/request"
)

type CheckoutController struct {
	service *service.StorefrontService
}

func AttachCheckoutController(mux *mux.Router, service *service.StorefrontService) {
	controller := CheckoutController{service: service}

	router := mux.PathPrefix("/checkout").Subrouter()
	router.HandleFunc("", controller.FindCheckout).Methods(http.MethodGet)
	router.HandleFunc("/step", controller.Step).Methods(http.MethodPost)
	router.HandleFunc("/shipping-address", controller.UpdateShippingAddress).
		Methods(http.MethodPut)
	router.HandleFunc("/billing-address", controller.UpdateBillingAddress).
		Methods(http.MethodPut)
	router.HandleFunc("/billing-same-as-shipping", controller.SetBillingSameAsShipping).
		Methods(http.MethodPut)
	router.HandleFunc("/payment-method", controller.UpdatePaymentMethod).Methods(http.MethodPut)
	router.HandleFunc("/metadata", controller.UpdateOrderMetadata).Methods(http.MethodPut)
	router.HandleFunc("/flags", controller.UpdateConsentFlags).Methods(http.MethodPut)
	router.HandleFunc("/confirm", controller.ConfirmOrder).Methods(http.MethodPost)
	router.HandleFunc("/cancel", controller.CancelCheckout).Methods(http.MethodPost)
}

func (t CheckoutController) FindCheckout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController FindCheckout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CheckoutController FindCheckout").
		Logger()

	c = logger.WithContext(c)
	checkout := t.service.Checkout(c, middleware.SessionIDFromContext(c))

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "checkout found",
		"data": map[string]interface{}{
			"checkout": checkout,
		},
	})
}

func (t CheckoutController) Step(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController Step")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CheckoutController Step").
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Step{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KEY_PROCESS, "navigating step").Logger()
	logger.Info().Msg("navigating step")
	c = logger.WithContext(c)
	step, err := t.service.Step(c, middleware.SessionIDFromContext(c), reqBody)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, commonErrors.ErrTermsNotAgreed) {
			statusCode = http.StatusUnprocessableEntity
		}
		err = fmt.Errorf("failed navigating step with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Int(log.KEY_CHECKOUT_STEP, step).Msg("navigated step")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("navigated to step=%d", step),
		"data": map[string]interface{}{
			"currentStep": step,
		},
	})
}

func (t CheckoutController) UpdateShippingAddress(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController UpdateShippingAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CheckoutController UpdateShippingAddress").
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	patch := store.AddressPatch{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KEY_PROCESS, "updating shipping address").Logger()
	logger.Info().Msg("updating shipping address")
	c = logger.WithContext(c)
	state := t.service.UpdateShippingAddress(c, middleware.SessionIDFromContext(c), patch)
	logger.Info().Msg("updated shipping address")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "updated shipping address",
		"data": map[string]interface{}{
			"checkout": state,
		},
	})
}

func (t CheckoutController) UpdateBillingAddress(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController UpdateBillingAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CheckoutController UpdateBillingAddress").
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	patch := store.AddressPatch{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KEY_PROCESS, "updating billing address").Logger()
	logger.Info().Msg("updating billing address")
	c = logger.WithContext(c)
	state := t.service.UpdateBillingAddress(c, middleware.SessionIDFromContext(c), patch)
	logger.Info().Msg("updated billing address")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "updated billing address",
		"data": map[string]interface{}{
			"checkout": state,
		},
	})
}

func (t CheckoutController) SetBillingSameAsShipping(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController SetBillingSameAsShipping")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CheckoutController SetBillingSameAsShipping").
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.BillingSameAsShipping{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KEY_PROCESS, "setting billing same as shipping").Logger()
	logger.Info().Msg("setting billing same as shipping")
	c = logger.WithContext(c)
	state := t.service.SetBillingSameAsShipping(c, middleware.SessionIDFromContext(c), *reqBody.Same)
	logger.Info().Msg("set billing same as shipping")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "set billing same as shipping",
		"data": map[string]interface{}{
			"checkout": state,
		},
	})
}

func (t CheckoutController) UpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController UpdatePaymentMethod")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CheckoutController UpdatePaymentMethod").
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	patch := store.PaymentMethodPatch{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	if patch.Type != nil {
		switch *patch.Type {
		case store.PaymentCard, store.PaymentNet30, store.PaymentWire, store.PaymentFinancing:
		default:
			err := fmt.Errorf("unknown payment method type=%s", *patch.Type)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusBadRequest,
				"message":    err.Error(),
			})
			return
		}
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KEY_PROCESS, "updating payment method").Logger()
	logger.Info().Msg("updating payment method")
	c = logger.WithContext(c)
	state := t.service.UpdatePaymentMethod(c, middleware.SessionIDFromContext(c), patch)
	logger = logger.With().
		Str(log.KEY_PAYMENT_METHOD_TYPE, string(state.PaymentMethod.Type)).
		Logger()
	logger.Info().Msg("updated payment method")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "updated payment method",
		"data": map[string]interface{}{
			"checkout": state,
		},
	})
}

func (t CheckoutController) UpdateOrderMetadata(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController UpdateOrderMetadata")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CheckoutController UpdateOrderMetadata").
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.OrderMetadata{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KEY_PROCESS, "updating order metadata").Logger()
	logger.Info().Msg("updating order metadata")
	c = logger.WithContext(c)
	state := t.service.UpdateOrderMetadata(c, middleware.SessionIDFromContext(c), reqBody)
	logger.Info().Msg("updated order metadata")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "updated order metadata",
		"data": map[string]interface{}{
			"checkout": state,
		},
	})
}

func (t CheckoutController) UpdateConsentFlags(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController UpdateConsentFlags")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CheckoutController UpdateConsentFlags").
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.ConsentFlags{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KEY_PROCESS, "updating consent flags").Logger()
	logger.Info().Msg("updating consent flags")
	c = logger.WithContext(c)
	state := t.service.UpdateConsentFlags(c, middleware.SessionIDFromContext(c), reqBody)
	logger.Info().Msg("updated consent flags")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "updated consent flags",
		"data": map[string]interface{}{
			"checkout": state,
		},
	})
}

func (t CheckoutController) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController ConfirmOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CheckoutController ConfirmOrder").
		Str(log.KEY_PROCESS, "confirming order").
		Logger()

	bearerToken := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	logger.Info().Msg("confirming order")
	c = logger.WithContext(c)
	confirmation, err := t.service.ConfirmOrder(c, middleware.SessionIDFromContext(c), bearerToken)
	if err != nil {
		statusCode := http.StatusBadGateway
		if errors.Is(err, commonErrors.ErrTermsNotAgreed) {
			statusCode = http.StatusUnprocessableEntity
		}
		err = fmt.Errorf("failed confirming order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("confirmed order")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "confirmed order",
		"data": map[string]interface{}{
			"confirmation": confirmation,
		},
	})
}

func (t CheckoutController) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController CancelCheckout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CheckoutController CancelCheckout").
		Str(log.KEY_PROCESS, "cancelling checkout").
		Logger()

	logger.Info().Msg("cancelling checkout")
	c = logger.WithContext(c)
	state := t.service.CancelCheckout(c, middleware.SessionIDFromContext(c))
	logger.Info().Msg("cancelled checkout")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cancelled checkout",
		"data": map[string]interface{}{
			"checkout": state,
		},
	})
}
