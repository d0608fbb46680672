package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	commonErrors "github.com/novadent/novadent/internal/common/errors"
	commonHttp "github.com/novadent/novadent/internal/common/http"
	"github.com/novadent/novadent/internal/log"
	"github.com/novadent/novadent/internal/middleware"
	"github.com/novadent/novadent/storefront/internal/common/otel"
	"github.com/novadent/novadent/storefront/internal/service"
	"github.com/novadent/novadent/storefront/pkg/request"
)

type CartController struct {
	service *service.StorefrontService
}

func AttachCartController(mux *mux.Router, service *service.StorefrontService) {
	controller := CartController{service: service}

	router := mux.PathPrefix("/carts").Subrouter()
	router.HandleFunc("", controller.FindCart).Methods(http.MethodGet)
	router.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	router.HandleFunc("/items", controller.AddCartItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{itemId}", controller.UpdateCartItem).Methods(http.MethodPut)
	router.HandleFunc("/items/{itemId}", controller.RemoveCartItem).Methods(http.MethodDelete)
}

func (t CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CartController FindCart").
		Logger()

	c = logger.WithContext(c)
	cart := t.service.Cart(c, middleware.SessionIDFromContext(c))

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cart found",
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}

func (t CartController) AddCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CartController AddCartItem").
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.AddCartItem{}
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

	quantity := reqBody.Quantity
	if quantity == 0 {
		quantity = 1
	}

	logger = logger.With().
		Str(log.KEY_PROCESS, "adding cart item").
		Str(log.KEY_PRODUCT_ID, reqBody.ProductId.String()).
		Logger()
	logger.Info().Msg("adding cart item")
	c = logger.WithContext(c)
	cart := t.service.AddToCart(c, middleware.SessionIDFromContext(c), reqBody.ProductId, quantity)
	logger.Info().Msg("added cart item")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "added cart item",
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}

func (t CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CartController UpdateCartItem").
		Str(log.KEY_PROCESS, "validating itemId").
		Logger()

	logger.Info().Msg("validating itemId")
	pathValues := mux.Vars(r)
	itemId, err := uuid.Parse(pathValues["itemId"])
	if err != nil {
		err = fmt.Errorf("failed validating itemId=%s with error=%w", pathValues["itemId"], err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KEY_CART_ITEM_ID, itemId.String()).Logger()
	logger.Info().Msgf("validated itemId=%s", itemId.String())

	logger = logger.With().Str(log.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.UpdateCartItem{}
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

	logger = logger.With().Str(log.KEY_PROCESS, "updating cart item").Logger()
	logger.Info().Msg("updating cart item")
	c = logger.WithContext(c)
	cart := t.service.UpdateCartItem(c, middleware.SessionIDFromContext(c), itemId, reqBody.Quantity)
	logger.Info().Msg("updated cart item")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "updated cart item",
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}

func (t CartController) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CartController RemoveCartItem").
		Str(log.KEY_PROCESS, "validating itemId").
		Logger()

	logger.Info().Msg("validating itemId")
	pathValues := mux.Vars(r)
	itemId, err := uuid.Parse(pathValues["itemId"])
	if err != nil {
		err = fmt.Errorf("failed validating itemId=%s with error=%w", pathValues["itemId"], err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KEY_CART_ITEM_ID, itemId.String()).Logger()
	logger.Info().Msgf("validated itemId=%s", itemId.String())

	logger = logger.With().Str(log.KEY_PROCESS, "removing cart item").Logger()
	logger.Info().Msg("removing cart item")
	c = logger.WithContext(c)
	cart := t.service.RemoveCartItem(c, middleware.SessionIDFromContext(c), itemId)
	logger.Info().Msg("removed cart item")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "removed cart item",
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}

func (t CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CartController ClearCart").
		Str(log.KEY_PROCESS, "clearing cart").
		Logger()

	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	cart := t.service.ClearCart(c, middleware.SessionIDFromContext(c))
	logger.Info().Msg("cleared cart")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cleared cart",
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}
