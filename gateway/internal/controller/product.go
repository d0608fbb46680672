package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/novadent/novadent/gateway/internal/common/otel"
	"github.com/novadent/novadent/gateway/internal/service"
	commonErrors "github.com/novadent/novadent/internal/common/errors"
	"github.com/novadent/novadent/internal/log"
	"github.com/novadent/novadent/internal/middleware"
)

type ProductController struct {
	service service.ProxyService
}

// AttachProductController relays the catalog and user-product routes to the
// backend. Reads are public; user-product mutations require a bearer token.
func AttachProductController(mux *mux.Router, service service.ProxyService, secretKey string) {
	controller := ProductController{service: service}

	mux.PathPrefix("/api/products").
		HandlerFunc(controller.Relay).
		Methods(http.MethodGet)

	mux.PathPrefix("/api/user-products").
		HandlerFunc(controller.Relay).
		Methods(http.MethodGet)

	protected := mux.PathPrefix("/api/user-products").
		Methods(http.MethodPost, http.MethodPut, http.MethodDelete).
		Subrouter()
	protected.Use(middleware.Auth(secretKey))
	protected.PathPrefix("").HandlerFunc(controller.Relay)
}

func (t ProductController) Relay(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController Relay")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "ProductController Relay").
		Str(log.KEY_PROCESS, "forwarding product request").
		Logger()

	logger.Info().Msg("forwarding product request")
	c = logger.WithContext(c)
	result, err := t.service.Forward(c, r, r.URL.Path)
	if err != nil {
		err = fmt.Errorf("failed forwarding product request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeRelayResponse(c, w, map[string]string{}, result)
		return
	}
	logger = logger.With().Int(log.KEY_UPSTREAM_STATUS, result.StatusCode).Logger()
	logger.Info().Msg("forwarded product request")

	writeRelayResponse(c, w, map[string]string{}, result)
}
