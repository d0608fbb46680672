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

type UserController struct {
	service service.ProxyService
}

func AttachUserController(mux *mux.Router, service service.ProxyService, secretKey string) {
	controller := UserController{service: service}

	router := mux.PathPrefix("/users").Subrouter()
	router.HandleFunc("/register", controller.Register).Methods(http.MethodPost)

	protected := router.PathPrefix("/me").Subrouter()
	protected.Use(middleware.Auth(secretKey))
	protected.HandleFunc("", controller.FindMe).Methods(http.MethodGet)
	protected.HandleFunc("", controller.UpdateMe).Methods(http.MethodPut)
	protected.HandleFunc("", controller.DeleteMe).Methods(http.MethodDelete)
}

func (t UserController) Register(w http.ResponseWriter, r *http.Request) {
	t.relay(w, r, "UserController Register", "/api/users/register")
}

func (t UserController) FindMe(w http.ResponseWriter, r *http.Request) {
	t.relay(w, r, "UserController FindMe", "/api/users/me")
}

func (t UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	t.relay(w, r, "UserController UpdateMe", "/api/users/me")
}

func (t UserController) DeleteMe(w http.ResponseWriter, r *http.Request) {
	t.relay(w, r, "UserController DeleteMe", "/api/users/me")
}

func (t UserController) relay(w http.ResponseWriter, r *http.Request, tag string, path string) {
	c, span := otel.Tracer.Start(r.Context(), tag)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, tag).
		Str(log.KEY_PROCESS, "forwarding user request").
		Logger()

	logger.Info().Msg("forwarding user request")
	c = logger.WithContext(c)
	result, err := t.service.Forward(c, r, path)
	if err != nil {
		err = fmt.Errorf("failed forwarding user request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeRelayResponse(c, w, map[string]string{}, result)
		return
	}
	logger = logger.With().Int(log.KEY_UPSTREAM_STATUS, result.StatusCode).Logger()
	logger.Info().Msg("forwarded user request")

	writeRelayResponse(c, w, map[string]string{}, result)
}
