package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/novadent/novadent/gateway/internal/common/otel"
	"github.com/novadent/novadent/gateway/internal/service"
	"github.com/novadent/novadent/internal/common/constants"
	commonErrors "github.com/novadent/novadent/internal/common/errors"
	"github.com/novadent/novadent/internal/log"
)

type AuthController struct {
	service service.ProxyService
}

func AttachAuthController(mux *mux.Router, service service.ProxyService) {
	controller := AuthController{service: service}

	router := mux.PathPrefix("/auth").Subrouter()
	router.HandleFunc("/login", controller.Login).Methods(http.MethodPost)
	router.HandleFunc("/login/verify-2fa", controller.VerifyTwoFactor).Methods(http.MethodPost)
	router.HandleFunc("/refresh-token", controller.RefreshToken).Methods(http.MethodPost)
	router.HandleFunc("/logout", controller.Logout).Methods(http.MethodPost)
}

func (t AuthController) Login(w http.ResponseWriter, r *http.Request) {
	t.relayAuthFlow(w, r, "AuthController Login", "/api/auth/login")
}

func (t AuthController) VerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	t.relayAuthFlow(w, r, "AuthController VerifyTwoFactor", "/api/auth/login/verify-2fa")
}

func (t AuthController) RefreshToken(w http.ResponseWriter, r *http.Request) {
	t.relayAuthFlow(w, r, "AuthController RefreshToken", "/api/auth/refresh-token")
}

func (t AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	t.relayAuthFlow(w, r, "AuthController Logout", "/api/auth/logout")
}

// relayAuthFlow forwards an auth request and surfaces the session tokens back
// to the browser as response headers.
func (t AuthController) relayAuthFlow(
	w http.ResponseWriter,
	r *http.Request,
	tag string,
	path string,
) {
	c, span := otel.Tracer.Start(r.Context(), tag)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, tag).
		Str(log.KEY_PROCESS, "forwarding auth request").
		Logger()

	logger.Info().Msg("forwarding auth request")
	c = logger.WithContext(c)
	result, err := t.service.Forward(c, r, path)
	if err != nil {
		err = fmt.Errorf("failed forwarding auth request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeRelayResponse(c, w, map[string]string{}, result)
		return
	}
	logger = logger.With().Int(log.KEY_UPSTREAM_STATUS, result.StatusCode).Logger()
	logger.Info().Msg("forwarded auth request")

	header := map[string]string{}
	tokens := service.ExtractAuthTokens(result)
	if tokens.AccessToken != "" {
		header[constants.HEADER_AUTHORIZATION] = tokens.AccessToken
	}
	if tokens.RefreshToken != "" {
		header[constants.HEADER_REFRESH_TOKEN] = tokens.RefreshToken
	}

	writeRelayResponse(c, w, header, result)
}
