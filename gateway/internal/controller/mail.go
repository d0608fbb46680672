package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/novadent/novadent/gateway/internal/common/otel"
	"github.com/novadent/novadent/gateway/internal/service"
	commonErrors "github.com/novadent/novadent/internal/common/errors"
	commonHttp "github.com/novadent/novadent/internal/common/http"
	"github.com/novadent/novadent/internal/log"
)

type MailController struct {
	service service.ProxyService
}

func AttachMailController(mux *mux.Router, service service.ProxyService) {
	controller := MailController{service: service}

	router := mux.PathPrefix("/mail").Subrouter()
	router.HandleFunc("/forgot-password", controller.ForgotPassword).Methods(http.MethodPost)
	router.HandleFunc("/reset-password", controller.ResetPassword).Methods(http.MethodPost)
	router.HandleFunc("/verify-email", controller.VerifyEmail).Methods(http.MethodPost)
}

// ForgotPassword forwards the request but always answers 200 success so the
// response never reveals whether the address exists.
func (t MailController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	t.relayMasked(
		w,
		r,
		"MailController ForgotPassword",
		"/api/mail/forgot-password",
		"if the account exists, a reset email has been sent",
	)
}

// ResetPassword is masked the same way: reset tokens are single use upstream
// and a failed attempt must look identical to a successful one.
func (t MailController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	t.relayMasked(
		w,
		r,
		"MailController ResetPassword",
		"/api/mail/reset-password",
		"password reset processed",
	)
}

func (t MailController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MailController VerifyEmail")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "MailController VerifyEmail").
		Str(log.KEY_PROCESS, "forwarding mail request").
		Logger()

	logger.Info().Msg("forwarding mail request")
	c = logger.WithContext(c)
	result, err := t.service.Forward(c, r, "/api/mail/verify-email")
	if err != nil {
		err = fmt.Errorf("failed forwarding mail request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeRelayResponse(c, w, map[string]string{}, result)
		return
	}
	logger = logger.With().Int(log.KEY_UPSTREAM_STATUS, result.StatusCode).Logger()
	logger.Info().Msg("forwarded mail request")

	writeRelayResponse(c, w, map[string]string{}, result)
}

func (t MailController) relayMasked(
	w http.ResponseWriter,
	r *http.Request,
	tag string,
	path string,
	message string,
) {
	c, span := otel.Tracer.Start(r.Context(), tag)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, tag).
		Str(log.KEY_PROCESS, "forwarding mail request").
		Logger()

	logger.Info().Msg("forwarding mail request")
	c = logger.WithContext(c)
	result, err := t.service.Forward(c, r, path)
	if err != nil {
		err = fmt.Errorf("failed forwarding mail request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else {
		logger = logger.With().Int(log.KEY_UPSTREAM_STATUS, result.StatusCode).Logger()
		logger.Info().Msg("forwarded mail request")
	}

	// The upstream outcome only reaches the logs, never the browser.
	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    message,
	})
}
