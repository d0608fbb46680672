package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	commonOtel "github.com/novadent/novadent/gateway/internal/common/otel"
	"github.com/novadent/novadent/gateway/internal/controller"
	"github.com/novadent/novadent/gateway/internal/service"
	"github.com/novadent/novadent/internal/common/constants"
	commonErrors "github.com/novadent/novadent/internal/common/errors"
	"github.com/novadent/novadent/internal/config"
	"github.com/novadent/novadent/internal/log"
	"github.com/novadent/novadent/internal/middleware"
	"github.com/novadent/novadent/internal/otel"
)

func RunGatewayService(c context.Context) {
	c, span := commonOtel.Tracer.Start(c, "RunGatewayService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_APP_NAME, constants.APP_GATEWAY).
		Str(log.KEY_TAG, "main RunGatewayService").
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.APP_GATEWAY)
	logger = logger.With().Any(log.KEY_CONFIG, cfg).Logger()
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KEY_PROCESS, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	mux := mux.NewRouter()
	mux.Use(
		otelmux.Middleware(constants.APP_GATEWAY),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	mux.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.APP_GATEWAY, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		err = otel.ShutdownOtel(c, otelShutdowns)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KEY_PROCESS, "initializing proxy service").Logger()
	logger.Info().Msg("initializing proxy service")
	proxyService := service.NewProxyService(cfg.Backend)
	logger.Info().Msg("initialized proxy service")

	logger = logger.With().Str(log.KEY_PROCESS, "initializing gateway controller").Logger()
	logger.Info().Msg("initializing gateway controller")
	controller.AttachAuthController(mux, proxyService)
	controller.AttachUserController(mux, proxyService, cfg.Application.SecretKey)
	controller.AttachMailController(mux, proxyService)
	controller.AttachProductController(mux, proxyService, cfg.Application.SecretKey)
	controller.AttachImageController(mux, proxyService)
	logger.Info().Msg("initialized gateway controller")

	logger = logger.With().Str(log.KEY_PROCESS, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      mux,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger = logger.With().Str(log.KEY_PROCESS, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)

		logger = logger.With().Str(log.KEY_PROCESS, "shutdown server").Logger()
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())

			c = logger.WithContext(c)
			if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
				err = fmt.Errorf("failed shutting down otel with error=%w", err)
				commonErrors.HandleError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return
			}
			return
		}
		logger.Info().Msg("shutdown server")
	}()

	<-c.Done()
	logger = logger.With().Str(log.KEY_PROCESS, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")

	logger = logger.With().Str(log.KEY_PROCESS, "shutting down http server").Logger()
	logger.Info().Msg("shutting down http server")
	err = httpServer.Shutdown(c)
	if err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
