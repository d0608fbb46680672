package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/novadent/novadent/gateway/internal/common/otel"
	"github.com/novadent/novadent/gateway/internal/service"
	"github.com/novadent/novadent/internal/common/constants"
	commonErrors "github.com/novadent/novadent/internal/common/errors"
	commonHttp "github.com/novadent/novadent/internal/common/http"
	"github.com/novadent/novadent/internal/log"
)

type ImageController struct {
	service service.ProxyService
}

func AttachImageController(mux *mux.Router, service service.ProxyService) {
	controller := ImageController{service: service}

	mux.HandleFunc("/image-proxy", controller.ProxyImage).Methods(http.MethodGet)
}

func (t ImageController) ProxyImage(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ImageController ProxyImage")
	defer span.End()

	rawUrl := r.URL.Query().Get("url")
	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "ImageController ProxyImage").
		Str(log.KEY_UPSTREAM_URL, rawUrl).
		Str(log.KEY_PROCESS, "fetching image").
		Logger()

	logger.Info().Msg("fetching image")
	c = logger.WithContext(c)
	resp, err := t.service.FetchImage(c, rawUrl)
	if err != nil {
		err = fmt.Errorf("failed proxying image with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusBadGateway
		if errors.Is(err, commonErrors.ErrInvalidImageUrl) {
			statusCode = http.StatusBadRequest
		}
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	defer resp.Body.Close()
	logger.Info().Msg("fetched image")

	logger = logger.With().Str(log.KEY_PROCESS, "streaming image").Logger()
	if contentType := resp.Header.Get(commonHttp.KEY_HEADER_CONTENT_TYPE); contentType != "" {
		w.Header().Set(commonHttp.KEY_HEADER_CONTENT_TYPE, contentType)
	}
	w.Header().Set(constants.HEADER_CACHE_CONTROL, constants.VALUE_IMAGE_CACHE_AGE)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		err = fmt.Errorf("failed streaming image with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("streamed image")
}
