package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/novadent/novadent/gateway/internal/common/otel"
	"github.com/novadent/novadent/gateway/internal/service"
	commonErrors "github.com/novadent/novadent/internal/common/errors"
	commonHttp "github.com/novadent/novadent/internal/common/http"
)

// writeRelayResponse writes an upstream result back to the browser with the
// upstream status code. The body already carries the normalized JSON envelope
// so the status inside it is informational only.
func writeRelayResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	result service.ProxyResult,
) {
	c, span := otel.Tracer.Start(c, "writeRelayResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str("tag", "writeRelayResponse").Logger()

	w.Header().Add(commonHttp.KEY_HEADER_CONTENT_TYPE, commonHttp.VALUE_HEADER_APPLICATION_JSON)
	for k, v := range header {
		w.Header().Add(k, v)
	}
	w.WriteHeader(result.StatusCode)

	if err := json.NewEncoder(w).Encode(result.Body); err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msgf("failed encoding relay body with error=%s", err.Error())
	}
}
