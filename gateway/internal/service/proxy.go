// Package service implements the same-origin relay to the remote backend.
// Every upstream response is normalized to a JSON shape before it reaches the
// browser: non-JSON upstream bodies become a synthetic error envelope carrying
// the upstream status, so callers only ever handle JSON-shaped errors.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/novadent/novadent/gateway/internal/common/otel"
	"github.com/novadent/novadent/internal/common/constants"
	commonErrors "github.com/novadent/novadent/internal/common/errors"
	"github.com/novadent/novadent/internal/config"
	"github.com/novadent/novadent/internal/log"
)

// forwarded request headers; everything else stays on our side.
var forwardedHeaders = []string{
	"Authorization",
	"Content-Type",
	constants.HEADER_REFRESH_TOKEN,
	log.KEY_REQUEST_ID,
}

type ProxyResult struct {
	StatusCode int
	Header     http.Header
	Body       map[string]interface{}
}

// AuthTokens are the session tokens surfaced back to the browser after the
// auth flows. Upstream response headers take precedence over body fields.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
}

type ProxyService struct {
	backend config.Backend
	client  *http.Client
}

func NewProxyService(backend config.Backend) ProxyService {
	timeout := time.Duration(backend.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return ProxyService{
		backend: backend,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

// Forward relays r to the backend at path, keeping the method and body and the
// allow-listed headers. Transport failures come back as a 502 envelope.
func (s ProxyService) Forward(
	c context.Context,
	r *http.Request,
	path string,
) (ProxyResult, error) {
	c, span := otel.Tracer.Start(c, "ProxyService Forward")
	defer span.End()

	upstreamUrl := s.backend.BaseUrl + path
	if r.URL.RawQuery != "" {
		upstreamUrl += "?" + r.URL.RawQuery
	}

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "ProxyService Forward").
		Str(log.KEY_REQUEST_METHOD, r.Method).
		Str(log.KEY_UPSTREAM_URL, upstreamUrl).
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "creating upstream request").Logger()
	logger.Info().Msg("creating upstream request")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		err = fmt.Errorf("failed reading request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return errorResult(http.StatusBadGateway, err), err
	}
	req, err := http.NewRequestWithContext(c, r.Method, upstreamUrl, bytes.NewBuffer(body))
	if err != nil {
		err = fmt.Errorf("failed creating upstream request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return errorResult(http.StatusBadGateway, err), err
	}
	for _, header := range forwardedHeaders {
		if value := r.Header.Get(header); value != "" {
			req.Header.Set(header, value)
		}
	}
	if req.Header.Get(log.KEY_REQUEST_ID) == "" {
		req.Header.Set(log.KEY_REQUEST_ID, log.RequestIDFromContext(c))
	}
	logger.Info().Msg("created upstream request")

	logger = logger.With().Str(log.KEY_PROCESS, "forwarding upstream request").Logger()
	logger.Info().Msg("forwarding upstream request")
	resp, err := s.client.Do(req)
	if err != nil {
		err = fmt.Errorf(
			"failed forwarding request to upstream with error=%w",
			errors.Join(commonErrors.ErrUpstreamFailure, err),
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return errorResult(http.StatusBadGateway, err), err
	}
	defer resp.Body.Close()
	logger = logger.With().Int(log.KEY_UPSTREAM_STATUS, resp.StatusCode).Logger()
	logger.Info().Msg("forwarded upstream request")

	logger = logger.With().Str(log.KEY_PROCESS, "normalizing upstream response").Logger()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed reading upstream response with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return errorResult(http.StatusBadGateway, err), err
	}

	normalized := map[string]interface{}{}
	if len(respBody) > 0 && json.Unmarshal(respBody, &normalized) == nil {
		return ProxyResult{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       normalized,
		}, nil
	}

	// Upstream answered with a non-JSON body; wrap it so the caller still
	// receives a JSON-shaped error carrying the upstream status.
	message := http.StatusText(resp.StatusCode)
	if len(respBody) > 0 {
		message = string(respBody)
	}
	logger.Info().Msg("normalized non-json upstream response")
	return ProxyResult{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body: map[string]interface{}{
			"status":     statusLabel(resp.StatusCode),
			"statusCode": resp.StatusCode,
			"message":    message,
		},
	}, nil
}

// ExtractAuthTokens pulls the session tokens out of an auth-flow result,
// preferring the upstream response headers over body fields.
func ExtractAuthTokens(result ProxyResult) AuthTokens {
	tokens := AuthTokens{
		AccessToken:  result.Header.Get(constants.HEADER_AUTHORIZATION),
		RefreshToken: result.Header.Get(constants.HEADER_REFRESH_TOKEN),
	}
	if tokens.AccessToken == "" {
		tokens.AccessToken, _ = result.Body["token"].(string)
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken, _ = result.Body["refreshToken"].(string)
	}
	return tokens
}

// FetchImage retrieves an external image on the browser's behalf so vendor
// image hosts never see the buyer directly. Only http and https urls are
// allowed. The caller owns the response body.
func (s ProxyService) FetchImage(c context.Context, rawUrl string) (*http.Response, error) {
	c, span := otel.Tracer.Start(c, "ProxyService FetchImage")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "ProxyService FetchImage").
		Str(log.KEY_UPSTREAM_URL, rawUrl).
		Str(log.KEY_PROCESS, "validating image url").
		Logger()

	logger.Info().Msg("validating image url")
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		err = fmt.Errorf(
			"failed validating image url=%s with error=%w",
			rawUrl,
			errors.Join(commonErrors.ErrInvalidImageUrl, err),
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		err = fmt.Errorf(
			"failed validating image url=%s scheme=%s with error=%w",
			rawUrl,
			parsed.Scheme,
			commonErrors.ErrInvalidImageUrl,
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("validated image url")

	logger = logger.With().Str(log.KEY_PROCESS, "fetching image").Logger()
	logger.Info().Msg("fetching image")
	req, err := http.NewRequestWithContext(c, http.MethodGet, rawUrl, nil)
	if err != nil {
		err = fmt.Errorf("failed creating image request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		err = fmt.Errorf(
			"failed fetching image with error=%w",
			errors.Join(commonErrors.ErrUpstreamFailure, err),
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("fetched image with status=%d", resp.StatusCode)
	return resp, nil
}

func errorResult(statusCode int, err error) ProxyResult {
	return ProxyResult{
		StatusCode: statusCode,
		Header:     http.Header{},
		Body: map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		},
	}
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	return "failed"
}
