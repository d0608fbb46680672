package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novadent/novadent/internal/common/constants"
	commonErrors "github.com/novadent/novadent/internal/common/errors"
	"github.com/novadent/novadent/internal/config"
)

func TestForward(t *testing.T) {
	t.Run("given a json upstream response should relay status and body", func(t *testing.T) {
		upstream := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				io.WriteString(w, `{"status":"success","statusCode":201,"message":"created"}`)
			}),
		)
		defer upstream.Close()

		proxyService := NewProxyService(config.Backend{BaseUrl: upstream.URL})
		req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(`{}`))

		result, err := proxyService.Forward(context.Background(), req, "/api/users/register")

		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, result.StatusCode)
		assert.Equal(t, "success", result.Body["status"])
		assert.Equal(t, "created", result.Body["message"])
	})
	t.Run("given a non-json upstream response should wrap it in an error envelope", func(t *testing.T) {
		upstream := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				io.WriteString(w, "upstream exploded")
			}),
		)
		defer upstream.Close()

		proxyService := NewProxyService(config.Backend{BaseUrl: upstream.URL})
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)

		result, err := proxyService.Forward(context.Background(), req, "/api/products")

		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
		assert.Equal(t, "failed", result.Body["status"])
		assert.Equal(t, http.StatusInternalServerError, result.Body["statusCode"])
		assert.Equal(t, "upstream exploded", result.Body["message"])
	})
	t.Run("given an unreachable upstream should return a 502 envelope", func(t *testing.T) {
		upstream := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		)
		upstream.Close()

		proxyService := NewProxyService(config.Backend{BaseUrl: upstream.URL})
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)

		result, err := proxyService.Forward(context.Background(), req, "/api/products")

		assert.Error(t, err)
		assert.ErrorIs(t, err, commonErrors.ErrUpstreamFailure)
		assert.Equal(t, http.StatusBadGateway, result.StatusCode)
		assert.Equal(t, "failed", result.Body["status"])
	})
	t.Run("given allow-listed headers and a query should forward both", func(t *testing.T) {
		var seenAuthorization, seenCookie, seenQuery string
		upstream := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenAuthorization = r.Header.Get(constants.HEADER_AUTHORIZATION)
				seenCookie = r.Header.Get("Cookie")
				seenQuery = r.URL.RawQuery
				io.WriteString(w, `{"status":"success"}`)
			}),
		)
		defer upstream.Close()

		proxyService := NewProxyService(config.Backend{BaseUrl: upstream.URL})
		req := httptest.NewRequest(http.MethodGet, "/api/products?page=2&limit=10", nil)
		req.Header.Set(constants.HEADER_AUTHORIZATION, "Bearer token-123")
		req.Header.Set("Cookie", "session=secret")

		_, err := proxyService.Forward(context.Background(), req, "/api/products")

		assert.NoError(t, err)
		assert.Equal(t, "Bearer token-123", seenAuthorization)
		assert.Empty(t, seenCookie)
		assert.Equal(t, "page=2&limit=10", seenQuery)
	})
}

func TestExtractAuthTokens(t *testing.T) {
	tests := []struct {
		name     string
		result   ProxyResult
		expected AuthTokens
	}{
		{
			name: "given tokens in headers and body should prefer the headers",
			result: ProxyResult{
				Header: http.Header{
					constants.HEADER_AUTHORIZATION: []string{"header-access"},
					constants.HEADER_REFRESH_TOKEN: []string{"header-refresh"},
				},
				Body: map[string]interface{}{
					"token":        "body-access",
					"refreshToken": "body-refresh",
				},
			},
			expected: AuthTokens{AccessToken: "header-access", RefreshToken: "header-refresh"},
		},
		{
			name: "given tokens only in the body should fall back to body fields",
			result: ProxyResult{
				Header: http.Header{},
				Body: map[string]interface{}{
					"token":        "body-access",
					"refreshToken": "body-refresh",
				},
			},
			expected: AuthTokens{AccessToken: "body-access", RefreshToken: "body-refresh"},
		},
		{
			name:     "given no tokens should return empty tokens",
			result:   ProxyResult{Header: http.Header{}, Body: map[string]interface{}{}},
			expected: AuthTokens{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, ExtractAuthTokens(test.result))
		})
	}
}

func TestFetchImage(t *testing.T) {
	t.Run("given an http image url should stream the upstream body", func(t *testing.T) {
		upstream := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				io.WriteString(w, "png-bytes")
			}),
		)
		defer upstream.Close()

		proxyService := NewProxyService(config.Backend{BaseUrl: upstream.URL})

		resp, err := proxyService.FetchImage(context.Background(), upstream.URL+"/vendor.png")

		assert.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		assert.NoError(t, err)
		assert.Equal(t, "png-bytes", string(body))
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	})
	t.Run("given a non-http scheme should reject the url", func(t *testing.T) {
		proxyService := NewProxyService(config.Backend{})

		resp, err := proxyService.FetchImage(context.Background(), "ftp://images.example.com/a.png")

		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, commonErrors.ErrInvalidImageUrl))
	})
	t.Run("given a scheme-relative url should reject the url", func(t *testing.T) {
		proxyService := NewProxyService(config.Backend{})

		resp, err := proxyService.FetchImage(context.Background(), "//images.example.com/a.png")

		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, commonErrors.ErrInvalidImageUrl))
	})
}
