package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/novadent/novadent/gateway/internal/service"
	"github.com/novadent/novadent/internal/config"
)

func newMailRouter(backendUrl string) *mux.Router {
	router := mux.NewRouter()
	AttachMailController(router, service.NewProxyService(config.Backend{BaseUrl: backendUrl}))
	return router
}

func TestMailAntiEnumeration(t *testing.T) {
	tests := []struct {
		name            string
		path            string
		upstreamStatus  int
		upstreamBody    string
		expectedMessage string
	}{
		{
			name:            "given an unknown address on forgot-password should still answer success",
			path:            "/mail/forgot-password",
			upstreamStatus:  http.StatusNotFound,
			upstreamBody:    `{"status":"failed","statusCode":404,"message":"user not found"}`,
			expectedMessage: "if the account exists, a reset email has been sent",
		},
		{
			name:            "given a known address on forgot-password should answer the same success",
			path:            "/mail/forgot-password",
			upstreamStatus:  http.StatusOK,
			upstreamBody:    `{"status":"success","statusCode":200,"message":"email sent"}`,
			expectedMessage: "if the account exists, a reset email has been sent",
		},
		{
			name:            "given an invalid token on reset-password should still answer success",
			path:            "/mail/reset-password",
			upstreamStatus:  http.StatusBadRequest,
			upstreamBody:    `{"status":"failed","statusCode":400,"message":"invalid token"}`,
			expectedMessage: "password reset processed",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			upstream := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(test.upstreamStatus)
					io.WriteString(w, test.upstreamBody)
				}),
			)
			defer upstream.Close()

			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, test.path, strings.NewReader(`{}`))
			newMailRouter(upstream.URL).ServeHTTP(recorder, req)

			assert.Equal(t, http.StatusOK, recorder.Code)
			body := map[string]interface{}{}
			assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, "success", body["status"])
			assert.Equal(t, test.expectedMessage, body["message"])
		})
	}
	t.Run("given an unreachable upstream on forgot-password should still answer success", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		upstream.Close()

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/mail/forgot-password", strings.NewReader(`{}`))
		newMailRouter(upstream.URL).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
	t.Run("given verify-email should relay the upstream outcome unmasked", func(t *testing.T) {
		upstream := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, `{"status":"failed","statusCode":400,"message":"invalid token"}`)
			}),
		)
		defer upstream.Close()

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/mail/verify-email", strings.NewReader(`{}`))
		newMailRouter(upstream.URL).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		body := map[string]interface{}{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "invalid token", body["message"])
	})
}
