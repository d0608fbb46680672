package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/novadent/novadent/internal/common/constants"
	"github.com/novadent/novadent/internal/log"
)

type sessionId struct{}

func SessionIDFromContext(c context.Context) string {
	id, ok := c.Value(sessionId{}).(string)
	if !ok {
		return ""
	}
	return id
}

// Session resolves the buyer session from the X-Session-Id header, minting a
// fresh id when the browser has none, and echoes it back on the response.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(constants.HEADER_SESSION_ID)
		if id == "" {
			id = uuid.NewString()
		}

		logger := zerolog.Ctx(r.Context()).
			With().
			Str(log.KEY_SESSION_ID, id).
			Logger()

		c := context.WithValue(r.Context(), sessionId{}, id)
		c = logger.WithContext(c)
		w.Header().Set(constants.HEADER_SESSION_ID, id)
		next.ServeHTTP(w, r.WithContext(c))
	})
}
