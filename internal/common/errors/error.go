package errors

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrEmptyAuth        = errors.New("missing authorization")
	ErrEmptySubject     = errors.New("missing subject")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrTermsNotAgreed   = errors.New("terms of sale must be agreed before final review")
	ErrProductNotFound  = errors.New("product not found")
	ErrUpstreamFailure  = errors.New("upstream request failed")
	ErrInvalidImageUrl  = errors.New("image url must be http or https")
	ErrUnknownSnapshot  = errors.New("unknown snapshot version")
	ErrInvalidDirection = errors.New("direction must be next or previous")
)

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
