package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/novadent/novadent/internal/common/constants"
)

var Tracer = otel.Tracer(constants.APP_GATEWAY)
