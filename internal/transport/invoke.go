package transport

import (
	"context"
	"time"

	"github.com/danmuck/callwire/internal/calls"
	"github.com/danmuck/callwire/internal/observability"
	"github.com/rs/zerolog"
)

// Invoker runs one call envelope. *calls.Registry satisfies it.
type Invoker interface {
	InvokeDetailed(request []byte) ([]byte, *calls.CallError)
}

// Caller sends one call envelope and returns the response envelope.
type Caller interface {
	Call(ctx context.Context, request []byte) ([]byte, error)
}

const unknownFunction = "_unknown"

// Dispatch runs request through inv, records call metrics under transport
// and logs faults.
func Dispatch(logger zerolog.Logger, transport string, inv Invoker, request []byte) ([]byte, *calls.CallError) {
	start := time.Now()
	resp, callErr := inv.InvokeDetailed(request)
	elapsed := time.Since(start)

	function := unknownFunction
	fault := ""
	if callErr != nil {
		fault = callErr.Fault.String()
		if callErr.Fault != calls.FaultMalformedName && callErr.Fault != calls.FaultNameNotFound {
			function = callErr.Name
		}
		logger.Warn().
			Str("transport", transport).
			Str("function", callErr.Name).
			Str("fault", fault).
			Err(callErr).
			Msg("call failed")
	} else if name, err := calls.RequestName(request); err == nil {
		function = name
		logger.Debug().
			Str("transport", transport).
			Str("function", function).
			Dur("duration", elapsed).
			Msg("call ok")
	}
	observability.RecordCall(transport, function, fault, elapsed)
	return resp, callErr
}
