package calls

import (
	"errors"
	"fmt"

	"github.com/danmuck/callwire/internal/protocol/bytequeue"
)

var (
	ErrInvalidName         = errors.New("calls: invalid function name")
	ErrNilFunc             = errors.New("calls: nil function")
	ErrNilProvider         = errors.New("calls: nil provider")
	ErrFunctionExists      = errors.New("calls: function already registered")
	ErrFunctionNotDeclared = errors.New("calls: function not declared by receiver")
	ErrAmbiguousFunction   = errors.New("calls: function declared more than once")
	ErrInvalidSignature    = errors.New("calls: invalid signature")
	ErrPanic               = errors.New("calls: function panicked")
	ErrMalformedResponse   = errors.New("calls: malformed response")
	ErrTrailingResponse    = errors.New("calls: trailing bytes in response")
)

// Fault classifies why Invoke produced an error envelope.
type Fault uint8

const (
	FaultMalformedName Fault = iota + 1
	FaultNameNotFound
	FaultParameterUnderflow
	FaultParameterDecode
	FaultTrailingData
	FaultExecution
	FaultResultEncode
)

func (f Fault) String() string {
	switch f {
	case FaultMalformedName:
		return "malformed_name"
	case FaultNameNotFound:
		return "name_not_found"
	case FaultParameterUnderflow:
		return "parameter_underflow"
	case FaultParameterDecode:
		return "parameter_decode"
	case FaultTrailingData:
		return "trailing_data"
	case FaultExecution:
		return "execution"
	case FaultResultEncode:
		return "result_encode"
	default:
		return fmt.Sprintf("fault(%d)", uint8(f))
	}
}

// CallError is one failed invocation. Its Error text is the message carried
// by the error envelope.
type CallError struct {
	Fault Fault
	Name  string
	Index int
	Type  bytequeue.Type
	Err   error
}

func (e *CallError) Error() string {
	switch e.Fault {
	case FaultMalformedName:
		return fmt.Sprintf("error when reading function name: %v", e.Err)
	case FaultNameNotFound:
		return e.Name + " function not found"
	case FaultParameterUnderflow:
		return e.restoreParameter()
	case FaultParameterDecode:
		return fmt.Sprintf("%s: %v", e.restoreParameter(), e.Err)
	case FaultTrailingData:
		return fmt.Sprintf("error when calling function %s to restore parameters", e.Name)
	case FaultExecution:
		return fmt.Sprintf("error calling function %s %v", e.Name, e.Err)
	case FaultResultEncode:
		return fmt.Sprintf("error calling function %s to store result %v", e.Name, e.Err)
	default:
		return fmt.Sprintf("error calling function %s: %v", e.Name, e.Err)
	}
}

func (e *CallError) Unwrap() error {
	return e.Err
}

func (e *CallError) restoreParameter() string {
	return fmt.Sprintf("error when calling function %s to restore parameters to the %dth parameter %s", e.Name, e.Index, e.Type)
}

// RemoteError is an error envelope decoded on the calling side.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}
