package calls

import (
	"fmt"

	"github.com/danmuck/callwire/internal/protocol/bytequeue"
)

// DecodeResponse reads a response envelope. An error envelope is returned
// as *RemoteError; a success envelope yields one value of type result, or
// nil when result is void.
func DecodeResponse(resp []byte, result bytequeue.Type) (any, error) {
	q := bytequeue.FromBytes(resp)
	flag, err := q.Pop(bytequeue.Bool)
	if err != nil {
		return nil, fmt.Errorf("%w: error flag: %w", ErrMalformedResponse, err)
	}
	if flag.(bool) {
		msg, err := q.Pop(bytequeue.String)
		if err != nil {
			return nil, fmt.Errorf("%w: error message: %w", ErrMalformedResponse, err)
		}
		return nil, &RemoteError{Message: msg.(string)}
	}
	v, err := q.Pop(result)
	if err != nil {
		return nil, fmt.Errorf("%w: result %s: %w", ErrMalformedResponse, result, err)
	}
	if q.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingResponse, q.Len())
	}
	return v, nil
}

// Decode is DecodeResponse for a result of Go type R.
func Decode[R any](resp []byte) (R, error) {
	var zero R
	t, err := bytequeue.TypeFor[R]()
	if err != nil {
		return zero, err
	}
	v, err := DecodeResponse(resp, t)
	if err != nil {
		return zero, err
	}
	return v.(R), nil
}

// IsError reports whether resp carries the error flag. It does not
// validate the rest of the envelope.
func IsError(resp []byte) bool {
	return len(resp) > 0 && resp[0] != 0
}
