package bytequeue

import "errors"

var (
	ErrEmpty           = errors.New("bytequeue: queue empty")
	ErrTruncated       = errors.New("bytequeue: truncated data")
	ErrInvalidBool     = errors.New("bytequeue: invalid bool value")
	ErrInvalidUTF8     = errors.New("bytequeue: invalid utf-8 string")
	ErrTypeMismatch    = errors.New("bytequeue: value does not match type")
	ErrUnsupportedType = errors.New("bytequeue: unsupported type")
	ErrNilValue        = errors.New("bytequeue: nil value")
	ErrSizeOverflow    = errors.New("bytequeue: size prefix overflow")
)
