package calls

import (
	"fmt"

	"github.com/danmuck/callwire/internal/protocol/bytequeue"
)

// Make builds a call envelope. Each argument is encoded with the semantic
// type of its own dynamic Go type; Make never sees the callee's signature.
func Make(name string, args ...any) ([]byte, error) {
	q := bytequeue.New()
	if err := q.PushSize(len(name)); err != nil {
		return nil, fmt.Errorf("calls: make %q: %w", name, err)
	}
	for i := 0; i < len(name); i++ {
		q.PushByte(name[i])
	}
	for i, arg := range args {
		if err := q.PushValue(arg); err != nil {
			return nil, fmt.Errorf("calls: make %q argument %d: %w", name, i, err)
		}
	}
	return q.Bytes(), nil
}

// RequestName reads the call name from a request envelope without
// resolving or decoding arguments.
func RequestName(request []byte) (string, error) {
	return popName(bytequeue.FromBytes(request))
}
