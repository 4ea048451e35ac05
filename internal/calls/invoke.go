package calls

import (
	"fmt"
	"strings"

	"github.com/danmuck/callwire/internal/protocol/bytequeue"
)

// Invoke decodes one call envelope, runs the named function and returns the
// response envelope. It never fails: every fault becomes an error envelope.
func (r *Registry) Invoke(request []byte) []byte {
	resp, _ := r.InvokeDetailed(request)
	return resp
}

// InvokeDetailed is Invoke that also reports the classified fault, or nil
// when the response is a success envelope.
func (r *Registry) InvokeDetailed(request []byte) ([]byte, *CallError) {
	q := bytequeue.FromBytes(request)

	// the prefix is trusted; it is not checked against q.Len()
	name, err := popName(q)
	if err != nil {
		return fail(&CallError{Fault: FaultMalformedName, Err: err})
	}

	desc, ok := r.Lookup(name)
	if !ok {
		return fail(&CallError{Fault: FaultNameNotFound, Name: name})
	}

	params := desc.Func.Params
	args := make([]any, len(params))
	for i, t := range params {
		if q.Len() == 0 {
			return fail(&CallError{Fault: FaultParameterUnderflow, Name: name, Index: i, Type: t})
		}
		v, err := q.Pop(t)
		if err != nil {
			return fail(&CallError{Fault: FaultParameterDecode, Name: name, Index: i, Type: t, Err: err})
		}
		args[i] = v
	}
	if q.Len() != 0 {
		return fail(&CallError{Fault: FaultTrailingData, Name: name})
	}

	result, err := execute(desc.Func, args)
	if err != nil {
		return fail(&CallError{Fault: FaultExecution, Name: name, Err: err})
	}

	out := bytequeue.New()
	_ = out.Push(bytequeue.Bool, false)
	if !desc.Func.Result.IsVoid() {
		if err := out.Push(desc.Func.Result, result); err != nil {
			return fail(&CallError{Fault: FaultResultEncode, Name: name, Err: err})
		}
	}
	return out.Bytes(), nil
}

func popName(q *bytequeue.Queue) (string, error) {
	n, err := q.PopSize()
	if err != nil {
		return "", fmt.Errorf("size prefix: %w", err)
	}
	raw := make([]byte, 0, min(n, q.Len()))
	for i := 0; i < n; i++ {
		b, err := q.PopByte()
		if err != nil {
			return "", fmt.Errorf("name byte %d of %d: %w", i, n, err)
		}
		raw = append(raw, b)
	}
	return strings.ToValidUTF8(string(raw), "�"), nil
}

func execute(fn Func, args []any) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()
	return fn.Call(args)
}

func fail(e *CallError) ([]byte, *CallError) {
	return errorEnvelope(e.Error()), e
}

func errorEnvelope(msg string) []byte {
	q := bytequeue.New()
	_ = q.Push(bytequeue.Bool, true)
	_ = q.Push(bytequeue.String, strings.ToValidUTF8(msg, "�"))
	return q.Bytes()
}
