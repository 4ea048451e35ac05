package calls

import (
	"fmt"
	"strings"

	"github.com/danmuck/callwire/internal/protocol/bytequeue"
)

// Func is the invocation table entry for one callable: its signature and a
// closure that runs it against the captured receiver.
type Func struct {
	Params []bytequeue.Type
	Result bytequeue.Type
	Call   func(args []any) (any, error)

	err error
}

// Validate checks that f can be registered.
func (f Func) Validate() error {
	if f.err != nil {
		return f.err
	}
	if f.Call == nil {
		return ErrNilFunc
	}
	for i, t := range f.Params {
		if !t.Valid() || t.IsVoid() {
			return fmt.Errorf("%w: parameter %d has type %s", ErrInvalidSignature, i, t)
		}
	}
	if !f.Result.Valid() {
		return fmt.Errorf("%w: result has type %s", ErrInvalidSignature, f.Result)
	}
	return nil
}

// Signature renders f as "(T1, T2) R".
func (f Func) Signature() string {
	params := make([]string, len(f.Params))
	for i, t := range f.Params {
		params[i] = t.String()
	}
	return "(" + strings.Join(params, ", ") + ") " + f.Result.String()
}

// Export is one function a Provider declares under its own name. Owner is
// the declaring value; see Declare.
type Export struct {
	Name  string
	Func  Func
	Owner any
}

// Declare stamps owner on every export. Registration only consults exports
// whose owner has the receiver's own type, so declarations promoted from an
// embedded provider are not registered for the outer type.
func Declare(owner any, exports []Export) []Export {
	for i := range exports {
		exports[i].Owner = owner
	}
	return exports
}

// Provider is a receiver that declares the functions it exports.
type Provider interface {
	Functions() []Export
}

type typeFunc func() (bytequeue.Type, error)

func voidType() (bytequeue.Type, error) {
	return bytequeue.Void, nil
}

func bind(isNil bool, result typeFunc, params []typeFunc, call func(args []any) (any, error)) Func {
	if isNil {
		return Func{err: ErrNilFunc}
	}
	f := Func{Params: make([]bytequeue.Type, 0, len(params)), Call: call}
	for i, param := range params {
		t, err := param()
		if err != nil {
			return Func{err: fmt.Errorf("%w: parameter %d: %w", ErrInvalidSignature, i, err)}
		}
		f.Params = append(f.Params, t)
	}
	t, err := result()
	if err != nil {
		return Func{err: fmt.Errorf("%w: result: %w", ErrInvalidSignature, err)}
	}
	f.Result = t
	return f
}

func Func0[R any](fn func() (R, error)) Func {
	return bind(fn == nil, bytequeue.TypeFor[R], nil, func(args []any) (any, error) {
		r, err := fn()
		return r, err
	})
}

func Func1[A, R any](fn func(A) (R, error)) Func {
	return bind(fn == nil, bytequeue.TypeFor[R], []typeFunc{bytequeue.TypeFor[A]}, func(args []any) (any, error) {
		r, err := fn(args[0].(A))
		return r, err
	})
}

func Func2[A, B, R any](fn func(A, B) (R, error)) Func {
	return bind(fn == nil, bytequeue.TypeFor[R], []typeFunc{bytequeue.TypeFor[A], bytequeue.TypeFor[B]}, func(args []any) (any, error) {
		r, err := fn(args[0].(A), args[1].(B))
		return r, err
	})
}

func Func3[A, B, C, R any](fn func(A, B, C) (R, error)) Func {
	return bind(fn == nil, bytequeue.TypeFor[R], []typeFunc{bytequeue.TypeFor[A], bytequeue.TypeFor[B], bytequeue.TypeFor[C]}, func(args []any) (any, error) {
		r, err := fn(args[0].(A), args[1].(B), args[2].(C))
		return r, err
	})
}

// Proc0 binds a function with no result value.
func Proc0(fn func() error) Func {
	return bind(fn == nil, voidType, nil, func(args []any) (any, error) {
		return nil, fn()
	})
}

func Proc1[A any](fn func(A) error) Func {
	return bind(fn == nil, voidType, []typeFunc{bytequeue.TypeFor[A]}, func(args []any) (any, error) {
		return nil, fn(args[0].(A))
	})
}

func Proc2[A, B any](fn func(A, B) error) Func {
	return bind(fn == nil, voidType, []typeFunc{bytequeue.TypeFor[A], bytequeue.TypeFor[B]}, func(args []any) (any, error) {
		return nil, fn(args[0].(A), args[1].(B))
	})
}

func Proc3[A, B, C any](fn func(A, B, C) error) Func {
	return bind(fn == nil, voidType, []typeFunc{bytequeue.TypeFor[A], bytequeue.TypeFor[B], bytequeue.TypeFor[C]}, func(args []any) (any, error) {
		return nil, fn(args[0].(A), args[1].(B), args[2].(C))
	})
}
