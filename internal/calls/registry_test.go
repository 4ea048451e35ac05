package calls

import (
	"errors"
	"testing"

	"github.com/danmuck/callwire/internal/protocol/bytequeue"
	"github.com/danmuck/callwire/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

type greeter struct {
	prefix string
	dupe   bool
}

func (g *greeter) greet(name string) (string, error) {
	return g.prefix + name, nil
}

func (g *greeter) Functions() []Export {
	exports := []Export{
		{Name: "greet", Func: Func1(g.greet)},
		{Name: "ping", Func: Proc0(func() error { return nil })},
	}
	if g.dupe {
		exports = append(exports, Export{Name: "greet", Func: Func1(g.greet)})
	}
	return Declare(g, exports)
}

type counterBase struct{}

func (b counterBase) Functions() []Export {
	return Declare(b, []Export{
		{Name: "count", Func: Func0(func() (int, error) { return 1, nil })},
	})
}

// promotes counterBase.Functions without declaring anything itself
type promotedCounter struct {
	counterBase
}

// declares its own function and re-exports the embedded ones
type extendedCounter struct {
	counterBase
}

func (e extendedCounter) Functions() []Export {
	own := Declare(e, []Export{
		{Name: "reset", Func: Proc0(func() error { return nil })},
	})
	return append(own, e.counterBase.Functions()...)
}

func TestRegisterFromIgnoresEmbeddedDeclarations(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()

	if err := r.RegisterFrom("count", promotedCounter{}); !errors.Is(err, ErrFunctionNotDeclared) {
		t.Fatalf("expected ErrFunctionNotDeclared for promoted declaration, got %v", err)
	}
	if err := r.RegisterAll(promotedCounter{}); err != nil {
		t.Fatalf("register all: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected no functions from promoted declarations, got %v", r.Names())
	}

	if err := r.RegisterFrom("count", extendedCounter{}); !errors.Is(err, ErrFunctionNotDeclared) {
		t.Fatalf("expected ErrFunctionNotDeclared for re-exported declaration, got %v", err)
	}
	if err := r.RegisterAll(extendedCounter{}); err != nil {
		t.Fatalf("register all: %v", err)
	}
	if diff := cmp.Diff([]string{"reset"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	if err := r.RegisterFrom("count", counterBase{}); err != nil {
		t.Fatalf("register from declaring type: %v", err)
	}
}

func TestRegisterFromSkipsUnownedExports(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	if err := r.RegisterFrom("greet", unowned{}); !errors.Is(err, ErrFunctionNotDeclared) {
		t.Fatalf("expected ErrFunctionNotDeclared, got %v", err)
	}
}

type unowned struct{}

func (unowned) Functions() []Export {
	return []Export{{Name: "greet", Func: Proc0(func() error { return nil })}}
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	add := Func2(func(a, b int) (int, error) { return a + b, nil })

	if err := r.Register("add", nil, add); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register("add", nil, add); !errors.Is(err, ErrFunctionExists) {
		t.Fatalf("expected ErrFunctionExists, got %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 function, got %d", r.Len())
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()

	if err := r.Register(" ", nil, Proc0(func() error { return nil })); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if err := r.Register("nil", nil, Func1[int, int](nil)); !errors.Is(err, ErrNilFunc) {
		t.Fatalf("expected ErrNilFunc, got %v", err)
	}
	if err := r.Register("raw", nil, Func{}); !errors.Is(err, ErrNilFunc) {
		t.Fatalf("expected ErrNilFunc for empty Func, got %v", err)
	}
	type point struct{ X, Y int }
	bad := Func1(func(p point) (int, error) { return p.X, nil })
	if err := r.Register("bad", nil, bad); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	voidParam := Func{Params: []bytequeue.Type{bytequeue.Void}, Call: func([]any) (any, error) { return nil, nil }}
	if err := r.Register("void", nil, voidParam); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected void parameter to be rejected, got %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected nothing registered, got %v", r.Names())
	}
}

func TestRegisterFromProvider(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	g := &greeter{prefix: "hi "}

	if err := r.RegisterFrom("greet", g); err != nil {
		t.Fatalf("register from: %v", err)
	}
	desc, ok := r.Lookup("greet")
	if !ok {
		t.Fatalf("expected greet registered")
	}
	if desc.Receiver != g {
		t.Fatalf("expected receiver to be recorded")
	}
	if got := desc.Func.Signature(); got != "(string) string" {
		t.Fatalf("unexpected signature %q", got)
	}
	if err := r.RegisterFrom("wave", g); !errors.Is(err, ErrFunctionNotDeclared) {
		t.Fatalf("expected ErrFunctionNotDeclared, got %v", err)
	}
	if err := r.RegisterFrom("greet", &greeter{dupe: true}); !errors.Is(err, ErrAmbiguousFunction) {
		t.Fatalf("expected ErrAmbiguousFunction, got %v", err)
	}
	if err := r.RegisterFrom("greet", nil); !errors.Is(err, ErrNilProvider) {
		t.Fatalf("expected ErrNilProvider, got %v", err)
	}
}

func TestRegisterAllIsAtomic(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	if err := r.Register("ping", nil, Proc0(func() error { return nil })); err != nil {
		t.Fatalf("register ping: %v", err)
	}
	if err := r.RegisterAll(&greeter{}); !errors.Is(err, ErrFunctionExists) {
		t.Fatalf("expected ErrFunctionExists, got %v", err)
	}
	if _, ok := r.Lookup("greet"); ok {
		t.Fatalf("greet must not be registered after a rejected batch")
	}

	fresh := NewRegistry()
	if err := fresh.RegisterAll(&greeter{}); err != nil {
		t.Fatalf("register all: %v", err)
	}
	if diff := cmp.Diff([]string{"greet", "ping"}, fresh.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if err := NewRegistry().RegisterAll(&greeter{dupe: true}); !errors.Is(err, ErrAmbiguousFunction) {
		t.Fatalf("expected ErrAmbiguousFunction, got %v", err)
	}
}

func TestDescriptorsSortedByName(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(name, nil, Proc0(func() error { return nil })); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	descs := r.Descriptors()
	got := make([]string, len(descs))
	for i, d := range descs {
		got[i] = d.Name
	}
	if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterCopiesParams(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	params := []bytequeue.Type{bytequeue.Int32}
	fn := Func{Params: params, Result: bytequeue.Int32, Call: func(args []any) (any, error) { return args[0], nil }}
	if err := r.Register("echo", nil, fn); err != nil {
		t.Fatalf("register: %v", err)
	}
	params[0] = bytequeue.String
	desc, _ := r.Lookup("echo")
	if desc.Func.Params[0] != bytequeue.Int32 {
		t.Fatalf("descriptor changed after registration: %v", desc.Func.Params)
	}
}
