package arith

import (
	"errors"
	"testing"

	"github.com/danmuck/callwire/internal/calls"
	"github.com/danmuck/callwire/internal/testutil/testlog"
)

func newRegistry(t *testing.T) *calls.Registry {
	t.Helper()
	r := calls.NewRegistry()
	if err := r.RegisterAll(New()); err != nil {
		t.Fatalf("register all: %v", err)
	}
	return r
}

func invokeInt(t *testing.T, r *calls.Registry, name string, args ...any) (int, error) {
	t.Helper()
	req, err := calls.Make(name, args...)
	if err != nil {
		t.Fatalf("make %s: %v", name, err)
	}
	return calls.Decode[int](r.Invoke(req))
}

func TestArithmeticOverTheWire(t *testing.T) {
	testlog.Start(t)
	r := newRegistry(t)

	cases := []struct {
		name string
		a, b int
		want int
	}{
		{"add", 2, 3, 5},
		{"sub", 2, 3, -1},
		{"mul", -4, 6, -24},
		{"div", 7, 2, 3},
		{"div", -7, 2, -3},
	}
	for _, tc := range cases {
		got, err := invokeInt(t, r, tc.name, tc.a, tc.b)
		if err != nil {
			t.Fatalf("%s(%d,%d): %v", tc.name, tc.a, tc.b, err)
		}
		if got != tc.want {
			t.Fatalf("%s(%d,%d) = %d, want %d", tc.name, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDivByZeroIsExecutionError(t *testing.T) {
	testlog.Start(t)
	r := newRegistry(t)

	_, err := invokeInt(t, r, "div", 1, 0)
	var remote *calls.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if remote.Message != "error calling function div division by zero" {
		t.Fatalf("unexpected message %q", remote.Message)
	}
}

func TestSumList(t *testing.T) {
	testlog.Start(t)
	r := newRegistry(t)

	req, err := calls.Make("sum", []int64{10, 20, 30})
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	got, err := calls.Decode[int64](r.Invoke(req))
	if err != nil || got != 60 {
		t.Fatalf("sum: got=%d err=%v", got, err)
	}

	req, _ = calls.Make("sum", []int64{})
	got, err = calls.Decode[int64](r.Invoke(req))
	if err != nil || got != 0 {
		t.Fatalf("empty sum: got=%d err=%v", got, err)
	}
}
