package providers

import (
	"errors"
	"testing"

	"github.com/danmuck/callwire/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func TestBuildRegistryAllKnown(t *testing.T) {
	testlog.Start(t)
	reg, err := BuildRegistry(append(Known(), "arith", " ", "none"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []string{
		"add", "concat", "div",
		"kv.delete", "kv.get", "kv.list", "kv.put",
		"length", "mul", "repeat", "sub", "sum", "upper",
	}
	if diff := cmp.Diff(want, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRegistryNone(t *testing.T) {
	testlog.Start(t)
	reg, err := BuildRegistry([]string{"none"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %v", reg.Names())
	}
}

func TestBuildRegistryUnknown(t *testing.T) {
	testlog.Start(t)
	if _, err := BuildRegistry([]string{"arith", "clock"}); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}
