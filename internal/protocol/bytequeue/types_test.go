package bytequeue

import (
	"errors"
	"testing"
)

func TestParseTypeRoundTripsString(t *testing.T) {
	types := []Type{
		Void, Bool, Byte, Int8, Int16, Uint16, Int32, Uint32, Int64, Uint64,
		Int, Float32, Float64, String, Bytes,
		ListOf(Int64), ListOf(String), ListOf(Bool),
	}
	for _, typ := range types {
		got, err := ParseType(typ.String())
		if err != nil {
			t.Fatalf("parse %q: %v", typ.String(), err)
		}
		if got != typ {
			t.Fatalf("parse %q: got=%+v want=%+v", typ.String(), got, typ)
		}
	}
}

func TestParseTypeRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "int128", "list", "list<>", "list<bytes>", "list<list<int>>", "list<int"} {
		if _, err := ParseType(raw); !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("expected ErrUnsupportedType for %q, got %v", raw, err)
		}
	}
}

func TestTypeFor(t *testing.T) {
	if typ, err := TypeFor[int32](); err != nil || typ != Int32 {
		t.Fatalf("int32: typ=%s err=%v", typ, err)
	}
	if typ, err := TypeFor[[]string](); err != nil || typ != ListOf(String) {
		t.Fatalf("[]string: typ=%s err=%v", typ, err)
	}
	if typ, err := TypeFor[[]byte](); err != nil || typ != Bytes {
		t.Fatalf("[]byte: typ=%s err=%v", typ, err)
	}
	if _, err := TypeFor[any](); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType for any, got %v", err)
	}
	if _, err := TypeFor[*int](); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType for *int, got %v", err)
	}
}

func TestValid(t *testing.T) {
	if !ListOf(Int).Valid() {
		t.Fatalf("expected list<int> valid")
	}
	if ListOf(Bytes).Valid() || ListOf(Void).Valid() || (Type{Kind: KindList, Elem: KindList}).Valid() {
		t.Fatalf("expected nested or non-scalar lists invalid")
	}
	if (Type{Kind: Kind(200)}).Valid() {
		t.Fatalf("expected out-of-range kind invalid")
	}
}
