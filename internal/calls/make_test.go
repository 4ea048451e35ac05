package calls

import (
	"errors"
	"testing"

	"github.com/danmuck/callwire/internal/protocol/bytequeue"
	"github.com/danmuck/callwire/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func TestMakeLayout(t *testing.T) {
	testlog.Start(t)
	req, err := Make("add", int32(2), true)
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	want := []byte{
		0x00, 0x00, 0x00, 0x03, 'a', 'd', 'd',
		0x00, 0x00, 0x00, 0x02,
		0x01,
	}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestMakeInfersTypesFromValues(t *testing.T) {
	testlog.Start(t)
	req, err := Make("mixed", int64(7), "s", []byte{0xaa}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	q := bytequeue.FromBytes(req)
	if _, err := q.PopSize(); err != nil {
		t.Fatalf("pop size: %v", err)
	}
	for i := 0; i < len("mixed"); i++ {
		if _, err := q.PopByte(); err != nil {
			t.Fatalf("pop name byte: %v", err)
		}
	}
	types := []bytequeue.Type{bytequeue.Int64, bytequeue.String, bytequeue.Bytes, bytequeue.ListOf(bytequeue.String)}
	var got []any
	for _, typ := range types {
		v, err := q.Pop(typ)
		if err != nil {
			t.Fatalf("pop %s: %v", typ, err)
		}
		got = append(got, v)
	}
	want := []any{int64(7), "s", []byte{0xaa}, []string{"a", "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if q.Len() != 0 {
		t.Fatalf("unexpected trailing bytes: %d", q.Len())
	}
}

func TestMakePropagatesArgumentErrors(t *testing.T) {
	testlog.Start(t)
	if _, err := Make("add", 1, nil); !errors.Is(err, bytequeue.ErrNilValue) {
		t.Fatalf("expected ErrNilValue, got %v", err)
	}
	if _, err := Make("add", struct{}{}); !errors.Is(err, bytequeue.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestDecodeResponseRejectsMalformed(t *testing.T) {
	testlog.Start(t)
	if _, err := DecodeResponse(nil, bytequeue.Int); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if _, err := DecodeResponse([]byte{0x02}, bytequeue.Int); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected invalid flag to be malformed, got %v", err)
	}
	if _, err := DecodeResponse([]byte{0x00, 0x01, 0x02}, bytequeue.Byte); !errors.Is(err, ErrTrailingResponse) {
		t.Fatalf("expected ErrTrailingResponse, got %v", err)
	}
	if _, err := DecodeResponse([]byte{0x01, 0x00}, bytequeue.Void); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected truncated error message to be malformed, got %v", err)
	}
}

func TestRequestName(t *testing.T) {
	testlog.Start(t)
	name, err := RequestName(mustMake(t, "kv.get", "a"))
	if err != nil || name != "kv.get" {
		t.Fatalf("request name: got=%q err=%v", name, err)
	}
	if _, err := RequestName([]byte{0x00, 0x00}); err == nil {
		t.Fatalf("expected malformed request to fail")
	}
}
