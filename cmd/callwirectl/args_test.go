package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseArg(t *testing.T) {
	cases := []struct {
		literal string
		want    any
	}{
		{"int:2", 2},
		{"int32:-7", int32(-7)},
		{"uint16:0x10", uint16(16)},
		{"byte:255", byte(255)},
		{"bool:true", true},
		{"float64:1.5", 1.5},
		{"string:hi:there", "hi:there"},
		{"string:", ""},
		{"bytes:00ff", []byte{0x00, 0xff}},
		{"list<int64>:1,2,3", []int64{1, 2, 3}},
		{"list<string>:a,b", []string{"a", "b"}},
		{"list<int32>:", []int32{}},
	}
	for _, tc := range cases {
		got, err := parseArg(tc.literal)
		if err != nil {
			t.Fatalf("parseArg(%q): %v", tc.literal, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("parseArg(%q) mismatch (-want +got):\n%s", tc.literal, diff)
		}
	}
}

func TestParseArgRejects(t *testing.T) {
	for _, literal := range []string{
		"2",
		"complex:1",
		"int8:300",
		"bool:maybe",
		"bytes:zz",
		"void:",
		"list<int64>:1,x",
		"list<bytes>:00",
	} {
		if _, err := parseArg(literal); err == nil {
			t.Fatalf("parseArg(%q): expected error", literal)
		}
	}
}

func TestFormatResult(t *testing.T) {
	cases := map[string]any{
		"(void)":  nil,
		"00ff":    []byte{0x00, 0xff},
		`"hi"`:    "hi",
		"5":       5,
		"[1 2 3]": []int64{1, 2, 3},
	}
	for want, v := range cases {
		if got := formatResult(v); got != want {
			t.Fatalf("formatResult(%v) = %q, want %q", v, got, want)
		}
	}
}
