package bytequeue

import (
	"fmt"
	"strings"
)

// Kind is the closed set of semantic value kinds.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindByte
	KindInt8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindInt
	KindFloat32
	KindFloat64
	KindString
	KindBytes
	KindList
)

var kindNames = [...]string{
	KindVoid:    "void",
	KindBool:    "bool",
	KindByte:    "byte",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindUint16:  "uint16",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindInt64:   "int64",
	KindUint64:  "uint64",
	KindInt:     "int",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindBytes:   "bytes",
	KindList:    "list",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Type is one semantic type. Elem is only meaningful for KindList.
type Type struct {
	Kind Kind
	Elem Kind
}

var (
	Void    = Type{Kind: KindVoid}
	Bool    = Type{Kind: KindBool}
	Byte    = Type{Kind: KindByte}
	Int8    = Type{Kind: KindInt8}
	Int16   = Type{Kind: KindInt16}
	Uint16  = Type{Kind: KindUint16}
	Int32   = Type{Kind: KindInt32}
	Uint32  = Type{Kind: KindUint32}
	Int64   = Type{Kind: KindInt64}
	Uint64  = Type{Kind: KindUint64}
	Int     = Type{Kind: KindInt}
	Float32 = Type{Kind: KindFloat32}
	Float64 = Type{Kind: KindFloat64}
	String  = Type{Kind: KindString}
	Bytes   = Type{Kind: KindBytes}
)

// ListOf returns the list type with elements of elem.
func ListOf(elem Type) Type {
	return Type{Kind: KindList, Elem: elem.Kind}
}

func (t Type) String() string {
	if t.Kind == KindList {
		return "list<" + t.Elem.String() + ">"
	}
	return t.Kind.String()
}

// IsVoid reports whether t describes the absence of a value.
func (t Type) IsVoid() bool {
	return t.Kind == KindVoid
}

// Valid reports whether t belongs to the supported type set.
func (t Type) Valid() bool {
	if t.Kind == KindList {
		return isListElem(t.Elem)
	}
	return t.Kind <= KindBytes
}

// list elements are scalars; []byte is always KindBytes.
func isListElem(k Kind) bool {
	return k >= KindBool && k <= KindString && k != KindByte
}

// ParseType parses the textual form produced by Type.String.
func ParseType(raw string) (Type, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if inner, ok := strings.CutPrefix(s, "list<"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return Type{}, fmt.Errorf("%w: %q", ErrUnsupportedType, raw)
		}
		elem, err := ParseType(inner)
		if err != nil {
			return Type{}, err
		}
		t := ListOf(elem)
		if !t.Valid() {
			return Type{}, fmt.Errorf("%w: %q", ErrUnsupportedType, raw)
		}
		return t, nil
	}
	for k, name := range kindNames {
		if name == s && Kind(k) != KindList {
			return Type{Kind: Kind(k)}, nil
		}
	}
	return Type{}, fmt.Errorf("%w: %q", ErrUnsupportedType, raw)
}

// TypeOf infers the semantic type of v from its dynamic Go type.
func TypeOf(v any) (Type, error) {
	switch v.(type) {
	case nil:
		return Type{}, ErrNilValue
	case bool:
		return Bool, nil
	case byte:
		return Byte, nil
	case int8:
		return Int8, nil
	case int16:
		return Int16, nil
	case uint16:
		return Uint16, nil
	case int32:
		return Int32, nil
	case uint32:
		return Uint32, nil
	case int64:
		return Int64, nil
	case uint64:
		return Uint64, nil
	case int:
		return Int, nil
	case float32:
		return Float32, nil
	case float64:
		return Float64, nil
	case string:
		return String, nil
	case []byte:
		return Bytes, nil
	case []bool:
		return ListOf(Bool), nil
	case []int8:
		return ListOf(Int8), nil
	case []int16:
		return ListOf(Int16), nil
	case []uint16:
		return ListOf(Uint16), nil
	case []int32:
		return ListOf(Int32), nil
	case []uint32:
		return ListOf(Uint32), nil
	case []int64:
		return ListOf(Int64), nil
	case []uint64:
		return ListOf(Uint64), nil
	case []int:
		return ListOf(Int), nil
	case []float32:
		return ListOf(Float32), nil
	case []float64:
		return ListOf(Float64), nil
	case []string:
		return ListOf(String), nil
	default:
		return Type{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// TypeFor returns the semantic type of the Go type T.
func TypeFor[T any]() (Type, error) {
	var zero T
	if any(zero) == nil {
		return Type{}, fmt.Errorf("%w: interface type", ErrUnsupportedType)
	}
	return TypeOf(zero)
}
