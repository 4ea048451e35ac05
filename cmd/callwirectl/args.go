package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/callwire/internal/protocol/bytequeue"
)

// parseArg turns a typed literal such as "int32:7", "bytes:00ff" or
// "list<int64>:1,2,3" into the Go value Make encodes as that type.
func parseArg(literal string) (any, error) {
	typeName, raw, ok := strings.Cut(literal, ":")
	if !ok {
		return nil, fmt.Errorf("argument %q: want type:value", literal)
	}
	t, err := bytequeue.ParseType(typeName)
	if err != nil {
		return nil, fmt.Errorf("argument %q: %w", literal, err)
	}
	var v any
	if t.Kind == bytequeue.KindList {
		v, err = parseList(t.Elem, raw)
	} else {
		v, err = parseScalar(t.Kind, raw)
	}
	if err != nil {
		return nil, fmt.Errorf("argument %q: %w", literal, err)
	}
	return v, nil
}

func parseScalar(k bytequeue.Kind, raw string) (any, error) {
	switch k {
	case bytequeue.KindString:
		return raw, nil
	case bytequeue.KindBytes:
		return hex.DecodeString(strings.TrimSpace(raw))
	}

	raw = strings.TrimSpace(raw)
	switch k {
	case bytequeue.KindBool:
		return strconv.ParseBool(raw)
	case bytequeue.KindByte:
		n, err := strconv.ParseUint(raw, 0, 8)
		return byte(n), err
	case bytequeue.KindInt8:
		n, err := strconv.ParseInt(raw, 0, 8)
		return int8(n), err
	case bytequeue.KindInt16:
		n, err := strconv.ParseInt(raw, 0, 16)
		return int16(n), err
	case bytequeue.KindUint16:
		n, err := strconv.ParseUint(raw, 0, 16)
		return uint16(n), err
	case bytequeue.KindInt32:
		n, err := strconv.ParseInt(raw, 0, 32)
		return int32(n), err
	case bytequeue.KindUint32:
		n, err := strconv.ParseUint(raw, 0, 32)
		return uint32(n), err
	case bytequeue.KindInt64:
		return strconv.ParseInt(raw, 0, 64)
	case bytequeue.KindUint64:
		return strconv.ParseUint(raw, 0, 64)
	case bytequeue.KindInt:
		n, err := strconv.ParseInt(raw, 0, 64)
		return int(n), err
	case bytequeue.KindFloat32:
		f, err := strconv.ParseFloat(raw, 32)
		return float32(f), err
	case bytequeue.KindFloat64:
		return strconv.ParseFloat(raw, 64)
	default:
		return nil, fmt.Errorf("%s is not an argument type", k)
	}
}

func parseList(elem bytequeue.Kind, raw string) (any, error) {
	var parts []string
	if raw != "" {
		parts = strings.Split(raw, ",")
	}
	switch elem {
	case bytequeue.KindBool:
		return listOf[bool](elem, parts)
	case bytequeue.KindInt8:
		return listOf[int8](elem, parts)
	case bytequeue.KindInt16:
		return listOf[int16](elem, parts)
	case bytequeue.KindUint16:
		return listOf[uint16](elem, parts)
	case bytequeue.KindInt32:
		return listOf[int32](elem, parts)
	case bytequeue.KindUint32:
		return listOf[uint32](elem, parts)
	case bytequeue.KindInt64:
		return listOf[int64](elem, parts)
	case bytequeue.KindUint64:
		return listOf[uint64](elem, parts)
	case bytequeue.KindInt:
		return listOf[int](elem, parts)
	case bytequeue.KindFloat32:
		return listOf[float32](elem, parts)
	case bytequeue.KindFloat64:
		return listOf[float64](elem, parts)
	case bytequeue.KindString:
		return listOf[string](elem, parts)
	default:
		return nil, fmt.Errorf("list<%s> is not an argument type", elem)
	}
}

func listOf[T any](elem bytequeue.Kind, parts []string) ([]T, error) {
	out := make([]T, 0, len(parts))
	for i, p := range parts {
		v, err := parseScalar(elem, p)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v.(T))
	}
	return out, nil
}

// formatResult renders a decoded result for the terminal.
func formatResult(v any) string {
	switch x := v.(type) {
	case nil:
		return "(void)"
	case []byte:
		return hex.EncodeToString(x)
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprint(x)
	}
}
