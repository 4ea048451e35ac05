package bytequeue

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// codec encodes and decodes one scalar kind.
type codec struct {
	encode func(q *Queue, v any) error
	decode func(q *Queue) (any, error)
}

// listCodec encodes and decodes []T for one element kind.
type listCodec struct {
	encode func(q *Queue, v any) error
	decode func(q *Queue, n int) (any, error)
}

var codecs = map[Kind]codec{
	KindBool: {
		encode: func(q *Queue, v any) error {
			b, ok := v.(bool)
			if !ok {
				return mismatch(Bool, v)
			}
			if b {
				q.PushByte(1)
			} else {
				q.PushByte(0)
			}
			return nil
		},
		decode: func(q *Queue) (any, error) {
			b, err := q.take(1)
			if err != nil {
				return nil, err
			}
			switch b[0] {
			case 0:
				return false, nil
			case 1:
				return true, nil
			default:
				return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidBool, b[0])
			}
		},
	},
	KindByte: fixed(Byte, 1,
		func(b []byte, v byte) { b[0] = v },
		func(b []byte) byte { return b[0] }),
	KindInt8: fixed(Int8, 1,
		func(b []byte, v int8) { b[0] = byte(v) },
		func(b []byte) int8 { return int8(b[0]) }),
	KindInt16: fixed(Int16, 2,
		func(b []byte, v int16) { binary.BigEndian.PutUint16(b, uint16(v)) },
		func(b []byte) int16 { return int16(binary.BigEndian.Uint16(b)) }),
	KindUint16: fixed(Uint16, 2,
		binary.BigEndian.PutUint16,
		binary.BigEndian.Uint16),
	KindInt32: fixed(Int32, 4,
		func(b []byte, v int32) { binary.BigEndian.PutUint32(b, uint32(v)) },
		func(b []byte) int32 { return int32(binary.BigEndian.Uint32(b)) }),
	KindUint32: fixed(Uint32, 4,
		binary.BigEndian.PutUint32,
		binary.BigEndian.Uint32),
	KindInt64: fixed(Int64, 8,
		func(b []byte, v int64) { binary.BigEndian.PutUint64(b, uint64(v)) },
		func(b []byte) int64 { return int64(binary.BigEndian.Uint64(b)) }),
	KindUint64: fixed(Uint64, 8,
		binary.BigEndian.PutUint64,
		binary.BigEndian.Uint64),
	KindInt: fixed(Int, 8,
		func(b []byte, v int) { binary.BigEndian.PutUint64(b, uint64(int64(v))) },
		func(b []byte) int { return int(int64(binary.BigEndian.Uint64(b))) }),
	KindFloat32: fixed(Float32, 4,
		func(b []byte, v float32) { binary.BigEndian.PutUint32(b, math.Float32bits(v)) },
		func(b []byte) float32 { return math.Float32frombits(binary.BigEndian.Uint32(b)) }),
	KindFloat64: fixed(Float64, 8,
		func(b []byte, v float64) { binary.BigEndian.PutUint64(b, math.Float64bits(v)) },
		func(b []byte) float64 { return math.Float64frombits(binary.BigEndian.Uint64(b)) }),
	KindString: {
		encode: func(q *Queue, v any) error {
			s, ok := v.(string)
			if !ok {
				return mismatch(String, v)
			}
			return q.pushSized([]byte(s))
		},
		decode: func(q *Queue) (any, error) {
			b, err := q.popSized()
			if err != nil {
				return nil, err
			}
			if !utf8.Valid(b) {
				return nil, ErrInvalidUTF8
			}
			return string(b), nil
		},
	},
	KindBytes: {
		encode: func(q *Queue, v any) error {
			b, ok := v.([]byte)
			if !ok {
				return mismatch(Bytes, v)
			}
			return q.pushSized(b)
		},
		decode: func(q *Queue) (any, error) {
			b, err := q.popSized()
			if err != nil {
				return nil, err
			}
			out := make([]byte, len(b))
			copy(out, b)
			return out, nil
		},
	},
}

var listCodecs = map[Kind]listCodec{
	KindBool:    list[bool](KindBool),
	KindInt8:    list[int8](KindInt8),
	KindInt16:   list[int16](KindInt16),
	KindUint16:  list[uint16](KindUint16),
	KindInt32:   list[int32](KindInt32),
	KindUint32:  list[uint32](KindUint32),
	KindInt64:   list[int64](KindInt64),
	KindUint64:  list[uint64](KindUint64),
	KindInt:     list[int](KindInt),
	KindFloat32: list[float32](KindFloat32),
	KindFloat64: list[float64](KindFloat64),
	KindString:  list[string](KindString),
}

func fixed[T any](t Type, width int, put func([]byte, T), get func([]byte) T) codec {
	return codec{
		encode: func(q *Queue, v any) error {
			x, ok := v.(T)
			if !ok {
				return mismatch(t, v)
			}
			put(q.grow(width), x)
			return nil
		},
		decode: func(q *Queue) (any, error) {
			b, err := q.take(width)
			if err != nil {
				return nil, err
			}
			return get(b), nil
		},
	}
}

func list[T any](elem Kind) listCodec {
	t := Type{Kind: KindList, Elem: elem}
	return listCodec{
		encode: func(q *Queue, v any) error {
			xs, ok := v.([]T)
			if !ok {
				return mismatch(t, v)
			}
			if err := q.PushSize(len(xs)); err != nil {
				return err
			}
			c := codecs[elem]
			for _, x := range xs {
				if err := c.encode(q, x); err != nil {
					return err
				}
			}
			return nil
		},
		decode: func(q *Queue, n int) (any, error) {
			c := codecs[elem]
			// n is untrusted; every element needs at least one byte
			out := make([]T, 0, min(n, q.Len()))
			for i := 0; i < n; i++ {
				v, err := c.decode(q)
				if err != nil {
					if errors.Is(err, ErrEmpty) {
						err = ErrTruncated
					}
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				out = append(out, v.(T))
			}
			return out, nil
		},
	}
}

func mismatch(want Type, got any) error {
	return fmt.Errorf("%w: want %s, got %T", ErrTypeMismatch, want, got)
}
