package bytequeue

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// SizePrefixLen is the width of an encoded size prefix.
const SizePrefixLen = 4

// Queue is an ordered byte buffer. Pushes append at the tail, pops consume
// from the head. A Queue is not safe for concurrent use.
type Queue struct {
	buf []byte
	off int
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// FromBytes returns a queue holding a copy of b.
func FromBytes(b []byte) *Queue {
	buf := make([]byte, len(b))
	copy(buf, b)
	return &Queue{buf: buf}
}

// Len returns the number of undecoded bytes.
func (q *Queue) Len() int {
	return len(q.buf) - q.off
}

// Bytes returns a copy of the undecoded bytes.
func (q *Queue) Bytes() []byte {
	out := make([]byte, q.Len())
	copy(out, q.buf[q.off:])
	return out
}

func (q *Queue) PushByte(b byte) {
	q.buf = append(q.buf, b)
}

func (q *Queue) PopByte() (byte, error) {
	b, err := q.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// PushSize appends an unsigned length prefix.
func (q *Queue) PushSize(n int) error {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrSizeOverflow, n)
	}
	binary.BigEndian.PutUint32(q.grow(SizePrefixLen), uint32(n))
	return nil
}

// PopSize consumes an unsigned length prefix.
func (q *Queue) PopSize() (int, error) {
	b, err := q.take(SizePrefixLen)
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint32(b)), nil
}

// Push encodes v as t. Nothing is appended when v does not match t.
func (q *Queue) Push(t Type, v any) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	switch t.Kind {
	case KindVoid:
		if v != nil {
			return mismatch(t, v)
		}
		return nil
	case KindList:
		mark := len(q.buf)
		if err := listCodecs[t.Elem].encode(q, v); err != nil {
			q.buf = q.buf[:mark]
			return err
		}
		return nil
	default:
		return codecs[t.Kind].encode(q, v)
	}
}

// PushValue encodes v with the type inferred from its dynamic Go type.
func (q *Queue) PushValue(v any) error {
	t, err := TypeOf(v)
	if err != nil {
		return err
	}
	return q.Push(t, v)
}

// Pop decodes one value of type t. It returns ErrEmpty when nothing is
// left and a different error when bytes are present but malformed. The
// head is not advanced past a value that failed to decode.
func (q *Queue) Pop(t Type) (any, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	mark := q.off
	var (
		v   any
		err error
	)
	switch t.Kind {
	case KindVoid:
		return nil, nil
	case KindList:
		var n int
		n, err = q.PopSize()
		if err == nil {
			v, err = listCodecs[t.Elem].decode(q, n)
		}
	default:
		v, err = codecs[t.Kind].decode(q)
	}
	if err != nil {
		q.off = mark
		return nil, err
	}
	return v, nil
}

func (q *Queue) pushSized(b []byte) error {
	if err := q.PushSize(len(b)); err != nil {
		return err
	}
	q.buf = append(q.buf, b...)
	return nil
}

func (q *Queue) popSized() ([]byte, error) {
	n, err := q.PopSize()
	if err != nil {
		return nil, err
	}
	b, err := q.take(n)
	if errors.Is(err, ErrEmpty) {
		return nil, ErrTruncated
	}
	return b, err
}

func (q *Queue) grow(n int) []byte {
	q.buf = append(q.buf, make([]byte, n)...)
	return q.buf[len(q.buf)-n:]
}

// take consumes n bytes. The returned slice aliases the buffer.
func (q *Queue) take(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if q.Len() == 0 {
		return nil, ErrEmpty
	}
	if q.Len() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, q.Len())
	}
	b := q.buf[q.off : q.off+n]
	q.off += n
	return b, nil
}
