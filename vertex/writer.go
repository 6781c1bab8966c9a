package vertex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"golang.org/x/image/math/f32"
)

// Writer errors.
var (
	// ErrBufferOverrun is returned when a field does not fit in the
	// remaining destination space.
	ErrBufferOverrun = errors.New("vertex: write exceeds destination buffer")

	// ErrInvalidArgument is returned when a value is not plain data or is
	// not valid where it was passed.
	ErrInvalidArgument = errors.New("vertex: invalid field value")
)

// Writer is a cursor over caller-owned vertex memory.
//
// The zero Writer is invalid; create one with NewWriter. A Writer owns no
// memory, only a position within the destination slice.
type Writer struct {
	buf    []byte
	off    int
	err    error
	strict bool
}

// NewWriter returns a Writer positioned at the start of dst.
func NewWriter(dst []byte, opts ...Option) *Writer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Writer{buf: dst, strict: o.strict}
}

// Reset repositions the writer at the start of dst and clears its error.
func (w *Writer) Reset(dst []byte) {
	w.buf = dst
	w.off = 0
	w.err = nil
}

// Valid reports whether the writer has a destination.
func (w *Writer) Valid() bool {
	return w != nil && w.buf != nil
}

// Equal reports whether both writers point at the same address.
// Two invalid writers are equal.
func (w *Writer) Equal(o *Writer) bool {
	if !w.Valid() || !o.Valid() {
		return !w.Valid() && !o.Valid()
	}
	return w.addr() == o.addr()
}

func (w *Writer) addr() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(w.buf))) + uintptr(w.off)
}

// Offset returns a new writer n bytes past the current position.
// The receiver is not modified.
func (w *Writer) Offset(n int) *Writer {
	o := &Writer{buf: w.buf, off: w.off + n, err: w.err, strict: w.strict}
	if o.err == nil && (o.off < 0 || o.off > len(o.buf)) {
		o.fail(fmt.Errorf("%w: offset %d outside [0, %d]", ErrBufferOverrun, o.off, len(o.buf)))
		o.off = w.off
	}
	return o
}

// Pos returns the number of bytes between the start of the destination and
// the cursor.
func (w *Writer) Pos() int { return w.off }

// Remaining returns the number of bytes left after the cursor.
func (w *Writer) Remaining() int { return len(w.buf) - w.off }

// Bytes returns the destination up to the cursor.
func (w *Writer) Bytes() []byte { return w.buf[:w.off] }

// Err returns the first error encountered by the writer.
func (w *Writer) Err() error { return w.err }

// Write writes each argument in order. See the package documentation for
// the accepted field kinds.
func (w *Writer) Write(args ...any) error {
	for _, v := range args {
		if w.err != nil {
			break
		}
		w.writeValue(v)
	}
	return w.err
}

// WriteArray copies a slice or array of plain elements in one operation.
func (w *Writer) WriteArray(values any) error {
	if w.err != nil {
		return w.err
	}
	switch v := values.(type) {
	case []float32:
		w.putFloats(v)
	case []uint32:
		if b := w.reserve(4 * len(v)); b != nil {
			for i, x := range v {
				binary.LittleEndian.PutUint32(b[4*i:], x)
			}
		}
	case []uint16:
		if b := w.reserve(2 * len(v)); b != nil {
			for i, x := range v {
				binary.LittleEndian.PutUint16(b[2*i:], x)
			}
		}
	case []byte:
		if b := w.reserve(len(v)); b != nil {
			copy(b, v)
		}
	case []Color:
		n := 0
		for _, c := range v {
			n += c.Size()
		}
		if b := w.reserve(n); b != nil {
			for _, c := range v {
				b = putColor(b, c)
			}
		}
	default:
		if values == nil {
			w.fail(fmt.Errorf("%w: nil array", ErrInvalidArgument))
			break
		}
		if k := reflect.TypeOf(values).Kind(); k != reflect.Slice && k != reflect.Array {
			w.fail(fmt.Errorf("%w: WriteArray needs a slice or array, got %T", ErrInvalidArgument, values))
			break
		}
		w.encode(values)
	}
	return w.err
}

// Fill writes value n times.
func (w *Writer) Fill(value any, n int) error {
	if n < 0 {
		w.fail(fmt.Errorf("%w: negative repeat count %d", ErrInvalidArgument, n))
		return w.err
	}
	for i := 0; i < n && w.err == nil; i++ {
		w.writeValue(value)
	}
	return w.err
}

// WriteRaw copies already serialized bytes without interpreting them.
func (w *Writer) WriteRaw(data []byte) error {
	if b := w.reserve(len(data)); b != nil {
		copy(b, data)
	}
	return w.err
}

func (w *Writer) writeValue(v any) {
	switch v := v.(type) {
	case float32:
		if b := w.reserve(4); b != nil {
			binary.LittleEndian.PutUint32(b, math.Float32bits(v))
		}
	case uint32:
		if b := w.reserve(4); b != nil {
			binary.LittleEndian.PutUint32(b, v)
		}
	case int32:
		if b := w.reserve(4); b != nil {
			binary.LittleEndian.PutUint32(b, uint32(v))
		}
	case uint16:
		if b := w.reserve(2); b != nil {
			binary.LittleEndian.PutUint16(b, v)
		}
	case int16:
		if b := w.reserve(2); b != nil {
			binary.LittleEndian.PutUint16(b, uint16(v))
		}
	case uint8:
		if b := w.reserve(1); b != nil {
			b[0] = v
		}
	case int8:
		if b := w.reserve(1); b != nil {
			b[0] = uint8(v)
		}
	case float64:
		if b := w.reserve(8); b != nil {
			binary.LittleEndian.PutUint64(b, math.Float64bits(v))
		}
	case uint64:
		if b := w.reserve(8); b != nil {
			binary.LittleEndian.PutUint64(b, v)
		}
	case int64:
		if b := w.reserve(8); b != nil {
			binary.LittleEndian.PutUint64(b, uint64(v))
		}
	case [2]float32:
		w.putFloats(v[:])
	case [3]float32:
		w.putFloats(v[:])
	case [4]float32:
		w.putFloats(v[:])
	case f32.Vec2:
		w.putFloats(v[:])
	case f32.Vec3:
		w.putFloats(v[:])
	case f32.Vec4:
		w.putFloats(v[:])
	case [2]uint16:
		if b := w.reserve(4); b != nil {
			binary.LittleEndian.PutUint16(b, v[0])
			binary.LittleEndian.PutUint16(b[2:], v[1])
		}
	case Color:
		w.writeColor(v)
	case conditional:
		if v.condition() {
			w.writeValue(v.value())
		}
	case Skipped:
		if v.n < 0 {
			w.fail(fmt.Errorf("%w: skip size %d", ErrInvalidArgument, v.n))
			return
		}
		w.reserve(v.n)
	case corner:
		w.fail(fmt.Errorf("%w: %T is only valid in WriteQuad", ErrInvalidArgument, v))
	default:
		if v == nil {
			w.fail(fmt.Errorf("%w: nil value", ErrInvalidArgument))
			return
		}
		switch reflect.TypeOf(v).Kind() {
		case reflect.Slice:
			w.fail(fmt.Errorf("%w: %T is a slice, use WriteArray", ErrInvalidArgument, v))
			return
		case reflect.Pointer:
			w.fail(fmt.Errorf("%w: %T is a pointer", ErrInvalidArgument, v))
			return
		}
		w.encode(v)
	}
}

// encode writes a fixed-size value through encoding/binary.
func (w *Writer) encode(v any) {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	if containsField(t) {
		w.fail(fmt.Errorf("%w: %T holds a vertex field type, write its members individually", ErrInvalidArgument, v))
		return
	}
	n := binary.Size(v)
	if n < 0 {
		w.fail(fmt.Errorf("%w: %T has no fixed size", ErrInvalidArgument, v))
		return
	}
	b := w.reserve(n)
	if b == nil {
		return
	}
	if _, err := binary.Encode(b, binary.LittleEndian, v); err != nil {
		w.fail(fmt.Errorf("%w: %w", ErrInvalidArgument, err))
	}
}

var (
	colorType       = reflect.TypeFor[Color]()
	skippedType     = reflect.TypeFor[Skipped]()
	conditionalType = reflect.TypeFor[conditional]()
	cornerType      = reflect.TypeFor[corner]()
)

// containsField reports whether t is, or has an array element or struct
// member that is, one of the field types Write interprets. Their Go layout
// is not their vertex encoding.
func containsField(t reflect.Type) bool {
	if t == colorType || t == skippedType || t.Implements(conditionalType) || t.Implements(cornerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Array:
		return containsField(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if containsField(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

func (w *Writer) putFloats(v []float32) {
	b := w.reserve(4 * len(v))
	if b == nil {
		return
	}
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
}

// reserve advances the cursor by n bytes and returns the skipped region.
// It returns nil if the writer has failed or the region does not fit.
func (w *Writer) reserve(n int) []byte {
	if w.err != nil {
		return nil
	}
	if n > len(w.buf)-w.off {
		w.fail(fmt.Errorf("%w: need %d bytes at offset %d, %d remaining",
			ErrBufferOverrun, n, w.off, len(w.buf)-w.off))
		return nil
	}
	b := w.buf[w.off : w.off+n : w.off+n]
	w.off += n
	return b
}

func (w *Writer) fail(err error) {
	if w.strict {
		panic(err)
	}
	if w.err == nil {
		w.err = err
	}
}
