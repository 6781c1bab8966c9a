package vertex

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/gogpu/gputypes"
)

// Color is a vertex color in one of two encodings.
//
// A narrow color is a single RGBA8 word with red in the low byte. A wide
// color is four float32 words in RGBA order, used when components may fall
// outside [0, 1] or need more precision than 8 bits.
type Color struct {
	words [4]uint32
	wide  bool
}

// NewColor encodes c. Components are expected to be premultiplied.
func NewColor(c gputypes.Color, wide bool) Color {
	if wide {
		return Color{
			words: [4]uint32{
				math.Float32bits(float32(c.R)),
				math.Float32bits(float32(c.G)),
				math.Float32bits(float32(c.B)),
				math.Float32bits(float32(c.A)),
			},
			wide: true,
		}
	}
	packed := uint32(unorm8(c.R)) |
		uint32(unorm8(c.G))<<8 |
		uint32(unorm8(c.B))<<16 |
		uint32(unorm8(c.A))<<24
	return Color{words: [4]uint32{packed}}
}

// IsWide reports whether the color uses the four-float encoding.
func (c Color) IsWide() bool { return c.wide }

// Size returns the number of bytes the color occupies in a vertex.
func (c Color) Size() int {
	if c.wide {
		return 16
	}
	return 4
}

func unorm8(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 1:
		return 255
	}
	return uint8(math.Round(v * 255))
}

func (w *Writer) writeColor(c Color) {
	if b := w.reserve(c.Size()); b != nil {
		putColor(b, c)
	}
}

// putColor encodes c at the start of b and returns the rest of b.
func putColor(b []byte, c Color) []byte {
	n := c.Size() / 4
	for i := range n {
		binary.LittleEndian.PutUint32(b[4*i:], c.words[i])
	}
	return b[4*n:]
}

// Conditional is a field written only when its condition holds.
type Conditional[T any] struct {
	cond bool
	val  T
}

// If returns a field that writes v when cond is true and nothing otherwise.
func If[T any](cond bool, v T) Conditional[T] {
	return Conditional[T]{cond: cond, val: v}
}

func (c Conditional[T]) condition() bool { return c.cond }
func (c Conditional[T]) value() any      { return c.val }

type conditional interface {
	condition() bool
	value() any
}

// Skipped reserves space in a vertex without writing to it.
type Skipped struct {
	n int
}

// Skip returns a marker that advances the writer by the encoded size of T.
// T must be a fixed-size plain type. Slices, interfaces, pointers and types
// holding Color, Conditional, Skipped or corner values yield an invalid
// marker: their vertex size is not a property of the type.
func Skip[T any]() Skipped {
	t := reflect.TypeFor[T]()
	switch t.Kind() {
	case reflect.Slice, reflect.Interface, reflect.Pointer:
		return Skipped{n: -1}
	}
	if containsField(t) {
		return Skipped{n: -1}
	}
	var zero T
	return Skipped{n: binary.Size(zero)}
}

// SkipBytes returns a marker that advances the writer by n bytes.
func SkipBytes(n int) Skipped {
	return Skipped{n: n}
}

// Size returns the number of bytes skipped, or -1 if the skipped type has no
// fixed size.
func (s Skipped) Size() int { return s.n }
