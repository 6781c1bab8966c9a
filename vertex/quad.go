package vertex

import (
	"golang.org/x/image/math/f32"
)

// Scalar is the set of coordinate types a corner value can carry.
type Scalar interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 |
		~uint64 | ~int64 | ~float32 | ~float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// corner is implemented by values that expand to a different coordinate
// pair at each of the four quad corners.
type corner interface {
	cornerValue(i int) any
}

// TriStrip expands a rectangle into triangle-strip corner order:
// (l,t), (l,b), (r,t), (r,b).
type TriStrip[E Scalar] struct {
	L, T, R, B E
}

func (s TriStrip[E]) cornerValue(i int) any {
	switch i {
	case 0:
		return [2]E{s.L, s.T}
	case 1:
		return [2]E{s.L, s.B}
	case 2:
		return [2]E{s.R, s.T}
	default:
		return [2]E{s.R, s.B}
	}
}

// TriFan expands a rectangle into triangle-fan corner order:
// (l,t), (l,b), (r,b), (r,t).
type TriFan[E Scalar] struct {
	L, T, R, B E
}

func (f TriFan[E]) cornerValue(i int) any {
	switch i {
	case 0:
		return [2]E{f.L, f.T}
	case 1:
		return [2]E{f.L, f.B}
	case 2:
		return [2]E{f.R, f.B}
	default:
		return [2]E{f.R, f.T}
	}
}

// TriStripFromRect returns the strip corners of r.
func TriStripFromRect(r Rect) TriStrip[float32] {
	return TriStrip[float32]{L: r.Left, T: r.Top, R: r.Right, B: r.Bottom}
}

// TriFanFromRect returns the fan corners of r.
func TriFanFromRect(r Rect) TriFan[float32] {
	return TriFan[float32]{L: r.Left, T: r.Top, R: r.Right, B: r.Bottom}
}

// TriStripFromUVs returns strip corners for integer texel coordinates given
// as left, top, right, bottom.
func TriStripFromUVs(uvs [4]uint16) TriStrip[uint16] {
	return TriStrip[uint16]{L: uvs[0], T: uvs[1], R: uvs[2], B: uvs[3]}
}

// Quad is a general quadrilateral with one point per corner, in the same
// order as TriStrip: left-top, left-bottom, right-top, right-bottom.
type Quad [4]f32.Vec2

// QuadFromRect returns the four corners of r.
func QuadFromRect(r Rect) Quad {
	return Quad{
		{r.Left, r.Top},
		{r.Left, r.Bottom},
		{r.Right, r.Top},
		{r.Right, r.Bottom},
	}
}

func (q Quad) cornerValue(i int) any { return q[i] }

// WriteQuad writes four vertices, one per corner, each made of the same
// arguments in the same order. Corner values (TriStrip, TriFan, Quad) are
// replaced by the coordinates of the current corner; every other argument
// is written identically at each corner.
func (w *Writer) WriteQuad(args ...any) error {
	for c := range 4 {
		for _, v := range args {
			if w.err != nil {
				return w.err
			}
			w.writeCorner(c, v)
		}
	}
	return w.err
}

func (w *Writer) writeCorner(c int, v any) {
	switch v := v.(type) {
	case corner:
		w.writeValue(v.cornerValue(c))
	case conditional:
		if v.condition() {
			w.writeCorner(c, v.value())
		}
	default:
		w.writeValue(v)
	}
}

// MaxIndexedQuads is the number of quads whose vertices a 16-bit index
// buffer can address.
const MaxIndexedQuads = 1 << 16 / 4

// QuadIndices returns triangle-list indices for n quads written in strip
// corner order, six per quad. It returns nil for n <= 0 and at most
// MaxIndexedQuads quads' worth of indices.
func QuadIndices(n int) []uint16 {
	if n <= 0 {
		return nil
	}
	n = min(n, MaxIndexedQuads)
	indices := make([]uint16, 0, n*6)
	for i := range n {
		base := uint16(i * 4) //nolint:gosec // i < MaxIndexedQuads
		indices = append(indices, base, base+1, base+2, base+2, base+1, base+3)
	}
	return indices
}
