// Package vertex writes typed per-vertex data into caller-owned memory.
//
// A Writer is a bump cursor over a pre-sized byte region. Each field passed
// to Write is copied in little-endian order with no padding, and the cursor
// advances by exactly the field's natural size:
//
//	buf := make([]byte, 4*stride)
//	w := vertex.NewWriter(buf)
//	w.WriteQuad(
//	    vertex.TriStripFromRect(r),           // position, varies per corner
//	    vertex.NewColor(c, wideColor),        // 4 or 16 bytes
//	    vertex.If(hasCoverage, coverage),     // optional field
//	    vertex.TriStripFromUVs(uvs),          // uint16 texture coordinates
//	)
//	if err := w.Err(); err != nil {
//	    return err
//	}
//
// # Field kinds
//
//   - Plain values: fixed-size scalars, arrays and structs of those. The
//     field kinds below are not plain values and are rejected inside
//     arrays or structs; pass them to Write as separate arguments.
//     WriteArray accepts a []Color.
//   - Color: one packed RGBA8 word, or four float32 words when wide.
//   - Conditional (If): written only when its condition holds.
//   - Skipped (Skip, SkipBytes): reserves space without writing.
//   - f32.Vec4: written as four float32 lanes.
//   - TriStrip, TriFan, Quad: corner values, only valid in WriteQuad.
//
// # Failure handling
//
// Every write is bounds-checked. The first failure is kept as a sticky
// error (ErrBufferOverrun or ErrInvalidArgument) and later writes do
// nothing. With the Strict option the writer panics instead, which is
// meant for development builds and tests.
//
// # Layouts
//
// ReflectLayout derives the packed vertex buffer layout from a WGSL vertex
// entry point, so record sizes produced by a Writer can be checked against
// the shader that consumes them.
//
// Writers are not safe for concurrent use.
package vertex
