// Package vtxpass fills GPU vertex memory and records render passes with
// redundant state changes removed.
//
// The work is split across two packages that never call each other:
//
//   - [github.com/gogpu/vtxpass/vertex] serializes typed per-vertex fields
//     into caller-owned memory, including quad corner expansion.
//   - [github.com/gogpu/vtxpass/encoder] wraps a native render command
//     encoder and forwards a state change only when it differs from the
//     state the encoder already holds.
//
// A typical frame writes vertex data first and then encodes the draws that
// consume it:
//
//	w := vertex.NewWriter(mapped)
//	for _, r := range rects {
//	    w.WriteQuad(vertex.TriStripFromRect(r), vertex.NewColor(c, false))
//	}
//	if err := w.Err(); err != nil {
//	    return err
//	}
//
//	s, err := encoder.Begin(cmd, passDesc)
//	if err != nil {
//	    return err
//	}
//	s.SetRenderPipelineState(pipeline)
//	s.SetVertexBuffer(vbuf, 0, 0)
//	s.DrawIndexedPrimitives(gputypes.PrimitiveTopologyTriangleList,
//	    uint32(6*len(rects)), gputypes.IndexFormatUint16, ibuf, 0)
//	return s.EndEncoding()
//
// # Logging
//
// vtxpass is silent by default. Use [SetLogger] to route diagnostics to a
// [log/slog] logger.
package vtxpass
