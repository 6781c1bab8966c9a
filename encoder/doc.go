// Package encoder records render passes while eliding redundant state
// changes.
//
// A Session wraps one Native recording handle for the duration of a pass.
// Pipeline, depth-stencil state, fill mode, scissor rectangle and the
// per-slot buffer, texture and sampler bindings are cached; setting a value
// equal to the one last forwarded for the same slot does nothing. Draws,
// annotations and the remaining state calls always pass through.
//
//	s, err := encoder.Begin(cmd, &hal.RenderPassDescriptor{Label: "main"})
//	if err != nil {
//	    return err
//	}
//	for _, batch := range batches {
//	    s.SetRenderPipelineState(batch.Pipeline) // forwarded once per change
//	    s.SetScissorRect(batch.Clip)
//	    s.DrawPrimitives(gputypes.PrimitiveTopologyTriangleStrip, 0, 4)
//	}
//	return s.EndEncoding()
//
// Natives:
//   - HALNative forwards to a gogpu/wgpu HAL render pass encoder.
//   - Recorder captures calls as Commands for inspection and Replay.
//
// A Session is finalized by EndEncoding exactly once. After that every
// method returns ErrSessionClosed and nothing reaches the native handle.
package encoder
