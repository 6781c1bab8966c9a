package encoder

import (
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vtxpass"
)

// HALNative adapts a gogpu/wgpu HAL render pass encoder to Native.
//
// WebGPU bakes depth-stencil state, fill mode, winding and topology into
// the render pipeline and binds fragment resources through bind groups, so
// the calls that set those individually have no HAL equivalent. They are
// dropped and logged at debug level. Labels and debug groups are dropped
// the same way.
type HALNative struct {
	pass hal.RenderPassEncoder
	log  *slog.Logger

	// vertexBuffers remembers slot bindings so offset-only updates can be
	// reissued as full bindings.
	vertexBuffers [MaxBufferBindings]hal.Buffer
}

var _ Native = (*HALNative)(nil)

// NewHALNative wraps pass.
func NewHALNative(pass hal.RenderPassEncoder) *HALNative {
	return &HALNative{pass: pass, log: vtxpass.Logger()}
}

// Begin opens a render pass on cmd and returns a session recording into it.
// A nil desc begins a pass with no attachments.
func Begin(cmd hal.CommandEncoder, desc *hal.RenderPassDescriptor, opts ...Option) (*Session, error) {
	if cmd == nil {
		return nil, ErrNilEncoder
	}
	if desc == nil {
		desc = &hal.RenderPassDescriptor{}
	}
	pass := cmd.BeginRenderPass(desc)
	if pass == nil {
		return nil, ErrNilNative
	}
	if desc.Label != "" {
		opts = append([]Option{WithLabel(desc.Label)}, opts...)
	}
	return New(NewHALNative(pass), opts...)
}

// SetLogger sets the logger used for dropped calls.
func (h *HALNative) SetLogger(l *slog.Logger) {
	if l == nil {
		l = vtxpass.Logger()
	}
	h.log = l
}

func (h *HALNative) dropped(op string, args ...any) {
	h.log.Debug("encoder: call has no HAL equivalent, dropped", append([]any{"op", op}, args...)...)
}

func (h *HALNative) SetLabel(label string)            { h.dropped("SetLabel", "label", label) }
func (h *HALNative) PushDebugGroup(label string)      { h.dropped("PushDebugGroup", "label", label) }
func (h *HALNative) PopDebugGroup()                   { h.dropped("PopDebugGroup") }
func (h *HALNative) InsertDebugSignpost(label string) { h.dropped("InsertDebugSignpost", "label", label) }

func (h *HALNative) SetRenderPipelineState(pipeline hal.RenderPipeline) {
	h.pass.SetPipeline(pipeline)
}

func (h *HALNative) SetDepthStencilState(DepthStencilState) { h.dropped("SetDepthStencilState") }

func (h *HALNative) SetTriangleFillMode(mode FillMode) {
	h.dropped("SetTriangleFillMode", "mode", mode)
}

func (h *HALNative) SetFrontFacingWinding(winding gputypes.FrontFace) {
	h.dropped("SetFrontFacingWinding", "winding", winding)
}

func (h *HALNative) SetViewport(v Viewport) {
	h.pass.SetViewport(v.X, v.Y, v.Width, v.Height, v.MinDepth, v.MaxDepth)
}

func (h *HALNative) SetScissorRect(r ScissorRect) {
	h.pass.SetScissorRect(r.X, r.Y, r.Width, r.Height)
}

func (h *HALNative) SetStencilReferenceValue(ref uint32) {
	h.pass.SetStencilReference(ref)
}

// SetStencilFrontBackReferenceValues uses front for both faces; WebGPU has
// a single stencil reference.
func (h *HALNative) SetStencilFrontBackReferenceValues(front, back uint32) {
	if front != back {
		h.dropped("SetStencilFrontBackReferenceValues", "back", back)
	}
	h.pass.SetStencilReference(front)
}

func (h *HALNative) SetBlendColor(color gputypes.Color) {
	h.pass.SetBlendConstant(&color)
}

func (h *HALNative) SetVertexBuffer(buffer hal.Buffer, offset uint64, index uint32) {
	h.vertexBuffers[index] = buffer
	h.pass.SetVertexBuffer(index, buffer, offset)
}

func (h *HALNative) SetVertexBufferOffset(offset uint64, index uint32) {
	buffer := h.vertexBuffers[index]
	if buffer == nil {
		h.dropped("SetVertexBufferOffset", "index", index)
		return
	}
	h.pass.SetVertexBuffer(index, buffer, offset)
}

func (h *HALNative) SetVertexBytes(data []byte, index uint32) {
	h.vertexBuffers[index] = nil
	h.dropped("SetVertexBytes", "index", index, "size", len(data))
}

func (h *HALNative) SetFragmentBuffer(_ hal.Buffer, offset uint64, index uint32) {
	h.dropped("SetFragmentBuffer", "index", index, "offset", offset)
}

func (h *HALNative) SetFragmentBufferOffset(offset uint64, index uint32) {
	h.dropped("SetFragmentBufferOffset", "index", index, "offset", offset)
}

func (h *HALNative) SetFragmentBytes(data []byte, index uint32) {
	h.dropped("SetFragmentBytes", "index", index, "size", len(data))
}

func (h *HALNative) SetFragmentTexture(_ hal.TextureView, index uint32) {
	h.dropped("SetFragmentTexture", "index", index)
}

func (h *HALNative) SetFragmentSamplerState(_ hal.Sampler, index uint32) {
	h.dropped("SetFragmentSamplerState", "index", index)
}

// DrawPrimitives issues Draw or DrawIndirect. The topology comes from the
// bound pipeline.
func (h *HALNative) DrawPrimitives(args *DrawArgs) {
	if args.IndirectBuffer != nil {
		h.pass.DrawIndirect(args.IndirectBuffer, args.IndirectOffset)
		return
	}
	h.pass.Draw(args.VertexCount, args.InstanceCount, args.VertexStart, args.BaseInstance)
}

// DrawIndexedPrimitives binds the index buffer at IndexOffset and issues
// DrawIndexed or DrawIndexedIndirect.
func (h *HALNative) DrawIndexedPrimitives(args *IndexedDrawArgs) {
	h.pass.SetIndexBuffer(args.IndexBuffer, args.IndexFormat, args.IndexOffset)
	if args.IndirectBuffer != nil {
		h.pass.DrawIndexedIndirect(args.IndirectBuffer, args.IndirectOffset)
		return
	}
	h.pass.DrawIndexed(args.IndexCount, args.InstanceCount, 0, args.BaseVertex, args.BaseInstance)
}

func (h *HALNative) EndEncoding() {
	h.pass.End()
	h.vertexBuffers = [MaxBufferBindings]hal.Buffer{}
}
