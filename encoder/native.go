package encoder

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Binding limits per shader stage.
const (
	// MaxBufferBindings is the number of vertex or fragment buffer slots.
	MaxBufferBindings = 31

	// MaxTextureBindings is the number of fragment texture slots.
	MaxTextureBindings = 16

	// MaxSamplerBindings is the number of fragment sampler slots.
	MaxSamplerBindings = 16
)

// FillMode selects how triangles are rasterized.
type FillMode uint8

const (
	// FillModeFill rasterizes triangle interiors.
	FillModeFill FillMode = iota

	// FillModeLines rasterizes triangle edges only.
	FillModeLines
)

// String returns the string representation of FillMode.
func (m FillMode) String() string {
	switch m {
	case FillModeFill:
		return "Fill"
	case FillModeLines:
		return "Lines"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ScissorRect is a pixel rectangle outside of which fragments are discarded.
type ScissorRect struct {
	X, Y, Width, Height uint32
}

// Viewport maps normalized device coordinates to the render target.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// DepthStencilState is an opaque depth and stencil configuration object
// created by the device.
type DepthStencilState interface {
	hal.Resource
}

// DrawArgs describes a non-indexed draw. A non-nil IndirectBuffer means the
// counts are read from that buffer at IndirectOffset and the immediate
// counts are ignored.
type DrawArgs struct {
	Topology      gputypes.PrimitiveTopology
	VertexStart   uint32
	VertexCount   uint32
	InstanceCount uint32
	BaseInstance  uint32

	IndirectBuffer hal.Buffer
	IndirectOffset uint64
}

// IndexedDrawArgs describes an indexed draw. A non-nil IndirectBuffer means
// the counts are read from that buffer at IndirectOffset.
type IndexedDrawArgs struct {
	Topology      gputypes.PrimitiveTopology
	IndexCount    uint32
	IndexFormat   gputypes.IndexFormat
	IndexBuffer   hal.Buffer
	IndexOffset   uint64
	InstanceCount uint32
	BaseVertex    int32
	BaseInstance  uint32

	IndirectBuffer hal.Buffer
	IndirectOffset uint64
}

// Native is the command recording handle a Session forwards to.
//
// Implementations issue each call directly to the underlying graphics API;
// they do no filtering of their own. Handles passed in are owned by the
// caller and must stay alive until the commands have executed.
type Native interface {
	SetLabel(label string)
	PushDebugGroup(label string)
	PopDebugGroup()
	InsertDebugSignpost(label string)

	SetRenderPipelineState(pipeline hal.RenderPipeline)
	SetDepthStencilState(state DepthStencilState)
	SetTriangleFillMode(mode FillMode)
	SetFrontFacingWinding(winding gputypes.FrontFace)
	SetViewport(viewport Viewport)
	SetScissorRect(rect ScissorRect)
	SetStencilReferenceValue(ref uint32)
	SetStencilFrontBackReferenceValues(front, back uint32)
	SetBlendColor(color gputypes.Color)

	SetVertexBuffer(buffer hal.Buffer, offset uint64, index uint32)
	SetVertexBufferOffset(offset uint64, index uint32)
	SetVertexBytes(data []byte, index uint32)
	SetFragmentBuffer(buffer hal.Buffer, offset uint64, index uint32)
	SetFragmentBufferOffset(offset uint64, index uint32)
	SetFragmentBytes(data []byte, index uint32)
	SetFragmentTexture(texture hal.TextureView, index uint32)
	SetFragmentSamplerState(sampler hal.Sampler, index uint32)

	DrawPrimitives(args *DrawArgs)
	DrawIndexedPrimitives(args *IndexedDrawArgs)

	EndEncoding()
}
