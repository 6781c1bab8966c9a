package encoder

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// CommandType identifies the type of a recorded command.
type CommandType uint8

const (
	// Annotations
	CmdSetLabel            CommandType = iota // Name the pass
	CmdPushDebugGroup                         // Open a debug group
	CmdPopDebugGroup                          // Close a debug group
	CmdInsertDebugSignpost                    // Mark a point

	// Pipeline state
	CmdSetRenderPipelineState             // Bind a pipeline
	CmdSetDepthStencilState               // Bind depth-stencil state
	CmdSetTriangleFillMode                // Fill or wireframe
	CmdSetFrontFacingWinding              // Front face winding
	CmdSetViewport                        // Viewport transform
	CmdSetScissorRect                     // Scissor rectangle
	CmdSetStencilReferenceValue           // Stencil reference, both faces
	CmdSetStencilFrontBackReferenceValues // Stencil reference per face
	CmdSetBlendColor                      // Blend constant

	// Resource bindings
	CmdSetVertexBuffer         // Bind a vertex buffer
	CmdSetVertexBufferOffset   // Move a vertex buffer binding
	CmdSetVertexBytes          // Inline vertex data
	CmdSetFragmentBuffer       // Bind a fragment buffer
	CmdSetFragmentBufferOffset // Move a fragment buffer binding
	CmdSetFragmentBytes        // Inline fragment data
	CmdSetFragmentTexture      // Bind a fragment texture
	CmdSetFragmentSamplerState // Bind a fragment sampler

	// Draws
	CmdDrawPrimitives        // Non-indexed draw
	CmdDrawIndexedPrimitives // Indexed draw

	CmdEndEncoding // Finish the pass
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdSetLabel:                           "SetLabel",
	CmdPushDebugGroup:                     "PushDebugGroup",
	CmdPopDebugGroup:                      "PopDebugGroup",
	CmdInsertDebugSignpost:                "InsertDebugSignpost",
	CmdSetRenderPipelineState:             "SetRenderPipelineState",
	CmdSetDepthStencilState:               "SetDepthStencilState",
	CmdSetTriangleFillMode:                "SetTriangleFillMode",
	CmdSetFrontFacingWinding:              "SetFrontFacingWinding",
	CmdSetViewport:                        "SetViewport",
	CmdSetScissorRect:                     "SetScissorRect",
	CmdSetStencilReferenceValue:           "SetStencilReferenceValue",
	CmdSetStencilFrontBackReferenceValues: "SetStencilFrontBackReferenceValues",
	CmdSetBlendColor:                      "SetBlendColor",
	CmdSetVertexBuffer:                    "SetVertexBuffer",
	CmdSetVertexBufferOffset:              "SetVertexBufferOffset",
	CmdSetVertexBytes:                     "SetVertexBytes",
	CmdSetFragmentBuffer:                  "SetFragmentBuffer",
	CmdSetFragmentBufferOffset:            "SetFragmentBufferOffset",
	CmdSetFragmentBytes:                   "SetFragmentBytes",
	CmdSetFragmentTexture:                 "SetFragmentTexture",
	CmdSetFragmentSamplerState:            "SetFragmentSamplerState",
	CmdDrawPrimitives:                     "DrawPrimitives",
	CmdDrawIndexedPrimitives:              "DrawIndexedPrimitives",
	CmdEndEncoding:                        "EndEncoding",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is implemented by all recorded command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// LabelCommand carries the label of SetLabel, PushDebugGroup and
// InsertDebugSignpost.
type LabelCommand struct {
	Cmd   CommandType
	Label string
}

// Type implements Command.
func (c LabelCommand) Type() CommandType { return c.Cmd }

// PopDebugGroupCommand closes a debug group.
type PopDebugGroupCommand struct{}

// Type implements Command.
func (PopDebugGroupCommand) Type() CommandType { return CmdPopDebugGroup }

// SetRenderPipelineStateCommand binds a pipeline.
type SetRenderPipelineStateCommand struct {
	Pipeline hal.RenderPipeline
}

// Type implements Command.
func (SetRenderPipelineStateCommand) Type() CommandType { return CmdSetRenderPipelineState }

// SetDepthStencilStateCommand binds depth-stencil state.
type SetDepthStencilStateCommand struct {
	State DepthStencilState
}

// Type implements Command.
func (SetDepthStencilStateCommand) Type() CommandType { return CmdSetDepthStencilState }

// SetTriangleFillModeCommand sets the fill mode.
type SetTriangleFillModeCommand struct {
	Mode FillMode
}

// Type implements Command.
func (SetTriangleFillModeCommand) Type() CommandType { return CmdSetTriangleFillMode }

// SetFrontFacingWindingCommand sets the front face winding.
type SetFrontFacingWindingCommand struct {
	Winding gputypes.FrontFace
}

// Type implements Command.
func (SetFrontFacingWindingCommand) Type() CommandType { return CmdSetFrontFacingWinding }

// SetViewportCommand sets the viewport.
type SetViewportCommand struct {
	Viewport Viewport
}

// Type implements Command.
func (SetViewportCommand) Type() CommandType { return CmdSetViewport }

// SetScissorRectCommand sets the scissor rectangle.
type SetScissorRectCommand struct {
	Rect ScissorRect
}

// Type implements Command.
func (SetScissorRectCommand) Type() CommandType { return CmdSetScissorRect }

// SetStencilReferenceCommand sets stencil references. Separate reports
// whether front and back were given individually.
type SetStencilReferenceCommand struct {
	Front, Back uint32
	Separate    bool
}

// Type implements Command.
func (c SetStencilReferenceCommand) Type() CommandType {
	if c.Separate {
		return CmdSetStencilFrontBackReferenceValues
	}
	return CmdSetStencilReferenceValue
}

// SetBlendColorCommand sets the blend constant.
type SetBlendColorCommand struct {
	Color gputypes.Color
}

// Type implements Command.
func (SetBlendColorCommand) Type() CommandType { return CmdSetBlendColor }

// BufferCommand binds a buffer or moves a binding. Buffer is nil for the
// offset-only command types.
type BufferCommand struct {
	Cmd    CommandType
	Buffer hal.Buffer
	Offset uint64
	Index  uint32
}

// Type implements Command.
func (c BufferCommand) Type() CommandType { return c.Cmd }

// BytesCommand carries inline buffer data. Data is a private copy.
type BytesCommand struct {
	Cmd   CommandType
	Data  []byte
	Index uint32
}

// Type implements Command.
func (c BytesCommand) Type() CommandType { return c.Cmd }

// SetFragmentTextureCommand binds a fragment texture.
type SetFragmentTextureCommand struct {
	Texture hal.TextureView
	Index   uint32
}

// Type implements Command.
func (SetFragmentTextureCommand) Type() CommandType { return CmdSetFragmentTexture }

// SetFragmentSamplerStateCommand binds a fragment sampler.
type SetFragmentSamplerStateCommand struct {
	Sampler hal.Sampler
	Index   uint32
}

// Type implements Command.
func (SetFragmentSamplerStateCommand) Type() CommandType { return CmdSetFragmentSamplerState }

// DrawPrimitivesCommand is a non-indexed draw.
type DrawPrimitivesCommand struct {
	Args DrawArgs
}

// Type implements Command.
func (DrawPrimitivesCommand) Type() CommandType { return CmdDrawPrimitives }

// DrawIndexedPrimitivesCommand is an indexed draw.
type DrawIndexedPrimitivesCommand struct {
	Args IndexedDrawArgs
}

// Type implements Command.
func (DrawIndexedPrimitivesCommand) Type() CommandType { return CmdDrawIndexedPrimitives }

// EndEncodingCommand finishes the pass.
type EndEncodingCommand struct{}

// Type implements Command.
func (EndEncodingCommand) Type() CommandType { return CmdEndEncoding }
