package encoder

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Recorder is a Native that captures every call as a typed Command.
//
// A Recorder lets a pass be inspected in tests and tools, or encoded once
// and replayed into a real native handle later. It is not safe for
// concurrent use.
type Recorder struct {
	commands []Command
}

var _ Native = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{commands: make([]Command, 0, 64)}
}

// Commands returns a copy of the recorded commands. It stays intact across
// later recording and Reset.
func (r *Recorder) Commands() []Command {
	return slices.Clone(r.commands)
}

// Len returns the number of recorded commands.
func (r *Recorder) Len() int {
	return len(r.commands)
}

// Count returns the number of recorded commands of type t.
func (r *Recorder) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Reset discards all recorded commands.
func (r *Recorder) Reset() {
	clear(r.commands)
	r.commands = r.commands[:0]
}

// Replay issues the recorded commands, in order, to native.
func (r *Recorder) Replay(native Native) error {
	if native == nil {
		return ErrNilNative
	}
	for i, cmd := range r.commands {
		if err := replay(native, cmd); err != nil {
			return fmt.Errorf("replay command %d: %w", i, err)
		}
	}
	return nil
}

func replay(n Native, cmd Command) error {
	switch c := cmd.(type) {
	case LabelCommand:
		switch c.Cmd {
		case CmdSetLabel:
			n.SetLabel(c.Label)
		case CmdPushDebugGroup:
			n.PushDebugGroup(c.Label)
		case CmdInsertDebugSignpost:
			n.InsertDebugSignpost(c.Label)
		default:
			return fmt.Errorf("unexpected label command %v", c.Cmd)
		}
	case PopDebugGroupCommand:
		n.PopDebugGroup()
	case SetRenderPipelineStateCommand:
		n.SetRenderPipelineState(c.Pipeline)
	case SetDepthStencilStateCommand:
		n.SetDepthStencilState(c.State)
	case SetTriangleFillModeCommand:
		n.SetTriangleFillMode(c.Mode)
	case SetFrontFacingWindingCommand:
		n.SetFrontFacingWinding(c.Winding)
	case SetViewportCommand:
		n.SetViewport(c.Viewport)
	case SetScissorRectCommand:
		n.SetScissorRect(c.Rect)
	case SetStencilReferenceCommand:
		if c.Separate {
			n.SetStencilFrontBackReferenceValues(c.Front, c.Back)
		} else {
			n.SetStencilReferenceValue(c.Front)
		}
	case SetBlendColorCommand:
		n.SetBlendColor(c.Color)
	case BufferCommand:
		switch c.Cmd {
		case CmdSetVertexBuffer:
			n.SetVertexBuffer(c.Buffer, c.Offset, c.Index)
		case CmdSetVertexBufferOffset:
			n.SetVertexBufferOffset(c.Offset, c.Index)
		case CmdSetFragmentBuffer:
			n.SetFragmentBuffer(c.Buffer, c.Offset, c.Index)
		case CmdSetFragmentBufferOffset:
			n.SetFragmentBufferOffset(c.Offset, c.Index)
		default:
			return fmt.Errorf("unexpected buffer command %v", c.Cmd)
		}
	case BytesCommand:
		switch c.Cmd {
		case CmdSetVertexBytes:
			n.SetVertexBytes(c.Data, c.Index)
		case CmdSetFragmentBytes:
			n.SetFragmentBytes(c.Data, c.Index)
		default:
			return fmt.Errorf("unexpected bytes command %v", c.Cmd)
		}
	case SetFragmentTextureCommand:
		n.SetFragmentTexture(c.Texture, c.Index)
	case SetFragmentSamplerStateCommand:
		n.SetFragmentSamplerState(c.Sampler, c.Index)
	case DrawPrimitivesCommand:
		args := c.Args
		n.DrawPrimitives(&args)
	case DrawIndexedPrimitivesCommand:
		args := c.Args
		n.DrawIndexedPrimitives(&args)
	case EndEncodingCommand:
		n.EndEncoding()
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
	return nil
}

func (r *Recorder) add(c Command) {
	r.commands = append(r.commands, c)
}

func (r *Recorder) SetLabel(label string) {
	r.add(LabelCommand{Cmd: CmdSetLabel, Label: label})
}

func (r *Recorder) PushDebugGroup(label string) {
	r.add(LabelCommand{Cmd: CmdPushDebugGroup, Label: label})
}

func (r *Recorder) PopDebugGroup() { r.add(PopDebugGroupCommand{}) }

func (r *Recorder) InsertDebugSignpost(label string) {
	r.add(LabelCommand{Cmd: CmdInsertDebugSignpost, Label: label})
}

func (r *Recorder) SetRenderPipelineState(pipeline hal.RenderPipeline) {
	r.add(SetRenderPipelineStateCommand{Pipeline: pipeline})
}

func (r *Recorder) SetDepthStencilState(state DepthStencilState) {
	r.add(SetDepthStencilStateCommand{State: state})
}

func (r *Recorder) SetTriangleFillMode(mode FillMode) {
	r.add(SetTriangleFillModeCommand{Mode: mode})
}

func (r *Recorder) SetFrontFacingWinding(winding gputypes.FrontFace) {
	r.add(SetFrontFacingWindingCommand{Winding: winding})
}

func (r *Recorder) SetViewport(viewport Viewport) {
	r.add(SetViewportCommand{Viewport: viewport})
}

func (r *Recorder) SetScissorRect(rect ScissorRect) {
	r.add(SetScissorRectCommand{Rect: rect})
}

func (r *Recorder) SetStencilReferenceValue(ref uint32) {
	r.add(SetStencilReferenceCommand{Front: ref, Back: ref})
}

func (r *Recorder) SetStencilFrontBackReferenceValues(front, back uint32) {
	r.add(SetStencilReferenceCommand{Front: front, Back: back, Separate: true})
}

func (r *Recorder) SetBlendColor(color gputypes.Color) {
	r.add(SetBlendColorCommand{Color: color})
}

func (r *Recorder) SetVertexBuffer(buffer hal.Buffer, offset uint64, index uint32) {
	r.add(BufferCommand{Cmd: CmdSetVertexBuffer, Buffer: buffer, Offset: offset, Index: index})
}

func (r *Recorder) SetVertexBufferOffset(offset uint64, index uint32) {
	r.add(BufferCommand{Cmd: CmdSetVertexBufferOffset, Offset: offset, Index: index})
}

func (r *Recorder) SetVertexBytes(data []byte, index uint32) {
	r.add(BytesCommand{Cmd: CmdSetVertexBytes, Data: append([]byte(nil), data...), Index: index})
}

func (r *Recorder) SetFragmentBuffer(buffer hal.Buffer, offset uint64, index uint32) {
	r.add(BufferCommand{Cmd: CmdSetFragmentBuffer, Buffer: buffer, Offset: offset, Index: index})
}

func (r *Recorder) SetFragmentBufferOffset(offset uint64, index uint32) {
	r.add(BufferCommand{Cmd: CmdSetFragmentBufferOffset, Offset: offset, Index: index})
}

func (r *Recorder) SetFragmentBytes(data []byte, index uint32) {
	r.add(BytesCommand{Cmd: CmdSetFragmentBytes, Data: append([]byte(nil), data...), Index: index})
}

func (r *Recorder) SetFragmentTexture(texture hal.TextureView, index uint32) {
	r.add(SetFragmentTextureCommand{Texture: texture, Index: index})
}

func (r *Recorder) SetFragmentSamplerState(sampler hal.Sampler, index uint32) {
	r.add(SetFragmentSamplerStateCommand{Sampler: sampler, Index: index})
}

func (r *Recorder) DrawPrimitives(args *DrawArgs) {
	r.add(DrawPrimitivesCommand{Args: *args})
}

func (r *Recorder) DrawIndexedPrimitives(args *IndexedDrawArgs) {
	r.add(DrawIndexedPrimitivesCommand{Args: *args})
}

func (r *Recorder) EndEncoding() { r.add(EndEncodingCommand{}) }
