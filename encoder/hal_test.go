package encoder

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// spyPass records the HAL calls it receives as strings.
type spyPass struct {
	noop.RenderPassEncoder
	calls []string
}

func (p *spyPass) record(format string, args ...any) {
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *spyPass) End() { p.record("End") }
func (p *spyPass) SetPipeline(pl hal.RenderPipeline) {
	p.record("SetPipeline(%d)", pl.(*fakeResource).id)
}
func (p *spyPass) SetVertexBuffer(slot uint32, b hal.Buffer, offset uint64) {
	p.record("SetVertexBuffer(%d, %d, %d)", slot, b.(*fakeResource).id, offset)
}
func (p *spyPass) SetIndexBuffer(b hal.Buffer, format gputypes.IndexFormat, offset uint64) {
	p.record("SetIndexBuffer(%d, %d, %d)", b.(*fakeResource).id, format, offset)
}
func (p *spyPass) SetViewport(x, y, w, h, minDepth, maxDepth float32) {
	p.record("SetViewport(%g, %g, %g, %g, %g, %g)", x, y, w, h, minDepth, maxDepth)
}
func (p *spyPass) SetScissorRect(x, y, w, h uint32) {
	p.record("SetScissorRect(%d, %d, %d, %d)", x, y, w, h)
}
func (p *spyPass) SetBlendConstant(c *gputypes.Color) {
	p.record("SetBlendConstant(%g, %g, %g, %g)", c.R, c.G, c.B, c.A)
}
func (p *spyPass) SetStencilReference(ref uint32) { p.record("SetStencilReference(%d)", ref) }
func (p *spyPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.record("Draw(%d, %d, %d, %d)", vertexCount, instanceCount, firstVertex, firstInstance)
}
func (p *spyPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.record("DrawIndexed(%d, %d, %d, %d, %d)", indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}
func (p *spyPass) DrawIndirect(b hal.Buffer, offset uint64) {
	p.record("DrawIndirect(%d, %d)", b.(*fakeResource).id, offset)
}
func (p *spyPass) DrawIndexedIndirect(b hal.Buffer, offset uint64) {
	p.record("DrawIndexedIndirect(%d, %d)", b.(*fakeResource).id, offset)
}

// spyEncoder hands out a spyPass and keeps the descriptor it was given.
type spyEncoder struct {
	noop.CommandEncoder
	pass *spyPass
	desc *hal.RenderPassDescriptor
}

func (e *spyEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	e.desc = desc
	e.pass = &spyPass{}
	return e.pass
}

func TestBegin_NilEncoder(t *testing.T) {
	if _, err := Begin(nil, nil); !errors.Is(err, ErrNilEncoder) {
		t.Errorf("Begin(nil) error = %v, want ErrNilEncoder", err)
	}
}

func TestBegin_NoopBackend(t *testing.T) {
	s, err := Begin(&noop.CommandEncoder{}, &hal.RenderPassDescriptor{Label: "noop"})
	if err != nil {
		t.Fatalf("Begin() = %v", err)
	}
	b := &fakeResource{1}
	mustOK(t, s.SetRenderPipelineState(&fakeResource{2}))
	mustOK(t, s.SetVertexBuffer(b, 0, 0))
	mustOK(t, s.SetVertexBuffer(b, 16, 0))
	mustOK(t, s.DrawIndexedPrimitives(gputypes.PrimitiveTopologyTriangleList, 6, gputypes.IndexFormatUint16, b, 0))
	mustOK(t, s.EndEncoding())
	if !s.IsClosed() {
		t.Error("session still open after EndEncoding")
	}
}

func TestHALNative_Translation(t *testing.T) {
	enc := &spyEncoder{}
	desc := &hal.RenderPassDescriptor{Label: "main"}
	s, err := Begin(enc, desc)
	if err != nil {
		t.Fatalf("Begin() = %v", err)
	}
	if enc.desc != desc {
		t.Error("Begin did not pass the descriptor to BeginRenderPass")
	}

	vb, ib, ind := &fakeResource{1}, &fakeResource{2}, &fakeResource{3}
	pipeline := &fakeResource{7}

	mustOK(t, s.SetRenderPipelineState(pipeline))
	mustOK(t, s.SetRenderPipelineState(pipeline))
	mustOK(t, s.SetDepthStencilState(&fakeResource{8}))
	mustOK(t, s.SetTriangleFillMode(FillModeLines))
	mustOK(t, s.SetFrontFacingWinding(gputypes.FrontFaceCW))
	mustOK(t, s.SetViewport(Viewport{Width: 800, Height: 600, MaxDepth: 1}))
	mustOK(t, s.SetScissorRect(ScissorRect{X: 1, Y: 2, Width: 3, Height: 4}))
	mustOK(t, s.SetStencilReferenceValue(5))
	mustOK(t, s.SetStencilFrontBackReferenceValues(6, 9))
	mustOK(t, s.SetBlendColor(gputypes.Color{R: 0.5, G: 0.25, B: 0, A: 1}))
	mustOK(t, s.SetVertexBuffer(vb, 0, 0))
	mustOK(t, s.SetVertexBufferOffset(48, 0))
	mustOK(t, s.SetFragmentTexture(&fakeResource{9}, 0))
	mustOK(t, s.DrawPrimitives(gputypes.PrimitiveTopologyTriangleStrip, 2, 4))
	mustOK(t, s.DrawPrimitivesInstanced(gputypes.PrimitiveTopologyTriangleList, 0, 3, 5, 1))
	mustOK(t, s.DrawPrimitivesIndirect(gputypes.PrimitiveTopologyTriangleList, ind, 8))
	mustOK(t, s.DrawIndexedPrimitivesInstanced(gputypes.PrimitiveTopologyTriangleList, 6, gputypes.IndexFormatUint32, ib, 12, 2, -1, 3))
	mustOK(t, s.DrawIndexedPrimitivesIndirect(gputypes.PrimitiveTopologyTriangleList, gputypes.IndexFormatUint16, ib, 0, ind, 20))
	mustOK(t, s.EndEncoding())

	want := []string{
		"SetPipeline(7)",
		"SetViewport(0, 0, 800, 600, 0, 1)",
		"SetScissorRect(1, 2, 3, 4)",
		"SetStencilReference(5)",
		"SetStencilReference(6)",
		"SetBlendConstant(0.5, 0.25, 0, 1)",
		"SetVertexBuffer(0, 1, 0)",
		"SetVertexBuffer(0, 1, 48)",
		"Draw(4, 1, 2, 0)",
		"Draw(3, 5, 0, 1)",
		"DrawIndirect(3, 8)",
		fmt.Sprintf("SetIndexBuffer(2, %d, 12)", gputypes.IndexFormatUint32),
		"DrawIndexed(6, 2, 0, -1, 3)",
		fmt.Sprintf("SetIndexBuffer(2, %d, 0)", gputypes.IndexFormatUint16),
		"DrawIndexedIndirect(3, 20)",
		"End",
	}

	got := enc.pass.calls
	if len(got) != len(want) {
		t.Fatalf("HAL calls:\n%q\nwant:\n%q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("HAL call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHALNative_OffsetWithoutBuffer(t *testing.T) {
	pass := &spyPass{}
	h := NewHALNative(pass)
	h.SetVertexBufferOffset(16, 0)
	h.SetVertexBytes([]byte{1}, 1)
	h.SetVertexBufferOffset(16, 1)
	if len(pass.calls) != 0 {
		t.Errorf("offset-only update without a buffer reached the HAL: %q", pass.calls)
	}
}

func TestHALNative_SetLoggerNil(t *testing.T) {
	h := NewHALNative(&spyPass{})
	h.SetLogger(nil)
	if h.log == nil {
		t.Fatal("SetLogger(nil) left a nil logger")
	}
	h.PushDebugGroup("group")
}
