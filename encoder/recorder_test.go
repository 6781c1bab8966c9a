package encoder

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/gogpu/gputypes"
)

func recordSample(t *testing.T, n Native) {
	t.Helper()
	s, err := New(n, WithLabel("sample"))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	b, tex, smp := &fakeResource{1}, &fakeResource{2}, &fakeResource{3}

	mustOK(t, s.PushDebugGroup("quads"))
	mustOK(t, s.SetRenderPipelineState(&fakeResource{4}))
	mustOK(t, s.SetDepthStencilState(&fakeResource{5}))
	mustOK(t, s.SetTriangleFillMode(FillModeFill))
	mustOK(t, s.SetFrontFacingWinding(gputypes.FrontFaceCCW))
	mustOK(t, s.SetViewport(Viewport{Width: 10, Height: 10, MaxDepth: 1}))
	mustOK(t, s.SetScissorRect(ScissorRect{Width: 10, Height: 10}))
	mustOK(t, s.SetStencilReferenceValue(1))
	mustOK(t, s.SetStencilFrontBackReferenceValues(2, 3))
	mustOK(t, s.SetBlendColor(gputypes.Color{A: 1}))
	mustOK(t, s.SetVertexBuffer(b, 0, 0))
	mustOK(t, s.SetVertexBufferOffset(32, 0))
	mustOK(t, s.SetVertexBytes([]byte{1, 2, 3, 4}, 1))
	mustOK(t, s.SetFragmentBuffer(b, 0, 0))
	mustOK(t, s.SetFragmentBufferOffset(64, 0))
	mustOK(t, s.SetFragmentBytes([]byte{5, 6}, 1))
	mustOK(t, s.SetFragmentTexture(tex, 0))
	mustOK(t, s.SetFragmentSamplerState(smp, 0))
	mustOK(t, s.InsertDebugSignpost("draw"))
	mustOK(t, s.DrawPrimitives(gputypes.PrimitiveTopologyTriangleStrip, 0, 4))
	mustOK(t, s.DrawIndexedPrimitives(gputypes.PrimitiveTopologyTriangleList, 6, gputypes.IndexFormatUint16, b, 0))
	mustOK(t, s.PopDebugGroup())
	mustOK(t, s.EndEncoding())
}

func TestRecorder_ReplayReproducesCommands(t *testing.T) {
	src := NewRecorder()
	recordSample(t, src)

	if got := src.Count(CmdEndEncoding); got != 1 {
		t.Fatalf("Count(EndEncoding) = %d, want 1", got)
	}

	dst := NewRecorder()
	if err := src.Replay(dst); err != nil {
		t.Fatalf("Replay() = %v", err)
	}
	if !reflect.DeepEqual(src.Commands(), dst.Commands()) {
		t.Errorf("replayed commands differ:\n got %+v\nwant %+v", dst.Commands(), src.Commands())
	}

	// Every command type is covered by the sample pass.
	for ct := CmdSetLabel; ct <= CmdEndEncoding; ct++ {
		if src.Count(ct) == 0 {
			t.Errorf("sample pass has no %v command", ct)
		}
	}
}

func TestRecorder_CopiesInlineBytes(t *testing.T) {
	rec := NewRecorder()
	data := []byte{1, 2, 3}
	rec.SetVertexBytes(data, 0)
	data[0] = 9

	bc, ok := rec.Commands()[0].(BytesCommand)
	if !ok {
		t.Fatalf("command = %T, want BytesCommand", rec.Commands()[0])
	}
	if !bytes.Equal(bc.Data, []byte{1, 2, 3}) {
		t.Errorf("recorded data = %v, want a copy taken at call time", bc.Data)
	}
}

func TestRecorder_Reset(t *testing.T) {
	rec := NewRecorder()
	rec.PopDebugGroup()
	rec.EndEncoding()
	held := rec.Commands()
	rec.Reset()
	if rec.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", rec.Len())
	}

	want := []Command{PopDebugGroupCommand{}, EndEncodingCommand{}}
	if !reflect.DeepEqual(held, want) {
		t.Errorf("commands taken before Reset = %+v, want %+v", held, want)
	}

	rec.SetLabel("next")
	if _, ok := held[0].(PopDebugGroupCommand); !ok {
		t.Errorf("held[0] = %T after recording again, want PopDebugGroupCommand", held[0])
	}
}

func TestRecorder_ReplayErrors(t *testing.T) {
	rec := NewRecorder()
	if err := rec.Replay(nil); !errors.Is(err, ErrNilNative) {
		t.Errorf("Replay(nil) = %v, want ErrNilNative", err)
	}

	rec.commands = append(rec.commands, LabelCommand{Cmd: CmdDrawPrimitives})
	if err := rec.Replay(NewRecorder()); err == nil {
		t.Error("Replay() of a malformed label command returned nil")
	}
}

func TestCommandType_String(t *testing.T) {
	tests := []struct {
		ct   CommandType
		want string
	}{
		{CmdSetLabel, "SetLabel"},
		{CmdSetVertexBufferOffset, "SetVertexBufferOffset"},
		{CmdDrawIndexedPrimitives, "DrawIndexedPrimitives"},
		{CmdEndEncoding, "EndEncoding"},
		{CommandType(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("CommandType(%d).String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
}
