package vertex

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/ir"
)

const quadShaderWGSL = `
struct VertexInput {
    @location(1) color: u32,
    @location(0) position: vec2<f32>,
    @location(2) local: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) local: vec4<f32>,
}

@vertex
fn vs_main(in: VertexInput, @builtin(vertex_index) idx: u32) -> VertexOutput {
    var out: VertexOutput;
    out.position = vec4<f32>(in.position, 0.0, 1.0);
    out.local = in.local;
    return out;
}

@vertex
fn vs_points(@location(0) p: vec2<f32>, @location(1) size: f32, @location(2) id: vec2<i32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(p, size, 1.0);
}

@fragment
fn fs_main(@location(0) local: vec4<f32>) -> @location(0) vec4<f32> {
    return local;
}
`

func TestReflectLayout(t *testing.T) {
	tests := []struct {
		name       string
		entryPoint string
		stride     uint64
		attrs      []gputypes.VertexAttribute
	}{
		{
			name:       "struct input ordered by location",
			entryPoint: "vs_main",
			stride:     8 + 4 + 16,
			attrs: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatUint32, Offset: 8, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 2},
			},
		},
		{
			name:       "first vertex entry point by default",
			entryPoint: "",
			stride:     28,
			attrs: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatUint32, Offset: 8, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 2},
			},
		},
		{
			name:       "plain arguments",
			entryPoint: "vs_points",
			stride:     8 + 4 + 8,
			attrs: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32, Offset: 8, ShaderLocation: 1},
				{Format: gputypes.VertexFormatSint32x2, Offset: 12, ShaderLocation: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := ReflectLayout(quadShaderWGSL, tt.entryPoint)
			if err != nil {
				t.Fatalf("ReflectLayout() = %v", err)
			}
			if layout.ArrayStride != tt.stride {
				t.Errorf("ArrayStride = %d, want %d", layout.ArrayStride, tt.stride)
			}
			if layout.StepMode != gputypes.VertexStepModeVertex {
				t.Errorf("StepMode = %v, want %v", layout.StepMode, gputypes.VertexStepModeVertex)
			}
			if len(layout.Attributes) != len(tt.attrs) {
				t.Fatalf("len(Attributes) = %d, want %d", len(layout.Attributes), len(tt.attrs))
			}
			for i, want := range tt.attrs {
				if got := layout.Attributes[i]; got != want {
					t.Errorf("Attributes[%d] = %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

func TestReflectLayout_MatchesWriterStride(t *testing.T) {
	layout, err := ReflectLayout(quadShaderWGSL, "vs_main")
	if err != nil {
		t.Fatalf("ReflectLayout() = %v", err)
	}

	buf := make([]byte, 4*layout.ArrayStride)
	w := NewWriter(buf)
	err = w.WriteQuad(
		TriStripFromRect(Rect{Right: 4, Bottom: 4}),
		NewColor(gputypes.Color{R: 1, A: 1}, false),
		[4]float32{0, 0, 1, 1},
	)
	if err != nil {
		t.Fatalf("WriteQuad() = %v", err)
	}
	if uint64(w.Pos()) != 4*layout.ArrayStride {
		t.Errorf("WriteQuad() wrote %d bytes, want 4 records of %d", w.Pos(), layout.ArrayStride)
	}
}

func TestReflectLayout_Errors(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		entryPoint string
		target     error
	}{
		{
			name:       "missing entry point",
			source:     quadShaderWGSL,
			entryPoint: "vs_missing",
			target:     ErrNoVertexEntryPoint,
		},
		{
			name:       "fragment entry point",
			source:     quadShaderWGSL,
			entryPoint: "fs_main",
			target:     ErrNoVertexEntryPoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReflectLayout(tt.source, tt.entryPoint)
			if !errors.Is(err, tt.target) {
				t.Errorf("ReflectLayout() error = %v, want %v", err, tt.target)
			}
		})
	}

	if _, err := ReflectLayout("fn broken(", ""); err == nil {
		t.Error("ReflectLayout() on invalid WGSL returned nil error")
	}
}

func TestVertexFormat_Unsupported(t *testing.T) {
	module := &ir.Module{Types: []ir.Type{
		{Name: "mat2x2f", Inner: ir.MatrixType{Columns: ir.Vec2, Rows: ir.Vec2, Scalar: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}}},
		{Name: "bool", Inner: ir.ScalarType{Kind: ir.ScalarBool, Width: 1}},
		{Name: "vec3h", Inner: ir.VectorType{Size: ir.Vec3, Scalar: ir.ScalarType{Kind: ir.ScalarFloat, Width: 2}}},
		{Name: "vec4h", Inner: ir.VectorType{Size: ir.Vec4, Scalar: ir.ScalarType{Kind: ir.ScalarFloat, Width: 2}}},
	}}

	for h := range 3 {
		if _, err := vertexFormat(module, ir.TypeHandle(h)); !errors.Is(err, ErrUnsupportedAttribute) {
			t.Errorf("vertexFormat(%s) error = %v, want ErrUnsupportedAttribute", module.Types[h].Name, err)
		}
	}
	if got, err := vertexFormat(module, 3); err != nil || got != gputypes.VertexFormatFloat16x4 {
		t.Errorf("vertexFormat(vec4h) = %v, %v, want %v", got, err, gputypes.VertexFormatFloat16x4)
	}
	if _, err := vertexFormat(module, 99); !errors.Is(err, ErrUnsupportedAttribute) {
		t.Errorf("vertexFormat(out of range) error = %v, want ErrUnsupportedAttribute", err)
	}
}
