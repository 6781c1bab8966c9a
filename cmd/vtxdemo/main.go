// Command vtxdemo packs a small scene of rectangles into quad vertices and
// records the draw calls through a state-caching encoder session.
//
// Usage:
//
//	vtxdemo [-scene scene.yaml] [-shader quad.wgsl] [-entry vs_main] [-dump]
//
// Without -scene a built-in scene is used. When -shader is given (or the
// built-in shader is used) the vertex stride is checked against the layout
// reflected from the shader's vertex entry point.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/vtxpass"
	"github.com/gogpu/vtxpass/encoder"
	"github.com/gogpu/vtxpass/vertex"
)

// Scene is the YAML description of what to draw.
type Scene struct {
	Label    string     `yaml:"label"`
	Wide     bool       `yaml:"wide"`
	Viewport [2]float32 `yaml:"viewport"`
	Rects    []RectSpec `yaml:"rects"`
}

// RectSpec is one rectangle of the scene.
type RectSpec struct {
	Rect    [4]float32  `yaml:"rect"`
	Color   [4]float64  `yaml:"color"`
	UV      *[4]float32 `yaml:"uv"`
	Scissor *[4]uint32  `yaml:"scissor"`
	Fill    string      `yaml:"fill"`
}

const builtinScene = `
label: demo
viewport: [256, 256]
rects:
  - rect: [0, 0, 256, 256]
    color: [0.1, 0.1, 0.12, 1]
  - rect: [16, 16, 112, 112]
    color: [1, 0.3, 0.3, 1]
    uv: [0, 0, 1, 1]
    scissor: [0, 0, 128, 128]
  - rect: [40, 40, 120, 120]
    color: [0.3, 1, 0.3, 0.8]
    uv: [0, 0, 1, 1]
    scissor: [0, 0, 128, 128]
  - rect: [128, 128, 240, 240]
    color: [0.3, 0.3, 1, 1]
    scissor: [128, 128, 128, 128]
    fill: lines
`

const narrowShader = `
struct QuadInput {
    @location(0) position: vec2<f32>,
    @location(1) color: u32,
    @location(2) uv: vec2<f32>,
}

@vertex
fn vs_main(in: QuadInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(in.position, 0.0, 1.0);
}
`

const wideShader = `
struct QuadInput {
    @location(0) position: vec2<f32>,
    @location(1) color: vec4<f32>,
    @location(2) uv: vec2<f32>,
}

@vertex
fn vs_main(in: QuadInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(in.position, 0.0, 1.0);
}
`

func main() {
	var (
		scenePath  = flag.String("scene", "", "YAML scene file (built-in scene if empty)")
		shaderPath = flag.String("shader", "", "WGSL shader to check the vertex stride against")
		entry      = flag.String("entry", "", "vertex entry point (first one if empty)")
		dump       = flag.Bool("dump", false, "print a hex dump of the vertex and index bytes")
		verbose    = flag.Bool("v", false, "log session activity to stderr")
	)
	flag.Parse()

	if *verbose {
		vtxpass.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	scene, err := loadScene(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	vertices, stride, err := packVertices(scene)
	if err != nil {
		log.Fatalf("Failed to pack vertices: %v", err)
	}

	if err := checkStride(scene, *shaderPath, *entry, stride); err != nil {
		log.Fatalf("Layout mismatch: %v", err)
	}

	rec := encoder.NewRecorder()
	stats, err := record(rec, scene, stride, uint64(len(vertices)))
	if err != nil {
		log.Fatalf("Failed to record: %v", err)
	}

	for i, cmd := range rec.Commands() {
		fmt.Printf("%3d  %s\n", i, cmd.Type())
	}
	fmt.Printf("\nstate changes %d, elided %d, pass-through %d, draws %d\n",
		stats.StateChanges, stats.Elided, stats.PassThrough, stats.Draws)
	fmt.Printf("%d quads, stride %d bytes, %d vertex bytes\n", len(scene.Rects), stride, len(vertices))

	if *dump {
		indices := vertex.QuadIndices(1)
		w := vertex.NewWriter(make([]byte, 2*len(indices)))
		if err := w.WriteArray(indices); err != nil {
			log.Fatalf("Failed to pack indices: %v", err)
		}
		fmt.Printf("\nvertices:\n%s", hex.Dump(vertices))
		fmt.Printf("indices:\n%s", hex.Dump(w.Bytes()))
	}
}

func loadScene(path string) (*Scene, error) {
	data := []byte(builtinScene)
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}
	var scene Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if len(scene.Rects) == 0 {
		return nil, fmt.Errorf("scene %q has no rects", scene.Label)
	}
	return &scene, nil
}

// packVertices writes four vertices per rect: position, color, uv.
func packVertices(scene *Scene) ([]byte, int, error) {
	color := vertex.NewColor(gputypes.Color{}, scene.Wide)
	stride := 8 + color.Size() + 8

	buf := make([]byte, 4*stride*len(scene.Rects))
	w := vertex.NewWriter(buf)
	for i, r := range scene.Rects {
		pos := vertex.Rect{Left: r.Rect[0], Top: r.Rect[1], Right: r.Rect[2], Bottom: r.Rect[3]}
		uv := vertex.Rect{}
		if r.UV != nil {
			uv = vertex.Rect{Left: r.UV[0], Top: r.UV[1], Right: r.UV[2], Bottom: r.UV[3]}
		}
		c := vertex.NewColor(gputypes.Color{R: r.Color[0], G: r.Color[1], B: r.Color[2], A: r.Color[3]}, scene.Wide)
		if err := w.WriteQuad(vertex.TriStripFromRect(pos), c, vertex.TriStripFromRect(uv)); err != nil {
			return nil, 0, fmt.Errorf("rect %d: %w", i, err)
		}
	}
	return w.Bytes(), stride, nil
}

func checkStride(scene *Scene, shaderPath, entry string, stride int) error {
	source := narrowShader
	if scene.Wide {
		source = wideShader
	}
	if shaderPath != "" {
		data, err := os.ReadFile(shaderPath)
		if err != nil {
			return err
		}
		source = string(data)
	}
	layout, err := vertex.ReflectLayout(source, entry)
	if err != nil {
		return err
	}
	if layout.ArrayStride != uint64(stride) {
		return fmt.Errorf("shader stride %d, packed stride %d", layout.ArrayStride, stride)
	}
	return nil
}

func parseFill(s string) (encoder.FillMode, error) {
	switch s {
	case "", "fill":
		return encoder.FillModeFill, nil
	case "lines":
		return encoder.FillModeLines, nil
	default:
		return 0, fmt.Errorf("unknown fill mode %q", s)
	}
}

// record encodes one draw per rect. Every rect rebinds the pipeline, the
// fill mode and the vertex buffer, so the session stats show what was
// elided.
func record(native encoder.Native, scene *Scene, stride int, vertexBytes uint64) (encoder.Stats, error) {
	var dev noop.Device
	pipeline, err := dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{Label: "quad"})
	if err != nil {
		return encoder.Stats{}, err
	}
	vb, err := dev.CreateBuffer(&hal.BufferDescriptor{Label: "quad vertices", Size: vertexBytes, Usage: gputypes.BufferUsageVertex})
	if err != nil {
		return encoder.Stats{}, err
	}
	ib, err := dev.CreateBuffer(&hal.BufferDescriptor{Label: "quad indices", Size: 12, Usage: gputypes.BufferUsageIndex})
	if err != nil {
		return encoder.Stats{}, err
	}

	s, err := encoder.New(native, encoder.WithLabel(scene.Label))
	if err != nil {
		return encoder.Stats{}, err
	}
	full := encoder.ScissorRect{Width: uint32(scene.Viewport[0]), Height: uint32(scene.Viewport[1])}
	if err := s.SetViewport(encoder.Viewport{Width: scene.Viewport[0], Height: scene.Viewport[1], MaxDepth: 1}); err != nil {
		return encoder.Stats{}, err
	}

	for i, r := range scene.Rects {
		mode, err := parseFill(r.Fill)
		if err != nil {
			return encoder.Stats{}, fmt.Errorf("rect %d: %w", i, err)
		}
		clip := full
		if r.Scissor != nil {
			clip = encoder.ScissorRect{X: r.Scissor[0], Y: r.Scissor[1], Width: r.Scissor[2], Height: r.Scissor[3]}
		}
		if err := drawRect(s, pipeline, mode, clip, vb, uint64(i*4*stride), ib); err != nil {
			return encoder.Stats{}, fmt.Errorf("rect %d: %w", i, err)
		}
	}

	if err := s.EndEncoding(); err != nil {
		return encoder.Stats{}, err
	}
	return s.Stats(), nil
}

// drawRect binds the state for one quad at vertexOffset and draws it.
func drawRect(
	s *encoder.Session, pipeline hal.RenderPipeline, mode encoder.FillMode,
	clip encoder.ScissorRect, vb hal.Buffer, vertexOffset uint64, ib hal.Buffer,
) error {
	if err := s.SetRenderPipelineState(pipeline); err != nil {
		return err
	}
	if err := s.SetTriangleFillMode(mode); err != nil {
		return err
	}
	if err := s.SetScissorRect(clip); err != nil {
		return err
	}
	if err := s.SetVertexBuffer(vb, vertexOffset, 0); err != nil {
		return err
	}
	return s.DrawIndexedPrimitives(gputypes.PrimitiveTopologyTriangleList, 6, gputypes.IndexFormatUint16, ib, 0)
}
