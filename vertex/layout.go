package vertex

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/vtxpass"
)

// Layout reflection errors.
var (
	// ErrNoVertexEntryPoint is returned when the shader has no vertex entry
	// point with the requested name.
	ErrNoVertexEntryPoint = errors.New("vertex: no matching vertex entry point")

	// ErrUnsupportedAttribute is returned when a vertex input has a type
	// that no vertex format can carry.
	ErrUnsupportedAttribute = errors.New("vertex: unsupported vertex attribute type")
)

// ReflectLayout compiles WGSL source and returns the tightly packed vertex
// buffer layout of the named vertex entry point. An empty entryPoint selects
// the first vertex entry point in the module.
//
// Attributes are ordered by shader location and packed without padding,
// which is the layout a Writer produces when fields are written in location
// order. Built-in inputs such as vertex_index are ignored.
func ReflectLayout(source, entryPoint string) (gputypes.VertexBufferLayout, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return gputypes.VertexBufferLayout{}, fmt.Errorf("reflect layout: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return gputypes.VertexBufferLayout{}, fmt.Errorf("reflect layout: %w", err)
	}

	ep, err := findVertexEntryPoint(module, entryPoint)
	if err != nil {
		return gputypes.VertexBufferLayout{}, err
	}

	var attrs []gputypes.VertexAttribute
	for _, arg := range ep.Function.Arguments {
		if loc, ok := location(arg.Binding); ok {
			format, err := vertexFormat(module, arg.Type)
			if err != nil {
				return gputypes.VertexBufferLayout{}, fmt.Errorf("reflect layout: argument %q: %w", arg.Name, err)
			}
			attrs = append(attrs, gputypes.VertexAttribute{Format: format, ShaderLocation: loc})
			continue
		}
		st, ok := typeInner(module, arg.Type).(ir.StructType)
		if !ok {
			continue
		}
		for _, m := range st.Members {
			loc, ok := location(m.Binding)
			if !ok {
				continue
			}
			format, err := vertexFormat(module, m.Type)
			if err != nil {
				return gputypes.VertexBufferLayout{}, fmt.Errorf("reflect layout: member %q: %w", m.Name, err)
			}
			attrs = append(attrs, gputypes.VertexAttribute{Format: format, ShaderLocation: loc})
		}
	}

	slices.SortFunc(attrs, func(a, b gputypes.VertexAttribute) int {
		return cmp.Compare(a.ShaderLocation, b.ShaderLocation)
	})
	var stride uint64
	for i := range attrs {
		attrs[i].Offset = stride
		stride += attrs[i].Format.Size()
	}

	vtxpass.Logger().Debug("vertex layout reflected",
		"entry_point", ep.Name,
		"attributes", len(attrs),
		"stride", stride,
	)

	return gputypes.VertexBufferLayout{
		ArrayStride: stride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}, nil
}

func findVertexEntryPoint(module *ir.Module, name string) (*ir.EntryPoint, error) {
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		if ep.Stage != ir.StageVertex {
			continue
		}
		if name == "" || ep.Name == name {
			return ep, nil
		}
	}
	if name == "" {
		return nil, ErrNoVertexEntryPoint
	}
	return nil, fmt.Errorf("%w: %q", ErrNoVertexEntryPoint, name)
}

func location(b *ir.Binding) (uint32, bool) {
	if b == nil {
		return 0, false
	}
	switch lb := (*b).(type) {
	case ir.LocationBinding:
		return lb.Location, true
	case *ir.LocationBinding:
		return lb.Location, true
	}
	return 0, false
}

func typeInner(module *ir.Module, h ir.TypeHandle) ir.TypeInner {
	if int(h) >= len(module.Types) {
		return nil
	}
	return module.Types[h].Inner
}

// vertexFormat maps a scalar or vector shader input type to a vertex format.
func vertexFormat(module *ir.Module, h ir.TypeHandle) (gputypes.VertexFormat, error) {
	switch t := typeInner(module, h).(type) {
	case ir.ScalarType:
		return scalarFormat(t, 1)
	case ir.VectorType:
		return scalarFormat(t.Scalar, int(t.Size))
	}
	return gputypes.VertexFormatUndefined, ErrUnsupportedAttribute
}

var (
	float32Formats = [...]gputypes.VertexFormat{
		gputypes.VertexFormatFloat32, gputypes.VertexFormatFloat32x2,
		gputypes.VertexFormatFloat32x3, gputypes.VertexFormatFloat32x4,
	}
	uint32Formats = [...]gputypes.VertexFormat{
		gputypes.VertexFormatUint32, gputypes.VertexFormatUint32x2,
		gputypes.VertexFormatUint32x3, gputypes.VertexFormatUint32x4,
	}
	sint32Formats = [...]gputypes.VertexFormat{
		gputypes.VertexFormatSint32, gputypes.VertexFormatSint32x2,
		gputypes.VertexFormatSint32x3, gputypes.VertexFormatSint32x4,
	}
)

func scalarFormat(s ir.ScalarType, n int) (gputypes.VertexFormat, error) {
	if n < 1 || n > 4 {
		return gputypes.VertexFormatUndefined, ErrUnsupportedAttribute
	}
	switch {
	case s.Width == 4 && s.Kind == ir.ScalarFloat:
		return float32Formats[n-1], nil
	case s.Width == 4 && s.Kind == ir.ScalarUint:
		return uint32Formats[n-1], nil
	case s.Width == 4 && s.Kind == ir.ScalarSint:
		return sint32Formats[n-1], nil
	case s.Width == 2 && s.Kind == ir.ScalarFloat && n == 2:
		return gputypes.VertexFormatFloat16x2, nil
	case s.Width == 2 && s.Kind == ir.ScalarFloat && n == 4:
		return gputypes.VertexFormatFloat16x4, nil
	}
	return gputypes.VertexFormatUndefined, fmt.Errorf("%w: scalar kind %d width %d x%d",
		ErrUnsupportedAttribute, s.Kind, s.Width, n)
}
