package encoder

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DrawPrimitives draws vertexCount vertices starting at vertexStart.
func (s *Session) DrawPrimitives(topology gputypes.PrimitiveTopology, vertexStart, vertexCount uint32) error {
	return s.draw("draw primitives", &DrawArgs{
		Topology:      topology,
		VertexStart:   vertexStart,
		VertexCount:   vertexCount,
		InstanceCount: 1,
	})
}

// DrawPrimitivesInstanced draws instanceCount instances of vertexCount
// vertices.
func (s *Session) DrawPrimitivesInstanced(
	topology gputypes.PrimitiveTopology,
	vertexStart, vertexCount, instanceCount, baseInstance uint32,
) error {
	return s.draw("draw primitives instanced", &DrawArgs{
		Topology:      topology,
		VertexStart:   vertexStart,
		VertexCount:   vertexCount,
		InstanceCount: instanceCount,
		BaseInstance:  baseInstance,
	})
}

// DrawPrimitivesIndirect draws with arguments read from indirectBuffer at
// indirectOffset.
func (s *Session) DrawPrimitivesIndirect(
	topology gputypes.PrimitiveTopology,
	indirectBuffer hal.Buffer, indirectOffset uint64,
) error {
	const op = "draw primitives indirect"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if err := checkIndirect(op, indirectBuffer, indirectOffset); err != nil {
		return err
	}
	return s.draw(op, &DrawArgs{
		Topology:       topology,
		IndirectBuffer: indirectBuffer,
		IndirectOffset: indirectOffset,
	})
}

// DrawIndexedPrimitives draws indexCount indices read from indexBuffer at
// indexOffset.
func (s *Session) DrawIndexedPrimitives(
	topology gputypes.PrimitiveTopology,
	indexCount uint32, indexFormat gputypes.IndexFormat,
	indexBuffer hal.Buffer, indexOffset uint64,
) error {
	return s.drawIndexed("draw indexed primitives", &IndexedDrawArgs{
		Topology:      topology,
		IndexCount:    indexCount,
		IndexFormat:   indexFormat,
		IndexBuffer:   indexBuffer,
		IndexOffset:   indexOffset,
		InstanceCount: 1,
	})
}

// DrawIndexedPrimitivesInstanced draws instanceCount instances of an
// indexed primitive list, adding baseVertex to every index.
func (s *Session) DrawIndexedPrimitivesInstanced(
	topology gputypes.PrimitiveTopology,
	indexCount uint32, indexFormat gputypes.IndexFormat,
	indexBuffer hal.Buffer, indexOffset uint64,
	instanceCount uint32, baseVertex int32, baseInstance uint32,
) error {
	return s.drawIndexed("draw indexed primitives instanced", &IndexedDrawArgs{
		Topology:      topology,
		IndexCount:    indexCount,
		IndexFormat:   indexFormat,
		IndexBuffer:   indexBuffer,
		IndexOffset:   indexOffset,
		InstanceCount: instanceCount,
		BaseVertex:    baseVertex,
		BaseInstance:  baseInstance,
	})
}

// DrawIndexedPrimitivesIndirect draws indices from indexBuffer with
// arguments read from indirectBuffer at indirectOffset.
func (s *Session) DrawIndexedPrimitivesIndirect(
	topology gputypes.PrimitiveTopology,
	indexFormat gputypes.IndexFormat,
	indexBuffer hal.Buffer, indexOffset uint64,
	indirectBuffer hal.Buffer, indirectOffset uint64,
) error {
	const op = "draw indexed primitives indirect"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if err := checkIndirect(op, indirectBuffer, indirectOffset); err != nil {
		return err
	}
	return s.drawIndexed(op, &IndexedDrawArgs{
		Topology:       topology,
		IndexFormat:    indexFormat,
		IndexBuffer:    indexBuffer,
		IndexOffset:    indexOffset,
		IndirectBuffer: indirectBuffer,
		IndirectOffset: indirectOffset,
	})
}

func (s *Session) draw(op string, args *DrawArgs) error {
	if err := s.checkOpen(op); err != nil {
		return err
	}
	s.native.DrawPrimitives(args)
	s.stats.Draws++
	return nil
}

func (s *Session) drawIndexed(op string, args *IndexedDrawArgs) error {
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if args.IndexBuffer == nil {
		return fmt.Errorf("%s: index %w", op, ErrNilBuffer)
	}
	switch args.IndexFormat {
	case gputypes.IndexFormatUint16, gputypes.IndexFormatUint32:
	default:
		return fmt.Errorf("%s: %w", op, ErrInvalidIndexFormat)
	}
	s.native.DrawIndexedPrimitives(args)
	s.stats.Draws++
	return nil
}

func checkIndirect(op string, buffer hal.Buffer, offset uint64) error {
	if buffer == nil {
		return fmt.Errorf("%s: indirect %w", op, ErrNilBuffer)
	}
	if offset%4 != 0 {
		return fmt.Errorf("%s: %w", op, ErrIndirectOffsetNotAligned)
	}
	return nil
}
