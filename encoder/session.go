package encoder

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Session errors.
var (
	// ErrSessionClosed is returned when an operation is called after EndEncoding.
	ErrSessionClosed = errors.New("encoder: session has already ended")

	// ErrNilNative is returned when a session is created without a native handle.
	ErrNilNative = errors.New("encoder: native handle is nil")

	// ErrNilEncoder is returned when Begin is called with a nil command encoder.
	ErrNilEncoder = errors.New("encoder: command encoder is nil")

	// ErrNilPipeline is returned when SetRenderPipelineState is called with nil.
	ErrNilPipeline = errors.New("encoder: pipeline is nil")

	// ErrNilBuffer is returned when a vertex, fragment, index or indirect
	// buffer is nil.
	ErrNilBuffer = errors.New("encoder: buffer is nil")

	// ErrNoBufferBound is returned when a buffer offset is changed on a slot
	// that has no buffer bound.
	ErrNoBufferBound = errors.New("encoder: no buffer bound at index")

	// ErrBindingIndexOutOfRange is returned when a binding index exceeds the
	// stage's slot count.
	ErrBindingIndexOutOfRange = errors.New("encoder: binding index out of range")

	// ErrIndirectOffsetNotAligned is returned when an indirect offset is not
	// 4-byte aligned.
	ErrIndirectOffsetNotAligned = errors.New("encoder: indirect offset must be 4-byte aligned")

	// ErrInvalidIndexFormat is returned when an indexed draw uses an index
	// format other than Uint16 or Uint32.
	ErrInvalidIndexFormat = errors.New("encoder: index format must be uint16 or uint32")
)

// SessionState represents the state of a Session.
type SessionState int

const (
	// SessionStateOpen means the session accepts commands.
	SessionStateOpen SessionState = iota

	// SessionStateClosed means EndEncoding has been called.
	SessionStateClosed
)

// String returns the string representation of SessionState.
func (s SessionState) String() string {
	switch s {
	case SessionStateOpen:
		return "Open"
	case SessionStateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Stats counts the calls a session received and what it did with them.
type Stats struct {
	// StateChanges is the number of cached state calls forwarded.
	StateChanges int

	// Elided is the number of cached state calls dropped because the value
	// was already current.
	Elided int

	// PassThrough is the number of uncached, non-draw calls forwarded.
	PassThrough int

	// Draws is the number of draw calls forwarded.
	Draws int
}

// Session records one render pass into a Native handle, dropping state
// changes that would not change anything.
//
// Pipeline, depth-stencil state, fill mode, scissor rect, buffer bindings,
// fragment textures and fragment samplers are cached: a call is forwarded
// only when its value differs from the last value forwarded for the same
// slot. Everything else is forwarded unconditionally. Cached objects are
// compared by identity.
//
// Thread Safety:
// Session is NOT safe for concurrent use. All commands must be recorded
// from a single goroutine.
//
// State Machine:
//
//	Open -> EndEncoding() -> Closed
//
// Every call on a closed session returns ErrSessionClosed and reaches
// nothing.
type Session struct {
	native     Native
	state      SessionState
	log        *slog.Logger
	label      string
	cacheState bool

	pipeline     cached[hal.RenderPipeline]
	depthStencil cached[DepthStencilState]
	fillMode     cached[FillMode]
	scissor      cached[ScissorRect]

	vertexBuffers   stageBuffers
	fragmentBuffers stageBuffers
	textures        [MaxTextureBindings]cached[hal.TextureView]
	samplers        [MaxSamplerBindings]cached[hal.Sampler]

	stats Stats
}

// loggerSetter is implemented by natives that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// New opens a session over native. The session takes the handle for its
// lifetime; EndEncoding finishes it.
func New(native Native, opts ...Option) (*Session, error) {
	if native == nil {
		return nil, ErrNilNative
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		native:     native,
		state:      SessionStateOpen,
		log:        o.logger,
		label:      o.label,
		cacheState: o.cacheState,
	}
	if ls, ok := native.(loggerSetter); ok {
		ls.SetLogger(s.log)
	}
	if s.label != "" {
		s.native.SetLabel(s.label)
		s.stats.PassThrough++
	}

	s.log.Debug("encoder session opened",
		"label", s.label,
		"state_cache", s.cacheState,
	)
	return s, nil
}

// State returns the current session state.
func (s *Session) State() SessionState {
	if s == nil {
		return SessionStateClosed
	}
	return s.state
}

// IsClosed returns true if EndEncoding has been called.
func (s *Session) IsClosed() bool {
	return s.State() == SessionStateClosed
}

// Stats returns the call counters accumulated so far.
func (s *Session) Stats() Stats {
	return s.stats
}

// EndEncoding finishes the session and its native handle. It succeeds
// exactly once.
func (s *Session) EndEncoding() error {
	if err := s.checkOpen("end encoding"); err != nil {
		return err
	}
	s.state = SessionStateClosed
	s.native.EndEncoding()
	s.native = nil

	s.log.Debug("encoder session ended",
		"label", s.label,
		"state_changes", s.stats.StateChanges,
		"elided", s.stats.Elided,
		"pass_through", s.stats.PassThrough,
		"draws", s.stats.Draws,
	)
	return nil
}

// checkOpen returns ErrSessionClosed, wrapped with op, if the session has
// ended.
func (s *Session) checkOpen(op string) error {
	if s.state == SessionStateOpen {
		return nil
	}
	s.log.Warn("encoder: call after EndEncoding rejected", "op", op, "label", s.label)
	return fmt.Errorf("%s: %w", op, ErrSessionClosed)
}

// forward caches v in c and reports whether the call must reach the native
// handle.
func forward[T comparable](s *Session, c *cached[T], v T) bool {
	if !s.cacheState {
		c.store(v)
		s.stats.StateChanges++
		return true
	}
	if c.update(v) {
		s.stats.StateChanges++
		return true
	}
	s.stats.Elided++
	return false
}

// =============================================================================
// Annotations
// =============================================================================

// SetLabel names the pass for debugging tools.
func (s *Session) SetLabel(label string) error {
	if err := s.checkOpen("set label"); err != nil {
		return err
	}
	s.label = label
	s.native.SetLabel(label)
	s.stats.PassThrough++
	return nil
}

// PushDebugGroup opens a named group of commands.
func (s *Session) PushDebugGroup(label string) error {
	if err := s.checkOpen("push debug group"); err != nil {
		return err
	}
	s.native.PushDebugGroup(label)
	s.stats.PassThrough++
	return nil
}

// PopDebugGroup closes the innermost debug group.
func (s *Session) PopDebugGroup() error {
	if err := s.checkOpen("pop debug group"); err != nil {
		return err
	}
	s.native.PopDebugGroup()
	s.stats.PassThrough++
	return nil
}

// InsertDebugSignpost marks a point in the command stream.
func (s *Session) InsertDebugSignpost(label string) error {
	if err := s.checkOpen("insert debug signpost"); err != nil {
		return err
	}
	s.native.InsertDebugSignpost(label)
	s.stats.PassThrough++
	return nil
}

// =============================================================================
// Cached state
// =============================================================================

// SetRenderPipelineState binds pipeline for subsequent draws.
func (s *Session) SetRenderPipelineState(pipeline hal.RenderPipeline) error {
	if err := s.checkOpen("set render pipeline state"); err != nil {
		return err
	}
	if pipeline == nil {
		return fmt.Errorf("set render pipeline state: %w", ErrNilPipeline)
	}
	if forward(s, &s.pipeline, pipeline) {
		s.native.SetRenderPipelineState(pipeline)
	}
	return nil
}

// SetDepthStencilState binds a depth and stencil configuration. A nil state
// selects the device default and is cached like any other value.
func (s *Session) SetDepthStencilState(state DepthStencilState) error {
	if err := s.checkOpen("set depth stencil state"); err != nil {
		return err
	}
	if forward(s, &s.depthStencil, state) {
		s.native.SetDepthStencilState(state)
	}
	return nil
}

// SetTriangleFillMode selects filled or wireframe rasterization.
func (s *Session) SetTriangleFillMode(mode FillMode) error {
	if err := s.checkOpen("set triangle fill mode"); err != nil {
		return err
	}
	if forward(s, &s.fillMode, mode) {
		s.native.SetTriangleFillMode(mode)
	}
	return nil
}

// SetScissorRect sets the scissor rectangle. Rectangles are compared field
// by field.
func (s *Session) SetScissorRect(rect ScissorRect) error {
	if err := s.checkOpen("set scissor rect"); err != nil {
		return err
	}
	if forward(s, &s.scissor, rect) {
		s.native.SetScissorRect(rect)
	}
	return nil
}

// SetVertexBuffer binds buffer at offset to vertex buffer slot index. When
// the slot already holds the same buffer at a different offset, only the
// offset is updated.
func (s *Session) SetVertexBuffer(buffer hal.Buffer, offset uint64, index uint32) error {
	if err := s.checkBuffer("set vertex buffer", buffer, index); err != nil {
		return err
	}
	s.bindBuffer(&s.vertexBuffers, buffer, offset, index,
		s.native.SetVertexBuffer, s.native.SetVertexBufferOffset)
	return nil
}

// SetVertexBufferOffset changes the offset of the buffer bound at index.
func (s *Session) SetVertexBufferOffset(offset uint64, index uint32) error {
	return s.rebaseBuffer("set vertex buffer offset", &s.vertexBuffers, offset, index,
		func(offset uint64, index uint32) { s.native.SetVertexBufferOffset(offset, index) })
}

// SetFragmentBuffer binds buffer at offset to fragment buffer slot index.
// When the slot already holds the same buffer at a different offset, only
// the offset is updated.
func (s *Session) SetFragmentBuffer(buffer hal.Buffer, offset uint64, index uint32) error {
	if err := s.checkBuffer("set fragment buffer", buffer, index); err != nil {
		return err
	}
	s.bindBuffer(&s.fragmentBuffers, buffer, offset, index,
		s.native.SetFragmentBuffer, s.native.SetFragmentBufferOffset)
	return nil
}

// SetFragmentBufferOffset changes the offset of the fragment buffer bound
// at index.
func (s *Session) SetFragmentBufferOffset(offset uint64, index uint32) error {
	return s.rebaseBuffer("set fragment buffer offset", &s.fragmentBuffers, offset, index,
		func(offset uint64, index uint32) { s.native.SetFragmentBufferOffset(offset, index) })
}

// SetFragmentTexture binds texture to fragment texture slot index. A nil
// texture unbinds the slot.
func (s *Session) SetFragmentTexture(texture hal.TextureView, index uint32) error {
	if err := s.checkOpen("set fragment texture"); err != nil {
		return err
	}
	if index >= MaxTextureBindings {
		return fmt.Errorf("set fragment texture: %w: %d >= %d", ErrBindingIndexOutOfRange, index, MaxTextureBindings)
	}
	if forward(s, &s.textures[index], texture) {
		s.native.SetFragmentTexture(texture, index)
	}
	return nil
}

// SetFragmentSamplerState binds sampler to fragment sampler slot index. A
// nil sampler unbinds the slot.
func (s *Session) SetFragmentSamplerState(sampler hal.Sampler, index uint32) error {
	if err := s.checkOpen("set fragment sampler state"); err != nil {
		return err
	}
	if index >= MaxSamplerBindings {
		return fmt.Errorf("set fragment sampler state: %w: %d >= %d", ErrBindingIndexOutOfRange, index, MaxSamplerBindings)
	}
	if forward(s, &s.samplers[index], sampler) {
		s.native.SetFragmentSamplerState(sampler, index)
	}
	return nil
}

func (s *Session) checkBuffer(op string, buffer hal.Buffer, index uint32) error {
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if buffer == nil {
		return fmt.Errorf("%s: %w", op, ErrNilBuffer)
	}
	if index >= MaxBufferBindings {
		return fmt.Errorf("%s: %w: %d >= %d", op, ErrBindingIndexOutOfRange, index, MaxBufferBindings)
	}
	return nil
}

func (s *Session) bindBuffer(
	slots *stageBuffers, buffer hal.Buffer, offset uint64, index uint32,
	bind func(hal.Buffer, uint64, uint32), rebase func(uint64, uint32),
) {
	slot := &slots[index]
	prev, bound := slot.get()
	next := bufferBinding{buffer: buffer, offset: offset}

	switch {
	case !s.cacheState:
		bind(buffer, offset, index)
	case bound && prev == next:
		s.stats.Elided++
		return
	case bound && prev.buffer == buffer:
		rebase(offset, index)
	default:
		bind(buffer, offset, index)
	}
	slot.store(next)
	s.stats.StateChanges++
}

func (s *Session) rebaseBuffer(op string, slots *stageBuffers, offset uint64, index uint32, rebase func(uint64, uint32)) error {
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if index >= MaxBufferBindings {
		return fmt.Errorf("%s: %w: %d >= %d", op, ErrBindingIndexOutOfRange, index, MaxBufferBindings)
	}
	prev, bound := slots[index].get()
	if !bound {
		return fmt.Errorf("%s: %w %d", op, ErrNoBufferBound, index)
	}
	if forward(s, &slots[index], bufferBinding{buffer: prev.buffer, offset: offset}) {
		rebase(offset, index)
	}
	return nil
}

// =============================================================================
// Uncached state
// =============================================================================

// SetFrontFacingWinding sets which winding order is front-facing.
func (s *Session) SetFrontFacingWinding(winding gputypes.FrontFace) error {
	if err := s.checkOpen("set front facing winding"); err != nil {
		return err
	}
	s.native.SetFrontFacingWinding(winding)
	s.stats.PassThrough++
	return nil
}

// SetViewport sets the viewport transform.
func (s *Session) SetViewport(viewport Viewport) error {
	if err := s.checkOpen("set viewport"); err != nil {
		return err
	}
	s.native.SetViewport(viewport)
	s.stats.PassThrough++
	return nil
}

// SetStencilReferenceValue sets the stencil reference for both faces.
func (s *Session) SetStencilReferenceValue(ref uint32) error {
	if err := s.checkOpen("set stencil reference value"); err != nil {
		return err
	}
	s.native.SetStencilReferenceValue(ref)
	s.stats.PassThrough++
	return nil
}

// SetStencilFrontBackReferenceValues sets separate stencil references for
// front and back faces.
func (s *Session) SetStencilFrontBackReferenceValues(front, back uint32) error {
	if err := s.checkOpen("set stencil front back reference values"); err != nil {
		return err
	}
	s.native.SetStencilFrontBackReferenceValues(front, back)
	s.stats.PassThrough++
	return nil
}

// SetBlendColor sets the constant blend color.
func (s *Session) SetBlendColor(color gputypes.Color) error {
	if err := s.checkOpen("set blend color"); err != nil {
		return err
	}
	s.native.SetBlendColor(color)
	s.stats.PassThrough++
	return nil
}

// SetVertexBytes copies data inline into vertex buffer slot index. Inline
// data replaces any buffer bound at the slot, so the slot's cached binding
// is cleared.
func (s *Session) SetVertexBytes(data []byte, index uint32) error {
	if err := s.checkOpen("set vertex bytes"); err != nil {
		return err
	}
	if index >= MaxBufferBindings {
		return fmt.Errorf("set vertex bytes: %w: %d >= %d", ErrBindingIndexOutOfRange, index, MaxBufferBindings)
	}
	s.vertexBuffers[index] = cached[bufferBinding]{}
	s.native.SetVertexBytes(data, index)
	s.stats.PassThrough++
	return nil
}

// SetFragmentBytes copies data inline into fragment buffer slot index and
// clears the slot's cached binding.
func (s *Session) SetFragmentBytes(data []byte, index uint32) error {
	if err := s.checkOpen("set fragment bytes"); err != nil {
		return err
	}
	if index >= MaxBufferBindings {
		return fmt.Errorf("set fragment bytes: %w: %d >= %d", ErrBindingIndexOutOfRange, index, MaxBufferBindings)
	}
	s.fragmentBuffers[index] = cached[bufferBinding]{}
	s.native.SetFragmentBytes(data, index)
	s.stats.PassThrough++
	return nil
}
