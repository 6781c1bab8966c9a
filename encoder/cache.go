package encoder

import (
	"github.com/gogpu/wgpu/hal"
)

// cached holds the last value forwarded for one piece of encoder state.
// The zero value is unset, which is distinct from every value of T,
// including the zero value and nil handles.
type cached[T comparable] struct {
	set   bool
	value T
}

// update caches v and reports whether it differs from the cached value.
// An unset slot always reports a change.
func (c *cached[T]) update(v T) bool {
	if c.set && c.value == v {
		return false
	}
	c.set = true
	c.value = v
	return true
}

// store caches v unconditionally.
func (c *cached[T]) store(v T) {
	c.set = true
	c.value = v
}

// get returns the cached value and whether the slot is set.
func (c *cached[T]) get() (T, bool) {
	return c.value, c.set
}

// bufferBinding is a buffer bound at an offset.
type bufferBinding struct {
	buffer hal.Buffer
	offset uint64
}

// stageBuffers caches the buffer bindings of one shader stage.
type stageBuffers [MaxBufferBindings]cached[bufferBinding]
