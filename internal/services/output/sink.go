// Package output provides frame sinks that carry rendered pixel data to
// physical LED hardware or network receivers.
package output

import (
	"sync"

	"github.com/lightwaveos/lightwave-go/internal/render"
)

// NullSink discards every frame. Used when no output hardware is configured,
// e.g. during development on a machine without an LED controller attached.
type NullSink struct{}

func (NullSink) Show(render.Buffer) error { return nil }

func (NullSink) Close() error { return nil }

// CaptureSink retains a copy of the most recent frame. The preview stream and
// tests read from it without touching the render loop's own buffers.
type CaptureSink struct {
	mu     sync.Mutex
	last   render.Buffer
	frames uint64
}

// NewCaptureSink creates a capture sink sized for the full fixture.
func NewCaptureSink() *CaptureSink {
	return &CaptureSink{last: render.NewBuffer(render.TotalPixels)}
}

func (c *CaptureSink) Show(frame render.Buffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy(c.last, frame)
	c.frames++
	return nil
}

func (c *CaptureSink) Close() error { return nil }

// Last copies the most recent frame into dst and returns the number of frames
// shown so far. dst must be TotalPixels long.
func (c *CaptureSink) Last(dst render.Buffer) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy(dst, c.last)
	return c.frames
}

// FrameCount returns how many frames the sink has received.
func (c *CaptureSink) FrameCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Tee fans a frame out to multiple sinks. The first error wins but every sink
// still sees the frame.
type Tee []render.Sink

func (t Tee) Show(frame render.Buffer) error {
	var firstErr error
	for _, s := range t {
		if err := s.Show(frame); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t Tee) Close() error {
	var firstErr error
	for _, s := range t {
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
