// SPDX-License-Identifier: Unlicense OR MIT

package fakeegl

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gioui.org/glctx"
	"gioui.org/glctx/internal/eglenum"
)

// Surfaces is a glctx.SurfaceManager of emulated pbuffer surfaces.
type Surfaces struct {
	b *Backend

	mu        sync.Mutex
	destroyed []glctx.SurfaceID
	failNext  bool
}

// pbuffer is the data of a surface created by Surfaces.
type pbuffer struct {
	native glctx.NativeSurface
}

var errDestroyFailed = errors.New("fakeegl: eglDestroySurface failed")

func NewSurfaces(b *Backend) *Surfaces {
	return &Surfaces{b: b}
}

// NewSurface allocates a pbuffer surface of the given size.
func (s *Surfaces) NewSurface(size image.Point) *glctx.Surface {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	h := glctx.NativeSurface(s.b.alloc())
	s.b.surfaces[h] = true
	return glctx.NewSurface(size, pbuffer{native: h})
}

// Create allocates a pbuffer surface for c, failing like
// eglCreatePbufferSurface for destroyed contexts and empty sizes.
func (s *Surfaces) Create(c *glctx.Context, size image.Point) (*glctx.Surface, error) {
	if c.Destroyed() {
		return nil, glctx.ErrContextDestroyed
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("fakeegl: eglCreatePbufferSurface failed: %v", glctx.Code(eglenum.BAD_PARAMETER))
	}
	return s.NewSurface(size), nil
}

// FailNextDestroy makes the next DestroySurface fail, after releasing
// the surface.
func (s *Surfaces) FailNextDestroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = true
}

// Destroyed returns the surfaces destroyed so far, in order.
func (s *Surfaces) Destroyed() []glctx.SurfaceID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]glctx.SurfaceID(nil), s.destroyed...)
}

func (s *Surfaces) LookupSurface(surf *glctx.Surface) glctx.NativeSurface {
	pb, ok := surf.Data().(pbuffer)
	if !ok {
		return 0
	}
	return pb.native
}

func (s *Surfaces) DestroySurface(c *glctx.Context, surf *glctx.Surface) error {
	native := s.LookupSurface(surf)
	s.b.mu.Lock()
	delete(s.b.surfaces, native)
	s.b.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = append(s.destroyed, surf.ID())
	if s.failNext {
		s.failNext = false
		return errDestroyFailed
	}
	return nil
}
