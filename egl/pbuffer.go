// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd || windows

package egl

import (
	"fmt"
	"image"

	"gioui.org/glctx"
	"gioui.org/glctx/internal/eglenum"
)

// Pbuffers creates offscreen pbuffer surfaces and is the
// glctx.SurfaceManager of devices opened by this package.
type Pbuffers struct {
	b *Backend
}

type pbuffer struct {
	surf glctx.NativeSurface
}

// Create allocates a pbuffer compatible with the config of c.
func (p *Pbuffers) Create(c *glctx.Context, size image.Point) (*glctx.Surface, error) {
	if c.Destroyed() {
		return nil, glctx.ErrContextDestroyed
	}
	id, ok := eglQueryContext(p.b.disp, c.Handle(), eglenum.CONFIG_ID)
	if !ok {
		return nil, fmt.Errorf("egl: eglQueryContext(EGL_CONFIG_ID) failed: 0x%x", eglGetError())
	}
	cfg, n, ok := eglChooseConfig(p.b.disp, []int32{eglenum.CONFIG_ID, id, eglenum.NONE})
	if !ok || n == 0 {
		return nil, fmt.Errorf("egl: no config with ID %d: 0x%x", id, eglGetError())
	}
	surf := eglCreatePbufferSurface(p.b.disp, cfg, []int32{
		eglenum.WIDTH, int32(size.X),
		eglenum.HEIGHT, int32(size.Y),
		eglenum.NONE,
	})
	if surf == 0 {
		return nil, fmt.Errorf("egl: eglCreatePbufferSurface failed: 0x%x", eglGetError())
	}
	return glctx.NewSurface(size, pbuffer{surf: surf}), nil
}

func (p *Pbuffers) LookupSurface(s *glctx.Surface) glctx.NativeSurface {
	pb, _ := s.Data().(pbuffer)
	return pb.surf
}

func (p *Pbuffers) DestroySurface(c *glctx.Context, s *glctx.Surface) error {
	pb, ok := s.Data().(pbuffer)
	if !ok {
		return fmt.Errorf("egl: surface %d is not a pbuffer", s.ID())
	}
	// A current surface is only released when it stops being current.
	if eglGetCurrentSurface(eglenum.DRAW) == pb.surf {
		eglMakeCurrent(p.b.disp, 0, 0, 0)
	}
	if !eglDestroySurface(p.b.disp, pb.surf) {
		return fmt.Errorf("egl: eglDestroySurface failed: 0x%x", eglGetError())
	}
	return nil
}
