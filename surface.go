// SPDX-License-Identifier: Unlicense OR MIT

package glctx

import (
	"image"
	"sync/atomic"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type SurfaceID uint64

// Surface is a renderable target created by a SurfaceManager.
type Surface struct {
	id   SurfaceID
	size image.Point
	data any
}

var lastSurfaceID atomic.Uint64

// NewSurface returns a surface with a process unique ID. It is meant for
// SurfaceManager implementations, which keep their native state in data.
func NewSurface(size image.Point, data any) *Surface {
	return &Surface{
		id:   SurfaceID(lastSurfaceID.Add(1)),
		size: size,
		data: data,
	}
}

func (s *Surface) ID() SurfaceID     { return s.id }
func (s *Surface) Size() image.Point { return s.size }
func (s *Surface) Data() any         { return s.data }

// colorSurface is the render target of a context: noSurface,
// managedSurface or externalSurface.
type colorSurface interface {
	isColorSurface()
}

type noSurface struct{}

type managedSurface struct {
	surface *Surface
}

// externalSurface is a target owned by whoever created an adopted
// context. The surfaces current at adoption are restored on activation.
type externalSurface struct {
	draw, read NativeSurface
}

func (noSurface) isColorSurface()       {}
func (managedSurface) isColorSurface()  {}
func (externalSurface) isColorSurface() {}

// ContextColorSurface returns the managed surface bound to c, or nil if
// there is none.
func (d *Device) ContextColorSurface(c *Context) (*Surface, error) {
	if c.native.destroyed() {
		return nil, ErrContextDestroyed
	}
	switch cs := c.color.(type) {
	case managedSurface:
		return cs.surface, nil
	case externalSurface:
		return nil, ErrExternalRenderTarget
	default:
		return nil, nil
	}
}

// ReplaceContextColorSurface binds s to c and activates c on the calling
// thread. The previously bound surface is returned for the caller to
// destroy through its SurfaceManager; a nil s leaves c without surface.
//
// A surface is bound to at most one context at a time: binding a bound
// surface, even to its own context, fails with ErrSurfaceBound and
// changes nothing.
//
// The swap is kept even if activation fails, in which case both the old
// surface and the error are returned.
func (d *Device) ReplaceContextColorSurface(c *Context, s *Surface) (*Surface, error) {
	if c.native.destroyed() {
		return nil, ErrContextDestroyed
	}
	if _, ok := c.color.(externalSurface); ok {
		return nil, ErrExternalRenderTarget
	}
	if s != nil {
		if _, bound := d.bindings[s.id]; bound {
			return nil, ErrSurfaceBound
		}
	}
	var old *Surface
	if cs, ok := c.color.(managedSurface); ok {
		old = cs.surface
		delete(d.bindings, old.id)
	}
	if s != nil {
		c.color = managedSurface{surface: s}
		d.bindings[s.id] = c.native.handle()
	} else {
		c.color = noSurface{}
	}
	if err := d.MakeContextCurrent(c); err != nil {
		return old, err
	}
	return old, nil
}

// SurfaceContext returns the native context the surface id is bound to.
func (d *Device) SurfaceContext(id SurfaceID) (NativeContext, bool) {
	ctx, ok := d.bindings[id]
	return ctx, ok
}

// BoundSurfaces returns the sorted IDs of the surfaces bound to contexts
// of d.
func (d *Device) BoundSurfaces() []SurfaceID {
	ids := maps.Keys(d.bindings)
	slices.Sort(ids)
	return ids
}

// ContextFramebufferObject returns the framebuffer to render to when c
// is current. Surfaces are bound as the default framebuffer, so it is
// always 0.
func (d *Device) ContextFramebufferObject(c *Context) (uint32, error) {
	if c.native.destroyed() {
		return 0, ErrContextDestroyed
	}
	return 0, nil
}

// surfaceTargets returns the native draw and read surfaces to activate
// with c.
func (d *Device) surfaceTargets(c *Context) (draw, read NativeSurface) {
	switch cs := c.color.(type) {
	case managedSurface:
		s := d.surfaces.LookupSurface(cs.surface)
		return s, s
	case externalSurface:
		return cs.draw, cs.read
	default:
		return 0, 0
	}
}
