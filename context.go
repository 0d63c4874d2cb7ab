// SPDX-License-Identifier: Unlicense OR MIT

package glctx

import (
	"fmt"
	"runtime"
)

// Context is a native rendering context and its render target. Contexts
// are not safe for concurrent use.
type Context struct {
	native nativeContext
	info   GLInfo
	color  colorSurface
}

// nativeContext is the native context owned or borrowed by a Context.
type nativeContext interface {
	handle() NativeContext
	destroyed() bool
	destroy(d *Device)
}

// ownedContext is a context created by a Device.
type ownedContext struct {
	ctx NativeContext
}

// borrowedContext is a context created outside glctx. Destroying it
// forgets the handle; the creator keeps it alive and releases it.
type borrowedContext struct {
	ctx NativeContext
}

func (o *ownedContext) handle() NativeContext { return o.ctx }
func (o *ownedContext) destroyed() bool       { return o.ctx == 0 }

func (o *ownedContext) destroy(d *Device) {
	if o.destroyed() {
		panic("glctx: context destroyed twice")
	}
	b := d.backend
	b.MakeCurrent(0, 0, 0)
	if !b.DestroyContext(o.ctx) {
		panic(fmt.Sprintf("glctx: eglDestroyContext(0x%x) failed: %v", uintptr(o.ctx), b.GetError()))
	}
	o.ctx = 0
}

func (r *borrowedContext) handle() NativeContext { return r.ctx }
func (r *borrowedContext) destroyed() bool       { return r.ctx == 0 }

func (r *borrowedContext) destroy(d *Device) {
	if r.destroyed() {
		panic("glctx: context destroyed twice")
	}
	if d.backend.CurrentContext() == r.ctx {
		d.log.Warningf("adopted context 0x%x is still current on this thread", uintptr(r.ctx))
	}
	r.ctx = 0
}

// Handle returns the native context, or 0 after destruction.
func (c *Context) Handle() NativeContext {
	return c.native.handle()
}

// Owned reports whether c was created by a Device, as opposed to being
// adopted with FromCurrentContext.
func (c *Context) Owned() bool {
	_, ok := c.native.(*ownedContext)
	return ok
}

func (c *Context) Destroyed() bool {
	return c.native.destroyed()
}

// trackLeak arranges for the program to abort if c is garbage collected
// before DestroyContext releases it.
func trackLeak(c *Context) {
	runtime.SetFinalizer(c, leaked)
}

func leaked(c *Context) {
	if c.native.destroyed() {
		return
	}
	panic(fmt.Sprintf("glctx: context 0x%x was not destroyed; contexts must be destroyed explicitly with Device.DestroyContext", uintptr(c.native.handle())))
}

// DestroyContext releases the managed color surface of c, if any, and
// then the native context. Destroying a destroyed context does nothing.
//
// Contexts adopted with FromCurrentContext are only marked destroyed;
// their native context is left to its creator.
func (d *Device) DestroyContext(c *Context) error {
	if c.native.destroyed() {
		return nil
	}
	var err error
	if cs, ok := c.color.(managedSurface); ok {
		c.color = noSurface{}
		delete(d.bindings, cs.surface.id)
		if serr := d.surfaces.DestroySurface(c, cs.surface); serr != nil {
			err = fmt.Errorf("glctx: destroy surface %d: %w", cs.surface.id, serr)
		}
	}
	h := c.native.handle()
	c.native.destroy(d)
	runtime.SetFinalizer(c, nil)
	d.log.Debugf("destroyed context 0x%x (owned=%v)", uintptr(h), c.Owned())
	return err
}

// MakeContextCurrent binds c and its color surface as the draw and read
// target of the calling thread. On failure the binding is whatever the
// driver left.
func (d *Device) MakeContextCurrent(c *Context) error {
	if c.native.destroyed() {
		return ErrContextDestroyed
	}
	draw, read := d.surfaceTargets(c)
	if !d.backend.MakeCurrent(draw, read, c.native.handle()) {
		return backendError(d.backend, ErrMakeCurrent)
	}
	c.info.populate(d.backend)
	return nil
}

// MakeContextNotCurrent clears the current context and target of the
// calling thread, regardless of which context was current.
func (d *Device) MakeContextNotCurrent(c *Context) error {
	if !d.backend.MakeCurrent(0, 0, 0) {
		return backendError(d.backend, ErrMakeCurrent)
	}
	return nil
}

// ContextInfo returns a copy of the capabilities of c.
func (d *Device) ContextInfo(c *Context) GLInfo {
	return c.info
}

// ContextAttributes returns the attributes c was created or adopted
// with.
func (d *Device) ContextAttributes(c *Context) ContextAttributes {
	return c.info.Attributes
}
