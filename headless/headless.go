// SPDX-License-Identifier: Unlicense OR MIT

// Package headless implements offscreen GL contexts: a context with a
// surface of its own, activated only for the duration of Do.
package headless

import (
	"errors"
	"image"
	"runtime"

	"gioui.org/glctx"
)

// Context is an offscreen context.
type Context struct {
	size image.Point
	dev  *glctx.Device
	ctx  *glctx.Context
}

// Surfaces creates the offscreen surface of a context. egl.Pbuffers is
// an implementation.
type Surfaces interface {
	Create(c *glctx.Context, size image.Point) (*glctx.Surface, error)
}

// Flavors are tried in order until a context is created.
var Flavors = []glctx.Flavor{
	{API: glctx.GL, Version: glctx.Version{Major: 3, Minor: 0}},
	{API: glctx.GLES, Version: glctx.Version{Major: 3, Minor: 0}},
	{API: glctx.GLES, Version: glctx.Version{Major: 2, Minor: 0}},
}

func newContext(dev *glctx.Device, flavors []glctx.Flavor, flags glctx.ContextAttributeFlags) (*glctx.Context, error) {
	var firstErr error
	for _, f := range flavors {
		c, err := dev.CreateContext(glctx.ContextAttributes{Flavor: f, Flags: flags})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return c, nil
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, errors.New("headless: no GL flavors to try")
}

// NewContext creates an offscreen context of the given size on dev,
// trying each of Flavors. The context is not current when NewContext
// returns.
func NewContext(dev *glctx.Device, surfaces Surfaces, size image.Point, flags glctx.ContextAttributeFlags) (*Context, error) {
	return newHeadless(dev, surfaces, size, Flavors, flags)
}

// NewContextWithAttributes is like NewContext for a single flavor.
func NewContextWithAttributes(dev *glctx.Device, surfaces Surfaces, size image.Point, attrs glctx.ContextAttributes) (*Context, error) {
	return newHeadless(dev, surfaces, size, []glctx.Flavor{attrs.Flavor}, attrs.Flags)
}

func newHeadless(dev *glctx.Device, surfaces Surfaces, size image.Point, flavors []glctx.Flavor, flags glctx.ContextAttributeFlags) (*Context, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c, err := newContext(dev, flavors, flags)
	if err != nil {
		return nil, err
	}
	surf, err := surfaces.Create(c, size)
	if err != nil {
		dev.DestroyContext(c)
		return nil, err
	}
	if _, err := dev.ReplaceContextColorSurface(c, surf); err != nil {
		dev.DestroyContext(c)
		return nil, err
	}
	if err := dev.MakeContextNotCurrent(c); err != nil {
		dev.DestroyContext(c)
		return nil, err
	}
	return &Context{size: size, dev: dev, ctx: c}, nil
}

// Release destroys the context and its surface.
func (c *Context) Release() error {
	if c.ctx == nil {
		return nil
	}
	err := c.dev.DestroyContext(c.ctx)
	c.ctx = nil
	return err
}

// Size returns the surface size.
func (c *Context) Size() image.Point {
	return c.size
}

func (c *Context) Device() *glctx.Device {
	return c.dev
}

func (c *Context) GLContext() *glctx.Context {
	return c.ctx
}

func (c *Context) Info() glctx.GLInfo {
	return c.dev.ContextInfo(c.ctx)
}

// Do runs f with the context current on a locked thread, and releases
// the context afterwards.
func (c *Context) Do(f func() error) error {
	if c.ctx == nil {
		return glctx.ErrContextDestroyed
	}
	errCh := make(chan error)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := c.dev.MakeContextCurrent(c.ctx); err != nil {
			errCh <- err
			return
		}
		err := f()
		if rerr := c.dev.MakeContextNotCurrent(c.ctx); err == nil {
			err = rerr
		}
		errCh <- err
	}()
	return <-errCh
}
