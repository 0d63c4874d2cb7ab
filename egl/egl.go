// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd || windows

// Package egl implements glctx.Backend on the system EGL library: Mesa
// or a vendor driver on Linux and FreeBSD, ANGLE's libEGL.dll on Windows.
package egl

import (
	"fmt"
	"strings"

	"gioui.org/glctx"
	"gioui.org/glctx/internal/eglenum"
	"gioui.org/glctx/internal/gl"
)

// Backend is an initialized EGL display.
type Backend struct {
	disp         glctx.NativeDisplay
	major, minor int32
	exts         []string
	apis         map[glctx.API]bool
}

// NewBackend initializes the default EGL display.
func NewBackend() (*Backend, error) {
	if err := loadEGL(); err != nil {
		return nil, err
	}
	disp := eglGetDisplay(eglenum.DEFAULT_DISPLAY)
	if disp == 0 {
		return nil, fmt.Errorf("egl: eglGetDisplay(EGL_DEFAULT_DISPLAY) failed: 0x%x", eglGetError())
	}
	return initialize(disp)
}

// currentBackend wraps the display of the calling thread's current
// context, which is already initialized.
func currentBackend() (*Backend, error) {
	if err := loadEGL(); err != nil {
		return nil, err
	}
	disp := eglGetCurrentDisplay()
	if disp == 0 {
		return nil, glctx.ErrNoCurrentContext
	}
	return initialize(disp)
}

func initialize(disp glctx.NativeDisplay) (*Backend, error) {
	major, minor, ok := eglInitialize(disp)
	if !ok {
		return nil, fmt.Errorf("egl: eglInitialize failed: 0x%x", eglGetError())
	}
	b := &Backend{
		disp:  disp,
		major: major,
		minor: minor,
		exts:  strings.Fields(eglQueryString(disp, eglenum.EXTENSIONS)),
		apis:  make(map[glctx.API]bool),
	}
	for _, api := range strings.Fields(eglQueryString(disp, eglenum.CLIENT_APIS)) {
		switch api {
		case "OpenGL":
			b.apis[glctx.GL] = true
		case "OpenGL_ES":
			b.apis[glctx.GLES] = true
		}
	}
	return b, nil
}

// OpenDevice opens a glctx.Device on the default display, with pbuffer
// surfaces.
func OpenDevice() (*glctx.Device, *Pbuffers, error) {
	b, err := NewBackend()
	if err != nil {
		return nil, nil, err
	}
	p := &Pbuffers{b: b}
	return glctx.NewDevice(b, p), p, nil
}

// FromCurrentContext adopts the EGL context current on the calling
// thread. See glctx.FromCurrentContext.
func FromCurrentContext() (*glctx.Device, *glctx.Context, error) {
	b, err := currentBackend()
	if err != nil {
		return nil, nil, err
	}
	return glctx.FromCurrentContext(b, &Pbuffers{b: b})
}

// Version returns the EGL version of the display.
func (b *Backend) Version() (major, minor int) {
	return int(b.major), int(b.minor)
}

func (b *Backend) HasExtension(ext string) bool {
	for _, e := range b.exts {
		if ext == e {
			return true
		}
	}
	return false
}

func (b *Backend) Display() glctx.NativeDisplay {
	return b.disp
}

func (b *Backend) SupportsAPI(api glctx.API) bool {
	return b.apis[api]
}

func (b *Backend) BindAPI(api glctx.API) bool {
	if api == glctx.GLES {
		return eglBindAPI(eglenum.OPENGL_ES_API)
	}
	return eglBindAPI(eglenum.OPENGL_API)
}

func (b *Backend) ChooseConfig(attribs []int32) (glctx.NativeConfig, int, bool) {
	cfg, n, ok := eglChooseConfig(b.disp, attribs)
	return cfg, int(n), ok
}

func (b *Backend) GetConfigAttrib(cfg glctx.NativeConfig, attrib int32) (int32, bool) {
	return eglGetConfigAttrib(b.disp, cfg, attrib)
}

func (b *Backend) CreateContext(cfg glctx.NativeConfig, share glctx.NativeContext, attribs []int32) glctx.NativeContext {
	return eglCreateContext(b.disp, cfg, share, attribs)
}

func (b *Backend) MakeCurrent(draw, read glctx.NativeSurface, ctx glctx.NativeContext) bool {
	return eglMakeCurrent(b.disp, draw, read, ctx)
}

func (b *Backend) DestroyContext(ctx glctx.NativeContext) bool {
	return eglDestroyContext(b.disp, ctx)
}

func (b *Backend) QueryContext(ctx glctx.NativeContext, attrib int32) (int32, bool) {
	return eglQueryContext(b.disp, ctx, attrib)
}

func (b *Backend) CurrentContext() glctx.NativeContext {
	return eglGetCurrentContext()
}

func (b *Backend) CurrentDisplay() glctx.NativeDisplay {
	return eglGetCurrentDisplay()
}

func (b *Backend) CurrentSurface(which int32) glctx.NativeSurface {
	return eglGetCurrentSurface(which)
}

// QueryDevice returns the EGL device of disp and, on ANGLE, its
// ID3D11Device.
func (b *Backend) QueryDevice(disp glctx.NativeDisplay) (uintptr, glctx.NativeDevice, bool) {
	if !b.HasExtension(eglenum.EXT_DEVICE_QUERY) {
		return 0, 0, false
	}
	egldev, ok := eglQueryDisplayAttribEXT(disp, eglenum.DEVICE_EXT)
	if !ok || egldev == 0 {
		return 0, 0, false
	}
	dev, ok := eglQueryDeviceAttribEXT(egldev, eglenum.D3D11_DEVICE_ANGLE)
	if !ok {
		dev = 0
	}
	return egldev, glctx.NativeDevice(dev), true
}

func (b *Backend) GetProcAddress(name string) uintptr {
	return eglGetProcAddress(name)
}

func (b *Backend) GetError() glctx.Code {
	return glctx.Code(eglGetError())
}

func (b *Backend) Terminate() bool {
	return eglTerminate(b.disp)
}

// GLString calls glGetString from the process GL function table.
func (b *Backend) GLString(name uint32) string {
	f := gl.Loaded().Lookup("glGetString")
	if f == 0 {
		return ""
	}
	return glGetString(f, name)
}

func (b *Backend) GLInteger(name uint32) int {
	f := gl.Loaded().Lookup("glGetIntegerv")
	if f == 0 {
		return 0
	}
	return glGetInteger(f, name)
}
