// SPDX-License-Identifier: Unlicense OR MIT

package glctx

type (
	NativeDisplay uintptr
	NativeConfig  uintptr
	NativeContext uintptr
	NativeSurface uintptr
	// NativeDevice is the GPU device beneath the display, such as the
	// ID3D11Device of an ANGLE display.
	NativeDevice uintptr
)

// Backend is the set of driver entry points a Device is built on. The
// methods mirror their EGL counterparts: failures are reported by the
// boolean or zero handle result, and the cause by GetError.
//
// Attribute lists are EGL style (name, value) pairs terminated by
// EGL_NONE.
type Backend interface {
	Display() NativeDisplay
	// SupportsAPI reports whether contexts of api can be created.
	// It must not call into the driver.
	SupportsAPI(api API) bool
	BindAPI(api API) bool
	ChooseConfig(attribs []int32) (NativeConfig, int, bool)
	GetConfigAttrib(cfg NativeConfig, attrib int32) (int32, bool)
	CreateContext(cfg NativeConfig, share NativeContext, attribs []int32) NativeContext
	MakeCurrent(draw, read NativeSurface, ctx NativeContext) bool
	DestroyContext(ctx NativeContext) bool
	QueryContext(ctx NativeContext, attrib int32) (int32, bool)
	CurrentContext() NativeContext
	CurrentDisplay() NativeDisplay
	// CurrentSurface returns the surface bound for which, EGL_DRAW or
	// EGL_READ, on the calling thread.
	CurrentSurface(which int32) NativeSurface
	// QueryDevice returns the EGL device of disp and the native GPU
	// device beneath it. ok is false if the display does not expose
	// them.
	QueryDevice(disp NativeDisplay) (eglDevice uintptr, dev NativeDevice, ok bool)
	GetProcAddress(name string) uintptr
	GetError() Code
	Terminate() bool
}

// Capabilities is implemented by backends that can read GL state of the
// current context. The info cache uses it when present.
type Capabilities interface {
	GLString(name uint32) string
	GLInteger(name uint32) int
}

// SurfaceManager owns the surfaces bound to contexts.
type SurfaceManager interface {
	// LookupSurface returns the native surface to activate for s.
	LookupSurface(s *Surface) NativeSurface
	DestroySurface(c *Context, s *Surface) error
}
