// SPDX-License-Identifier: Unlicense OR MIT

package glctx

import (
	"fmt"
	"sync"

	"gioui.org/glctx/internal/eglenum"
	"gioui.org/glctx/internal/gl"
	"gioui.org/glctx/internal/log"
)

// Device is a display connection and the contexts created on it. A
// Device is not safe for concurrent use.
type Device struct {
	backend  Backend
	surfaces SurfaceManager
	display  NativeDisplay
	// ownsDisplay is false for devices built around an adopted context.
	ownsDisplay bool

	eglDevice    uintptr
	nativeDevice NativeDevice

	// bindings maps the surfaces bound to contexts of this device.
	bindings map[SurfaceID]NativeContext

	log log.Logger
}

// creation serializes config selection and context creation across
// the process, and guards the one-time load of the GL function table.
var creation struct {
	sync.Mutex
	loaded bool
}

// NewDevice returns a device for the display of b. The device owns the
// display: Release terminates it. A nil sm binds surfaces whose data is
// a NativeSurface and never destroys them.
func NewDevice(b Backend, sm SurfaceManager) *Device {
	return newDevice(b, b.Display(), sm, true)
}

func newDevice(b Backend, disp NativeDisplay, sm SurfaceManager, owns bool) *Device {
	if sm == nil {
		sm = unmanagedSurfaces{}
	}
	return &Device{
		backend:     b,
		surfaces:    sm,
		display:     disp,
		ownsDisplay: owns,
		bindings:    make(map[SurfaceID]NativeContext),
		log:         log.New("glctx"),
	}
}

// FromCurrentContext wraps the context current on the calling thread,
// together with a Device for its display.
//
// The native context is not retained. Its creator must keep it alive
// for as long as the returned Context is in use. The render target of
// the context is opaque: ContextColorSurface and
// ReplaceContextColorSurface fail with ErrExternalRenderTarget.
func FromCurrentContext(b Backend, sm SurfaceManager) (*Device, *Context, error) {
	creation.Lock()
	defer creation.Unlock()

	disp := b.CurrentDisplay()
	h := b.CurrentContext()
	if disp == 0 || h == 0 {
		return nil, nil, ErrNoCurrentContext
	}
	d := newDevice(b, disp, sm, false)
	if egldev, dev, ok := b.QueryDevice(disp); ok {
		d.eglDevice, d.nativeDevice = egldev, dev
	}

	version, ok := b.QueryContext(h, eglenum.CONTEXT_CLIENT_VERSION)
	if !ok || version <= 0 {
		return nil, nil, backendError(b, ErrNoCurrentContext)
	}
	typ, ok := b.QueryContext(h, eglenum.CONTEXT_CLIENT_TYPE)
	if !ok {
		return nil, nil, backendError(b, ErrNoCurrentContext)
	}
	api := GL
	if typ == eglenum.OPENGL_ES_API {
		api = GLES
	}
	cfgID, ok := b.QueryContext(h, eglenum.CONFIG_ID)
	if !ok {
		return nil, nil, backendError(b, ErrNoCurrentContext)
	}
	cfg, n, ok := b.ChooseConfig([]int32{
		eglenum.CONFIG_ID, cfgID,
		eglenum.NONE, eglenum.NONE,
		0, 0,
	})
	if !ok {
		return nil, nil, backendError(b, ErrPixelFormatSelection)
	}
	if n == 0 || cfg == 0 {
		return nil, nil, ErrNoPixelFormatFound
	}
	var flags ContextAttributeFlags
	for _, a := range []struct {
		flag   ContextAttributeFlags
		attrib int32
	}{
		{FlagAlpha, eglenum.ALPHA_SIZE},
		{FlagDepth, eglenum.DEPTH_SIZE},
		{FlagStencil, eglenum.STENCIL_SIZE},
	} {
		size, ok := b.GetConfigAttrib(cfg, a.attrib)
		if !ok {
			return nil, nil, backendError(b, ErrPixelFormatSelection)
		}
		flags = flags.Set(a.flag, size != 0)
	}
	attrs := ContextAttributes{
		Flavor: Flavor{API: api, Version: Version{Major: int(version)}},
		Flags:  flags,
	}

	c := &Context{
		native: &borrowedContext{ctx: h},
		info:   newGLInfo(attrs),
		color: externalSurface{
			draw: b.CurrentSurface(eglenum.DRAW),
			read: b.CurrentSurface(eglenum.READ),
		},
	}
	d.log.Debugf("adopted current context 0x%x (%v, %v)", uintptr(h), attrs.Flavor, attrs.Flags)
	d.loadFunctions(c)
	c.info.populate(b)
	return d, c, nil
}

// CreateContext creates a context for attrs and leaves it current on the
// calling thread, without a surface.
func (d *Device) CreateContext(attrs ContextAttributes) (*Context, error) {
	b := d.backend
	if !b.SupportsAPI(attrs.Flavor.API) {
		return nil, ErrUnsupportedFlavor
	}

	creation.Lock()
	defer creation.Unlock()

	if !b.BindAPI(attrs.Flavor.API) {
		return nil, backendError(b, ErrContextCreation)
	}
	cfg, n, ok := b.ChooseConfig(attrs.configAttribs())
	if !ok {
		return nil, backendError(b, ErrPixelFormatSelection)
	}
	if n == 0 || cfg == 0 {
		return nil, ErrNoPixelFormatFound
	}
	h := b.CreateContext(cfg, 0, attrs.contextAttribs())
	if h == 0 {
		return nil, backendError(b, ErrContextCreation)
	}
	if !b.MakeCurrent(0, 0, h) {
		err := backendError(b, ErrMakeCurrent)
		if !b.DestroyContext(h) {
			d.log.Errorf("releasing context 0x%x after failed activation: %v", uintptr(h), b.GetError())
		}
		return nil, err
	}

	c := &Context{
		native: &ownedContext{ctx: h},
		info:   newGLInfo(attrs),
		color:  noSurface{},
	}
	d.log.Debugf("created context 0x%x (%v, %v)", uintptr(h), attrs.Flavor, attrs.Flags)
	d.loadFunctions(c)
	c.info.populate(b)
	trackLeak(c)
	return c, nil
}

// loadFunctions resolves the process-wide GL function table through c
// the first time a context is created or adopted. The caller holds
// creation.
func (d *Device) loadFunctions(c *Context) {
	if creation.loaded {
		return
	}
	f := gl.Load(func(name string) uintptr {
		p, _ := d.GetProcAddress(c, name)
		return p
	})
	creation.loaded = true
	if missing := f.Missing(); len(missing) > 0 {
		d.log.Debugf("GL functions not exported by the driver: %v", missing)
	}
}

// GetProcAddress returns the address of the GL or EGL function name.
func (d *Device) GetProcAddress(c *Context, name string) (uintptr, error) {
	if c.native.destroyed() {
		return 0, ErrContextDestroyed
	}
	p := d.backend.GetProcAddress(name)
	if p == 0 {
		return 0, fmt.Errorf("%w: %s", ErrGLFunctionNotFound, name)
	}
	return p, nil
}

func (d *Device) Display() NativeDisplay {
	return d.display
}

// NativeDevice returns the EGL device and the GPU device of the display,
// when the backend exposes them.
func (d *Device) NativeDevice() (eglDevice uintptr, dev NativeDevice) {
	return d.eglDevice, d.nativeDevice
}

// Release terminates the display connection if the device owns it.
// Contexts of d must be destroyed first.
func (d *Device) Release() {
	if !d.ownsDisplay || d.display == 0 {
		return
	}
	if !d.backend.Terminate() {
		d.log.Warningf("eglTerminate failed: %v", d.backend.GetError())
	}
	d.display = 0
}

// unmanagedSurfaces binds surfaces that carry their native handle.
type unmanagedSurfaces struct{}

func (unmanagedSurfaces) LookupSurface(s *Surface) NativeSurface {
	ns, _ := s.Data().(NativeSurface)
	return ns
}

func (unmanagedSurfaces) DestroySurface(c *Context, s *Surface) error {
	return nil
}
