// SPDX-License-Identifier: Unlicense OR MIT

// Package fakeegl emulates an EGL display in memory. It implements
// glctx.Backend, glctx.Capabilities and, through Surfaces,
// glctx.SurfaceManager.
//
// The current context is tracked per OS thread, like EGL, so callers
// must lock their goroutine to its thread while a context is current.
package fakeegl

import (
	"sort"
	"strconv"
	"sync"

	"gioui.org/glctx"
	"gioui.org/glctx/internal/eglenum"
	"gioui.org/glctx/internal/gl"
)

// Config is an emulated EGL config.
type Config struct {
	ID          int32
	Renderable  int32
	SurfaceType int32
	Red         int32
	Green       int32
	Blue        int32
	Alpha       int32
	Depth       int32
	Stencil     int32
}

type context struct {
	cfg     Config
	api     glctx.API
	version int32
}

type binding struct {
	draw, read glctx.NativeSurface
	ctx        glctx.NativeContext
}

// Backend is an emulated EGL display.
type Backend struct {
	mu         sync.Mutex
	apis       map[glctx.API]bool
	display    glctx.NativeDisplay
	configs    []Config
	bound      map[int]glctx.API
	contexts   map[glctx.NativeContext]*context
	surfaces   map[glctx.NativeSurface]bool
	current    map[int]binding
	errs       map[int]glctx.Code
	calls      map[string]int
	failures   map[string]glctx.Code
	next       uintptr
	terminated bool
}

// Functions reported missing by GetProcAddress.
var missingFunctions = map[string]bool{
	"glGetStringi": true,
}

const (
	Vendor         = "glctx"
	Renderer       = "fakeegl"
	MaxTextureSize = 8192
)

// New returns a display supporting apis, or every API if none are
// given. It offers one config per combination of alpha, depth and
// stencil buffers.
func New(apis ...glctx.API) *Backend {
	if len(apis) == 0 {
		apis = []glctx.API{glctx.GL, glctx.GLES}
	}
	b := &Backend{
		apis:     make(map[glctx.API]bool),
		contexts: make(map[glctx.NativeContext]*context),
		surfaces: make(map[glctx.NativeSurface]bool),
		current:  make(map[int]binding),
		bound:    make(map[int]glctx.API),
		errs:     make(map[int]glctx.Code),
		calls:    make(map[string]int),
		failures: make(map[string]glctx.Code),
		next:     0x1000,
	}
	for _, api := range apis {
		b.apis[api] = true
	}
	b.display = glctx.NativeDisplay(b.alloc())
	id := int32(1)
	for _, alpha := range []int32{0, 8} {
		for _, depth := range []int32{0, 24} {
			for _, stencil := range []int32{0, 8} {
				b.configs = append(b.configs, Config{
					ID:          id,
					Renderable:  eglenum.OPENGL_BIT | eglenum.OPENGL_ES2_BIT,
					SurfaceType: eglenum.PBUFFER_BIT | eglenum.WINDOW_BIT,
					Red:         8,
					Green:       8,
					Blue:        8,
					Alpha:       alpha,
					Depth:       depth,
					Stencil:     stencil,
				})
				id++
			}
		}
	}
	return b
}

// SetConfigs replaces the configs offered by ChooseConfig.
func (b *Backend) SetConfigs(cfgs []Config) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.configs = append([]Config(nil), cfgs...)
}

// FailNext makes the next call of the named method, such as
// "MakeCurrent", fail with code.
func (b *Backend) FailNext(method string, code glctx.Code) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method] = code
}

// Calls returns the number of calls made to the named method, or to
// every method if name is empty.
func (b *Backend) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if method != "" {
		return b.calls[method]
	}
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// Contexts returns the live native contexts, in creation order.
func (b *Backend) Contexts() []glctx.NativeContext {
	b.mu.Lock()
	defer b.mu.Unlock()
	var ctxs []glctx.NativeContext
	for h := range b.contexts {
		ctxs = append(ctxs, h)
	}
	sort.Slice(ctxs, func(i, j int) bool { return ctxs[i] < ctxs[j] })
	return ctxs
}

// Terminated reports whether Terminate was called.
func (b *Backend) Terminated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.terminated
}

// HostContext creates a context outside of glctx, as a windowing library
// would, and makes it current on the calling thread with a window
// surface. It returns the context and the surface.
func (b *Backend) HostContext(api glctx.API, major int32, cfg Config) (glctx.NativeContext, glctx.NativeSurface) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cfg.ID == 0 {
		cfg.ID = int32(len(b.configs) + 1)
	}
	b.configs = append(b.configs, cfg)
	h := glctx.NativeContext(b.alloc())
	b.contexts[h] = &context{cfg: cfg, api: api, version: major}
	s := glctx.NativeSurface(b.alloc())
	b.surfaces[s] = true
	b.current[threadID()] = binding{draw: s, read: s, ctx: h}
	return h, s
}

// ReleaseHostContext clears the calling thread's binding and destroys a
// context made by HostContext, with its surface.
func (b *Backend) ReleaseHostContext(h glctx.NativeContext, s glctx.NativeSurface) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.current, threadID())
	delete(b.contexts, h)
	delete(b.surfaces, s)
}

func (b *Backend) alloc() uintptr {
	b.next += 0x10
	return b.next
}

// call records a call of method and reports whether it should fail.
// The caller holds b.mu.
func (b *Backend) call(method string) bool {
	b.calls[method]++
	tid := threadID()
	if code, ok := b.failures[method]; ok {
		delete(b.failures, method)
		b.errs[tid] = code
		return false
	}
	return true
}

func (b *Backend) fail(code glctx.Code) {
	b.errs[threadID()] = code
}

func (b *Backend) Display() glctx.NativeDisplay {
	return b.display
}

func (b *Backend) SupportsAPI(api glctx.API) bool {
	return b.apis[api]
}

func (b *Backend) BindAPI(api glctx.API) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.call("BindAPI") {
		return false
	}
	if !b.apis[api] {
		b.fail(eglenum.BAD_PARAMETER)
		return false
	}
	b.bound[threadID()] = api
	return true
}

func (b *Backend) ChooseConfig(attribs []int32) (glctx.NativeConfig, int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.call("ChooseConfig") {
		return 0, 0, false
	}
	want, ok := parseAttribs(attribs)
	if !ok {
		b.fail(eglenum.BAD_ATTRIBUTE)
		return 0, 0, false
	}
	var matches []Config
	for _, c := range b.configs {
		if want.match(c) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return 0, 0, true
	}
	// Prefer the config with the fewest extra bits.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].extraBits() < matches[j].extraBits()
	})
	return glctx.NativeConfig(matches[0].ID), len(matches), true
}

func (b *Backend) config(cfg glctx.NativeConfig) (Config, bool) {
	for _, c := range b.configs {
		if c.ID == int32(cfg) {
			return c, true
		}
	}
	return Config{}, false
}

func (b *Backend) GetConfigAttrib(cfg glctx.NativeConfig, attrib int32) (int32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.call("GetConfigAttrib") {
		return 0, false
	}
	c, ok := b.config(cfg)
	if !ok {
		b.fail(eglenum.BAD_CONFIG)
		return 0, false
	}
	switch attrib {
	case eglenum.CONFIG_ID:
		return c.ID, true
	case eglenum.RED_SIZE:
		return c.Red, true
	case eglenum.GREEN_SIZE:
		return c.Green, true
	case eglenum.BLUE_SIZE:
		return c.Blue, true
	case eglenum.ALPHA_SIZE:
		return c.Alpha, true
	case eglenum.DEPTH_SIZE:
		return c.Depth, true
	case eglenum.STENCIL_SIZE:
		return c.Stencil, true
	case eglenum.RENDERABLE_TYPE:
		return c.Renderable, true
	case eglenum.SURFACE_TYPE:
		return c.SurfaceType, true
	}
	b.fail(eglenum.BAD_ATTRIBUTE)
	return 0, false
}

func (b *Backend) CreateContext(cfg glctx.NativeConfig, share glctx.NativeContext, attribs []int32) glctx.NativeContext {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.call("CreateContext") {
		return 0
	}
	c, ok := b.config(cfg)
	if !ok {
		b.fail(eglenum.BAD_CONFIG)
		return 0
	}
	if share != 0 && b.contexts[share] == nil {
		b.fail(eglenum.BAD_CONTEXT)
		return 0
	}
	version := int32(1)
	for i := 0; i+1 < len(attribs) && attribs[i] != eglenum.NONE; i += 2 {
		if attribs[i] == eglenum.CONTEXT_CLIENT_VERSION {
			version = attribs[i+1]
		}
	}
	api, ok := b.bound[threadID()]
	if !ok {
		api = glctx.GLES
	}
	h := glctx.NativeContext(b.alloc())
	b.contexts[h] = &context{cfg: c, api: api, version: version}
	return h
}

func (b *Backend) MakeCurrent(draw, read glctx.NativeSurface, ctx glctx.NativeContext) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.call("MakeCurrent") {
		return false
	}
	tid := threadID()
	if ctx == 0 {
		if draw != 0 || read != 0 {
			b.fail(eglenum.BAD_MATCH)
			return false
		}
		delete(b.current, tid)
		return true
	}
	if b.contexts[ctx] == nil {
		b.fail(eglenum.BAD_CONTEXT)
		return false
	}
	for _, s := range []glctx.NativeSurface{draw, read} {
		if s != 0 && !b.surfaces[s] {
			b.fail(eglenum.BAD_SURFACE)
			return false
		}
	}
	for t, cur := range b.current {
		if t != tid && cur.ctx == ctx {
			b.fail(eglenum.BAD_ACCESS)
			return false
		}
	}
	b.current[tid] = binding{draw: draw, read: read, ctx: ctx}
	return true
}

func (b *Backend) DestroyContext(ctx glctx.NativeContext) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.call("DestroyContext") {
		return false
	}
	if b.contexts[ctx] == nil {
		b.fail(eglenum.BAD_CONTEXT)
		return false
	}
	delete(b.contexts, ctx)
	for t, cur := range b.current {
		if cur.ctx == ctx {
			delete(b.current, t)
		}
	}
	return true
}

func (b *Backend) QueryContext(ctx glctx.NativeContext, attrib int32) (int32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.call("QueryContext") {
		return 0, false
	}
	c := b.contexts[ctx]
	if c == nil {
		b.fail(eglenum.BAD_CONTEXT)
		return 0, false
	}
	switch attrib {
	case eglenum.CONTEXT_CLIENT_VERSION:
		return c.version, true
	case eglenum.CONFIG_ID:
		return c.cfg.ID, true
	case eglenum.CONTEXT_CLIENT_TYPE:
		if c.api == glctx.GLES {
			return eglenum.OPENGL_ES_API, true
		}
		return eglenum.OPENGL_API, true
	}
	b.fail(eglenum.BAD_ATTRIBUTE)
	return 0, false
}

func (b *Backend) CurrentContext() glctx.NativeContext {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.call("CurrentContext")
	return b.current[threadID()].ctx
}

func (b *Backend) CurrentDisplay() glctx.NativeDisplay {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.call("CurrentDisplay")
	if _, ok := b.current[threadID()]; !ok {
		return 0
	}
	return b.display
}

func (b *Backend) CurrentSurface(which int32) glctx.NativeSurface {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.call("CurrentSurface")
	cur := b.current[threadID()]
	if which == eglenum.READ {
		return cur.read
	}
	return cur.draw
}

// QueryDevice reports a device pair derived from the display, as ANGLE
// does for its D3D11 device.
func (b *Backend) QueryDevice(disp glctx.NativeDisplay) (uintptr, glctx.NativeDevice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.call("QueryDevice") {
		return 0, 0, false
	}
	if disp != b.display {
		b.fail(eglenum.BAD_DISPLAY)
		return 0, 0, false
	}
	return uintptr(disp) + 1, glctx.NativeDevice(disp) + 2, true
}

// GetProcAddress returns a fake address for the GL functions glctx
// loads, except for those treated as missing.
func (b *Backend) GetProcAddress(name string) uintptr {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.call("GetProcAddress")
	for i, n := range gl.Names {
		if n == name && !missingFunctions[name] {
			return uintptr(0x7f0000 + i*0x10)
		}
	}
	return 0
}

// GetError returns and clears the calling thread's error.
func (b *Backend) GetError() glctx.Code {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["GetError"]++
	tid := threadID()
	code, ok := b.errs[tid]
	if !ok {
		return eglenum.SUCCESS
	}
	delete(b.errs, tid)
	return code
}

func (b *Backend) Terminate() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.call("Terminate") {
		return false
	}
	b.terminated = true
	return true
}

// GLString implements glctx.Capabilities for the current context.
func (b *Backend) GLString(name uint32) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	cur, ok := b.current[threadID()]
	if !ok {
		return ""
	}
	c := b.contexts[cur.ctx]
	if c == nil {
		return ""
	}
	switch name {
	case gl.VENDOR:
		return Vendor
	case gl.RENDERER:
		return Renderer
	case gl.VERSION:
		if c.api == glctx.GLES {
			return "OpenGL ES " + itoa(c.version) + ".0 fakeegl"
		}
		return itoa(c.version) + ".0 fakeegl"
	case gl.SHADING_LANGUAGE_VERSION:
		return "1.00"
	}
	return ""
}

func (b *Backend) GLInteger(name uint32) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.current[threadID()]; !ok {
		return 0
	}
	switch name {
	case gl.MAX_TEXTURE_SIZE, gl.MAX_RENDERBUFFER_SIZE:
		return MaxTextureSize
	}
	return 0
}

// request is a parsed config selection list. Unset sizes are -1.
type request struct {
	id          int32
	renderable  int32
	surfaceType int32
	sizes       map[int32]int32
}

func parseAttribs(attribs []int32) (request, bool) {
	r := request{sizes: make(map[int32]int32)}
	for i := 0; i < len(attribs) && attribs[i] != eglenum.NONE; i += 2 {
		if i+1 >= len(attribs) {
			return r, false
		}
		name, val := attribs[i], attribs[i+1]
		switch name {
		case eglenum.CONFIG_ID:
			r.id = val
		case eglenum.RENDERABLE_TYPE:
			r.renderable = val
		case eglenum.SURFACE_TYPE:
			r.surfaceType = val
		case eglenum.BIND_TO_TEXTURE_RGBA:
		case eglenum.RED_SIZE, eglenum.GREEN_SIZE, eglenum.BLUE_SIZE,
			eglenum.ALPHA_SIZE, eglenum.DEPTH_SIZE, eglenum.STENCIL_SIZE:
			r.sizes[name] = val
		default:
			return r, false
		}
	}
	return r, true
}

// match follows eglChooseConfig: a CONFIG_ID overrides every other
// attribute, bit masks must be contained and sizes are minimums.
func (r request) match(c Config) bool {
	if r.id != 0 {
		return c.ID == r.id
	}
	if c.Renderable&r.renderable != r.renderable || c.SurfaceType&r.surfaceType != r.surfaceType {
		return false
	}
	have := map[int32]int32{
		eglenum.RED_SIZE:     c.Red,
		eglenum.GREEN_SIZE:   c.Green,
		eglenum.BLUE_SIZE:    c.Blue,
		eglenum.ALPHA_SIZE:   c.Alpha,
		eglenum.DEPTH_SIZE:   c.Depth,
		eglenum.STENCIL_SIZE: c.Stencil,
	}
	for name, size := range r.sizes {
		if have[name] < size {
			return false
		}
	}
	return true
}

func (c Config) extraBits() int32 {
	return c.Alpha + c.Depth + c.Stencil
}

func itoa(v int32) string {
	return strconv.Itoa(int(v))
}
