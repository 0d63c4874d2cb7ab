// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"gioui.org/glctx"
)

var (
	libEGL                   = windows.DLL{}
	libGLESv2                = windows.DLL{}
	_eglBindAPI              *windows.Proc
	_eglChooseConfig         *windows.Proc
	_eglCreateContext        *windows.Proc
	_eglCreatePbufferSurface *windows.Proc
	_eglDestroyContext       *windows.Proc
	_eglDestroySurface       *windows.Proc
	_eglGetConfigAttrib      *windows.Proc
	_eglGetCurrentContext    *windows.Proc
	_eglGetCurrentDisplay    *windows.Proc
	_eglGetCurrentSurface    *windows.Proc
	_eglGetDisplay           *windows.Proc
	_eglGetError             *windows.Proc
	_eglGetProcAddress       *windows.Proc
	_eglInitialize           *windows.Proc
	_eglMakeCurrent          *windows.Proc
	_eglQueryContext         *windows.Proc
	_eglQueryString          *windows.Proc
	_eglTerminate            *windows.Proc
)

var (
	loadOnce sync.Once
	loadErr  error
)

func loadEGL() error {
	loadOnce.Do(func() {
		loadErr = loadDLLs()
	})
	return loadErr
}

func loadDLLs() error {
	if err := loadDLL(&libEGL, "libEGL.dll"); err != nil {
		return err
	}
	// ANGLE resolves core GL entry points from libGLESv2.dll, which must be
	// loaded for eglGetProcAddress to find them.
	if err := loadDLL(&libGLESv2, "libGLESv2.dll"); err != nil {
		return err
	}

	procs := map[string]**windows.Proc{
		"eglBindAPI":              &_eglBindAPI,
		"eglChooseConfig":         &_eglChooseConfig,
		"eglCreateContext":        &_eglCreateContext,
		"eglCreatePbufferSurface": &_eglCreatePbufferSurface,
		"eglDestroyContext":       &_eglDestroyContext,
		"eglDestroySurface":       &_eglDestroySurface,
		"eglGetConfigAttrib":      &_eglGetConfigAttrib,
		"eglGetCurrentContext":    &_eglGetCurrentContext,
		"eglGetCurrentDisplay":    &_eglGetCurrentDisplay,
		"eglGetCurrentSurface":    &_eglGetCurrentSurface,
		"eglGetDisplay":           &_eglGetDisplay,
		"eglGetError":             &_eglGetError,
		"eglGetProcAddress":       &_eglGetProcAddress,
		"eglInitialize":           &_eglInitialize,
		"eglMakeCurrent":          &_eglMakeCurrent,
		"eglQueryContext":         &_eglQueryContext,
		"eglQueryString":          &_eglQueryString,
		"eglTerminate":            &_eglTerminate,
	}
	for name, proc := range procs {
		p, err := libEGL.FindProc(name)
		if err != nil {
			return fmt.Errorf("failed to locate %s in %s: %w", name, libEGL.Name, err)
		}
		*proc = p
	}
	return nil
}

func loadDLL(dll *windows.DLL, name string) error {
	handle, err := windows.LoadLibraryEx(name, 0, windows.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS)
	if err != nil {
		return fmt.Errorf("egl: failed to load %s: %v", name, err)
	}
	dll.Handle = handle
	dll.Name = name
	return nil
}

func attribList(attribs []int32) uintptr {
	if len(attribs) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&attribs[0]))
}

func eglBindAPI(api uint32) bool {
	r, _, _ := _eglBindAPI.Call(uintptr(api))
	return r != 0
}

func eglChooseConfig(disp glctx.NativeDisplay, attribs []int32) (glctx.NativeConfig, int32, bool) {
	var cfg glctx.NativeConfig
	var ncfg int32
	r, _, _ := _eglChooseConfig.Call(uintptr(disp), attribList(attribs), uintptr(unsafe.Pointer(&cfg)), 1, uintptr(unsafe.Pointer(&ncfg)))
	issue34474KeepAlive(attribs)
	return cfg, ncfg, r != 0
}

func eglCreateContext(disp glctx.NativeDisplay, cfg glctx.NativeConfig, share glctx.NativeContext, attribs []int32) glctx.NativeContext {
	c, _, _ := _eglCreateContext.Call(uintptr(disp), uintptr(cfg), uintptr(share), attribList(attribs))
	issue34474KeepAlive(attribs)
	return glctx.NativeContext(c)
}

func eglCreatePbufferSurface(disp glctx.NativeDisplay, cfg glctx.NativeConfig, attribs []int32) glctx.NativeSurface {
	s, _, _ := _eglCreatePbufferSurface.Call(uintptr(disp), uintptr(cfg), attribList(attribs))
	issue34474KeepAlive(attribs)
	return glctx.NativeSurface(s)
}

func eglDestroySurface(disp glctx.NativeDisplay, surf glctx.NativeSurface) bool {
	r, _, _ := _eglDestroySurface.Call(uintptr(disp), uintptr(surf))
	return r != 0
}

func eglDestroyContext(disp glctx.NativeDisplay, ctx glctx.NativeContext) bool {
	r, _, _ := _eglDestroyContext.Call(uintptr(disp), uintptr(ctx))
	return r != 0
}

func eglGetConfigAttrib(disp glctx.NativeDisplay, cfg glctx.NativeConfig, attr int32) (int32, bool) {
	var val int32
	r, _, _ := _eglGetConfigAttrib.Call(uintptr(disp), uintptr(cfg), uintptr(attr), uintptr(unsafe.Pointer(&val)))
	return val, r != 0
}

func eglGetCurrentContext() glctx.NativeContext {
	c, _, _ := _eglGetCurrentContext.Call()
	return glctx.NativeContext(c)
}

func eglGetCurrentDisplay() glctx.NativeDisplay {
	d, _, _ := _eglGetCurrentDisplay.Call()
	return glctx.NativeDisplay(d)
}

func eglGetCurrentSurface(which int32) glctx.NativeSurface {
	s, _, _ := _eglGetCurrentSurface.Call(uintptr(which))
	return glctx.NativeSurface(s)
}

func eglGetDisplay(disp uintptr) glctx.NativeDisplay {
	d, _, _ := _eglGetDisplay.Call(disp)
	return glctx.NativeDisplay(d)
}

func eglGetError() int32 {
	e, _, _ := _eglGetError.Call()
	return int32(e)
}

func eglGetProcAddress(name string) uintptr {
	cname, err := windows.BytePtrFromString(name)
	if err != nil {
		return 0
	}
	p, _, _ := _eglGetProcAddress.Call(uintptr(unsafe.Pointer(cname)))
	issue34474KeepAlive(cname)
	return p
}

func eglInitialize(disp glctx.NativeDisplay) (int32, int32, bool) {
	var maj, min int32
	r, _, _ := _eglInitialize.Call(uintptr(disp), uintptr(unsafe.Pointer(&maj)), uintptr(unsafe.Pointer(&min)))
	return maj, min, r != 0
}

func eglMakeCurrent(disp glctx.NativeDisplay, draw, read glctx.NativeSurface, ctx glctx.NativeContext) bool {
	r, _, _ := _eglMakeCurrent.Call(uintptr(disp), uintptr(draw), uintptr(read), uintptr(ctx))
	return r != 0
}

func eglQueryContext(disp glctx.NativeDisplay, ctx glctx.NativeContext, attr int32) (int32, bool) {
	var val int32
	r, _, _ := _eglQueryContext.Call(uintptr(disp), uintptr(ctx), uintptr(attr), uintptr(unsafe.Pointer(&val)))
	return val, r != 0
}

func eglTerminate(disp glctx.NativeDisplay) bool {
	r, _, _ := _eglTerminate.Call(uintptr(disp))
	return r != 0
}

func eglQueryString(disp glctx.NativeDisplay, name int32) string {
	r, _, _ := _eglQueryString.Call(uintptr(disp), uintptr(name))
	return windows.BytePtrToString((*byte)(unsafe.Pointer(r)))
}

// eglQueryDisplayAttribEXT and eglQueryDeviceAttribEXT are extension
// entry points, resolved through eglGetProcAddress.
func eglQueryDisplayAttribEXT(disp glctx.NativeDisplay, attr int32) (uintptr, bool) {
	f := eglGetProcAddress("eglQueryDisplayAttribEXT")
	if f == 0 {
		return 0, false
	}
	var val uintptr
	r, _, _ := syscall.SyscallN(f, uintptr(disp), uintptr(attr), uintptr(unsafe.Pointer(&val)))
	return val, r != 0
}

func eglQueryDeviceAttribEXT(dev uintptr, attr int32) (uintptr, bool) {
	f := eglGetProcAddress("eglQueryDeviceAttribEXT")
	if f == 0 {
		return 0, false
	}
	var val uintptr
	r, _, _ := syscall.SyscallN(f, dev, uintptr(attr), uintptr(unsafe.Pointer(&val)))
	return val, r != 0
}

func glGetString(f uintptr, name uint32) string {
	r, _, _ := syscall.SyscallN(f, uintptr(name))
	return windows.BytePtrToString((*byte)(unsafe.Pointer(r)))
}

func glGetInteger(f uintptr, name uint32) int {
	var val int32
	syscall.SyscallN(f, uintptr(name), uintptr(unsafe.Pointer(&val)))
	return int(val)
}

// issue34474KeepAlive calls runtime.KeepAlive as a
// workaround for golang.org/issue/34474.
func issue34474KeepAlive(v any) {
	runtime.KeepAlive(v)
}
