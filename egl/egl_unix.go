// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

package egl

/*
#cgo linux LDFLAGS: -lEGL
#cgo freebsd CFLAGS: -I/usr/local/include
#cgo freebsd LDFLAGS: -L/usr/local/lib -lEGL
#cgo CFLAGS: -DEGL_NO_X11

#include <stdint.h>
#include <stdlib.h>
#include <EGL/egl.h>
#include <EGL/eglext.h>

typedef unsigned int glctx_GLenum;
typedef int glctx_GLint;

static EGLDisplay glctx_eglGetDisplay(uintptr_t disp) {
	return eglGetDisplay((EGLNativeDisplayType)disp);
}

static EGLBoolean glctx_eglQueryDisplayAttribEXT(uintptr_t f, EGLDisplay disp, EGLint attr, EGLAttrib *val) {
	return ((EGLBoolean (*)(EGLDisplay, EGLint, EGLAttrib *))f)(disp, attr, val);
}

static EGLBoolean glctx_eglQueryDeviceAttribEXT(uintptr_t f, EGLAttrib dev, EGLint attr, EGLAttrib *val) {
	return ((EGLBoolean (*)(void *, EGLint, EGLAttrib *))f)((void *)dev, attr, val);
}

static const char *glctx_glGetString(uintptr_t f, glctx_GLenum name) {
	return (const char *)((const unsigned char *(*)(glctx_GLenum))f)(name);
}

static glctx_GLint glctx_glGetIntegerv(uintptr_t f, glctx_GLenum name) {
	glctx_GLint v = 0;
	((void (*)(glctx_GLenum, glctx_GLint *))f)(name, &v);
	return v;
}
*/
import "C"

import (
	"unsafe"

	"gioui.org/glctx"
)

// loadEGL is a no-op; libEGL is linked.
func loadEGL() error {
	return nil
}

func toDisplay(d glctx.NativeDisplay) C.EGLDisplay { return C.EGLDisplay(unsafe.Pointer(uintptr(d))) }
func toConfig(c glctx.NativeConfig) C.EGLConfig    { return C.EGLConfig(unsafe.Pointer(uintptr(c))) }
func toContext(c glctx.NativeContext) C.EGLContext { return C.EGLContext(unsafe.Pointer(uintptr(c))) }
func toSurface(s glctx.NativeSurface) C.EGLSurface { return C.EGLSurface(unsafe.Pointer(uintptr(s))) }

func attribList(attribs []int32) *C.EGLint {
	if len(attribs) == 0 {
		return nil
	}
	return (*C.EGLint)(unsafe.Pointer(&attribs[0]))
}

func eglGetDisplay(disp uintptr) glctx.NativeDisplay {
	return glctx.NativeDisplay(uintptr(unsafe.Pointer(C.glctx_eglGetDisplay(C.uintptr_t(disp)))))
}

func eglInitialize(disp glctx.NativeDisplay) (int32, int32, bool) {
	var maj, min C.EGLint
	ret := C.eglInitialize(toDisplay(disp), &maj, &min)
	return int32(maj), int32(min), ret == C.EGL_TRUE
}

func eglTerminate(disp glctx.NativeDisplay) bool {
	return C.eglTerminate(toDisplay(disp)) == C.EGL_TRUE
}

func eglQueryString(disp glctx.NativeDisplay, name int32) string {
	return C.GoString(C.eglQueryString(toDisplay(disp), C.EGLint(name)))
}

func eglBindAPI(api uint32) bool {
	return C.eglBindAPI(C.EGLenum(api)) == C.EGL_TRUE
}

func eglChooseConfig(disp glctx.NativeDisplay, attribs []int32) (glctx.NativeConfig, int32, bool) {
	var cfg C.EGLConfig
	var ncfg C.EGLint
	ret := C.eglChooseConfig(toDisplay(disp), attribList(attribs), &cfg, 1, &ncfg)
	return glctx.NativeConfig(uintptr(unsafe.Pointer(cfg))), int32(ncfg), ret == C.EGL_TRUE
}

func eglGetConfigAttrib(disp glctx.NativeDisplay, cfg glctx.NativeConfig, attr int32) (int32, bool) {
	var val C.EGLint
	ret := C.eglGetConfigAttrib(toDisplay(disp), toConfig(cfg), C.EGLint(attr), &val)
	return int32(val), ret == C.EGL_TRUE
}

func eglCreateContext(disp glctx.NativeDisplay, cfg glctx.NativeConfig, share glctx.NativeContext, attribs []int32) glctx.NativeContext {
	ctx := C.eglCreateContext(toDisplay(disp), toConfig(cfg), toContext(share), attribList(attribs))
	return glctx.NativeContext(uintptr(unsafe.Pointer(ctx)))
}

func eglDestroyContext(disp glctx.NativeDisplay, ctx glctx.NativeContext) bool {
	return C.eglDestroyContext(toDisplay(disp), toContext(ctx)) == C.EGL_TRUE
}

func eglMakeCurrent(disp glctx.NativeDisplay, draw, read glctx.NativeSurface, ctx glctx.NativeContext) bool {
	return C.eglMakeCurrent(toDisplay(disp), toSurface(draw), toSurface(read), toContext(ctx)) == C.EGL_TRUE
}

func eglQueryContext(disp glctx.NativeDisplay, ctx glctx.NativeContext, attr int32) (int32, bool) {
	var val C.EGLint
	ret := C.eglQueryContext(toDisplay(disp), toContext(ctx), C.EGLint(attr), &val)
	return int32(val), ret == C.EGL_TRUE
}

func eglGetCurrentContext() glctx.NativeContext {
	return glctx.NativeContext(uintptr(unsafe.Pointer(C.eglGetCurrentContext())))
}

func eglGetCurrentDisplay() glctx.NativeDisplay {
	return glctx.NativeDisplay(uintptr(unsafe.Pointer(C.eglGetCurrentDisplay())))
}

func eglGetCurrentSurface(which int32) glctx.NativeSurface {
	return glctx.NativeSurface(uintptr(unsafe.Pointer(C.eglGetCurrentSurface(C.EGLint(which)))))
}

func eglCreatePbufferSurface(disp glctx.NativeDisplay, cfg glctx.NativeConfig, attribs []int32) glctx.NativeSurface {
	surf := C.eglCreatePbufferSurface(toDisplay(disp), toConfig(cfg), attribList(attribs))
	return glctx.NativeSurface(uintptr(unsafe.Pointer(surf)))
}

func eglDestroySurface(disp glctx.NativeDisplay, surf glctx.NativeSurface) bool {
	return C.eglDestroySurface(toDisplay(disp), toSurface(surf)) == C.EGL_TRUE
}

func eglGetProcAddress(name string) uintptr {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return uintptr(unsafe.Pointer(C.eglGetProcAddress(cname)))
}

func eglGetError() int32 {
	return int32(C.eglGetError())
}

func eglQueryDisplayAttribEXT(disp glctx.NativeDisplay, attr int32) (uintptr, bool) {
	f := eglGetProcAddress("eglQueryDisplayAttribEXT")
	if f == 0 {
		return 0, false
	}
	var val C.EGLAttrib
	ret := C.glctx_eglQueryDisplayAttribEXT(C.uintptr_t(f), toDisplay(disp), C.EGLint(attr), &val)
	return uintptr(val), ret == C.EGL_TRUE
}

func eglQueryDeviceAttribEXT(dev uintptr, attr int32) (uintptr, bool) {
	f := eglGetProcAddress("eglQueryDeviceAttribEXT")
	if f == 0 {
		return 0, false
	}
	var val C.EGLAttrib
	ret := C.glctx_eglQueryDeviceAttribEXT(C.uintptr_t(f), C.EGLAttrib(dev), C.EGLint(attr), &val)
	return uintptr(val), ret == C.EGL_TRUE
}

func glGetString(f uintptr, name uint32) string {
	return C.GoString(C.glctx_glGetString(C.uintptr_t(f), C.glctx_GLenum(name)))
}

func glGetInteger(f uintptr, name uint32) int {
	return int(C.glctx_glGetIntegerv(C.uintptr_t(f), C.glctx_GLenum(name)))
}
