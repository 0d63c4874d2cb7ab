// SPDX-License-Identifier: Unlicense OR MIT

package glctx

import (
	"errors"
	"fmt"

	"gioui.org/glctx/internal/eglenum"
)

var (
	ErrUnsupportedFlavor    = errors.New("glctx: unsupported GL flavor")
	ErrPixelFormatSelection = errors.New("glctx: pixel format selection failed")
	ErrNoPixelFormatFound   = errors.New("glctx: no pixel format found")
	ErrContextCreation      = errors.New("glctx: context creation failed")
	ErrMakeCurrent          = errors.New("glctx: make current failed")
	ErrExternalRenderTarget = errors.New("glctx: render target is managed externally")
	ErrGLFunctionNotFound   = errors.New("glctx: GL function not found")
	ErrNoCurrentContext     = errors.New("glctx: no current context")
	ErrContextDestroyed     = errors.New("glctx: context is destroyed")
	ErrSurfaceBound         = errors.New("glctx: surface is already bound to a context")
)

// Code is a native backend error enumerant, as returned by eglGetError.
type Code int32

func (c Code) String() string {
	return eglenum.ErrorName(int32(c))
}

// BackendError is a failed backend call. It unwraps to one of the
// package sentinel errors.
type BackendError struct {
	Err  error
	Code Code
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%v: %v (0x%x)", e.Err, e.Code, int32(e.Code))
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// backendError translates the backend's pending error code into err's
// taxonomy.
func backendError(b Backend, err error) error {
	return &BackendError{Err: err, Code: b.GetError()}
}
