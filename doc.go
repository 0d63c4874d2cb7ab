// SPDX-License-Identifier: Unlicense OR MIT

/*
Package glctx creates, activates and destroys native GPU rendering
contexts and binds them to renderable surfaces.

A Device wraps one display connection of a Backend. Contexts are created
with Device.CreateContext or adopted from the calling thread with
FromCurrentContext, activated with MakeContextCurrent and released with
DestroyContext.

The current context is per OS thread, as in EGL. Callers that activate
contexts from goroutines must lock them to their thread with
runtime.LockOSThread for as long as the context is current.

Contexts created by a Device must be destroyed explicitly. A context
that becomes unreachable without DestroyContext having been called
terminates the program from its finalizer.
*/
package glctx
