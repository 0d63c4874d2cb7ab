// SPDX-License-Identifier: Unlicense OR MIT

package glctx_test

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"gioui.org/glctx"
	"gioui.org/glctx/internal/eglenum"
	"gioui.org/glctx/internal/fakeegl"
	"gioui.org/glctx/internal/gl"
)

var gl3 = glctx.Flavor{API: glctx.GL, Version: glctx.Version{Major: 3}}

// lockThread pins the test goroutine to its thread, which the fake
// backend tracks the current context of.
func lockThread(t *testing.T) {
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
}

func newTestDevice(t *testing.T, apis ...glctx.API) (*glctx.Device, *fakeegl.Backend, *fakeegl.Surfaces) {
	t.Helper()
	lockThread(t)
	b := fakeegl.New(apis...)
	sm := fakeegl.NewSurfaces(b)
	d := glctx.NewDevice(b, sm)
	t.Cleanup(d.Release)
	return d, b, sm
}

func mustCreate(t *testing.T, d *glctx.Device, attrs glctx.ContextAttributes) *glctx.Context {
	t.Helper()
	c, err := d.CreateContext(attrs)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, d.DestroyContext(c))
	})
	return c
}

func TestCreateContextFlags(t *testing.T) {
	d, b, _ := newTestDevice(t)
	all := []glctx.ContextAttributeFlags{glctx.FlagAlpha, glctx.FlagDepth, glctx.FlagStencil}
	for flags := glctx.ContextAttributeFlags(0); flags < 1<<len(all); flags++ {
		t.Run(flags.String(), func(t *testing.T) {
			lockThread(t)
			c, err := d.CreateContext(glctx.ContextAttributes{Flavor: gl3, Flags: flags})
			require.NoError(t, err)
			defer func() { require.NoError(t, d.DestroyContext(c)) }()

			info := d.ContextInfo(c)
			assert.Equal(t, flags.Contains(glctx.FlagAlpha), info.HasAlpha())
			assert.Equal(t, flags.Contains(glctx.FlagDepth), info.HasDepth())
			assert.Equal(t, flags.Contains(glctx.FlagStencil), info.HasStencil())
			assert.Equal(t, gl3, d.ContextAttributes(c).Flavor)
			assert.True(t, c.Owned())
			assert.Equal(t, c.Handle(), b.CurrentContext(), "new context is left current")
		})
	}
}

func TestCreateContextPopulatesInfo(t *testing.T) {
	d, _, _ := newTestDevice(t)
	c := mustCreate(t, d, glctx.ContextAttributes{Flavor: gl3})

	info := d.ContextInfo(c)
	assert.True(t, info.Populated())
	assert.Equal(t, fakeegl.Vendor, info.Vendor)
	assert.Equal(t, fakeegl.Renderer, info.Renderer)
	assert.Equal(t, "3.0 fakeegl", info.Version)
	assert.Equal(t, fakeegl.MaxTextureSize, info.MaxTextureSize)

	info.Vendor = "changed"
	info.Attributes.Flags = glctx.FlagAlpha
	assert.Equal(t, fakeegl.Vendor, d.ContextInfo(c).Vendor, "the info snapshot is a copy")
	assert.False(t, d.ContextInfo(c).HasAlpha())
}

func TestCreateContextUnsupportedFlavor(t *testing.T) {
	d, b, _ := newTestDevice(t, glctx.GL)
	_, err := d.CreateContext(glctx.ContextAttributes{
		Flavor: glctx.Flavor{API: glctx.GLES, Version: glctx.Version{Major: 3}},
		Flags:  glctx.FlagDepth,
	})
	assert.ErrorIs(t, err, glctx.ErrUnsupportedFlavor)
	assert.Zero(t, b.Calls(""), "no native calls before rejecting the flavor")
}

func TestCreateContextFailures(t *testing.T) {
	attrs := glctx.ContextAttributes{Flavor: gl3, Flags: glctx.FlagDepth}
	tests := []struct {
		method string
		want   error
	}{
		{"BindAPI", glctx.ErrContextCreation},
		{"ChooseConfig", glctx.ErrPixelFormatSelection},
		{"CreateContext", glctx.ErrContextCreation},
		{"MakeCurrent", glctx.ErrMakeCurrent},
	}
	for _, test := range tests {
		t.Run(test.method, func(t *testing.T) {
			d, b, _ := newTestDevice(t)
			b.FailNext(test.method, eglenum.BAD_ALLOC)
			c, err := d.CreateContext(attrs)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, test.want)
			var berr *glctx.BackendError
			require.True(t, errors.As(err, &berr))
			assert.Equal(t, glctx.Code(eglenum.BAD_ALLOC), berr.Code)
			assert.Empty(t, b.Contexts(), "partially created context is released")
		})
	}
}

func TestCreateContextNoPixelFormat(t *testing.T) {
	d, b, _ := newTestDevice(t)
	b.SetConfigs([]fakeegl.Config{{ID: 1, Renderable: eglenum.OPENGL_ES2_BIT, Red: 8, Green: 8, Blue: 8}})
	_, err := d.CreateContext(glctx.ContextAttributes{Flavor: gl3})
	assert.ErrorIs(t, err, glctx.ErrNoPixelFormatFound)
	assert.Zero(t, b.Calls("CreateContext"))
}

func TestGLFunctionsLoadedOnce(t *testing.T) {
	const (
		workers  = 8
		contexts = 64
	)
	d, b, _ := newTestDevice(t)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			var created []*glctx.Context
			for i := 0; i < contexts/workers; i++ {
				c, err := d.CreateContext(glctx.ContextAttributes{Flavor: gl3, Flags: glctx.FlagAlpha})
				if err != nil {
					return err
				}
				created = append(created, c)
			}
			for _, c := range created {
				if err := d.DestroyContext(c); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, gl.LoadCount())
	assert.Equal(t, contexts, b.Calls("CreateContext"))
	assert.Empty(t, b.Contexts())

	f := gl.Loaded()
	require.NotNil(t, f)
	assert.NotZero(t, f.Lookup("glGetString"))
	assert.Equal(t, []string{"glGetStringi"}, f.Missing())
}

func TestGetProcAddress(t *testing.T) {
	d, _, _ := newTestDevice(t)
	c := mustCreate(t, d, glctx.ContextAttributes{Flavor: gl3})

	p, err := d.GetProcAddress(c, "glClear")
	require.NoError(t, err)
	assert.NotZero(t, p)

	_, err = d.GetProcAddress(c, "glNotAFunction")
	assert.ErrorIs(t, err, glctx.ErrGLFunctionNotFound)
}

func TestFromCurrentContext(t *testing.T) {
	_, b, _ := newTestDevice(t)
	h, surf := b.HostContext(glctx.GLES, 3, fakeegl.Config{
		Renderable:  eglenum.OPENGL_ES2_BIT,
		SurfaceType: eglenum.WINDOW_BIT,
		Red:         8,
		Green:       8,
		Blue:        8,
		Alpha:       8,
		Depth:       24,
	})
	defer b.ReleaseHostContext(h, surf)

	d, c, err := glctx.FromCurrentContext(b, nil)
	require.NoError(t, err)
	defer d.Release()

	assert.False(t, c.Owned())
	assert.Equal(t, h, c.Handle())
	assert.Equal(t, b.Display(), d.Display())
	egldev, dev := d.NativeDevice()
	assert.NotZero(t, egldev)
	assert.NotZero(t, dev)

	attrs := d.ContextAttributes(c)
	assert.Equal(t, glctx.Flavor{API: glctx.GLES, Version: glctx.Version{Major: 3}}, attrs.Flavor)
	assert.Equal(t, glctx.FlagAlpha|glctx.FlagDepth, attrs.Flags)
	assert.True(t, d.ContextInfo(c).Populated())
	assert.Equal(t, "OpenGL ES 3.0 fakeegl", d.ContextInfo(c).Version)

	// Activation restores the host's window surface.
	require.NoError(t, d.MakeContextNotCurrent(c))
	require.NoError(t, d.MakeContextCurrent(c))
	assert.Equal(t, surf, b.CurrentSurface(eglenum.DRAW))
	assert.Equal(t, surf, b.CurrentSurface(eglenum.READ))

	require.NoError(t, d.DestroyContext(c))
	assert.True(t, c.Destroyed())
	assert.Zero(t, b.Calls("DestroyContext"), "borrowed contexts are never released")
	assert.Contains(t, b.Contexts(), h)

	d.Release()
	assert.False(t, b.Terminated(), "adopted displays are left to their owner")
}

func TestFromCurrentContextQueryFailure(t *testing.T) {
	host := fakeegl.Config{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8}
	tests := []struct {
		method string
		code   glctx.Code
		want   error
	}{
		{"GetConfigAttrib", eglenum.BAD_CONFIG, glctx.ErrPixelFormatSelection},
		{"QueryContext", eglenum.BAD_CONTEXT, glctx.ErrNoCurrentContext},
		{"ChooseConfig", eglenum.BAD_ATTRIBUTE, glctx.ErrPixelFormatSelection},
	}
	for _, test := range tests {
		test := test
		t.Run(test.method, func(t *testing.T) {
			_, b, _ := newTestDevice(t)
			h, surf := b.HostContext(glctx.GL, 3, host)
			defer b.ReleaseHostContext(h, surf)

			b.FailNext(test.method, test.code)
			d, c, err := glctx.FromCurrentContext(b, nil)
			assert.ErrorIs(t, err, test.want)
			var berr *glctx.BackendError
			require.True(t, errors.As(err, &berr))
			assert.Equal(t, test.code, berr.Code)
			assert.Equal(t, glctx.Code(eglenum.SUCCESS), b.GetError(), "the native error is consumed")
			assert.Nil(t, d)
			assert.Nil(t, c)

			// Without the failure the flags of the host config are reported.
			d, c, err = glctx.FromCurrentContext(b, nil)
			require.NoError(t, err)
			assert.Equal(t, glctx.FlagAlpha|glctx.FlagDepth|glctx.FlagStencil, d.ContextAttributes(c).Flags)
			require.NoError(t, d.DestroyContext(c))
		})
	}
}

// TestAdoptionLoadsFunctions runs in a child process, where adopting a
// context is the first activation and so performs the one-time load.
func TestAdoptionLoadsFunctions(t *testing.T) {
	if os.Getenv("GLCTX_ADOPT_CHILD") != "1" {
		cmd := exec.Command(os.Args[0], "-test.run=^TestAdoptionLoadsFunctions$", "-test.v")
		cmd.Env = append(os.Environ(), "GLCTX_ADOPT_CHILD=1")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "%s", out)
		assert.Contains(t, string(out), "--- PASS: TestAdoptionLoadsFunctions")
		return
	}
	require.Zero(t, gl.LoadCount(), "functions loaded before adoption")
	_, b, _ := newTestDevice(t)
	h, surf := b.HostContext(glctx.GLES, 2, fakeegl.Config{Red: 8, Green: 8, Blue: 8})
	d, c, err := glctx.FromCurrentContext(b, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, gl.LoadCount())
	assert.NotZero(t, gl.Loaded().Lookup("glGetString"))
	assert.Equal(t, "OpenGL ES 2.0 fakeegl", d.ContextInfo(c).Version)
	require.NoError(t, d.DestroyContext(c))
	b.ReleaseHostContext(h, surf)

	owned := glctx.NewDevice(b, nil)
	mustCreate(t, owned, glctx.ContextAttributes{Flavor: gl3})
	assert.Equal(t, 1, gl.LoadCount(), "creation after adoption does not reload")
}

func TestConcurrentAdoptAndCreate(t *testing.T) {
	if !fakeegl.PerThread {
		t.Skip("per-thread current contexts are not emulated on " + runtime.GOOS)
	}
	const (
		workers = 8
		rounds  = 16
	)
	d, b, _ := newTestDevice(t)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		adopt := w%2 == 0
		g.Go(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			for i := 0; i < rounds; i++ {
				if adopt {
					h, surf := b.HostContext(glctx.GL, 3, fakeegl.Config{Red: 8, Green: 8, Blue: 8, Depth: 24})
					ad, c, err := glctx.FromCurrentContext(b, nil)
					if err != nil {
						return err
					}
					if got := ad.ContextAttributes(c).Flags; got != glctx.FlagDepth {
						return fmt.Errorf("adopted flags %v, want DEPTH", got)
					}
					if err := ad.DestroyContext(c); err != nil {
						return err
					}
					b.ReleaseHostContext(h, surf)
					continue
				}
				c, err := d.CreateContext(glctx.ContextAttributes{Flavor: gl3, Flags: glctx.FlagStencil})
				if err != nil {
					return err
				}
				if err := d.DestroyContext(c); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, gl.LoadCount())
	assert.Equal(t, workers/2*rounds, b.Calls("CreateContext"))
	assert.Empty(t, b.Contexts())
}

func TestFromCurrentContextWithoutContext(t *testing.T) {
	_, b, _ := newTestDevice(t)
	d, c, err := glctx.FromCurrentContext(b, nil)
	assert.ErrorIs(t, err, glctx.ErrNoCurrentContext)
	assert.Nil(t, d)
	assert.Nil(t, c)
}

func TestDeviceRelease(t *testing.T) {
	b := fakeegl.New()
	d := glctx.NewDevice(b, nil)
	d.Release()
	assert.True(t, b.Terminated())
	assert.Zero(t, d.Display())
	d.Release()
	assert.Equal(t, 1, b.Calls("Terminate"))
}

func TestActivationSameThread(t *testing.T) {
	d, b, _ := newTestDevice(t)
	a := mustCreate(t, d, glctx.ContextAttributes{Flavor: gl3})
	c := mustCreate(t, d, glctx.ContextAttributes{Flavor: gl3})

	require.NoError(t, d.MakeContextCurrent(a))
	assert.Equal(t, a.Handle(), b.CurrentContext())
	require.NoError(t, d.MakeContextCurrent(c))
	assert.Equal(t, c.Handle(), b.CurrentContext())

	// Clearing does not depend on which context is current.
	require.NoError(t, d.MakeContextNotCurrent(a))
	assert.Zero(t, b.CurrentContext())
}

func TestActivationPerThread(t *testing.T) {
	if !fakeegl.PerThread {
		t.Skip("per-thread current contexts are not emulated on " + runtime.GOOS)
	}
	d, b, _ := newTestDevice(t)
	ctxs := []*glctx.Context{
		mustCreate(t, d, glctx.ContextAttributes{Flavor: gl3}),
		mustCreate(t, d, glctx.ContextAttributes{Flavor: gl3}),
	}
	require.NoError(t, d.MakeContextNotCurrent(ctxs[1]))

	var activated, checked sync.WaitGroup
	activated.Add(len(ctxs))
	checked.Add(len(ctxs))
	errs := make(chan error, len(ctxs))
	for _, c := range ctxs {
		c := c
		go func() {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			err := d.MakeContextCurrent(c)
			activated.Done()
			activated.Wait()
			if err == nil {
				if cur := b.CurrentContext(); cur != c.Handle() {
					err = fmt.Errorf("current context 0x%x, want 0x%x", cur, c.Handle())
				}
			}
			checked.Done()
			checked.Wait()
			if err == nil {
				err = d.MakeContextNotCurrent(c)
			}
			errs <- err
		}()
	}
	for range ctxs {
		assert.NoError(t, <-errs)
	}
	assert.Zero(t, b.CurrentContext())
}

func TestMakeCurrentFailure(t *testing.T) {
	d, b, _ := newTestDevice(t)
	c := mustCreate(t, d, glctx.ContextAttributes{Flavor: gl3})

	b.FailNext("MakeCurrent", eglenum.CONTEXT_LOST)
	err := d.MakeContextCurrent(c)
	assert.ErrorIs(t, err, glctx.ErrMakeCurrent)
	assert.Contains(t, err.Error(), "EGL_CONTEXT_LOST")

	b.FailNext("MakeCurrent", eglenum.BAD_ACCESS)
	assert.ErrorIs(t, d.MakeContextNotCurrent(c), glctx.ErrMakeCurrent)
}
