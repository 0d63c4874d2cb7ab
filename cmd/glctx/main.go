// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd || windows

// Command glctx inspects and exercises GL contexts through EGL.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"gioui.org/glctx/internal/log"
)

var logger = log.New("glctx")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "glctx: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "glctx",
		Usage: "create, adopt and inspect GL contexts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "load context and logging settings from a TOML `FILE`",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "create a headless context and print what the driver reports",
				Action: info,
			},
			{
				Name:  "stress",
				Usage: "create and destroy contexts from many threads",
				Description: `
Every worker locks an OS thread, then repeatedly creates a context, makes
it current, releases it and destroys it. GL functions must be loaded once
no matter how many contexts are created.`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "fake",
						Usage: "use the in-process fake EGL instead of the system driver",
					},
					&cli.IntFlag{
						Name:  "contexts",
						Value: 64,
						Usage: "number of contexts to create",
					},
					&cli.IntFlag{
						Name:  "workers",
						Value: 8,
						Usage: "number of threads creating contexts",
					},
				},
				Action: stress,
			},
			{
				Name:   "adopt",
				Usage:  "adopt the EGL context of a hidden GLFW window",
				Action: adopt,
			},
		},
	}
}

func setup(ctx *cli.Context) error {
	cfg := defaultConfig()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = loadConfig(path); err != nil {
			return err
		}
	}
	lvl, ok := log.ParseLevel(cfg.Log.Level)
	if !ok {
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	if ctx.Bool("verbose") {
		lvl = log.Debug
	}
	log.SetLevel(lvl)
	if ctx.App.Metadata == nil {
		ctx.App.Metadata = make(map[string]interface{})
	}
	ctx.App.Metadata["config"] = cfg
	return nil
}

func appConfig(ctx *cli.Context) *Config {
	if cfg, ok := ctx.App.Metadata["config"].(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
