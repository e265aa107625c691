// Command rendprobe initializes a render backend and prints its
// capabilities: maximum color attachments, texture size limit and the
// set of renderable formats. Useful for checking what a machine's GPU
// (or the soft fallback) can drive before wiring up a compositor chain.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/rend"
	"github.com/gogpu/rend/backend"
	_ "github.com/gogpu/rend/backend/soft"
	_ "github.com/gogpu/rend/backend/wgpu"
	"github.com/gogpu/rend/render"
)

func main() {
	var (
		name    = flag.String("backend", "", "backend to probe (default: best available)")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	rend.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	sys := pickBackend(*name)
	if sys == nil {
		fmt.Fprintf(os.Stderr, "rendprobe: no such backend %q (available: %v)\n",
			*name, backend.Available())
		os.Exit(1)
	}

	if err := sys.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "rendprobe: init %s: %v\n", sys.Name(), err)
		os.Exit(1)
	}
	defer sys.Close()

	printCapabilities(sys.Name(), sys.Capabilities())
}

func pickBackend(name string) render.RenderSystem {
	if name == "" {
		return backend.Default()
	}
	return backend.Get(name)
}

func printCapabilities(name string, caps rend.Capabilities) {
	fmt.Printf("backend:            %s\n", name)
	fmt.Printf("max color targets:  %d\n", caps.MaxColorTargets)
	fmt.Printf("max texture size:   %d\n", caps.MaxTextureSize)
	fmt.Printf("mixed depth MRT:    %v\n", caps.MixedDepthTargets)
	fmt.Printf("render formats:\n")
	for _, f := range rend.ColorFormats() {
		mark := " "
		if caps.RenderFormats.Has(f) {
			mark = "x"
		}
		fmt.Printf("  [%s] %s\n", mark, f)
	}
}
