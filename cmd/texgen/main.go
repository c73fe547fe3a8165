// Command texgen translates recompiled shader units to GLSL.
//
// Usage:
//
//	texgen [flags] <unit.json>...
//
// Examples:
//
//	texgen shader.json                       # Print GLSL to stdout
//	texgen -o out/ a.json b.json             # Write out/a.glsl and out/b.glsl
//	texgen --stage vertex --shadow-lod x.json
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gogpu/recomp"
	"github.com/gogpu/recomp/glsl"
	"github.com/gogpu/recomp/ir"
)

const texgenVersion = "0.1.0-dev"

type config struct {
	outDir      string
	jobs        int
	shadowLod   bool
	stage       string
	glslVersion string
	verbose     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config
	cmd := &cobra.Command{
		Use:          "texgen [flags] <unit.json>...",
		Short:        "Translate recompiled shader texture instructions to GLSL",
		Version:      texgenVersion,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args)
		},
	}
	addFlags(cmd.Flags(), &cfg)
	return cmd
}

func addFlags(f *pflag.FlagSet, cfg *config) {
	f.StringVarP(&cfg.outDir, "out-dir", "o", "", "write <unit>.glsl files to this directory instead of stdout")
	f.IntVar(&cfg.jobs, "jobs", runtime.NumCPU(), "number of units translated concurrently")
	f.BoolVar(&cfg.shadowLod, "shadow-lod", false, "assume GL_EXT_texture_shadow_lod for every unit")
	f.StringVar(&cfg.stage, "stage", "", "override the shader stage of every unit (vertex, fragment, compute, ...)")
	f.StringVar(&cfg.glslVersion, "glsl-version", "", `override the target GLSL version (e.g. "460", "320 es")`)
	f.BoolVarP(&cfg.verbose, "verbose", "v", false, "log progress and approximated translations to stderr")
}

func run(ctx context.Context, stdout, stderr io.Writer, cfg config, paths []string) error {
	if cfg.verbose {
		logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		recomp.SetLogger(logger)
		defer recomp.SetLogger(nil)
	}
	if cfg.stage != "" {
		if _, err := ir.ParseStage(cfg.stage); err != nil {
			return err
		}
	}
	if cfg.glslVersion != "" {
		if _, err := glsl.ParseVersion(cfg.glslVersion); err != nil {
			return err
		}
	}

	units := make([]*recomp.Unit, 0, len(paths))
	for _, path := range paths {
		u, err := loadUnit(path)
		if err != nil {
			return err
		}
		if cfg.stage != "" {
			u.Stage = cfg.stage
		}
		if cfg.glslVersion != "" {
			u.Version = cfg.glslVersion
		}
		if cfg.shadowLod {
			u.Profile.SupportTextureShadowLod = true
		}
		units = append(units, u)
	}
	if cfg.outDir != "" {
		if err := checkOutputNames(paths); err != nil {
			return err
		}
	}

	results, err := recomp.TranslateAll(ctx, units, cfg.jobs)
	if err != nil {
		return err
	}

	if cfg.outDir == "" {
		for _, r := range results {
			fmt.Fprintf(stdout, "// %s\n%s", r.Name, r.Source)
		}
		return nil
	}

	if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, r := range results {
		out := filepath.Join(cfg.outDir, outputName(r.Name))
		if err := os.WriteFile(out, []byte(r.Source), 0o644); err != nil { //nolint:gosec // G306: shader source is not sensitive
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(stdout, "%s -> %s (%d extensions)\n", r.Name, out, len(r.Info.UsedExtensions))
	}
	return nil
}

// outputName maps a unit name to its file name in the output directory.
func outputName(unit string) string {
	return strings.TrimSuffix(unit, filepath.Ext(unit)) + ".glsl"
}

// checkOutputNames fails when two inputs would write the same file.
func checkOutputNames(paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		out := outputName(filepath.Base(path))
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%s and %s both write %s", prev, path, out)
		}
		seen[out] = path
	}
	return nil
}

func loadUnit(path string) (*recomp.Unit, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return nil, err
	}
	defer f.Close()

	u, err := recomp.LoadUnit(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	u.Name = filepath.Base(path)
	return u, nil
}
