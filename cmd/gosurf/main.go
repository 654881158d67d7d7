package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gosurf/internal/config"
	"github.com/philipparndt/gosurf/internal/logger"
	"github.com/philipparndt/gosurf/pkg/scene"
	"github.com/philipparndt/gosurf/pkg/surface"
	"github.com/philipparndt/gosurf/version"
)

var (
	configFlags config.Flags
	cfg         = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "gosurf",
	Short: "Inspect, query and compare triangulated surfaces",
	Long: `gosurf builds a surface model from STL or OpenSCAD files and answers
questions about it: connectivity and measurements, closest points on the
surface, and how far each vertex moved between two poses of the same mesh.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(&configFlags)
		if err != nil {
			return err
		}
		cfg = loaded
		return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	},
}

func init() {
	configFlags.Register(rootCmd.PersistentFlags())
}

// loadSurface loads path into s under handle and builds a surface over it.
func loadSurface(ctx context.Context, s *scene.Memory, handle, path string) (*surface.Mesh, error) {
	if err := scene.LoadInto(ctx, s, handle, path, logger.Log); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	m, err := surface.New(s, handle, surface.WithLogger(logger.Log.Named(handle)))
	if err != nil {
		return nil, fmt.Errorf("building surface from %s: %w", path, err)
	}
	return m, nil
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
