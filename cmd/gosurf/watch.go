package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipparndt/gosurf/internal/logger"
	"github.com/philipparndt/gosurf/pkg/deformation"
	"github.com/philipparndt/gosurf/pkg/openscad"
	"github.com/philipparndt/gosurf/pkg/scene"
	"github.com/philipparndt/gosurf/pkg/surface"
	"github.com/philipparndt/gosurf/pkg/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [rest] [deformed]",
	Short: "Track the deformation of a mesh while its file changes",
	Long: `Load a rest pose and a deformed pose, then watch the deformed file (and,
for OpenSCAD files, everything it uses or includes). Each time it changes the
new positions are loaded into the surface and the deformation is reported.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// deformationSession holds the state updated on every change of the
// deformed file.
type deformationSession struct {
	scene    *scene.Memory
	path     string
	deformed *surface.Mesh
	tracker  *deformation.Tracker
	out      io.Writer
	log      *zap.Logger
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scene.NewMemory()
	rest, err := loadSurface(ctx, s, "rest", args[0])
	if err != nil {
		return err
	}
	deformed, err := loadSurface(ctx, s, "deformed", args[1])
	if err != nil {
		return err
	}
	tracker, err := deformation.NewComparison(rest, deformed)
	if err != nil {
		return err
	}

	session := &deformationSession{
		scene:    s,
		path:     args[1],
		deformed: deformed,
		tracker:  tracker,
		out:      cmd.OutOrStdout(),
		log:      logger.Log,
	}
	printDeformation(session.out, tracker, cfg.Deformation.Top)

	files, err := watchedFiles(args[1])
	if err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger.Log)
	if err != nil {
		return err
	}
	defer fw.Close()

	changes := make(chan struct{}, 1)
	if err := fw.Watch(files, func(string) {
		select {
		case changes <- struct{}{}:
		default:
		}
	}); err != nil {
		return err
	}

	go func() {
		if err := fw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("watcher stopped", zap.Error(err))
		}
	}()
	logger.Info("watching for changes", zap.Strings("files", files))

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopped watching")
			return nil
		case <-changes:
			if err := session.reload(ctx); err != nil {
				logger.Warn("reload failed", zap.String("file", session.path), zap.Error(err))
			}
		}
	}
}

// watchedFiles returns the deformed file and, for OpenSCAD sources, its
// dependencies.
func watchedFiles(path string) ([]string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".scad" {
		return []string{path}, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return openscad.NewRenderer(filepath.Dir(absPath), logger.Log).ResolveDependencies(absPath)
}

// reload reads the deformed file again and pushes its positions through the
// scene into the surface and the tracker.
func (d *deformationSession) reload(ctx context.Context) error {
	model, err := scene.Load(ctx, d.path, d.log)
	if err != nil {
		return err
	}
	positions, _ := model.Indexed()
	if err := d.scene.ReplacePositions("deformed", positions); err != nil {
		return err
	}

	if err := d.deformed.Update(true, true); err != nil {
		var degenerate *surface.DegenerateGeometryError
		if !errors.As(err, &degenerate) {
			return err
		}
		d.log.Warn("degenerate triangles in deformed pose", zap.Int("count", len(multierr.Errors(err))))
	}
	if err := d.tracker.Update(); err != nil {
		return err
	}

	r := d.tracker.ValueRange()
	d.log.Info("deformation updated", zap.Float64("min", r.Min), zap.Float64("max", r.Max))
	fmt.Fprintln(d.out)
	printDeformation(d.out, d.tracker, cfg.Deformation.Top)
	return nil
}
