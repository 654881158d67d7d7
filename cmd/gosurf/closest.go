package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/gosurf/internal/logger"
	"github.com/philipparndt/gosurf/pkg/analysis"
	"github.com/philipparndt/gosurf/pkg/geometry"
	"github.com/philipparndt/gosurf/pkg/scene"
	"github.com/philipparndt/gosurf/pkg/surface"
)

var (
	queryX, queryY, queryZ float64
	useScene               bool
)

var closestCmd = &cobra.Command{
	Use:   "closest [file]",
	Short: "Find the point on the surface nearest to a query point",
	Long: `Find the nearest point on the surface, the triangle it lies on and the
region of that triangle. Back-facing triangles are not skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runClosest,
}

func init() {
	closestCmd.Flags().Float64Var(&queryX, "x", 0, "Query point X coordinate")
	closestCmd.Flags().Float64Var(&queryY, "y", 0, "Query point Y coordinate")
	closestCmd.Flags().Float64Var(&queryZ, "z", 0, "Query point Z coordinate")
	closestCmd.Flags().BoolVar(&useScene, "scene", false, "Ask the scene for the nearest point instead of the surface model")
	rootCmd.AddCommand(closestCmd)
}

func runClosest(cmd *cobra.Command, args []string) error {
	m, err := loadSurface(cmd.Context(), scene.NewMemory(), "model", args[0])
	if err != nil {
		return err
	}
	q := geometry.NewVector3(queryX, queryY, queryZ)
	out := cmd.OutOrStdout()

	if useScene {
		p, err := m.ClosestPointOnScene(q)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Query:    %s\n", analysis.FormatVector(q))
		fmt.Fprintf(out, "Closest:  %s\n", analysis.FormatVector(p))
		fmt.Fprintf(out, "Distance: %.6f units\n", q.Distance(p))
		return nil
	}

	var hit surface.Hit
	if cfg.Query.UseIndex {
		idx, err := surface.NewIndex(m, cfg.Query.RTreeMinChildren, cfg.Query.RTreeMaxChildren)
		if err != nil {
			return err
		}
		logger.Debug("using rtree index", zap.Int("triangles", idx.Size()))
		hit, err = idx.ClosestPoint(q)
		if err != nil {
			return err
		}
	} else {
		hit, err = m.ClosestPoint(q)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Query:    %s\n", analysis.FormatVector(q))
	fmt.Fprintf(out, "Closest:  %s\n", analysis.FormatVector(hit.Point))
	fmt.Fprintf(out, "Triangle: #%d (%s, s=%.6f, t=%.6f)\n", hit.Triangle, hit.Region, hit.S, hit.T)
	fmt.Fprintf(out, "Distance: %.6f units\n", hit.Distance)

	if near, ok := analysis.NewVertexIndex(m).Nearest(q); ok {
		fmt.Fprintf(out, "Nearest vertex: #%d %s at %.6f units\n", near.Index, analysis.FormatVector(near.Position), near.Distance)
	}
	return nil
}
