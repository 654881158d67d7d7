package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gosurf/pkg/analysis"
	"github.com/philipparndt/gosurf/pkg/deformation"
	"github.com/philipparndt/gosurf/pkg/geometry"
	"github.com/philipparndt/gosurf/pkg/scene"
)

var topFlag int

var deformCmd = &cobra.Command{
	Use:   "deform [rest] [deformed]",
	Short: "Compare two poses of the same mesh vertex by vertex",
	Long: `Load a rest pose and a deformed pose with the same vertex order and report
the per-vertex displacement rest - deformed: its overall value range, the range
per axis, and the most displaced vertices.`,
	Args: cobra.ExactArgs(2),
	RunE: runDeform,
}

func init() {
	deformCmd.Flags().IntVarP(&topFlag, "top", "n", 0, "Number of most displaced vertices to list (default from config)")
	rootCmd.AddCommand(deformCmd)
}

func runDeform(cmd *cobra.Command, args []string) error {
	s := scene.NewMemory()
	rest, err := loadSurface(cmd.Context(), s, "rest", args[0])
	if err != nil {
		return err
	}
	deformed, err := loadSurface(cmd.Context(), s, "deformed", args[1])
	if err != nil {
		return err
	}

	tracker, err := deformation.NewComparison(rest, deformed)
	if err != nil {
		return err
	}

	top := cfg.Deformation.Top
	if cmd.Flags().Changed("top") {
		top = topFlag
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rest:     %s\n", args[0])
	fmt.Fprintf(out, "Deformed: %s\n", args[1])
	fmt.Fprintf(out, "Vertices: %d\n\n", tracker.Len())
	printDeformation(out, tracker, top)
	return nil
}

func printDeformation(out io.Writer, tracker *deformation.Tracker, top int) {
	r := tracker.ValueRange()
	fmt.Fprintf(out, "Value range: [%.6f, %.6f]\n", r.Min, r.Max)
	for _, axis := range geometry.Axes {
		ar := tracker.AxisRange(axis)
		fmt.Fprintf(out, "  %s: [%.6f, %.6f]\n", axis, ar.Min, ar.Max)
	}

	displaced := tracker.MostDisplaced(top)
	if len(displaced) == 0 {
		return
	}
	fmt.Fprintf(out, "\nMost displaced vertices:\n")
	for i, d := range displaced {
		fmt.Fprintf(out, "  %d. #%d delta %s length %.6f\n", i+1, d.Vertex, analysis.FormatVector(d.Delta), d.Magnitude)
	}
}
