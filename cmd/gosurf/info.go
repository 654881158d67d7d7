package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gosurf/pkg/analysis"
	"github.com/philipparndt/gosurf/pkg/scene"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display surface statistics for a model",
	Long:  "Show vertex and triangle counts, bounds, area, edge statistics, boundary and non-manifold edges, and triangle adjacency.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	m, err := loadSurface(cmd.Context(), scene.NewMemory(), "model", filename)
	if err != nil {
		return err
	}
	result := analysis.AnalyzeSurface(m)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Surface Information")
	fmt.Fprintln(out, "===================")
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Vertices: %d\n", result.VertexCount)
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Edges: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n", analysis.FormatVector(result.BoundingBox.Center()))
	fmt.Fprintf(out, "  Diagonal: %.6f units\n\n", result.BoundingBox.Diagonal())

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f units\n\n", result.AvgEdgeLength)

	fmt.Fprintln(out, "Topology:")
	fmt.Fprintf(out, "  Boundary edges: %d\n", len(result.BoundaryEdges))
	fmt.Fprintf(out, "  Non-manifold edges: %d\n", len(result.NonManifoldEdges))
	fmt.Fprintf(out, "  Neighbors per triangle: max %d, average %.3f\n", result.MaxNeighbors, result.AvgNeighbors)
	fmt.Fprintf(out, "  Isolated triangles: %d\n", len(result.IsolatedTriangles))
	fmt.Fprintf(out, "  Degenerate triangles: %d\n", len(result.DegenerateTriangles))
	for _, i := range result.DegenerateTriangles {
		fmt.Fprintf(out, "    #%d\n", i)
	}
	return nil
}
