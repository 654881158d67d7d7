package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/gosurf/internal/config"
	"github.com/philipparndt/gosurf/pkg/deformation"
	"github.com/philipparndt/gosurf/pkg/geometry"
	"github.com/philipparndt/gosurf/pkg/scene"
	"github.com/philipparndt/gosurf/pkg/stl"
	"go.uber.org/zap"
)

var quadFaces = [][3]int{{0, 1, 2}, {0, 2, 3}}

func quadPositions(lift float64) []geometry.Vector3 {
	return []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(1, 1, lift),
		geometry.NewVector3(0, 1, 0),
	}
}

func writeQuad(t *testing.T, dir, name string, lift float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := stl.FromIndexed(name, quadPositions(lift), quadFaces).WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	configFlags = config.Flags{}
	useScene = false
	queryX, queryY, queryZ = 0, 0, 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInfoCommand(t *testing.T) {
	path := writeQuad(t, t.TempDir(), "quad.stl", 0)

	out, err := run(t, "info", path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"Vertices: 4", "Triangles: 2", "Edges: 5", "Boundary edges: 4", "Degenerate triangles: 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output failed: expected %q in\n%s", want, out)
		}
	}
}

func TestClosestCommand(t *testing.T) {
	path := writeQuad(t, t.TempDir(), "quad.stl", 0)

	tests := []struct {
		name string
		args []string
	}{
		{"indexed", []string{"closest", path, "--x", "0.25", "--y", "0.5", "--z", "2"}},
		{"brute force", []string{"closest", path, "--x", "0.25", "--y", "0.5", "--z", "2", "--no-index"}},
		{"scene", []string{"closest", path, "--x", "0.25", "--y", "0.5", "--z", "2", "--scene"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("closest failed: %v", err)
			}
			if !strings.Contains(out, "Closest:  (0.250000, 0.500000, 0.000000)") {
				t.Errorf("closest output failed: got\n%s", out)
			}
			if !strings.Contains(out, "Distance: 2.000000") {
				t.Errorf("distance output failed: got\n%s", out)
			}
		})
	}
}

func TestDeformCommand(t *testing.T) {
	dir := t.TempDir()
	rest := writeQuad(t, dir, "rest.stl", 0)
	deformed := writeQuad(t, dir, "deformed.stl", 0.5)

	out, err := run(t, "deform", rest, deformed, "--top", "1")
	if err != nil {
		t.Fatalf("deform failed: %v", err)
	}
	for _, want := range []string{"Value range: [-0.500000, 0.000000]", "z: [-0.500000, 0.000000]", "1. #2"} {
		if !strings.Contains(out, want) {
			t.Errorf("deform output failed: expected %q in\n%s", want, out)
		}
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "info", filepath.Join(dir, "missing.stl")); err == nil {
		t.Error("info failed: expected error for missing file")
	}
	if _, err := run(t, "info", filepath.Join(dir, "model.obj")); err == nil {
		t.Error("info failed: expected error for unsupported file")
	}
}

func TestSessionReload(t *testing.T) {
	dir := t.TempDir()
	restPath := writeQuad(t, dir, "rest.stl", 0)
	deformedPath := writeQuad(t, dir, "deformed.stl", 0)

	ctx := context.Background()
	s := scene.NewMemory()
	rest, err := loadSurface(ctx, s, "rest", restPath)
	if err != nil {
		t.Fatalf("loadSurface failed: %v", err)
	}
	deformed, err := loadSurface(ctx, s, "deformed", deformedPath)
	if err != nil {
		t.Fatalf("loadSurface failed: %v", err)
	}
	tracker, err := deformation.NewComparison(rest, deformed)
	if err != nil {
		t.Fatalf("NewComparison failed: %v", err)
	}

	var out bytes.Buffer
	session := &deformationSession{scene: s, path: deformedPath, deformed: deformed, tracker: tracker, out: &out, log: zap.NewNop()}

	writeQuad(t, dir, "deformed.stl", 2)
	if err := session.reload(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if r := tracker.ValueRange(); r.Min != -2 || r.Max != 0 {
		t.Errorf("reload failed: expected range [-2, 0], got %+v", r)
	}
	tri, _ := deformed.Triangle(0)
	if tri.Corners()[2] != geometry.NewVector3(1, 1, 2) {
		t.Errorf("reload failed: surface not updated, got %v", tri.Corners())
	}
	if !strings.Contains(out.String(), "Value range: [-2.000000, 0.000000]") {
		t.Errorf("reload output failed: got\n%s", out.String())
	}

	if err := stl.FromIndexed("tri", quadPositions(0)[:3], [][3]int{{0, 1, 2}}).WriteFile(deformedPath); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := session.reload(ctx); err == nil {
		t.Error("reload failed: expected error when the vertex count changes")
	}
}

func TestWatchedFiles(t *testing.T) {
	files, err := watchedFiles("model.stl")
	if err != nil {
		t.Fatalf("watchedFiles failed: %v", err)
	}
	if len(files) != 1 || files[0] != "model.stl" {
		t.Errorf("watchedFiles failed: expected [model.stl], got %v", files)
	}
}
