package scene

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/philipparndt/gosurf/pkg/openscad"
	"github.com/philipparndt/gosurf/pkg/stl"
)

// Load reads a model from an STL file or renders an OpenSCAD file to a
// temporary STL first.
func Load(ctx context.Context, path string, log *zap.Logger) (*stl.Model, error) {
	if log == nil {
		log = zap.NewNop()
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		return stl.Parse(path)

	case ".scad":
		tmp, err := os.CreateTemp("", "gosurf-*.stl")
		if err != nil {
			return nil, fmt.Errorf("failed to create temporary file: %w", err)
		}
		tempFile := tmp.Name()
		_ = tmp.Close()
		defer os.Remove(tempFile)

		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		renderer := openscad.NewRenderer(filepath.Dir(absPath), log)
		if err := renderer.RenderToSTL(ctx, absPath, tempFile); err != nil {
			return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
		}
		log.Info("rendered openscad model", zap.String("source", path))
		return stl.Parse(tempFile)

	default:
		return nil, fmt.Errorf("unsupported file type: %s (expected .stl or .scad)", ext)
	}
}

// LoadInto loads path and stores it in s under handle.
func LoadInto(ctx context.Context, s *Memory, handle, path string, log *zap.Logger) error {
	model, err := Load(ctx, path, log)
	if err != nil {
		return err
	}
	return s.AddModel(handle, model)
}
