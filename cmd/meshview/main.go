// Package main is the entry point for the meshview command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/logger"
	gomath "github.com/Faultbox/meshview/pkg/math"
	"github.com/Faultbox/meshview/pkg/mesh"
)

var (
	flagSubdivide  = flag.Int("subdivide", 0, "Number of refinement passes to apply")
	flagInside     = flag.String("inside", "", "Point to test for containment, as \"x,y,z\"")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective config to the user config dir and exit")
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	mesh.SetLogger(logger.Log)

	logger.Log.Info("=== Meshview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if *flagSaveConfig {
		if err := cfg.Save(); err != nil {
			logger.Log.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", filepath.Join(config.ConfigDir(), "meshview.yaml"))
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshview [flags] <mesh file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(cfg, flag.Arg(0)); err != nil {
		logger.Log.Error("meshview error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, name string) error {
	path, err := resolveMeshPath(cfg, name)
	if err != nil {
		return err
	}

	m, err := loadMesh(path)
	if err != nil {
		return err
	}
	logger.Log.Info("mesh loaded",
		zap.String("path", path),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", m.TriangleCount()))

	levels := *flagSubdivide
	if levels > cfg.Engine.MaxSubdivisionLevels {
		logger.Log.Warn("subdivision level capped",
			zap.Int("requested", levels),
			zap.Int("cap", cfg.Engine.MaxSubdivisionLevels))
		levels = cfg.Engine.MaxSubdivisionLevels
	}
	for i := 0; i < levels; i++ {
		m.Subdivide()
	}

	handle, err := beginStatistics(m, cfg.Engine.Workers)
	if err != nil {
		return err
	}

	fmt.Printf("Mesh: %s\n", path)
	fmt.Printf("  Vertices:  %d\n", len(m.Vertices))
	fmt.Printf("  Triangles: %d\n", m.TriangleCount())

	stats := handle.Wait()
	if stats.MinArea == mesh.NoMinArea {
		fmt.Println("  Areas:     no triangles with positive area")
	} else {
		fmt.Printf("  Min area:  %g\n", stats.MinArea)
		fmt.Printf("  Max area:  %g\n", stats.MaxArea)
		fmt.Printf("  Avg area:  %g\n", stats.AvgArea)
	}

	if *flagInside != "" {
		p, err := parsePoint(*flagInside)
		if err != nil {
			return err
		}
		fmt.Printf("  Inside %v: %t\n", p, m.IsInside(p))
	}

	return nil
}

// resolveMeshPath returns name as-is if it exists or is an explicit path,
// otherwise searches the configured mesh directories.
func resolveMeshPath(cfg *config.Config, name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		return "", fmt.Errorf("mesh file not found: %s", name)
	}
	for _, dir := range cfg.Data.MeshDirs {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("mesh file %s not found in %v", name, cfg.Data.MeshDirs)
}

// loadMesh picks the loader by file extension.
func loadMesh(path string) (*mesh.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return mesh.LoadGLTF(path)
	default:
		return mesh.LoadFile(path)
	}
}

func beginStatistics(m *mesh.Mesh, workers int) (*mesh.StatsHandle, error) {
	if workers > 0 {
		return m.BeginStatisticsWorkers(workers)
	}
	return m.BeginStatistics()
}

// parsePoint parses "x,y,z" into a vector.
func parsePoint(s string) (gomath.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return gomath.Vec3{}, fmt.Errorf("invalid point %q: want \"x,y,z\"", s)
	}
	var coords [3]float32
	for i, part := range parts {
		var v float64
		if _, err := fmt.Sscanf(strings.TrimSpace(part), "%g", &v); err != nil {
			return gomath.Vec3{}, fmt.Errorf("invalid point %q: %w", s, err)
		}
		coords[i] = float32(v)
	}
	return gomath.Vec3{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
