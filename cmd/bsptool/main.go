// bsptool is a CLI utility for decoding TFB RenderWare World BSP files and
// exporting their geometry as OBJ/MTL.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/madbsp/internal/config"
	"github.com/Faultbox/madbsp/internal/logger"
	"github.com/Faultbox/madbsp/pkg/formats"
	"github.com/Faultbox/madbsp/pkg/geometry"
	"github.com/Faultbox/madbsp/pkg/obj"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "info":
		cmdInfo(cfg, args)
	case "obj":
		cmdObj(cfg, args)
	case "zones":
		cmdZones(cfg, args)
	case "batch":
		cmdBatch(cfg, args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bsptool - TFB RenderWare World BSP utility

Usage:
  bsptool [flags] <command> [paths]

Commands:
  info <file.bsp>      Show world structure and zone statistics
  obj <file.bsp>       Export per-sector geometry as OBJ/MTL
  zones <file.bsp>     Export clustered zone geometry as OBJ/MTL
  batch <dir>          Export every *.bsp in a directory

Flags:
  -config <path>   Config file (default ./bsptool.yaml)
  -out <dir>       Output directory
  -scale <f>       Geometry scale factor
  -cluster <f>     Zone cluster distance in world units
  -col             Force collision-layout decoding
  -debug           Enable debug logging

Examples:
  bsptool info Sewer01.bsp
  bsptool -scale 3 -cluster 5000 zones Sewer01.bsp
  bsptool -out ./export batch ./bsps`)
}

// isCollision decides the AtomicSector layout for a file. The engine ships
// collision BSPs under a name convention; the -col flag overrides it.
func isCollision(cfg *config.Config, path string) bool {
	if config.ForceCollision() {
		return true
	}
	return strings.Contains(filepath.Base(path), cfg.Import.CollisionMarker)
}

func parseWorld(cfg *config.Config, path string) *formats.World {
	collision := isCollision(cfg, path)
	if collision {
		logger.Info("collision mode enabled", zap.String("file", path))
	}

	world, err := formats.ParseWorldFile(path, collision)
	if err != nil {
		logger.Error("failed to parse BSP", zap.String("file", path), zap.Error(err))
		os.Exit(1)
	}
	return world
}

func cmdInfo(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bsptool info <file.bsp>")
		os.Exit(1)
	}

	world := parseWorld(cfg, args[0])

	sectors := world.AtomicSectors()
	native := 0
	for _, sec := range sectors {
		if sec.IsNativeData {
			native++
		}
	}

	fmt.Printf("World:          %s\n", args[0])
	fmt.Printf("Version:        0x%08X\n", world.Version)
	fmt.Printf("Flags:          0x%08X\n", world.Flags)
	fmt.Printf("Materials:      %d\n", len(world.Materials.Materials))
	fmt.Printf("Plane sectors:  %d\n", world.NumPlaneSectors)
	fmt.Printf("Atomic sectors: %d (%d native)\n", len(sectors), native)
	fmt.Printf("Vertices:       %d declared, %d inline\n", world.NumVertices, world.TotalVertexCount())
	fmt.Printf("Triangles:      %d declared, %d inline\n", world.NumTriangles, world.TotalTriangleCount())

	merged, err := geometry.Flatten(world)
	if err != nil {
		if errors.Is(err, geometry.ErrNoGeometry) {
			fmt.Println("Zones:          none (no inline geometry)")
			return
		}
		logger.Error("failed to merge geometry", zap.Error(err))
		os.Exit(1)
	}

	zones := geometry.ClusterZones(merged, cfg.Import.ClusterDistance)
	fmt.Printf("Zones:          %d (cluster distance %.1f)\n", len(zones), cfg.Import.ClusterDistance)
	for i, zone := range zones {
		fmt.Printf("  zone %d: %d faces, %d vertices\n", i, len(zone.FaceIndices), len(zone.VertexIndices))
	}
}

func cmdObj(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bsptool obj <file.bsp>")
		os.Exit(1)
	}

	exportOne(cfg, args[0], false)
}

func cmdZones(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bsptool zones <file.bsp>")
		os.Exit(1)
	}

	exportOne(cfg, args[0], true)
}

func cmdBatch(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bsptool batch <dir>")
		os.Exit(1)
	}

	entries, err := os.ReadDir(args[0])
	if err != nil {
		logger.Error("failed to read directory", zap.String("dir", args[0]), zap.Error(err))
		os.Exit(1)
	}

	exported := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".bsp") {
			continue
		}
		exportOne(cfg, filepath.Join(args[0], entry.Name()), false)
		exported++
	}
	logger.Info("batch export done", zap.Int("files", exported))
}

func exportOne(cfg *config.Config, path string, clustered bool) {
	world := parseWorld(cfg, path)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var err error
	if clustered {
		var merged *geometry.MergedGeometry
		merged, err = geometry.Flatten(world)
		if err != nil {
			logger.Error("failed to merge geometry", zap.String("file", path), zap.Error(err))
			os.Exit(1)
		}

		zones := geometry.ClusterZones(merged, cfg.Import.ClusterDistance)
		logger.Info("clustered zones",
			zap.String("file", path),
			zap.Int("zones", len(zones)),
			zap.Float32("cluster_distance", cfg.Import.ClusterDistance))

		opts := geometry.ExtractOptions{Center: cfg.Import.CenterZones, Scale: cfg.Export.Scale}
		err = obj.ExportZones(cfg.Export.OutputDir, name, world, merged, zones, cfg.Export.TexturePrefix, opts)
	} else {
		err = obj.ExportWorld(cfg.Export.OutputDir, name, world, cfg.Export.TexturePrefix, cfg.Export.Scale)
	}

	if err != nil {
		logger.Error("export failed", zap.String("file", path), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("exported", zap.String("file", path), zap.String("out", cfg.Export.OutputDir))
}
