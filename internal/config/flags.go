package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagOut     = flag.String("out", "", "Output directory for exported files")
	flagScale   = flag.Float64("scale", 0, "Scale factor for exported geometry")
	flagCluster = flag.Float64("cluster", -1, "Zone cluster distance in world units")
	flagCol     = flag.Bool("col", false, "Force collision-layout decoding")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ForceCollision reports whether collision-layout decoding was forced on
// the command line, overriding the file name convention.
func ForceCollision() bool {
	return *flagCol
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagOut != "" {
		cfg.Export.OutputDir = *flagOut
	}
	if *flagScale > 0 {
		cfg.Export.Scale = float32(*flagScale)
	}
	if *flagCluster >= 0 {
		cfg.Import.ClusterDistance = float32(*flagCluster)
	}
}
