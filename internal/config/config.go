// Package config handles bsptool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Import  ImportConfig  `yaml:"import"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ImportConfig holds decode and zone reconstruction settings.
type ImportConfig struct {
	// ClusterDistance merges connected components whose bounding boxes lie
	// within this many world units of each other into one zone.
	ClusterDistance float32 `yaml:"cluster_distance"`
	// CenterZones recenters each zone on its bounding box midpoint.
	CenterZones bool `yaml:"center_zones"`
	// CollisionMarker flags collision-layout BSPs by file name substring.
	CollisionMarker string `yaml:"collision_marker"`
}

// ExportConfig holds OBJ/MTL output settings.
type ExportConfig struct {
	OutputDir     string  `yaml:"output_dir"`
	TexturePrefix string  `yaml:"texture_prefix"` // prepended to map_Kd paths
	Scale         float32 `yaml:"scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			ClusterDistance: 10000.0,
			CenterZones:     true,
			CollisionMarker: "Col",
		},
		Export: ExportConfig{
			OutputDir:     "parsed_bsps",
			TexturePrefix: "textures/",
			Scale:         1.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
