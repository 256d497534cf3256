// Package config handles meshview configuration loading and management.
package config

// Config holds all meshview settings.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig holds geometry engine settings.
type EngineConfig struct {
	// Workers caps the statistics worker count; 0 means one per CPU.
	Workers int `yaml:"workers"`
	// MaxSubdivisionLevels bounds how many refinement passes a single
	// command may request, since each pass quadruples the index count.
	MaxSubdivisionLevels int `yaml:"max_subdivision_levels"`
}

// DataConfig holds mesh file lookup settings.
type DataConfig struct {
	// MeshDirs are searched, in order, for mesh files given by bare name.
	MeshDirs []string `yaml:"mesh_dirs"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Workers:              0,
			MaxSubdivisionLevels: 8,
		},
		Data: DataConfig{
			MeshDirs: []string{"./meshes"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
