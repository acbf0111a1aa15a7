package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the engine configuration, usually read from a YAML file.
// Fields missing from the file keep their DefaultConfig values.
type Config struct {
	Window   WindowConfig `yaml:"window"`
	DataPath string       `yaml:"dataPath"`
	Shader   ShaderConfig `yaml:"shader"`
	Ambient  [3]float32   `yaml:"ambient"`
	Log      LogConfig    `yaml:"log"`
}

type ShaderConfig struct {
	// Desktop and Embedded are GLSL version directives such as "410 core" or "300 es".
	Desktop   string `yaml:"desktop"`
	Embedded  string `yaml:"embedded"`
	MaxLights uint   `yaml:"maxLights"`
	// ES selects the embedded dialect for generated and file shaders.
	ES bool `yaml:"es"`
	// VariableLightCount compiles generated shaders with a numLights gate.
	VariableLightCount bool `yaml:"variableLightCount"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func DefaultConfig() Config {
	return Config{
		Window:   DefaultWindowConfig(),
		DataPath: "data/",
		Shader: ShaderConfig{
			Desktop:            "410 core",
			Embedded:           "300 es",
			MaxLights:          3,
			VariableLightCount: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Path joins name onto the configured data directory.
func (c Config) Path(name string) string {
	if c.DataPath == "" {
		return name
	}
	if os.IsPathSeparator(c.DataPath[len(c.DataPath)-1]) {
		return c.DataPath + name
	}
	return c.DataPath + string(os.PathSeparator) + name
}
