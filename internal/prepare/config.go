package prepare

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/programme-lv/templategen/internal/xdgdirs"
)

// ConfigFileName is looked up in the XDG config search path when no
// explicit config path is given.
const ConfigFileName = "prepare.toml"

// Config controls what gets written for each prepared problem.
type Config struct {
	// Templates maps template names to the filenames they are written as.
	Templates map[string]string `toml:"templates"`
	// TestDir holds sample and random cases, relative to the problem
	// directory.
	TestDir string `toml:"test_dir"`
	// ContestDirFormat names per-problem directories when preparing a
	// whole contest. "{problem_id}" is substituted.
	ContestDirFormat string `toml:"contest_dir_format"`
	// Parallelism bounds how many problems are prepared at once.
	Parallelism int `toml:"parallelism"`
	// RandomCases is how many random inputs to generate per problem.
	RandomCases int `toml:"random_cases"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Templates: map[string]string{
			"main.cpp":    "main.cpp",
			"generate.py": "generate.py",
		},
		TestDir:          "test",
		ContestDirFormat: "{problem_id}",
		Parallelism:      3,
		RandomCases:      0,
	}
}

// LoadConfig reads the file at path, or searches the XDG config path for
// prepare.toml when path is empty. No file at all falls back to
// DefaultConfig; keys absent from the file keep their default values.
func LoadConfig(dirs *xdgdirs.Dirs, path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := readConfigFile(dirs, path)
	if err != nil {
		return Config{}, err
	}
	if data != nil {
		var file Config
		if err := toml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
		if len(file.Templates) > 0 {
			cfg.Templates = file.Templates
		}
		if file.TestDir != "" {
			cfg.TestDir = file.TestDir
		}
		if file.ContestDirFormat != "" {
			cfg.ContestDirFormat = file.ContestDirFormat
		}
		if file.Parallelism != 0 {
			cfg.Parallelism = file.Parallelism
		}
		if file.RandomCases != 0 {
			cfg.RandomCases = file.RandomCases
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// readConfigFile returns nil data when no config file exists anywhere.
func readConfigFile(dirs *xdgdirs.Dirs, path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return data, nil
	}
	for _, dir := range dirs.ConfigSearchPath() {
		data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil, nil
}

func (c Config) validate() error {
	if len(c.Templates) == 0 {
		return fmt.Errorf("config names no templates")
	}
	for name, out := range c.Templates {
		if out == "" {
			return fmt.Errorf("template %q has an empty output filename", name)
		}
	}
	if c.TestDir == "" {
		return fmt.Errorf("test_dir must not be empty")
	}
	if !strings.Contains(c.ContestDirFormat, "{problem_id}") {
		return fmt.Errorf("contest_dir_format must contain {problem_id}, got %q", c.ContestDirFormat)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}
	if c.RandomCases < 0 {
		return fmt.Errorf("random_cases must not be negative, got %d", c.RandomCases)
	}
	return nil
}
