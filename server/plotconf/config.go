// Package plotconf loads and saves the plot runtime's server-wide
// configuration file.
package plotconf

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// Config holds every tunable the plot runtime and its command layer read at
// startup. Unlike the teacher's dragonfly-era Config, this carries no
// listener/resource-pack/auth surface: this server has no client-facing
// login of its own (see DESIGN.md's Non-goals note), only a plot simulation
// core addressed through its own command layer.
type Config struct {
	// BindAddress is the address the server's own command/status endpoint
	// listens on, if any embedding caller wants one.
	BindAddress string `toml:"bind_address"`
	// DataDir is the root directory plot persistence (server/plot.Store)
	// writes its leveldb databases under, one subdirectory per plot.
	DataDir string `toml:"data_dir"`
	// SchematicsDir is where //schematic load and //schematic save read and
	// write .schem files.
	SchematicsDir string `toml:"schematics_dir"`
	// Tps is the target ticks per second for every plot's interpreted
	// redstone path. 0 means unlimited (run as fast as possible).
	Tps int `toml:"tps"`
	// WorldSendRateMs is the minimum interval, in milliseconds, between
	// flushed block-change batches sent to a plot's sinks.
	WorldSendRateMs int `toml:"world_send_rate_ms"`
	// AutoRedpiler enables automatically compiling a plot into the redstone
	// backend once its interpreted tick loop falls behind Tps.
	AutoRedpiler bool `toml:"auto_redpiler"`
	// ViewDistance is the radius, in chunks, a plot keeps loaded around any
	// active sink.
	ViewDistance int `toml:"view_distance"`
}

// Default returns the configuration used when no file is present yet.
func Default() Config {
	return Config{
		BindAddress:     "0.0.0.0:19132",
		DataDir:         "plots",
		SchematicsDir:   "schematics",
		Tps:             20,
		WorldSendRateMs: 50,
		AutoRedpiler:    false,
		ViewDistance:    8,
	}
}

// Load reads path and decodes it into a Config, falling back to Default and
// writing it out if path does not exist yet.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		conf := Default()
		return conf, Save(path, conf)
	}
	if err != nil {
		return Config{}, fmt.Errorf("plotconf: read %s: %w", path, err)
	}
	var conf Config
	if err := toml.Unmarshal(contents, &conf); err != nil {
		return Config{}, fmt.Errorf("plotconf: parse %s: %w", path, err)
	}
	return conf, nil
}

// Save encodes conf as TOML and writes it to path.
func Save(path string, conf Config) error {
	encoded, err := toml.Marshal(conf)
	if err != nil {
		return fmt.Errorf("plotconf: encode: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("plotconf: write %s: %w", path, err)
	}
	return nil
}
