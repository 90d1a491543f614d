package bridge

import (
	"path/filepath"
	"time"
)

// Config represents the bridge configuration.
type Config struct {
	Addr            string        `help:"TCP listen address; port 0 picks an ephemeral port" default:"0.0.0.0:0" env:"DS3_BRIDGE_ADDR"`
	Dir             string        `help:"Bridge working directory" default:"/data/local/tmp/ds3_bridge" env:"DS3_BRIDGE_DIR"`
	ProcessFile     string        `help:"Discovery file written as <pid>:<port> inside the bridge directory" default:"process.txt" env:"DS3_PROCESS_FILE"`
	StagedLibrary   string        `help:"Native library file name expected inside the bridge directory" default:"libaio.so" env:"DS3_STAGED_LIBRARY"`
	LibrarySource   string        `help:"Path the staged library is copied from when missing" env:"DS3_LIBRARY_SOURCE"`
	SamplerInterval time.Duration `help:"Output mirror cadence towards the client" default:"10ms" env:"DS3_SAMPLER_INTERVAL"`
	WriteTimeout    time.Duration `help:"Per-frame write deadline towards the client" default:"10ms" env:"DS3_WRITE_TIMEOUT"`
}

func (c Config) ProcessFilePath() string {
	return filepath.Join(c.Dir, c.ProcessFile)
}

func (c Config) StagedLibraryPath() string {
	return filepath.Join(c.Dir, c.StagedLibrary)
}
