// Package config loads pipeline tuning defaults (worker count, queue slot
// count, codec level) from a TOML file, grounded in
// janelia-flyem-dvid/server's tomlConfig/toml.DecodeFile pattern built on
// github.com/BurntSushi/toml.
package config

import "github.com/BurntSushi/toml"

// Pipeline holds the subset of [Config] that drives writer/reader worker
// pools. Zero values mean "let the caller's own default apply".
type Pipeline struct {
	Workers    int `toml:"workers"`
	QueueSlots int `toml:"queue_slots"`
	CodecLevel int `toml:"codec_level"`
}

// Config is the root of a voxchunk TOML configuration file, loaded by
// cmd/voxchunk via --config and usable directly by library callers who
// want file-driven pipeline tuning instead of hardcoded WriterOptions.
type Config struct {
	Pipeline Pipeline `toml:"pipeline"`
	LogFile  string   `toml:"log_file"`
}

// Load parses a TOML configuration file at path.
func Load(path string) (Config, error) {
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
