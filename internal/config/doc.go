// Package config is grounded in janelia-flyem-dvid/server's tomlConfig
// type and its toml.DecodeFile(filename, &tc) loading pattern.
package config
