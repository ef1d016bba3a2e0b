// Package config defines the generation settings used by the wixgen binaries
// and provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the dependency search path, the always-resolve
// library list, the product metadata, the artifact routing table, and the
// external installer compiler command.
package config
