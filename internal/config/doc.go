// Package config holds the settings of a ghcrawl run and loads them from
// defaults, a YAML file, the environment and command-line flags, in that
// order of increasing precedence.
package config
