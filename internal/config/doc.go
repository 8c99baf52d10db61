// Package config loads and validates the TOML application configuration for
// the catalogpress daemon and CLI. A sample configuration ships embedded and
// can be written out with WriteSample.
package config
