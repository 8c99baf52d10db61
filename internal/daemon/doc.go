// Package daemon hosts the catalogpress HTTP API with single-instance
// locking and coordinated shutdown.
package daemon
