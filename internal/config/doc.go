// Package config provides configuration structures and utilities for hotseat.
// It defines the seat count, page template, QR targets, plate geometry and
// history settings shared by every subcommand, and loads them from an
// optional YAML file layered with HOTSEAT_ environment variables.
package config
