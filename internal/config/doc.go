// Package config provides configuration structures and utilities for csvhash.
// It defines the options of a hashing run, the optional .csvhash YAML file
// with defaults and an output schema, and helpers for locating XDG
// directories and loading secrets from the environment.
package config
