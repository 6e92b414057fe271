// Package config defines the application's configuration structures
// and loads them from environment variables and optional config files.
package config
