// Package env reads raw environment variables for the few settings
// needed before the typed checkout config is loaded.
package env

import "os"

// Get returns the value of the given environment variable, or the
// fallback when it is unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
