package util

import (
	"os"
	"strings"
)

// GetEnvironmentVariables returns the process environment as a key/value map.
func GetEnvironmentVariables() map[string]string {
	env := map[string]string{}

	for _, entry := range os.Environ() {
		key, value, _ := strings.Cut(entry, "=")
		env[key] = value
	}

	return env
}
