package env

import "os"

// Get reads key from the process environment, falling back when the variable
// is unset or empty. Used for the few knobs resolved before config parsing,
// such as the log output format.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
