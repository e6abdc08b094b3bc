package config

import (
	"os"
	"strconv"
	"strings"
)

// TeardownSize returns the teardown scenario size. It can be overridden with
// the LISTS_TEARDOWN_SIZE environment variable ("250_000" and "250,000" are
// accepted).
func TeardownSize() int {
	return envCount("LISTS_TEARDOWN_SIZE", DefaultTeardownSize)
}

// Parallel returns how many scenarios may run concurrently. It can be
// overridden with the LISTS_PARALLEL environment variable.
func Parallel() int {
	return envCount("LISTS_PARALLEL", DefaultParallel)
}

func envCount(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}

	n, err := ParseCount(raw)
	if err != nil || n <= 0 {
		return def
	}

	return n
}

// ParseCount parses a positive count allowing "_" and "," digit separators.
func ParseCount(s string) (int, error) {
	s = strings.NewReplacer("_", "", ",", "").Replace(strings.TrimSpace(s))

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	return n, nil
}
