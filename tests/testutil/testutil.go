// Package testutil provides shared helpers for handler tests: an
// environment gate and mock auth context seeding.
package testutil

import (
	"fmt"
	"os"
)

// CheckTestEnvironment returns an error unless GO_ENV is "test". Test
// binaries that rewrite configuration or open databases call it from
// TestMain before anything runs.
func CheckTestEnvironment() error {
	if env := os.Getenv("GO_ENV"); env != "test" {
		return fmt.Errorf("tests must run with GO_ENV=test (current: %q); run them via GO_ENV=test go test ./...", env)
	}
	return nil
}
