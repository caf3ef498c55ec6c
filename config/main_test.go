package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain refuses to run the config tests outside GO_ENV=test. The tests
// below rewrite environment variables and would otherwise point the loader at
// a real database. The gate is inlined here instead of using tests/testutil:
// that package reaches config through middleware, so importing it would be an
// import cycle.
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "config tests must run with GO_ENV=test (current: %q); run them via GO_ENV=test go test ./...\n", env)
		os.Exit(1)
	}

	os.Exit(m.Run())
}
