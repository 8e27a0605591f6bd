package testutils

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadTestEnv loads ../.env style files for integration tests. Missing files
// are fine; tests that need real backends check the variables themselves.
func LoadTestEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env", "../.env", "../../.env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}
