package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// EnvLogLevel overrides the configured log level.
const EnvLogLevel = "BUILDRELOC_LOG_LEVEL"

// loadEnvFiles loads the first of .env/.env.local found in the working
// directory. Existing process environment variables are not overwritten.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Note: could not load %s: %v\n", envPath, err)
			continue
		}
		return
	}
}
