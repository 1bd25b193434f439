package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DotEnvFiles are loaded from the working directory, most specific first.
var DotEnvFiles = []string{".env.local", ".env"}

// LoadDotEnv loads DotEnvFiles from the working directory. Variables already
// set in the environment win. Missing files are skipped. It returns the files
// that were loaded.
func LoadDotEnv() ([]string, error) {
	if IsDotEnvDisabled() {
		return nil, nil
	}

	var loaded []string
	for _, p := range DotEnvFiles {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("failed to load %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}

// IsDotEnvDisabled reports whether CHECKIN_DOTENV turns .env loading off.
func IsDotEnvDisabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvDotEnv))) {
	case "0", "false", "off", "no":
		return true
	}
	return false
}
