// Package chtlconfig holds the two configuration layers the compiler
// threads explicitly through every stage: the CLI/environment-derived
// Config (this repo's ambient settings) and the in-source Settings
// parsed from a CHTL [Configuration] block.
//
// Neither value is ever stashed in a package-level variable for the
// pipeline to read back out. Config is built by the CLI entry point and
// Settings by compiler.CompileFile from the program's [Configuration]
// block; each is passed as an argument to the stages that read it.
package chtlconfig

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// GetEnv returns the environment variable's value, or def if unset/empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvInt is GetEnv parsed as an int, falling back to def on a missing
// or unparsable value.
func GetEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// GetEnvBool is GetEnv parsed as a bool, falling back to def on a missing
// or unparsable value.
func GetEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// LoadDotEnv loads an optional .env from the working directory. A
// missing .env is normal for a CLI invoked from an arbitrary directory,
// so this is best-effort and silent on os.ErrNotExist.
func LoadDotEnv() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		// A malformed .env is worth surfacing; a missing one is not.
		if _, statErr := os.Stat(".env"); statErr == nil {
			panic("malformed .env file: " + err.Error())
		}
	}
}
