package chtlconfig

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml"
)

// Config is the ambient, CLI/environment-derived configuration threaded
// through the pipeline. It is never a package singleton — see the
// package doc comment.
type Config struct {
	Inputs             []string `validate:"required,min=1"`
	OutDir             string   `validate:"required"`
	EmitHTML           bool
	EmitCSS            bool
	EmitJS             bool
	ModulePath         []string
	OfficialModulePath []string
	TimeoutMS          int `validate:"min=0"`
	Debug              bool
}

// tomlDefaults is the optional on-disk chtl.toml shape: project-level
// defaults for flags the CLI doesn't require every invocation to repeat.
type tomlDefaults struct {
	OutDir             string   `toml:"out_dir"`
	ModulePath         []string `toml:"module_path"`
	OfficialModulePath []string `toml:"official_module_path"`
	TimeoutMS          int      `toml:"timeout_ms"`
}

// LoadTOMLDefaults reads chtl.toml from path if present; a missing file
// is not an error, it simply yields zero-value defaults to merge under
// CLI flags and environment variables.
func LoadTOMLDefaults(path string) (tomlDefaults, error) {
	data, err := readFileIfExists(path)
	if err != nil {
		return tomlDefaults{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if data == nil {
		return tomlDefaults{}, nil
	}
	var d tomlDefaults
	if err := toml.Unmarshal(data, &d); err != nil {
		return tomlDefaults{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return d, nil
}

// ApplyTOMLDefaults fills zero-valued Config fields from toml defaults,
// leaving anything already set by CLI flags, or set in the matching
// environment variable, untouched. CLI > env > toml > builtin default,
// in that precedence order.
func (c *Config) ApplyTOMLDefaults(d tomlDefaults) {
	if c.OutDir == "" && GetEnv("CHTL_OUT_DIR", "") == "" {
		c.OutDir = d.OutDir
	}
	if len(c.ModulePath) == 0 && GetEnv("CHTL_MODULE_PATH", "") == "" {
		c.ModulePath = d.ModulePath
	}
	if len(c.OfficialModulePath) == 0 && GetEnv("CHTL_OFFICIAL_MODULE_PATH", "") == "" {
		c.OfficialModulePath = d.OfficialModulePath
	}
	if c.TimeoutMS == 0 && GetEnvInt("CHTL_TIMEOUT_MS", 0) == 0 {
		c.TimeoutMS = d.TimeoutMS
	}
}

// ApplyEnvDefaults reads CHTL_MODULE_PATH / CHTL_OFFICIAL_MODULE_PATH
// and related environment variables when the corresponding flag wasn't given.
func (c *Config) ApplyEnvDefaults() {
	if len(c.ModulePath) == 0 {
		if v := GetEnv("CHTL_MODULE_PATH", ""); v != "" {
			c.ModulePath = strings.Split(v, ":")
		}
	}
	if len(c.OfficialModulePath) == 0 {
		if v := GetEnv("CHTL_OFFICIAL_MODULE_PATH", ""); v != "" {
			c.OfficialModulePath = strings.Split(v, ":")
		}
	}
	if c.TimeoutMS == 0 {
		c.TimeoutMS = GetEnvInt("CHTL_TIMEOUT_MS", 10000)
	}
	if c.OutDir == "" {
		c.OutDir = GetEnv("CHTL_OUT_DIR", ".")
	}
}

var validate = validator.New()

// Validate checks Config against its struct tags via go-playground/validator.
func (c Config) Validate() error {
	return validate.Struct(c)
}
