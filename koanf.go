package mongolog

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where LoadConfig searches for a config file
// when no explicit path is given. The first file found wins.
var DefaultConfigPaths = []string{
	"mongolog.yaml",
	"mongolog.yml",
	"/etc/mongolog/mongolog.yaml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "MONGOLOG_CONFIG"

// envPrefix namespaces the environment overrides, e.g.
// MONGOLOG_MIN_SEVERITY=info or MONGOLOG_FILE_LOGGING=true.
const envPrefix = "MONGOLOG_"

// LoadConfig builds a Config from layered sources with the precedence
// ENV > file > defaults:
//  1. DefaultConfig values
//  2. an optional YAML file (path argument, $MONGOLOG_CONFIG, or the
//     first hit in DefaultConfigPaths)
//  3. MONGOLOG_* environment variables
//
// The result is validated before it is returned.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if path == emptyString {
		path = findConfigFile()
	}
	if path != emptyString {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load config environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal(emptyString, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != emptyString {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return emptyString
}

// envTransform maps MONGOLOG_FILE_MAX_SIZE_MB to file_max_size_mb and so
// on. Keys outside the prefix never reach this function.
func envTransform(key string) string {
	key = strings.TrimPrefix(key, envPrefix)
	return strings.ToLower(key)
}
