// Package config loads the configuration of the sapling command from
// defaults, a YAML config file, SAPLING_ environment variables and
// command line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/pbanos/sapling/tree"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "sapling.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "sapling.yml"

// EnvPrefix is the prefix of environment variables read as configuration.
// SAPLING_REDIS_ADDR sets redis.addr.
const EnvPrefix = "SAPLING_"

// Source types
const (
	SourceCSV      = "csv"
	SourceWeather  = "weather"
	SourceSQLite3  = "sqlite3"
	SourcePostgres = "postgres"
	SourceMongo    = "mongo"
)

// Tree stores
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Config holds the configuration of the sapling command
type Config struct {
	Metadata string       `koanf:"metadata"`
	Verbose  bool         `koanf:"verbose"`
	Check    string       `koanf:"check"`
	Source   SourceConfig `koanf:"source"`
	Tree     TreeConfig   `koanf:"tree"`
	Redis    RedisConfig  `koanf:"redis"`
}

// SourceConfig describes where labeled examples are read from.
type SourceConfig struct {
	Type       string `koanf:"type"` // csv, weather, sqlite3, postgres, mongo
	Path       string `koanf:"path"` // CSV or SQLite3 file, stdin when empty
	URL        string `koanf:"url"`  // PostgreSQL or MongoDB URL
	Table      string `koanf:"table"`
	Collection string `koanf:"collection"`
	Header     bool   `koanf:"header"` // weather CSV has a header row
}

// TreeConfig describes where trees are written to and read from.
type TreeConfig struct {
	Store string `koanf:"store"` // file or redis
	Path  string `koanf:"path"`  // stdout/stdin when empty
	Name  string `koanf:"name"`  // name of the tree in redis
}

// RedisConfig holds the connection settings of the redis tree store.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"metadata":       "metadata",
	"verbose":        "verbose",
	"check":          "check",
	"source":         "source.type",
	"input":          "source.path",
	"url":            "source.url",
	"table":          "source.table",
	"collection":     "source.collection",
	"header":         "source.header",
	"store":          "tree.store",
	"tree":           "tree.path",
	"tree-name":      "tree.name",
	"redis-addr":     "redis.addr",
	"redis-password": "redis.password",
	"redis-db":       "redis.db",
	"redis-prefix":   "redis.prefix",
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"check":             tree.LeftSpineCheck.String(),
		"source.type":       SourceCSV,
		"source.table":      "examples",
		"source.collection": "examples",
		"source.header":     true,
		"tree.store":        StoreFile,
		"tree.name":         "default",
		"redis.addr":        "localhost:6379",
		"redis.prefix":      "sapling",
	}
}

// findConfigFile finds the config file to use.
// Priority: explicit path > sapling.yaml > sapling.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from defaults, the config file, environment
// variables and the flags that were explicitly set.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configured source, store and check are known
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceCSV, SourceWeather, SourceSQLite3, SourcePostgres, SourceMongo:
	default:
		return fmt.Errorf("unknown source type %q", c.Source.Type)
	}
	switch c.Tree.Store {
	case StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown tree store %q", c.Tree.Store)
	}
	if c.Tree.Store == StoreRedis && c.Tree.Name == "" {
		return fmt.Errorf("redis tree store needs a tree name")
	}
	if _, err := c.CheckMode(); err != nil {
		return err
	}
	return nil
}

// NeedsMetadata returns whether the configured source needs a feature
// metadata file to be read
func (c *Config) NeedsMetadata() bool {
	return c.Source.Type != SourceWeather
}

// CheckMode returns the tree.Check configured
func (c *Config) CheckMode() (tree.Check, error) {
	for _, check := range []tree.Check{tree.LeftSpineCheck, tree.PathCheck} {
		if c.Check == check.String() {
			return check, nil
		}
	}
	return 0, fmt.Errorf("unknown check %q, expected %s or %s", c.Check, tree.LeftSpineCheck, tree.PathCheck)
}
