// Package config carga la configuración en capas:
// defaults < archivo YAML < variables de entorno < flags explícitos.
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
	"github.com/spf13/pflag"
)

const (
	DefaultFile     = "rx.yaml"
	DefaultAddr     = ":8080"
	DefaultDataFile = "prescriptions.json"
	EnvPrefix       = "RX_"
)

type Storage string

const (
	StorageFile     Storage = "file"
	StorageMemory   Storage = "memory"
	StoragePostgres Storage = "postgres"
)

type Config struct {
	Addr      string  `koanf:"addr"`
	DataFile  string  `koanf:"data_file"`
	DBDSN     string  `koanf:"db_dsn"`
	Storage   Storage `koanf:"storage"`
	LogLevel  string  `koanf:"log_level"`
	LogFormat string  `koanf:"log_format"`
	AppName   string  `koanf:"app_name"`
}

// Variables heredadas (sin prefijo) que se siguen respetando.
var legacyEnv = map[string]string{
	"DB_DSN":     "db_dsn",
	"LOG_LEVEL":  "log_level",
	"LOG_FORMAT": "log_format",
	"APP_NAME":   "app_name",
}

// Load arma la config. cfgFile vacío => usa rx.yaml si existe.
// flags puede ser nil; solo se aplican los flags seteados explícitamente.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"addr":       DefaultAddr,
		"data_file":  DefaultDataFile,
		"storage":    "",
		"log_level":  "info",
		"log_format": "text",
		"app_name":   "prescription-matcher",
	}, "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else if cfgFile != "" {
		return Config{}, fmt.Errorf("config file %s not found", cfgFile)
	}

	// PORT=8081 => addr=:8081 (compat con el deploy anterior)
	legacy := map[string]any{}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		legacy["addr"] = ":" + v
	}
	for name, key := range legacyEnv {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			legacy[key] = v
		}
	}
	if err := k.Load(confmap.Provider(legacy, "."), nil); err != nil {
		return Config{}, fmt.Errorf("load legacy env: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Sin storage explícito: postgres si hay DSN, si no archivo.
func (c *Config) applyDefaults() {
	c.Storage = Storage(strings.ToLower(strings.TrimSpace(string(c.Storage))))
	if c.Storage == "" {
		if strings.TrimSpace(c.DBDSN) != "" {
			c.Storage = StoragePostgres
		} else {
			c.Storage = StorageFile
		}
	}
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile:
		if strings.TrimSpace(c.DataFile) == "" {
			return fmt.Errorf("data_file is required for storage=file")
		}
	case StoragePostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("db_dsn is required for storage=postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q (file|memory|postgres)", c.Storage)
	}
	return nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}
