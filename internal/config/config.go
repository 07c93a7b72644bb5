package config

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// DatabaseDSN selects the store: a postgres DSN for hosted vaults,
	// otherwise the path of the local SQLite file. Defaults to VaultDBPath.
	DatabaseDSN string `env:"DATABASE_URI"`
	VaultDBPath string `env:"VAULT_DB_PATH"`

	// ResolveDepth bounds reference chaining (see service.DefaultResolveDepth).
	ResolveDepth int `env:"RESOLVE_DEPTH"`

	// CloneSuffix is appended to cloned group names and item titles.
	CloneSuffix string `env:"CLONE_SUFFIX"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags apply only when the env variables are not set
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (postgres:// or SQLite file path)")
	flag.StringVar(&cfg.VaultDBPath, "vault-db", cfg.VaultDBPath, "path to the local vault SQLite file")
	flag.IntVar(&cfg.ResolveDepth, "resolve-depth", cfg.ResolveDepth, "maximum reference chain depth")
	flag.StringVar(&cfg.CloneSuffix, "clone-suffix", cfg.CloneSuffix, "suffix appended to cloned titles")
	flag.Parse()

	// Defaults
	if cfg.ResolveDepth <= 0 {
		cfg.ResolveDepth = 10
	}
	if cfg.CloneSuffix == "" {
		cfg.CloneSuffix = "(Copy)"
	}
	if cfg.VaultDBPath == "" {
		home, _ := os.UserHomeDir()
		cfg.VaultDBPath = filepath.Join(home, ".haexvault", "vault.sqlite")
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = cfg.VaultDBPath
	}

	return cfg
}
