package cliparse

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type Config struct {
	Port         int    `env:"PORT" envDefault:"3318"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"postgres"`
	JWTSecret    string `env:"JWT_SECRET"`
	AdminKey     string `env:"ADMIN_KEY"`
	LayoutConfig string `env:"LAYOUT_CONFIG"`
	MaxOrnaments int    `env:"MAX_ORNAMENTS" envDefault:"50"`
	TraceOutput  string `env:"TRACE_OUTPUT"`
}

// Flags holds command-line overrides, bound to a pflag.FlagSet.
type Flags struct {
	fs  *pflag.FlagSet
	cfg Config
}

// Register adds the configuration flags to fs.
func Register(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}

	// Network config (can be CLI args or env)
	fs.IntVarP(&f.cfg.Port, "port", "p", 0, "Server port")
	fs.StringVarP(&f.cfg.DatabaseURL, "database-url", "d", "", "Database URL")
	fs.StringVarP(&f.cfg.DatabaseType, "database-type", "t", "", "Database type (postgres or sqlite)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&f.cfg.JWTSecret, "jwt-secret", "", "JWT secret for user tokens (prefer env)")
	fs.StringVar(&f.cfg.AdminKey, "admin-key", "", "Admin key for the Manito draw (prefer env)")

	fs.StringVar(&f.cfg.LayoutConfig, "layout-config", "", "YAML file overriding the tree layout")
	fs.IntVar(&f.cfg.MaxOrnaments, "max-ornaments", 0, "Newest messages shown on the tree")
	fs.StringVar(&f.cfg.TraceOutput, "trace-output", "", "Write traces to this file ('-' for stdout)")

	return f
}

// Resolve loads .env and the environment, then applies every flag that
// was set explicitly on the command line.
func (f *Flags) Resolve() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if f.fs.Changed("port") {
		cfg.Port = f.cfg.Port
	}
	if f.fs.Changed("database-url") {
		cfg.DatabaseURL = f.cfg.DatabaseURL
	}
	if f.fs.Changed("database-type") {
		cfg.DatabaseType = f.cfg.DatabaseType
	}
	if f.fs.Changed("jwt-secret") {
		cfg.JWTSecret = f.cfg.JWTSecret
	}
	if f.fs.Changed("admin-key") {
		cfg.AdminKey = f.cfg.AdminKey
	}
	if f.fs.Changed("layout-config") {
		cfg.LayoutConfig = f.cfg.LayoutConfig
	}
	if f.fs.Changed("max-ornaments") {
		cfg.MaxOrnaments = f.cfg.MaxOrnaments
	}
	if f.fs.Changed("trace-output") {
		cfg.TraceOutput = f.cfg.TraceOutput
	}

	return cfg, nil
}

// ParseFlags parses args and validates the configuration for the server.
func ParseFlags(args []string) (Config, error) {
	fs := pflag.NewFlagSet("holiday-tree", pflag.ContinueOnError)
	flags := Register(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg, err := flags.Resolve()
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("invalid port")
	}
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.MaxOrnaments < 0 {
		return errors.New("max ornaments must not be negative")
	}

	// Secrets - MUST be provided
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	if c.AdminKey == "" {
		return errors.New("ADMIN_KEY required")
	}

	return nil
}

// ValidateDatabase checks only the connection settings, for commands that
// touch the database without serving HTTP.
func (c Config) ValidateDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType != "postgres" && c.DatabaseType != "sqlite" {
		return fmt.Errorf("unsupported database type %q (postgres or sqlite)", c.DatabaseType)
	}
	return nil
}
