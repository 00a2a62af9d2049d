// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
)

// clearEnv unsets every variable Config reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "JWT_SECRET",
		"ADMIN_KEY", "LAYOUT_CONFIG", "MAX_ORNAMENTS", "TRACE_OUTPUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("ADMIN_KEY", "admin")
	t.Setenv("MAX_ORNAMENTS", "12")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected default database type postgres, got %s", cfg.DatabaseType)
	}
	if cfg.MaxOrnaments != 12 {
		t.Errorf("expected 12 ornaments, got %d", cfg.MaxOrnaments)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"-d", "file:test.db", "-t", "sqlite", "--jwt-secret", "s1", "--admin-key", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.MaxOrnaments != 50 {
		t.Errorf("expected default 50 ornaments, got %d", cfg.MaxOrnaments)
	}
	if cfg.TraceOutput != "" {
		t.Errorf("expected tracing off by default, got %q", cfg.TraceOutput)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ADMIN_KEY", "from-env")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-t", "sqlite", "--jwt-secret", "s1", "--admin-key", "from-flag"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.AdminKey != "from-flag" {
		t.Errorf("CLI should override env: expected from-flag, got %s", cfg.AdminKey)
	}
}

func TestRegister_Resolve(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("MAX_ORNAMENTS", "12")

	fs := pflag.NewFlagSet("match", pflag.ContinueOnError)
	flags := Register(fs)
	if err := fs.Parse([]string{"-t", "sqlite", "-d", "file:flag.db"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := flags.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "file:flag.db" {
		t.Errorf("expected flag database url, got %s", cfg.DatabaseURL)
	}
	if cfg.MaxOrnaments != 12 {
		t.Errorf("expected env max ornaments 12, got %d", cfg.MaxOrnaments)
	}

	// Commands that only touch the database skip the server secrets
	if err := cfg.ValidateDatabase(); err != nil {
		t.Errorf("expected database config to validate, got %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing secrets to fail server validation")
	}
}

func TestParseFlags_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no database", []string{"--jwt-secret", "s", "--admin-key", "k"}},
		{"no jwt secret", []string{"-d", "postgres://x", "--admin-key", "k"}},
		{"no admin key", []string{"-d", "postgres://x", "--jwt-secret", "s"}},
		{"bad database type", []string{"-d", "x", "-t", "mysql", "--jwt-secret", "s", "--admin-key", "k"}},
		{"bad port", []string{"-p", "70000", "-d", "x", "--jwt-secret", "s", "--admin-key", "k"}},
		{"unknown flag", []string{"--slug-salt", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseFlags_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")

	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected an error for a non-numeric PORT")
	}
}
