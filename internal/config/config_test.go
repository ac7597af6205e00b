package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "gymlog"
  user: "gymlog"
  password: "secret"
  sslmode: "disable"
auth:
  import_api_key: "test-key-123"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all
// fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("database.host = %q, want %q", cfg.Database.Host, "localhost")
	}
	if cfg.Database.Name != "gymlog" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "gymlog")
	}
	if cfg.Auth.ImportAPIKey != "test-key-123" {
		t.Errorf("auth.import_api_key = %q, want %q", cfg.Auth.ImportAPIKey, "test-key-123")
	}
	if cfg.Tailscale.Enabled {
		t.Error("tailscale.enabled = true, want false by default")
	}
}

// TestEnvOverride verifies that GYMLOG_ env vars take precedence over YAML
// values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("GYMLOG_DB_HOST", "db.internal")
	t.Setenv("GYMLOG_SERVER_PORT", "9090")
	t.Setenv("GYMLOG_AUTH_IMPORT_API_KEY", "env-key")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("database.host = %q, want %q", cfg.Database.Host, "db.internal")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Auth.ImportAPIKey != "env-key" {
		t.Errorf("auth.import_api_key = %q, want %q", cfg.Auth.ImportAPIKey, "env-key")
	}
}

// TestDSN verifies the PostgreSQL connection string, including the sslmode
// default.
func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, Name: "gymlog", User: "u", Password: "p"}
	want := "postgres://u:p@localhost:5432/gymlog?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}

	d.SSLMode = "require"
	want = "postgres://u:p@localhost:5432/gymlog?sslmode=require"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

// TestValidateMissingFields verifies each required field is enforced.
func TestValidateMissingFields(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing port", `
database: {host: localhost, port: 5432, name: g, user: u}
auth: {import_api_key: k}
`},
		{"missing db host", `
server: {port: 8080}
database: {port: 5432, name: g, user: u}
auth: {import_api_key: k}
`},
		{"missing api key", `
server: {port: 8080}
database: {host: localhost, port: 5432, name: g, user: u}
`},
		{"tailscale without hostname", `
server: {port: 8080}
database: {host: localhost, port: 5432, name: g, user: u}
auth: {import_api_key: k}
tailscale: {enabled: true}
`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, c.yaml)); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

// TestTailscalePortOptional verifies server.port is not required when
// serving over tsnet.
func TestTailscalePortOptional(t *testing.T) {
	yaml := `
database: {host: localhost, port: 5432, name: g, user: u}
auth: {import_api_key: k}
tailscale: {enabled: true, hostname: gymlog}
`
	if _, err := Load(writeTemp(t, yaml)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
