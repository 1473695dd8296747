package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keycalc.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearEnv blanks the variables Load reads so the host environment does not
// leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"HOST", "PORT", "GRPC_PORT", "DATA_FILE"} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8787 || cfg.GRPCPort != 8788 || cfg.Host != "0.0.0.0" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.CommaIsDecimal() || !cfg.UIEnabled() {
		t.Error("comma and ui should default on")
	}
	if cfg.Addr() != "0.0.0.0:8787" || cfg.GRPCAddr() != "0.0.0.0:8788" {
		t.Errorf("addrs = %s, %s", cfg.Addr(), cfg.GRPCAddr())
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
host: 127.0.0.1
port: 9000
grpcPort: 0
dataFile: /tmp/keycalc.db
commaAsDecimal: false
logRequests: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != 9000 || cfg.DataFile != "/tmp/keycalc.db" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.CommaIsDecimal() {
		t.Error("commaAsDecimal should be off")
	}
	if !cfg.UIEnabled() {
		t.Error("ui should stay on")
	}
	if !cfg.LogRequests {
		t.Error("logRequests should be on")
	}
	if cfg.GRPCPort != 0 || cfg.GRPCAddr() != "" {
		t.Errorf("grpcPort = %d, want gRPC disabled", cfg.GRPCPort)
	}
}

func TestFileWithoutGRPCPortKeepsDefault(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeFile(t, "port: 9000\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPCPort != 8788 {
		t.Errorf("grpcPort = %d, want 8788", cfg.GRPCPort)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "port: 9000\n")
	t.Setenv("PORT", "9100")
	t.Setenv("DATA_FILE", "env.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9100 || cfg.DataFile != "env.db" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "port: [")); err == nil || !strings.Contains(err.Error(), "yaml parse error") {
		t.Errorf("expected yaml error, got %v", err)
	}
	if _, err := Load(writeFile(t, "port: 70000\n")); err == nil {
		t.Error("expected range error")
	}
	t.Setenv("GRPC_PORT", "abc")
	if _, err := Load(""); err == nil {
		t.Error("expected GRPC_PORT parse error")
	}
}

func TestSamePortRejected(t *testing.T) {
	cfg := Default()
	cfg.GRPCPort = cfg.Port
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for shared port")
	}
	cfg.GRPCPort = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("grpc disabled should validate: %v", err)
	}
	if cfg.GRPCAddr() != "" {
		t.Errorf("GRPCAddr = %q, want empty", cfg.GRPCAddr())
	}
}
