package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_FromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "version: 1\nport: 4\nexecutable: /usr/local/bin/ampy\nmax_output: 4096\n")

	res, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Path != filepath.Join(dir, FileName) {
		t.Errorf("Path = %q, want %q", res.Path, filepath.Join(dir, FileName))
	}
	if res.Config.Version != 1 {
		t.Errorf("Config.Version = %d, want 1", res.Config.Version)
	}
	if got := res.Config.Port(); got != 4 {
		t.Errorf("Port() = %d, want 4", got)
	}
	if got := res.Config.Executable(); got != "/usr/local/bin/ampy" {
		t.Errorf("Executable() = %q, want %q", got, "/usr/local/bin/ampy")
	}
	if res.Config.MaxOutput != 4096 {
		t.Errorf("MaxOutput = %d, want 4096", res.Config.MaxOutput)
	}
}

func TestLoad_FromSubdirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "version: 2\ndir: scripts\n")

	sub := filepath.Join(root, "pkg", "foo")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Load(sub)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Config.Version != 2 {
		t.Errorf("Config.Version = %d, want 2", res.Config.Version)
	}
	if want := filepath.Join(root, "scripts"); res.Config.Dir != want {
		t.Errorf("Config.Dir = %q, want %q", res.Config.Dir, want)
	}
}

func TestLoad_NoFile(t *testing.T) {
	dir := t.TempDir()

	res, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Path != "" {
		t.Errorf("Path = %q, want empty", res.Path)
	}
	if got := res.Config.Port(); got != DefaultPort {
		t.Errorf("Port() = %d, want %d", got, DefaultPort)
	}
	if got := res.Config.Executable(); got != DefaultExecutable {
		t.Errorf("Executable() = %q, want %q", got, DefaultExecutable)
	}
	if got := res.Config.HistorySize(); got != DefaultHistorySize {
		t.Errorf("HistorySize() = %d, want %d", got, DefaultHistorySize)
	}
}

func TestLoad_PortZeroIsExplicit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "port: 0\n")

	res, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := res.Config.Port(); got != 0 {
		t.Errorf("Port() = %d, want 0", got)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "port: [not an int\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvPort, "12")
	t.Setenv(EnvExecutable, "mpy-ampy")

	cfg := &Config{RawExecutable: "ampy"}
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if got := cfg.Port(); got != 12 {
		t.Errorf("Port() = %d, want 12", got)
	}
	if got := cfg.Executable(); got != "mpy-ampy" {
		t.Errorf("Executable() = %q, want %q", got, "mpy-ampy")
	}
}

func TestApplyEnv_BadPort(t *testing.T) {
	t.Setenv(EnvPort, "COM3")

	cfg := &Config{}
	if err := cfg.ApplyEnv(); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, path, EnvPort+"=8\n")
	t.Setenv(EnvPort, "")
	os.Unsetenv(EnvPort)

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv(EnvPort); got != "8" {
		t.Errorf("%s = %q, want %q", EnvPort, got, "8")
	}
}

func TestLoadEnv_Missing(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("LoadEnv on missing file: %v", err)
	}
}
