package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mediashelf/internal/config"
	"mediashelf/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEDIASHELF_INPUT_DIR", "")
	t.Setenv("MEDIASHELF_LIBRARY_DIR", "")
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithStubbedBinaries()}, opts...)...)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRootWithoutSubcommandPrintsHelp(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	requireContains(t, out, "Usage:")
	requireContains(t, out, "scan")
}

func TestStatusReportsReadiness(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "exists: yes")
	requireContains(t, out, "FFprobe")
	requireContains(t, out, "Library directory")
	requireContains(t, out, "Ready")
}

func TestRunWithEmptyInput(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "No media sets found in "+env.cfg.Paths.InputDir)
}

func TestRunRefusesWhenPreflightFails(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Tools.Lsof = "clearly-not-present-lsof"
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, err.Error(), "preflight checks failed")
	requireContains(t, out, "lsof")
}

func TestScanListsFilesWithoutMoving(t *testing.T) {
	env := setupCLITestEnv(t)
	image := filepath.Join(env.cfg.Paths.InputDir, "2024-06-05 Sunset.jpg")
	testsupport.WriteFile(t, image, 32)
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.InputDir, "notes.txt"), 8)

	out, _, err := runCLI(t, []string{"scan", "--ignored"}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "2024-06-05 Sunset.jpg")
	requireContains(t, out, "not_supported")
	requireContains(t, out, "image matches no set title")
	if _, err := os.Stat(image); err != nil {
		t.Fatalf("scan must not move files: %v", err)
	}
}
