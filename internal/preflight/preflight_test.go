package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mediashelf/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadableFile(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "DisplayP3.icc")
	if err := os.WriteFile(profile, []byte("icc"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckReadableFile("profile", profile); !result.Passed {
		t.Fatalf("expected readable profile, got: %s", result.Detail)
	}
	if result := CheckReadableFile("profile", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	if result := CheckReadableFile("profile", filepath.Join(dir, "missing.icc")); result.Passed {
		t.Fatal("expected failure for missing profile")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_StubbedConfigPasses(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	results := RunAll(context.Background(), cfg)
	// input, work and library directories plus three binaries
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_ReportsMissingProfileAndBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffprobe", "magick"))
	cfg.Tools.Lsof = "clearly-not-present-lsof"
	cfg.Artwork.SourceProfile = filepath.Join(t.TempDir(), "p3.icc")

	failed := Failed(RunAll(context.Background(), cfg))
	names := make(map[string]bool, len(failed))
	for _, r := range failed {
		names[r.Name] = true
	}
	if !names["lsof"] || !names["Source color profile"] || len(failed) != 2 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}
