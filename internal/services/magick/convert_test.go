package magick_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"mediashelf/internal/procrun"
	"mediashelf/internal/services/magick"
)

func TestConvertColorspaceWithProfiles(t *testing.T) {
	var seen procrun.Command
	runner := procrun.RunnerFunc(func(ctx context.Context, cmd procrun.Command) (procrun.Result, error) {
		seen = cmd
		return procrun.Result{}, nil
	})
	client := magick.NewClient(runner, magick.Options{SourceProfile: "p3.icc", TargetProfile: "srgb.icc", Quality: 90})
	if err := client.ConvertColorspace(context.Background(), "in.jpg", "out.jpg"); err != nil {
		t.Fatalf("ConvertColorspace: %v", err)
	}
	want := []string{"in.jpg", "-profile", "p3.icc", "-profile", "srgb.icc", "-quality", "90", "out.jpg"}
	if seen.Name != "magick" || !slices.Equal(seen.Args, want) {
		t.Fatalf("unexpected command %s", seen.String())
	}
}

func TestConvertColorspaceDefaultsToSRGB(t *testing.T) {
	var seen procrun.Command
	runner := procrun.RunnerFunc(func(ctx context.Context, cmd procrun.Command) (procrun.Result, error) {
		seen = cmd
		return procrun.Result{}, nil
	})
	client := magick.NewClient(runner, magick.Options{Binary: "convert"})
	if err := client.ConvertColorspace(context.Background(), "in.jpg", "out.jpg"); err != nil {
		t.Fatalf("ConvertColorspace: %v", err)
	}
	if seen.Name != "convert" || !slices.Contains(seen.Args, "sRGB") {
		t.Fatalf("unexpected command %s", seen.String())
	}
}

func TestConvertColorspaceRejectsInPlaceAndFailures(t *testing.T) {
	failing := procrun.RunnerFunc(func(ctx context.Context, cmd procrun.Command) (procrun.Result, error) {
		return procrun.Result{}, errors.New("boom")
	})
	client := magick.NewClient(failing, magick.Options{})
	if err := client.ConvertColorspace(context.Background(), "a.jpg", "a.jpg"); err == nil {
		t.Fatal("expected in-place conversion to be rejected")
	}
	if err := client.ConvertColorspace(context.Background(), "a.jpg", "b.jpg"); err == nil {
		t.Fatal("expected runner failure to surface")
	}
}
