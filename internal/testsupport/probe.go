package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"mediashelf/internal/media/ffprobe"
)

// FakeProbe answers ffprobe requests from an in-memory table keyed by
// file basename. It records every probed path.
type FakeProbe struct {
	mu      sync.Mutex
	results map[string]ffprobe.Result
	errs    map[string]error
	calls   []string
}

// NewFakeProbe returns an empty FakeProbe.
func NewFakeProbe() *FakeProbe {
	return &FakeProbe{results: map[string]ffprobe.Result{}, errs: map[string]error{}}
}

// Video registers a video with the given codec and container tags.
func (f *FakeProbe) Video(base, codec string, tags map[string]string) *FakeProbe {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[base] = ffprobe.Result{
		Streams: []ffprobe.Stream{{CodecType: "video", CodecName: codec, Width: 3840, Height: 2160}},
		Format:  ffprobe.Format{Tags: tags},
	}
	return f
}

// Image registers an image with the given pixel dimensions.
func (f *FakeProbe) Image(base string, width, height int) *FakeProbe {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[base] = ffprobe.Result{
		Streams: []ffprobe.Stream{{CodecType: "video", CodecName: "mjpeg", Width: width, Height: height}},
	}
	return f
}

// Fail makes probes of base return err.
func (f *FakeProbe) Fail(base string, err error) *FakeProbe {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[base] = err
	return f
}

// Probe implements ffprobe.Prober.
func (f *FakeProbe) Probe(ctx context.Context, path string) (ffprobe.Result, error) {
	if err := ctx.Err(); err != nil {
		return ffprobe.Result{}, err
	}
	base := filepath.Base(path)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	if err, ok := f.errs[base]; ok {
		return ffprobe.Result{}, err
	}
	if result, ok := f.results[base]; ok {
		return result, nil
	}
	return ffprobe.Result{}, fmt.Errorf("no fake probe result for %s", base)
}

// Calls returns the probed paths in call order.
func (f *FakeProbe) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
