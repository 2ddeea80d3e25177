package hwdecode

import (
	"errors"
	"math"
	"testing"

	"github.com/214zzl995/subtitle-fast/pkg/adapters/simsource"
	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

func TestProbe_FrameCountFromMetadata(t *testing.T) {
	// 1200 s at 30 fps must estimate 36000 frames.
	opts := simsource.DefaultOptions()
	opts.FPSNum = 30
	opts.FPSDen = 1
	opts.DeclaredDurationTicks = 1200 * ports.TicksPerSecond
	platform := simsource.New(opts)

	decoder := New(platform)
	result, err := decoder.ProbeTotalFrames("sim://clip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.HasFrameCount {
		t.Fatal("expected a frame count")
	}
	if result.FrameCount != 36000 {
		t.Errorf("expected 36000 frames, got %d", result.FrameCount)
	}
	if result.DurationSeconds != 1200.0 {
		t.Errorf("expected duration 1200 s, got %v", result.DurationSeconds)
	}
	if result.FPS != 30.0 {
		t.Errorf("expected 30 fps, got %v", result.FPS)
	}
	if result.Width != 640 || result.Height != 360 {
		t.Errorf("expected 640x360, got %dx%d", result.Width, result.Height)
	}
}

func TestProbe_MissingMetadataIsNotAnError(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.DeclareDuration = false
	opts.OmitFrameRate = true
	platform := simsource.New(opts)

	decoder := New(platform)
	result, err := decoder.ProbeTotalFrames("sim://clip")
	if err != nil {
		t.Fatalf("metadata absence must not be an error, got %v", err)
	}
	if result.HasFrameCount {
		t.Error("expected no frame count")
	}
	if !math.IsNaN(result.DurationSeconds) {
		t.Errorf("unknown duration must be NaN, got %v", result.DurationSeconds)
	}
	if !math.IsNaN(result.FPS) {
		t.Errorf("unknown fps must be NaN, got %v", result.FPS)
	}
}

func TestProbe_TailScanRecoversDuration(t *testing.T) {
	// No declared duration, but a known frame rate: the probe must
	// measure the tail empirically. 90 frames at 30 fps = 3 s.
	opts := simsource.DefaultOptions()
	opts.FPSNum = 30
	opts.FPSDen = 1
	opts.FrameCount = 90
	opts.DeclareDuration = false
	platform := simsource.New(opts)

	decoder := New(platform)
	result, err := decoder.ProbeTotalFrames("sim://clip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.HasFrameCount {
		t.Fatal("expected tail scan to recover a frame count")
	}
	if result.FrameCount != 90 {
		t.Errorf("expected 90 frames, got %d", result.FrameCount)
	}
	if math.Abs(result.DurationSeconds-3.0) > 1.0/30.0 {
		t.Errorf("expected ~3.0 s, got %v", result.DurationSeconds)
	}
}

func TestProbe_TailScanOverridesUnreliableDuration(t *testing.T) {
	// The container claims 2.5 s but the stream really holds 2 s of
	// frames; the unreliable-duration trait forces the measurement.
	opts := simsource.DefaultOptions()
	opts.FPSNum = 30
	opts.FPSDen = 1
	opts.FrameCount = 60
	opts.DeclaredDurationTicks = 25_000_000
	opts.UnreliableDuration = true
	platform := simsource.New(opts)

	decoder := New(platform)
	result, err := decoder.ProbeTotalFrames("sim://clip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FrameCount != 60 {
		t.Errorf("expected measured 60 frames, got %d", result.FrameCount)
	}
	if math.Abs(result.DurationSeconds-2.0) > 1.0/30.0 {
		t.Errorf("expected measured ~2.0 s, got %v", result.DurationSeconds)
	}
}

func TestProbe_TailScanIsBounded(t *testing.T) {
	// A stream far longer than the scan budget must still finish; the
	// estimate is then truncated at the budget rather than scanning on.
	opts := simsource.DefaultOptions()
	opts.FPSNum = 30
	opts.FPSDen = 1
	opts.FrameCount = 10000
	opts.DeclareDuration = false
	platform := simsource.New(opts)

	decoder := New(platform)
	result, err := decoder.ProbeTotalFrames("sim://clip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HasFrameCount && result.FrameCount > maxTailReads+1 {
		t.Errorf("scan read past its budget: %d frames", result.FrameCount)
	}
}

func TestProbe_RuntimePairing(t *testing.T) {
	platform := simsource.New(simsource.DefaultOptions())
	decoder := New(platform)

	if _, err := decoder.ProbeTotalFrames("sim://clip"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if platform.Startups.Load() != 1 || platform.Shutdowns.Load() != 1 {
		t.Errorf("expected paired startup/shutdown, got %d/%d", platform.Startups.Load(), platform.Shutdowns.Load())
	}
}

func TestProbe_InvalidPath(t *testing.T) {
	platform := simsource.New(simsource.DefaultOptions())
	decoder := New(platform)

	if _, err := decoder.ProbeTotalFrames("bad\x00path"); !errors.Is(err, ErrPathEncoding) {
		t.Errorf("expected ErrPathEncoding, got %v", err)
	}
	if _, err := decoder.ProbeTotalFrames("bad\xff\xfepath"); !errors.Is(err, ErrPathEncoding) {
		t.Errorf("expected ErrPathEncoding for invalid UTF-8, got %v", err)
	}
}
