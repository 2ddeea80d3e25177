package hwdecode

import (
	"errors"
	"math"
	"testing"

	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

func TestComputePosition_Frame150At30FPS(t *testing.T) {
	ticks, err := ComputePosition(150, 30, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seconds := float64(ticks) / ports.TicksPerSecond
	if seconds != 5.0 {
		t.Errorf("expected 5.0 s, got %v", seconds)
	}
}

func TestComputePosition_MissingFrameRate(t *testing.T) {
	if _, err := ComputePosition(10, 0, 1); !errors.Is(err, ErrMissingFrameRate) {
		t.Errorf("zero numerator: expected ErrMissingFrameRate, got %v", err)
	}
	if _, err := ComputePosition(10, 30, 0); !errors.Is(err, ErrMissingFrameRate) {
		t.Errorf("zero denominator: expected ErrMissingFrameRate, got %v", err)
	}
}

func TestComputePosition_RoundTrip(t *testing.T) {
	cases := []struct {
		startFrame uint64
		num, den   uint32
	}{
		{0, 30, 1},
		{1, 30, 1},
		{150, 30, 1},
		{12345, 30000, 1001},
		{999999, 24, 1},
		{7, 25, 2},
	}
	for _, tc := range cases {
		ticks, err := ComputePosition(tc.startFrame, tc.num, tc.den)
		if err != nil {
			t.Fatalf("ComputePosition(%d, %d/%d): %v", tc.startFrame, tc.num, tc.den, err)
		}
		seconds := float64(ticks) / ports.TicksPerSecond
		fps := float64(tc.num) / float64(tc.den)
		recovered := seconds * fps
		if math.Abs(recovered-float64(tc.startFrame)) > 1.0 {
			t.Errorf("frame %d at %d/%d fps: round trip gave %f", tc.startFrame, tc.num, tc.den, recovered)
		}
	}
}

func TestComputePosition_Overflow(t *testing.T) {
	// A frame index this large maps far past the int64 tick range when
	// the rate is one frame per many seconds.
	if _, err := ComputePosition(math.MaxUint64, 1, 1000); !errors.Is(err, ErrSeekOverflow) {
		t.Errorf("expected ErrSeekOverflow, got %v", err)
	}
}

func TestTicksToSeconds_UnknownTimestamp(t *testing.T) {
	if got := TicksToSeconds(-1); got != -1 {
		t.Errorf("expected -1 for unknown timestamps, got %v", got)
	}
	if got := TicksToSeconds(ports.TicksPerSecond); got != 1.0 {
		t.Errorf("expected 1.0, got %v", got)
	}
}
