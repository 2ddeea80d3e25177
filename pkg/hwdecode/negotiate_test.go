package hwdecode

import (
	"errors"
	"testing"

	"github.com/214zzl995/subtitle-fast/pkg/adapters/simsource"
	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

func openTestDevice(t *testing.T, platform *simsource.Platform) ports.DecodeDevice {
	t.Helper()
	device, err := SelectDevice(platform, nil, noopLogger{})
	if err != nil {
		t.Fatalf("select device: %v", err)
	}
	t.Cleanup(func() { device.Close() })
	return device
}

func TestOpenSession_FirstAttemptWithHints(t *testing.T) {
	platform := simsource.New(simsource.DefaultOptions())
	device := openTestDevice(t, platform)

	session, err := OpenSession(platform, device, "sim://clip", noopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer session.Close()

	if len(platform.OpenAttempts) != 1 {
		t.Fatalf("expected 1 open attempt, got %d", len(platform.OpenAttempts))
	}
	hints := platform.OpenAttempts[0]
	if !hints.HardwareTransforms || !hints.DeviceManager {
		t.Errorf("first attempt must request both hints, got %+v", hints)
	}
	if session.Width != 640 || session.Height != 360 {
		t.Errorf("expected negotiated 640x360, got %dx%d", session.Width, session.Height)
	}
	if session.Format != ports.FormatNV12 {
		t.Errorf("expected NV12, got %s", session.Format)
	}
}

func TestOpenSession_RetriesOnceWithoutHints(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.RejectHints = true
	platform := simsource.New(opts)
	device := openTestDevice(t, platform)

	session, err := OpenSession(platform, device, "sim://clip", noopLogger{})
	if err != nil {
		t.Fatalf("expected hint fallback to succeed, got %v", err)
	}
	defer session.Close()

	if len(platform.OpenAttempts) != 2 {
		t.Fatalf("expected exactly 2 open attempts, got %d", len(platform.OpenAttempts))
	}
	second := platform.OpenAttempts[1]
	if second.HardwareTransforms || second.DeviceManager {
		t.Errorf("second attempt must disable hints, got %+v", second)
	}
}

func TestOpenSession_OtherOpenFailuresAreTerminal(t *testing.T) {
	platform := &failingPlatform{Platform: simsource.New(simsource.DefaultOptions())}
	device := openTestDevice(t, platform.Platform)

	_, err := OpenSession(platform, device, "sim://clip", noopLogger{})
	if !errors.Is(err, ErrOpenFailed) {
		t.Fatalf("expected ErrOpenFailed, got %v", err)
	}
	if platform.attempts != 1 {
		t.Errorf("a non-hint failure must not trigger a retry, got %d attempts", platform.attempts)
	}
}

// failingPlatform rejects every open with a generic failure.
type failingPlatform struct {
	*simsource.Platform
	attempts int
}

func (p *failingPlatform) NewReader(uri string, device ports.DecodeDevice, hints ports.ReaderHints) (ports.SourceReader, error) {
	p.attempts++
	return nil, errors.New("file not found")
}
