package hwdecode

import (
	"testing"

	"github.com/214zzl995/subtitle-fast/pkg/adapters/simsource"
	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

func testAdapters() []ports.AdapterInfo {
	return []ports.AdapterInfo{
		{Description: "Integrated", VendorID: 0x8086, DedicatedVideoMemory: 128 << 20},
		{Description: "Discrete", VendorID: 0x10de, DedicatedVideoMemory: 8 << 30},
		{Description: "Renderer (software)", VendorID: 0x1414, DedicatedVideoMemory: 16 << 30, Software: true},
	}
}

func TestSelectDevice_LargestDedicatedMemory(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.Adapters = testAdapters()
	platform := simsource.New(opts)

	device, err := SelectDevice(platform, nil, noopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer device.Close()

	adapter := device.Adapter()
	if adapter == nil || adapter.VendorID != 0x10de {
		t.Errorf("expected the discrete adapter, got %+v", adapter)
	}
}

func TestSelectDevice_SoftwareExcluded(t *testing.T) {
	// The software adapter has the most memory but must never win.
	opts := simsource.DefaultOptions()
	opts.Adapters = testAdapters()
	platform := simsource.New(opts)

	device, err := SelectDevice(platform, nil, noopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer device.Close()

	if adapter := device.Adapter(); adapter != nil && adapter.Software {
		t.Errorf("selected a software adapter: %+v", adapter)
	}
}

func TestSelectDevice_VendorOverrideWins(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.Adapters = testAdapters()
	platform := simsource.New(opts)

	vendor := uint32(0x8086)
	device, err := SelectDevice(platform, &vendor, noopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer device.Close()

	adapter := device.Adapter()
	if adapter == nil || adapter.VendorID != vendor {
		t.Errorf("expected the vendor-override adapter, got %+v", adapter)
	}
}

func TestSelectDevice_UnmatchedVendorFallsBackToMemory(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.Adapters = testAdapters()
	platform := simsource.New(opts)

	vendor := uint32(0xdead)
	device, err := SelectDevice(platform, &vendor, noopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer device.Close()

	adapter := device.Adapter()
	if adapter == nil || adapter.VendorID != 0x10de {
		t.Errorf("expected memory-based selection, got %+v", adapter)
	}
}

func TestSelectDevice_NoAdaptersUsesDriverDefault(t *testing.T) {
	platform := simsource.New(simsource.DefaultOptions())

	device, err := SelectDevice(platform, nil, noopLogger{})
	if err != nil {
		t.Fatalf("expected driver-default fallback, got error: %v", err)
	}
	defer device.Close()

	if device.Adapter() != nil {
		t.Errorf("expected nil adapter for driver default, got %+v", device.Adapter())
	}
}

func TestSelectDevice_EnablesMultithreadProtection(t *testing.T) {
	platform := simsource.New(simsource.DefaultOptions())

	device, err := SelectDevice(platform, nil, noopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer device.Close()

	if !platform.LastDevice.MultithreadProtected() {
		t.Error("expected thread-safety protection to be enabled on the device")
	}
}
