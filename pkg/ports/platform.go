// Package ports defines the interfaces the decode core needs from the
// platform decode service. Concrete backends live under pkg/adapters.
package ports

import "errors"

// TicksPerSecond is the platform timestamp unit: 100-nanosecond ticks.
const TicksPerSecond = 10_000_000

// PixelFormat identifies the pixel layout of decoded surfaces.
type PixelFormat string

// FormatNV12 is planar 4:2:0: a full-resolution luma plane followed by an
// interleaved half-resolution chroma plane. The pipeline negotiates this
// format and never falls back to another layout.
const FormatNV12 PixelFormat = "nv12"

// ErrHintsUnsupported is returned by Platform.NewReader when the requested
// hint combination is rejected by the service. The negotiator retries once
// with hints disabled before giving up.
var ErrHintsUnsupported = errors.New("reader hints unsupported")

// ReaderHints requests optional capabilities when opening a source reader.
type ReaderHints struct {
	HardwareTransforms bool
	DeviceManager      bool
}

// AdapterInfo describes one GPU adapter exposed by the platform.
type AdapterInfo struct {
	Description          string
	VendorID             uint32
	DeviceID             uint32
	DedicatedVideoMemory uint64
	// Software marks emulated adapters, which the selection policy skips.
	Software bool
}

// Platform is the decode service boundary. One Startup/Shutdown pair must
// bracket every sequence of calls; the core reference-counts this.
type Platform interface {
	// Name identifies the backend ("sim", "mp4", ...).
	Name() string

	// Startup initializes the platform runtime.
	Startup() error

	// Shutdown tears down the platform runtime. Paired with Startup.
	Shutdown()

	// Adapters enumerates the available GPU adapters.
	Adapters() ([]AdapterInfo, error)

	// NewDevice creates a decode device on the given adapter. A nil
	// adapter requests the driver's default hardware device.
	NewDevice(adapter *AdapterInfo) (DecodeDevice, error)

	// NewReader opens a source reader for uri bound to the device.
	// Returns an error wrapping ErrHintsUnsupported when the hint
	// combination is recognized but not supported.
	NewReader(uri string, device DecodeDevice, hints ReaderHints) (SourceReader, error)
}
