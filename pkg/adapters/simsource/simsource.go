// Package simsource provides a synthetic decode platform. It generates
// deterministic NV12 frames in memory, in both GPU-surface and CPU-buffer
// delivery flavors, so the pipeline can run without real hardware. It
// backs the CLI's sim backend and the package tests.
package simsource

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/214zzl995/subtitle-fast/pkg/nv12"
	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// Options shapes the synthetic stream.
type Options struct {
	Width      uint32
	Height     uint32
	FrameCount uint64
	FPSNum     uint32
	FPSDen     uint32

	// Delivery selects which storage flavor samples carry.
	Delivery ports.SampleDelivery

	// TickEvery injects a stream tick before every Nth sample; 0
	// disables ticks.
	TickEvery int

	// RowPitchPadding adds alignment bytes to each mapped row, so
	// extraction must honor the reported pitch rather than the width.
	RowPitchPadding int

	// KeyframeInterval snaps seeks down to a multiple, imitating
	// keyframe-aligned container seeking. 0 seeks exactly.
	KeyframeInterval uint64

	// DeclareDuration controls whether the container reports a
	// duration; DeclaredDurationTicks overrides the derived value.
	DeclareDuration       bool
	DeclaredDurationTicks uint64
	UnreliableDuration    bool

	// OmitFrameRate drops the frame-rate metadata.
	OmitFrameRate bool

	// LinearBuffers makes CPU buffers refuse Lock2D, forcing the
	// linear-lock fallback.
	LinearBuffers bool

	Adapters []ports.AdapterInfo

	// Failure injection.
	RejectHints   bool
	RejectFormat  bool
	FailStartup   bool
	FailReadAt    *uint64
	ShortBuffer   bool
	ZeroPitch     bool
	NegativePitch bool
}

// DefaultOptions mirrors the synthetic stream the original mock backend
// emits: 640x360 at 60 fps, 120 frames.
func DefaultOptions() Options {
	return Options{
		Width:           640,
		Height:          360,
		FrameCount:      120,
		FPSNum:          60,
		FPSDen:          1,
		Delivery:        ports.DeliverCPUBuffer,
		DeclareDuration: true,
	}
}

// Platform is the synthetic decode service. One platform may back
// concurrent decode calls, so the observable counters are atomic and the
// open/device records are guarded by a mutex.
type Platform struct {
	opts Options

	// Counters observable by tests.
	Startups  atomic.Int64
	Shutdowns atomic.Int64

	mu           sync.Mutex
	OpenAttempts []ports.ReaderHints
	LastDevice   *Device
}

// New creates a synthetic platform.
func New(opts Options) *Platform {
	return &Platform{opts: opts}
}

// Name implements ports.Platform.
func (p *Platform) Name() string { return "sim" }

// Startup implements ports.Platform.
func (p *Platform) Startup() error {
	if p.opts.FailStartup {
		return errors.New("simulated startup failure")
	}
	p.Startups.Inc()
	return nil
}

// Shutdown implements ports.Platform.
func (p *Platform) Shutdown() { p.Shutdowns.Inc() }

// Adapters implements ports.Platform.
func (p *Platform) Adapters() ([]ports.AdapterInfo, error) {
	return p.opts.Adapters, nil
}

// NewDevice implements ports.Platform.
func (p *Platform) NewDevice(adapter *ports.AdapterInfo) (ports.DecodeDevice, error) {
	device := &Device{adapter: adapter, opts: &p.opts}
	p.mu.Lock()
	p.LastDevice = device
	p.mu.Unlock()
	return device, nil
}

// NewReader implements ports.Platform.
func (p *Platform) NewReader(uri string, device ports.DecodeDevice, hints ports.ReaderHints) (ports.SourceReader, error) {
	p.mu.Lock()
	p.OpenAttempts = append(p.OpenAttempts, hints)
	p.mu.Unlock()
	if p.opts.RejectHints && (hints.HardwareTransforms || hints.DeviceManager) {
		return nil, errors.Wrap(ports.ErrHintsUnsupported, "sim reader")
	}
	dev, ok := device.(*Device)
	if !ok {
		return nil, errors.New("sim reader requires a sim device")
	}
	return &reader{opts: &p.opts, device: dev}, nil
}

// Device is a synthetic decode device. It counts staging allocations so
// tests can assert the reuse invariant.
type Device struct {
	adapter       *ports.AdapterInfo
	opts          *Options
	stagingAllocs int
	protected     bool
	closed        bool
}

// Adapter implements ports.DecodeDevice.
func (d *Device) Adapter() *ports.AdapterInfo { return d.adapter }

// SetMultithreadProtected implements ports.DecodeDevice.
func (d *Device) SetMultithreadProtected(enabled bool) { d.protected = enabled }

// MultithreadProtected reports whether protection was enabled.
func (d *Device) MultithreadProtected() bool { return d.protected }

// StagingAllocations returns how many staging surfaces were created.
func (d *Device) StagingAllocations() int { return d.stagingAllocs }

// NewStagingSurface implements ports.DecodeDevice.
func (d *Device) NewStagingSurface(desc ports.SurfaceDesc) (ports.StagingSurface, error) {
	d.stagingAllocs++
	pitch := int(desc.Width) + d.opts.RowPitchPadding
	if d.opts.ZeroPitch {
		pitch = 0
	}
	size := 0
	if pitch > 0 {
		size = nv12.TotalSize(pitch, int(desc.Height))
		if d.opts.ShortBuffer {
			size /= 2
		}
	}
	return &stagingSurface{desc: desc, pitch: pitch, data: make([]byte, size)}, nil
}

// CopyToStaging implements ports.DecodeDevice.
func (d *Device) CopyToStaging(src ports.GPUSurface, dst ports.StagingSurface) error {
	surface, ok := src.(*gpuSurface)
	if !ok {
		return errors.New("sim copy requires a sim surface")
	}
	staging, ok := dst.(*stagingSurface)
	if !ok {
		return errors.New("sim copy requires a sim staging surface")
	}
	if staging.pitch > 0 {
		renderInto(staging.data, staging.pitch, surface.desc, surface.index)
	}
	return nil
}

// Close implements ports.DecodeDevice.
func (d *Device) Close() error {
	d.closed = true
	return nil
}

type stagingSurface struct {
	desc  ports.SurfaceDesc
	pitch int
	data  []byte
}

func (s *stagingSurface) Desc() ports.SurfaceDesc { return s.desc }

func (s *stagingSurface) Map() (ports.MappedSurface, error) {
	return &mappedSurface{surface: s}, nil
}

func (s *stagingSurface) Close() error { return nil }

type mappedSurface struct {
	surface *stagingSurface
}

func (m *mappedSurface) RowPitch() int { return m.surface.pitch }
func (m *mappedSurface) Bytes() []byte { return m.surface.data }
func (m *mappedSurface) Unmap()        {}

// renderInto writes the deterministic test pattern: each luma row filled
// with (row+index)%256, chroma neutral.
func renderInto(buf []byte, pitch int, desc ports.SurfaceDesc, index uint64) {
	height := int(desc.Height)
	for row := 0; row < height; row++ {
		value := byte((uint64(row) + index) % 256)
		line := buf[row*pitch : (row+1)*pitch]
		for i := range line {
			line[i] = value
		}
	}
	chroma := buf[pitch*height:]
	for i := range chroma {
		chroma[i] = 128
	}
}
