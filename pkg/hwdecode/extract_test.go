package hwdecode

import (
	"errors"
	"testing"

	"github.com/214zzl995/subtitle-fast/pkg/adapters/simsource"
	"github.com/214zzl995/subtitle-fast/pkg/nv12"
	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

func TestDecode_GPUDelivery(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.Delivery = ports.DeliverGPUSurface
	platform := simsource.New(opts)

	frames := collectFrames(t, platform, DecodeOptions{})
	if len(frames) != 120 {
		t.Fatalf("expected 120 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if got := f.Luma[0]; got != byte(i%256) {
			t.Fatalf("frame %d first luma byte = %d, want %d", i, got, i%256)
		}
	}
}

func TestDecode_StagingSurfaceIsReused(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.Delivery = ports.DeliverGPUSurface
	platform := simsource.New(opts)

	frames := collectFrames(t, platform, DecodeOptions{})
	if len(frames) != 120 {
		t.Fatalf("expected 120 frames, got %d", len(frames))
	}
	if allocs := platform.LastDevice.StagingAllocations(); allocs != 1 {
		t.Errorf("same-geometry frames must share one staging surface, got %d allocations", allocs)
	}
}

// stagingDevice hands out staging surfaces sized from the requested
// description and counts allocations.
type stagingDevice struct {
	allocs int
}

func (d *stagingDevice) Adapter() *ports.AdapterInfo  { return nil }
func (d *stagingDevice) SetMultithreadProtected(bool) {}
func (d *stagingDevice) Close() error                 { return nil }

func (d *stagingDevice) NewStagingSurface(desc ports.SurfaceDesc) (ports.StagingSurface, error) {
	d.allocs++
	return &descStaging{
		desc: desc,
		data: make([]byte, nv12.TotalSize(int(desc.Width), int(desc.Height))),
	}, nil
}

func (d *stagingDevice) CopyToStaging(ports.GPUSurface, ports.StagingSurface) error { return nil }

type descStaging struct {
	desc ports.SurfaceDesc
	data []byte
}

func (s *descStaging) Desc() ports.SurfaceDesc           { return s.desc }
func (s *descStaging) Map() (ports.MappedSurface, error) { return s, nil }
func (s *descStaging) Close() error                      { return nil }
func (s *descStaging) RowPitch() int                     { return int(s.desc.Width) }
func (s *descStaging) Bytes() []byte                     { return s.data }
func (s *descStaging) Unmap()                            {}

type surfaceSample struct {
	desc ports.SurfaceDesc
}

func (s *surfaceSample) Surface() (ports.GPUSurface, bool) { return s, true }
func (s *surfaceSample) Buffer() (ports.CPUBuffer, bool)   { return nil, false }
func (s *surfaceSample) Release()                          {}
func (s *surfaceSample) Desc() ports.SurfaceDesc           { return s.desc }

func TestStagingExtractor_ReallocatesOnKeyChange(t *testing.T) {
	// The staging surface is keyed by (width, height, format): identical
	// descriptions share one surface, and a change in any of the three
	// forces exactly one reallocation.
	device := &stagingDevice{}
	e := &gpuStagingExtractor{device: device}
	defer e.close()

	extract := func(desc ports.SurfaceDesc) {
		t.Helper()
		if _, err := e.extract(&surfaceSample{desc: desc}, desc.Width, desc.Height); err != nil {
			t.Fatalf("extract %+v: %v", desc, err)
		}
	}

	base := ports.SurfaceDesc{Width: 64, Height: 32, Format: ports.FormatNV12}
	extract(base)
	extract(base)
	extract(base)
	if device.allocs != 1 {
		t.Fatalf("identical descriptions must share one staging surface, got %d allocations", device.allocs)
	}

	wider := base
	wider.Width = 128
	extract(wider)
	if device.allocs != 2 {
		t.Fatalf("a width change must force exactly one reallocation, got %d", device.allocs)
	}
	extract(wider)
	if device.allocs != 2 {
		t.Fatalf("the reallocated surface must be reused, got %d", device.allocs)
	}

	taller := wider
	taller.Height = 64
	extract(taller)
	if device.allocs != 3 {
		t.Fatalf("a height change must force exactly one reallocation, got %d", device.allocs)
	}

	other := taller
	other.Format = ports.PixelFormat("p010")
	extract(other)
	if device.allocs != 4 {
		t.Fatalf("a format change must force exactly one reallocation, got %d", device.allocs)
	}
}

func TestDecode_PlaneLayout(t *testing.T) {
	// Odd height exercises the rounded-up chroma row count.
	opts := simsource.DefaultOptions()
	opts.Width = 320
	opts.Height = 181
	opts.FrameCount = 2
	platform := simsource.New(opts)

	frames := collectFrames(t, platform, DecodeOptions{})
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	f := frames[0]
	if f.LumaStride != 320 || f.ChromaStride != 320 {
		t.Fatalf("expected stride 320 on both planes, got %d/%d", f.LumaStride, f.ChromaStride)
	}
	if len(f.Luma) != 320*181 {
		t.Errorf("luma plane is %d bytes, want stride*height=%d", len(f.Luma), 320*181)
	}
	if len(f.Chroma) != 320*91 {
		t.Errorf("chroma plane is %d bytes, want stride*ceil(h/2)=%d", len(f.Chroma), 320*91)
	}
}

func TestDecode_RowPitchHonored(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.RowPitchPadding = 64
	opts.FrameCount = 3
	platform := simsource.New(opts)

	frames := collectFrames(t, platform, DecodeOptions{})
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	f := frames[1]
	stride := 640 + 64
	if f.LumaStride != stride {
		t.Fatalf("expected pitch %d, got %d", stride, f.LumaStride)
	}
	if len(f.Luma) != stride*360 {
		t.Fatalf("luma plane is %d bytes, want %d", len(f.Luma), stride*360)
	}
	// Every row of frame 1 starts at a pitch-aligned offset.
	for row := 0; row < 360; row++ {
		if got := f.Luma[row*stride]; got != byte((row+1)%256) {
			t.Fatalf("row %d starts with %d, want %d", row, got, (row+1)%256)
		}
	}
}

func TestDecode_RowPitchHonoredOnStaging(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.Delivery = ports.DeliverGPUSurface
	opts.RowPitchPadding = 128
	opts.FrameCount = 2
	platform := simsource.New(opts)

	frames := collectFrames(t, platform, DecodeOptions{})
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].LumaStride != 640+128 {
		t.Errorf("expected staging pitch %d, got %d", 640+128, frames[0].LumaStride)
	}
}

func TestDecode_LinearLockFallback(t *testing.T) {
	// Buffers that refuse a 2D lock fall back to a linear lock with the
	// pitch assumed equal to the width.
	opts := simsource.DefaultOptions()
	opts.LinearBuffers = true
	opts.FrameCount = 4
	platform := simsource.New(opts)

	frames := collectFrames(t, platform, DecodeOptions{})
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}
	if frames[0].LumaStride != 640 {
		t.Errorf("linear fallback must assume pitch=width, got %d", frames[0].LumaStride)
	}
	if got := frames[3].Luma[0]; got != 3 {
		t.Errorf("frame 3 first luma byte = %d, want 3", got)
	}
}

func TestDecode_TruncatedBufferFails(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.ShortBuffer = true
	platform := simsource.New(opts)

	err := New(platform).Decode("sim://clip", DecodeOptions{}, discardFrames)
	if !errors.Is(err, ErrCopyFailed) {
		t.Fatalf("expected ErrCopyFailed for a truncated buffer, got %v", err)
	}
}

func TestDecode_TruncatedStagingFails(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.Delivery = ports.DeliverGPUSurface
	opts.ShortBuffer = true
	platform := simsource.New(opts)

	err := New(platform).Decode("sim://clip", DecodeOptions{}, discardFrames)
	if !errors.Is(err, ErrCopyFailed) {
		t.Fatalf("expected ErrCopyFailed for a truncated staging surface, got %v", err)
	}
}

func TestDecode_NegativePitchFails(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.NegativePitch = true
	platform := simsource.New(opts)

	err := New(platform).Decode("sim://clip", DecodeOptions{}, discardFrames)
	if !errors.Is(err, ErrCopyFailed) {
		t.Fatalf("expected ErrCopyFailed for a bottom-up layout, got %v", err)
	}
}

func TestDecode_ZeroPitchFails(t *testing.T) {
	opts := simsource.DefaultOptions()
	opts.Delivery = ports.DeliverGPUSurface
	opts.ZeroPitch = true
	platform := simsource.New(opts)

	err := New(platform).Decode("sim://clip", DecodeOptions{}, discardFrames)
	if !errors.Is(err, ErrCopyFailed) {
		t.Fatalf("expected ErrCopyFailed for a zero pitch, got %v", err)
	}
}
