package simsource

import (
	"github.com/pkg/errors"

	"github.com/214zzl995/subtitle-fast/pkg/nv12"
	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// reader emits the synthetic stream. It honors stream ticks, end of
// stream, keyframe-snapped seeking, and both sample delivery flavors.
type reader struct {
	opts   *Options
	device *Device

	next       uint64
	sinceTick  int
	selected   bool
	negotiated bool
	closed     bool
}

func (r *reader) SelectVideoStream() error {
	r.selected = true
	return nil
}

func (r *reader) SetFormat(format ports.PixelFormat) (uint32, uint32, error) {
	if format != ports.FormatNV12 || r.opts.RejectFormat {
		return 0, 0, errors.Errorf("sim reader cannot deliver %s", format)
	}
	r.negotiated = true
	return r.opts.Width, r.opts.Height, nil
}

func (r *reader) Duration() (uint64, bool) {
	if !r.opts.DeclareDuration {
		return 0, false
	}
	if r.opts.DeclaredDurationTicks > 0 {
		return r.opts.DeclaredDurationTicks, true
	}
	return r.frameTicks(r.opts.FrameCount), true
}

func (r *reader) FrameRate() (uint32, uint32, bool) {
	if r.opts.OmitFrameRate {
		return 0, 0, false
	}
	return r.opts.FPSNum, r.opts.FPSDen, true
}

func (r *reader) Traits() ports.ReaderTraits {
	return ports.ReaderTraits{
		Delivery:           r.opts.Delivery,
		UnreliableDuration: r.opts.UnreliableDuration,
	}
}

func (r *reader) ReadSample() (ports.ReadResult, error) {
	if r.opts.FailReadAt != nil && r.next == *r.opts.FailReadAt {
		return ports.ReadResult{}, errors.New("simulated read failure")
	}
	if r.next >= r.opts.FrameCount {
		return ports.ReadResult{EndOfStream: true, Timestamp: -1}, nil
	}

	if r.opts.TickEvery > 0 {
		r.sinceTick++
		if r.sinceTick >= r.opts.TickEvery {
			r.sinceTick = 0
			return ports.ReadResult{StreamTick: true, Timestamp: int64(r.frameTicks(r.next))}, nil
		}
	}

	index := r.next
	r.next++
	timestamp := int64(r.frameTicks(index))
	desc := ports.SurfaceDesc{Width: r.opts.Width, Height: r.opts.Height, Format: ports.FormatNV12}

	if r.opts.Delivery == ports.DeliverGPUSurface {
		return ports.ReadResult{
			Sample:    &gpuSample{surface: gpuSurface{desc: desc, index: index}},
			Timestamp: timestamp,
		}, nil
	}
	return ports.ReadResult{
		Sample:    &cpuSample{buffer: newCPUBuffer(r.opts, desc, index)},
		Timestamp: timestamp,
	}, nil
}

func (r *reader) SetPosition(ticks int64) error {
	if ticks < 0 {
		return errors.New("negative position")
	}
	if r.opts.FPSNum == 0 || r.opts.FPSDen == 0 {
		return errors.New("sim reader cannot seek without a frame rate")
	}
	frame := uint64(ticks) * uint64(r.opts.FPSNum) / (uint64(r.opts.FPSDen) * ports.TicksPerSecond)
	if r.opts.KeyframeInterval > 1 {
		frame -= frame % r.opts.KeyframeInterval
	}
	if frame > r.opts.FrameCount {
		frame = r.opts.FrameCount
	}
	r.next = frame
	r.sinceTick = 0
	return nil
}

func (r *reader) Close() error {
	r.closed = true
	return nil
}

// frameTicks is the timestamp of frame index in 100 ns ticks.
func (r *reader) frameTicks(index uint64) uint64 {
	if r.opts.FPSNum == 0 {
		return 0
	}
	return index * uint64(r.opts.FPSDen) * ports.TicksPerSecond / uint64(r.opts.FPSNum)
}

// gpuSample keeps its pixels GPU-resident; only a staged copy through the
// device makes them CPU-visible.
type gpuSample struct {
	surface  gpuSurface
	released bool
}

func (s *gpuSample) Surface() (ports.GPUSurface, bool) { return &s.surface, true }
func (s *gpuSample) Buffer() (ports.CPUBuffer, bool)   { return nil, false }
func (s *gpuSample) Release()                          { s.released = true }

type gpuSurface struct {
	desc  ports.SurfaceDesc
	index uint64
}

func (s *gpuSurface) Desc() ports.SurfaceDesc { return s.desc }

// cpuSample carries a buffer the transform already mapped for CPU access.
type cpuSample struct {
	buffer   *cpuBuffer
	released bool
}

func (s *cpuSample) Surface() (ports.GPUSurface, bool) { return nil, false }
func (s *cpuSample) Buffer() (ports.CPUBuffer, bool)   { return s.buffer, true }
func (s *cpuSample) Release()                          { s.released = true }

type cpuBuffer struct {
	opts   *Options
	desc   ports.SurfaceDesc
	data   []byte
	pitch  int
	locked bool
}

func newCPUBuffer(opts *Options, desc ports.SurfaceDesc, index uint64) *cpuBuffer {
	pitch := int(desc.Width) + opts.RowPitchPadding
	size := nv12.TotalSize(pitch, int(desc.Height))
	if opts.ShortBuffer {
		size /= 2
	}
	data := make([]byte, size)
	if !opts.ShortBuffer {
		renderInto(data, pitch, desc, index)
	}
	return &cpuBuffer{opts: opts, desc: desc, data: data, pitch: pitch}
}

func (b *cpuBuffer) Lock2D() ([]byte, int, error) {
	if b.opts.LinearBuffers {
		return nil, 0, ports.ErrNo2DLayout
	}
	b.locked = true
	if b.opts.NegativePitch {
		return b.data, -b.pitch, nil
	}
	return b.data, b.pitch, nil
}

func (b *cpuBuffer) Lock() ([]byte, error) {
	b.locked = true
	return b.data, nil
}

func (b *cpuBuffer) Unlock() { b.locked = false }
