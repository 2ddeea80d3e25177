package ports

import "errors"

// SampleDelivery tells the core how the negotiated reader hands over
// decoded samples, which decides the extraction strategy at session-open
// time.
type SampleDelivery int

const (
	// DeliverCPUBuffer: the decode transform delivers a CPU-mapped
	// media buffer.
	DeliverCPUBuffer SampleDelivery = iota
	// DeliverGPUSurface: samples stay GPU-resident and need an explicit
	// staged copy before the CPU can read them.
	DeliverGPUSurface
)

// ReaderTraits describes quirks of a negotiated reader.
type ReaderTraits struct {
	Delivery SampleDelivery
	// UnreliableDuration marks containers whose declared duration is
	// known to be inaccurate; the probe engine then measures the tail
	// empirically.
	UnreliableDuration bool
}

// ReadResult is one unit from the video stream: a sample, an end-of-stream
// marker, or a stream tick (timing heartbeat with no decodable payload).
type ReadResult struct {
	EndOfStream bool
	StreamTick  bool
	// Sample is nil for end-of-stream and tick results.
	Sample Sample
	// Timestamp in TicksPerSecond units; negative when unknown.
	Timestamp int64
}

// SourceReader wraps the service's demuxer/decoder object. All calls block
// until the service responds; the core imposes no timeouts.
type SourceReader interface {
	// SelectVideoStream deselects every stream except the first video
	// stream.
	SelectVideoStream() error

	// SetFormat forces the stream's output pixel format and returns the
	// negotiated frame dimensions.
	SetFormat(format PixelFormat) (width, height uint32, err error)

	// Duration reports the container duration in ticks; ok is false
	// when the container carries no usable duration.
	Duration() (ticks uint64, ok bool)

	// FrameRate reports the stream frame rate as a rational; ok is
	// false when the metadata is absent.
	FrameRate() (num, den uint32, ok bool)

	Traits() ReaderTraits

	// ReadSample reads the next unit from the video stream.
	ReadSample() (ReadResult, error)

	// SetPosition seeks to the given timestamp. The service may land on
	// an earlier keyframe.
	SetPosition(ticks int64) error

	Close() error
}

// ErrNo2DLayout is returned by CPUBuffer.Lock2D when the buffer has no
// native two-dimensional mapping; callers fall back to a linear lock.
var ErrNo2DLayout = errors.New("buffer has no 2D layout")

// SurfaceDesc keys staging surface reuse.
type SurfaceDesc struct {
	Width  uint32
	Height uint32
	Format PixelFormat
}

// Sample is one decoded unit. Exactly one of Surface/Buffer is available,
// matching the reader's SampleDelivery trait. Release must be called once
// the backing storage is no longer needed.
type Sample interface {
	Surface() (GPUSurface, bool)
	Buffer() (CPUBuffer, bool)
	Release()
}

// GPUSurface is an opaque GPU-resident decoded surface.
type GPUSurface interface {
	Desc() SurfaceDesc
}

// StagingSurface is a CPU-readable readback target allocated by the
// device, reused across frames until its description changes.
type StagingSurface interface {
	Desc() SurfaceDesc
	Map() (MappedSurface, error)
	Close() error
}

// MappedSurface is a staging surface mapped for CPU reads. The slice is
// valid until Unmap.
type MappedSurface interface {
	// RowPitch is the byte distance between row starts; it may exceed
	// the logical row width due to driver alignment.
	RowPitch() int
	Bytes() []byte
	Unmap()
}

// CPUBuffer is a media buffer the decode transform already mapped for CPU
// access.
type CPUBuffer interface {
	// Lock2D maps the buffer with its native pitch, or fails with
	// ErrNo2DLayout.
	Lock2D() (data []byte, pitch int, err error)

	// Lock maps the buffer linearly; len(data) is the contiguous
	// length.
	Lock() (data []byte, err error)

	Unlock()
}
