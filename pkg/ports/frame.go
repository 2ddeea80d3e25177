package ports

// Frame is one decoded NV12 frame handed to the consumer callback.
//
// Luma holds Stride*Height bytes; Chroma holds Stride*ceil(Height/2)
// bytes with the same stride (4:2:0 interleaved CbCr). Both slices are
// valid only for the duration of the callback; consumers must copy what
// they keep.
type Frame struct {
	Luma         []byte
	LumaStride   int
	Chroma       []byte
	ChromaStride int

	Width  uint32
	Height uint32

	// TimestampSeconds is -1 when the reader reported no timestamp.
	TimestampSeconds float64

	// Index is the pull loop's own monotonic counter, starting at the
	// requested start frame. After a keyframe-aligned seek it can be
	// offset from the true container frame number.
	Index uint64
}

// FrameCallback consumes one frame. Returning false stops the pull loop
// immediately; this is the sole cancellation mechanism.
type FrameCallback func(frame *Frame) bool

// ProbeResult reports stream metadata. Absent metadata is a valid outcome,
// not an error: HasFrameCount is false and DurationSeconds/FPS are NaN.
type ProbeResult struct {
	HasFrameCount bool
	FrameCount    uint64

	// DurationSeconds and FPS use NaN as the "unknown" sentinel, never
	// 0, so a zero-length stream stays distinguishable.
	DurationSeconds float64
	FPS             float64

	// Width and Height are 0 when unknown.
	Width  uint32
	Height uint32
}
