package ports

// DecodeDevice is an opaque handle to a GPU compute/decode context plus
// the device-manager handle that binds the decoder to it. Owned by exactly
// one session; never shared across concurrent probe/decode calls.
type DecodeDevice interface {
	// Adapter returns the adapter the device was created on, or nil for
	// the driver default.
	Adapter() *AdapterInfo

	// SetMultithreadProtected enables thread-safety protection on the
	// device context. The decode service may call into the device from
	// its own threads.
	SetMultithreadProtected(enabled bool)

	// NewStagingSurface allocates a CPU-readable readback target.
	NewStagingSurface(desc SurfaceDesc) (StagingSurface, error)

	// CopyToStaging issues a GPU-side copy from src into dst.
	CopyToStaging(src GPUSurface, dst StagingSurface) error

	Close() error
}
