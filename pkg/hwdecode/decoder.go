package hwdecode

import (
	"github.com/pkg/errors"

	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// Decoder is the entry point for probing and decoding. It is configured
// once and may serve multiple calls; each call constructs its own device
// and reader session, so concurrent calls never share platform objects.
type Decoder struct {
	platform       ports.Platform
	log            ports.Logger
	vendorOverride *uint32
	runtime        runtimeRef
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log ports.Logger) Option {
	return func(d *Decoder) {
		d.log = log
	}
}

// WithVendorOverride forces adapter selection to prefer the given PCI
// vendor ID. The value is passed explicitly rather than read from ambient
// process state.
func WithVendorOverride(vendor uint32) Option {
	return func(d *Decoder) {
		v := vendor
		d.vendorOverride = &v
	}
}

// New creates a Decoder on the given platform backend.
func New(platform ports.Platform, opts ...Option) *Decoder {
	d := &Decoder{
		platform: platform,
		log:      noopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DecodeOptions controls a Decode call.
type DecodeOptions struct {
	// StartFrame resumes decoding at the given frame index. Delivered
	// frame indices count up from it; when the container's seek lands
	// on an earlier keyframe they will be offset from true container
	// frame numbers. That imprecision is accepted, not corrected.
	StartFrame *uint64
}

// ProbeTotalFrames opens path and estimates its total frame count along
// with duration, frame rate, and dimensions.
//
// Metadata absence is reported inside the result, not as an error; the
// error return covers path, runtime, device, and session failures only.
// The empirical fallback is bounded, so the call never scans more than
// maxTailReads samples.
func (d *Decoder) ProbeTotalFrames(path string) (ports.ProbeResult, error) {
	var zero ports.ProbeResult
	if err := checkPath(path); err != nil {
		return zero, err
	}

	release, err := d.runtime.acquire(d.platform)
	if err != nil {
		return zero, err
	}
	defer release()

	log := d.log.WithComponent("probe")
	device, err := SelectDevice(d.platform, d.vendorOverride, log)
	if err != nil {
		return zero, err
	}
	defer device.Close()

	session, err := OpenSession(d.platform, device, path, log)
	if err != nil {
		return zero, err
	}
	defer session.Close()

	return probeSession(session, log), nil
}

// Decode opens path and delivers every decoded frame to callback until
// end-of-stream or until the callback returns false. Both are success;
// only the error taxonomy failures report an error.
func (d *Decoder) Decode(path string, opts DecodeOptions, callback ports.FrameCallback) error {
	if callback == nil {
		return errors.Wrap(ErrInvalidArgument, "callback is nil")
	}
	if err := checkPath(path); err != nil {
		return err
	}

	release, err := d.runtime.acquire(d.platform)
	if err != nil {
		return err
	}
	defer release()

	log := d.log.WithComponent("decode")
	device, err := SelectDevice(d.platform, d.vendorOverride, log)
	if err != nil {
		return err
	}
	defer device.Close()

	session, err := OpenSession(d.platform, device, path, log)
	if err != nil {
		return err
	}
	defer session.Close()

	var startIndex uint64
	if opts.StartFrame != nil {
		if err := seekSession(session, *opts.StartFrame, log); err != nil {
			return err
		}
		startIndex = *opts.StartFrame
	}

	extractor := newExtractor(device, session.Reader.Traits())
	defer extractor.close()

	loop := newPullLoop(session, extractor, log)
	return loop.run(startIndex, callback)
}

// noopLogger keeps the core silent when no logger is injected.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func (noopLogger) WithComponent(string) ports.Logger { return noopLogger{} }
