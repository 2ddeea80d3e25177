// Package hwdecode implements the hardware decode session and frame-pull
// pipeline: device selection, reader negotiation, probing, frame-accurate
// seeking, and the per-frame extraction path that delivers flat NV12
// buffers to a consumer callback.
package hwdecode

import "github.com/pkg/errors"

// Sentinel errors classify every failure surfaced by this package. All of
// them are terminal for the current call; nothing is retried internally.
// Wrap sites attach context via errors.Wrap, so callers classify with
// errors.Is.
var (
	// ErrPathEncoding: the input path is not valid UTF-8 or contains a
	// NUL byte.
	ErrPathEncoding = errors.New("path encoding error")

	// ErrRuntimeInit: the platform runtime failed to start.
	ErrRuntimeInit = errors.New("runtime initialization failed")

	// ErrDeviceUnavailable: no decode device could be created.
	ErrDeviceUnavailable = errors.New("decode device unavailable")

	// ErrOpenFailed: the source reader could not be opened.
	ErrOpenFailed = errors.New("open failed")

	// ErrFormatUnsupported: the service cannot deliver NV12.
	ErrFormatUnsupported = errors.New("pixel format unsupported")

	// ErrMissingFrameRate: seeking needs a frame rate the stream does
	// not carry.
	ErrMissingFrameRate = errors.New("frame rate metadata missing")

	// ErrSeekOverflow: the start frame maps to a timestamp outside the
	// native range.
	ErrSeekOverflow = errors.New("start frame timestamp overflow")

	// ErrSeekRejected: the reader refused the computed position.
	ErrSeekRejected = errors.New("seek rejected")

	// ErrReadFailed: reading the next sample failed.
	ErrReadFailed = errors.New("read failed")

	// ErrCopyFailed: a surface could not be copied out safely.
	ErrCopyFailed = errors.New("surface copy failed")

	// ErrInvalidArgument: a required argument (such as the frame
	// callback) is missing.
	ErrInvalidArgument = errors.New("invalid argument")
)
