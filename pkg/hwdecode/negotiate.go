package hwdecode

import (
	"github.com/pkg/errors"

	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// ReaderSession wraps a negotiated source reader. Once negotiated the
// output pixel format is fixed to NV12 and the dimensions do not change
// for the life of the session.
type ReaderSession struct {
	Reader ports.SourceReader
	Width  uint32
	Height uint32
	Format ports.PixelFormat
}

// Close releases the underlying reader.
func (s *ReaderSession) Close() error {
	return s.Reader.Close()
}

// OpenSession opens a source reader for uri bound to the device and
// negotiates NV12 output.
//
// The reader is first requested with hardware-transform and device-manager
// hints enabled. If the service rejects that combination, one retry runs
// with hints disabled. This is a deliberate two-attempt fallback, not a
// retry loop; any other open failure is terminal.
func OpenSession(p ports.Platform, device ports.DecodeDevice, uri string, log ports.Logger) (*ReaderSession, error) {
	hints := ports.ReaderHints{HardwareTransforms: true, DeviceManager: true}
	reader, err := p.NewReader(uri, device, hints)
	if err != nil {
		if !errors.Is(err, ports.ErrHintsUnsupported) {
			return nil, errors.Wrapf(ErrOpenFailed, "open reader: %v", err)
		}
		log.Debug("Reader hints rejected, retrying without hints")
		reader, err = p.NewReader(uri, device, ports.ReaderHints{})
		if err != nil {
			return nil, errors.Wrapf(ErrOpenFailed, "open reader without hints: %v", err)
		}
	}

	if err := reader.SelectVideoStream(); err != nil {
		reader.Close()
		return nil, errors.Wrapf(ErrOpenFailed, "select video stream: %v", err)
	}

	// Require NV12; never fall back to another layout, which would
	// silently change downstream semantics.
	width, height, err := reader.SetFormat(ports.FormatNV12)
	if err != nil {
		reader.Close()
		return nil, errors.Wrapf(ErrFormatUnsupported, "force NV12 output: %v", err)
	}

	log.Debug("Negotiated %s %dx%d", ports.FormatNV12, width, height)
	return &ReaderSession{
		Reader: reader,
		Width:  width,
		Height: height,
		Format: ports.FormatNV12,
	}, nil
}
