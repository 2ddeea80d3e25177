// Package mp4source provides a pure-Go software decode platform backed by
// mp4ff. It demuxes fragmented MP4 files and hands each video sample to an
// injected SampleDecoder, exposing the result through the same source
// reader contract the hardware backends use. Samples are delivered as
// CPU-mapped buffers.
package mp4source

import (
	"github.com/pkg/errors"

	"github.com/214zzl995/subtitle-fast/pkg/nv12"
	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// SampleDecoder turns one encoded video sample into an NV12 picture.
type SampleDecoder interface {
	Decode(payload []byte) (*nv12.Picture, error)
	Close() error
}

// DecoderFactory creates one SampleDecoder per reader session.
type DecoderFactory func(width, height uint32) (SampleDecoder, error)

// Platform implements ports.Platform over local MP4 files.
type Platform struct {
	factory DecoderFactory
}

// New creates an MP4 platform whose readers decode samples through
// decoders from factory. A nil factory uses RawNV12Decoder, which expects
// sample payloads to be uncompressed NV12.
func New(factory DecoderFactory) *Platform {
	if factory == nil {
		factory = func(width, height uint32) (SampleDecoder, error) {
			return NewRawNV12Decoder(width, height), nil
		}
	}
	return &Platform{factory: factory}
}

// Name implements ports.Platform.
func (p *Platform) Name() string { return "mp4" }

// Startup implements ports.Platform. The demuxer needs no process-wide
// state.
func (p *Platform) Startup() error { return nil }

// Shutdown implements ports.Platform.
func (p *Platform) Shutdown() {}

// Adapters implements ports.Platform. The software path advertises no
// hardware adapters, so device selection falls through to the driver
// default.
func (p *Platform) Adapters() ([]ports.AdapterInfo, error) {
	return nil, nil
}

// NewDevice implements ports.Platform.
func (p *Platform) NewDevice(adapter *ports.AdapterInfo) (ports.DecodeDevice, error) {
	return &device{adapter: adapter}, nil
}

// NewReader implements ports.Platform.
func (p *Platform) NewReader(uri string, _ ports.DecodeDevice, hints ports.ReaderHints) (ports.SourceReader, error) {
	// Hardware hints have no meaning for the software demuxer; they
	// are accepted and ignored rather than rejected.
	return openReader(uri, p.factory)
}

// device is a no-op decode device: the software path never keeps samples
// GPU-resident, so staging surfaces are never requested.
type device struct {
	adapter *ports.AdapterInfo
}

func (d *device) Adapter() *ports.AdapterInfo  { return d.adapter }
func (d *device) SetMultithreadProtected(bool) {}
func (d *device) Close() error                 { return nil }

func (d *device) NewStagingSurface(ports.SurfaceDesc) (ports.StagingSurface, error) {
	return nil, errors.New("software device has no staging surfaces")
}

func (d *device) CopyToStaging(ports.GPUSurface, ports.StagingSurface) error {
	return errors.New("software device has no staging surfaces")
}

// RawNV12Decoder passes uncompressed NV12 payloads through unchanged.
type RawNV12Decoder struct {
	width  uint32
	height uint32
}

// NewRawNV12Decoder creates a pass-through decoder for the given frame
// size.
func NewRawNV12Decoder(width, height uint32) *RawNV12Decoder {
	return &RawNV12Decoder{width: width, height: height}
}

// Decode implements SampleDecoder.
func (d *RawNV12Decoder) Decode(payload []byte) (*nv12.Picture, error) {
	stride := int(d.width)
	need := nv12.TotalSize(stride, int(d.height))
	if len(payload) < need {
		return nil, errors.Errorf("raw NV12 sample is %d bytes, need %d", len(payload), need)
	}
	return &nv12.Picture{
		Data:   payload[:need],
		Stride: stride,
		Width:  d.width,
		Height: d.height,
	}, nil
}

// Close implements SampleDecoder.
func (d *RawNV12Decoder) Close() error { return nil }
