package hwdecode

import (
	"math"

	"github.com/pkg/errors"

	"github.com/214zzl995/subtitle-fast/pkg/nv12"
	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// planeData is the flat NV12 output of an extraction: luma plane first,
// chroma plane immediately after, both at the same stride.
type planeData struct {
	buf    []byte
	stride int
}

func (p *planeData) luma(height uint32) []byte {
	return p.buf[:nv12.LumaSize(p.stride, int(height))]
}

func (p *planeData) chroma(height uint32) []byte {
	y := nv12.LumaSize(p.stride, int(height))
	return p.buf[y : y+nv12.ChromaSize(p.stride, int(height))]
}

// surfaceExtractor turns a decoded sample's backing storage into flat
// bytes. The variant is chosen once at session-open time from the reader's
// delivery trait, keeping the pull loop free of storage branching.
type surfaceExtractor interface {
	extract(sample ports.Sample, width, height uint32) (*planeData, error)
	close()
}

func newExtractor(device ports.DecodeDevice, traits ports.ReaderTraits) surfaceExtractor {
	if traits.Delivery == ports.DeliverGPUSurface {
		return &gpuStagingExtractor{device: device}
	}
	return &cpuMappedExtractor{}
}

// gpuStagingExtractor handles samples whose backing resource stays on the
// GPU: copy into a CPU-readable staging surface, map it, and repack.
//
// The staging surface is keyed by (width, height, format) and reallocated
// only when the key changes; otherwise it is reused across frames.
type gpuStagingExtractor struct {
	device  ports.DecodeDevice
	staging ports.StagingSurface
	out     planeData
}

func (e *gpuStagingExtractor) extract(sample ports.Sample, width, height uint32) (*planeData, error) {
	surface, ok := sample.Surface()
	if !ok {
		return nil, errors.Wrap(ErrCopyFailed, "sample carries no GPU surface")
	}

	desc := surface.Desc()
	if err := e.ensureStaging(desc); err != nil {
		return nil, errors.Wrapf(ErrCopyFailed, "allocate staging surface: %v", err)
	}
	if err := e.device.CopyToStaging(surface, e.staging); err != nil {
		return nil, errors.Wrapf(ErrCopyFailed, "copy to staging: %v", err)
	}

	mapped, err := e.staging.Map()
	if err != nil {
		return nil, errors.Wrapf(ErrCopyFailed, "map staging surface: %v", err)
	}
	defer mapped.Unmap()

	pitch := mapped.RowPitch()
	totalRows := int(height) + nv12.ChromaRows(int(height))
	if pitch <= 0 || totalRows <= 0 || pitch > math.MaxInt/totalRows {
		return nil, errors.Wrapf(ErrCopyFailed, "invalid row pitch %d", pitch)
	}
	required := pitch * totalRows
	src := mapped.Bytes()
	if len(src) < required {
		return nil, errors.Wrapf(ErrCopyFailed, "staged surface is %d bytes, need %d", len(src), required)
	}

	if cap(e.out.buf) < required {
		e.out.buf = make([]byte, required)
	}
	e.out.buf = e.out.buf[:required]
	e.out.stride = pitch
	for row := 0; row < totalRows; row++ {
		copy(e.out.buf[row*pitch:(row+1)*pitch], src[row*pitch:])
	}
	return &e.out, nil
}

func (e *gpuStagingExtractor) ensureStaging(desc ports.SurfaceDesc) error {
	if e.staging != nil && e.staging.Desc() == desc {
		return nil
	}
	if e.staging != nil {
		e.staging.Close()
		e.staging = nil
	}
	staging, err := e.device.NewStagingSurface(desc)
	if err != nil {
		return err
	}
	e.staging = staging
	return nil
}

func (e *gpuStagingExtractor) close() {
	if e.staging != nil {
		e.staging.Close()
		e.staging = nil
	}
}

// cpuMappedExtractor handles samples the decode transform already mapped
// for CPU access. The 2D mapping with its independently reported pitch is
// preferred; a linear lock with pitch equal to the logical width is the
// fallback.
type cpuMappedExtractor struct {
	out planeData
}

func (e *cpuMappedExtractor) extract(sample ports.Sample, width, height uint32) (*planeData, error) {
	buffer, ok := sample.Buffer()
	if !ok {
		return nil, errors.Wrap(ErrCopyFailed, "sample carries no CPU buffer")
	}

	data, pitch, err := buffer.Lock2D()
	if err != nil {
		if !errors.Is(err, ports.ErrNo2DLayout) {
			return nil, errors.Wrapf(ErrCopyFailed, "lock 2D buffer: %v", err)
		}
		data, err = buffer.Lock()
		if err != nil {
			return nil, errors.Wrapf(ErrCopyFailed, "lock buffer: %v", err)
		}
		pitch = int(width)
	}
	defer buffer.Unlock()

	// A negative pitch marks a bottom-up layout whose rows would need
	// flipping before delivery; that layout is not supported.
	if pitch < 0 {
		return nil, errors.Wrapf(ErrCopyFailed, "bottom-up layout with pitch %d", pitch)
	}
	stride := pitch
	totalRows := int(height) + nv12.ChromaRows(int(height))
	if stride <= 0 || totalRows <= 0 || stride > math.MaxInt/totalRows {
		return nil, errors.Wrapf(ErrCopyFailed, "invalid stride %d", stride)
	}
	required := stride * totalRows
	if len(data) < required {
		return nil, errors.Wrapf(ErrCopyFailed, "mapped buffer is %d bytes, need %d", len(data), required)
	}

	if cap(e.out.buf) < required {
		e.out.buf = make([]byte, required)
	}
	e.out.buf = e.out.buf[:required]
	e.out.stride = stride
	copy(e.out.buf, data[:required])
	return &e.out, nil
}

func (e *cpuMappedExtractor) close() {}
