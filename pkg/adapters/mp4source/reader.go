package mp4source

import (
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/pkg/errors"

	"github.com/214zzl995/subtitle-fast/pkg/nv12"
	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// trackSample is one demuxed video sample with its fragment-relative
// timing resolved to the track timescale.
type trackSample struct {
	data          []byte
	decodeTime    uint64
	dur           uint32
	fragmentStart bool
}

// reader demuxes a fragmented MP4 into a flat sample list and decodes on
// demand. Seeks snap to fragment boundaries, which start on keyframes;
// landing before the requested position is the accepted imprecision of
// container seeking.
type reader struct {
	factory   DecoderFactory
	decoder   SampleDecoder
	samples   []trackSample
	timescale uint32
	width     uint32
	height    uint32
	cursor    int
	selected  bool
}

func openReader(path string, factory DecoderFactory) (*reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open file")
	}
	defer f.Close()

	r := &reader{factory: factory}
	if err := r.demux(f); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *reader) demux(rs io.ReadSeeker) error {
	mp4File, err := mp4.DecodeFile(rs)
	if err != nil {
		return errors.Wrap(err, "decode mp4")
	}
	if !mp4File.IsFragmented() {
		return errors.New("progressive MP4 not supported, use fragmented MP4")
	}
	if mp4File.Init == nil || mp4File.Init.Moov == nil {
		return errors.New("no init segment found")
	}

	// Find the video track, its timescale, and its declared dimensions.
	var videoTrackID uint32
	for _, trak := range mp4File.Init.Moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		videoTrackID = trak.Tkhd.TrackID
		if trak.Mdia.Mdhd != nil {
			r.timescale = trak.Mdia.Mdhd.Timescale
		}
		r.width = uint32(trak.Tkhd.Width >> 16)
		r.height = uint32(trak.Tkhd.Height >> 16)
		break
	}
	if videoTrackID == 0 {
		return errors.New("no video track found")
	}
	if r.timescale == 0 {
		r.timescale = 1000
	}

	var trex *mp4.TrexBox
	if mp4File.Init.Moov.Mvex != nil {
		for _, t := range mp4File.Init.Moov.Mvex.Trexs {
			if t.TrackID == videoTrackID {
				trex = t
				break
			}
		}
	}

	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != videoTrackID {
					continue
				}
				var baseDecodeTime uint64
				if traf.Tfdt != nil {
					baseDecodeTime = traf.Tfdt.BaseMediaDecodeTime()
				}
				fullSamples, err := frag.GetFullSamples(trex)
				if err != nil {
					return errors.Wrap(err, "get samples")
				}
				currentTime := baseDecodeTime
				for i, sample := range fullSamples {
					r.samples = append(r.samples, trackSample{
						data:          sample.Data,
						decodeTime:    currentTime,
						dur:           sample.Dur,
						fragmentStart: i == 0,
					})
					currentTime += uint64(sample.Dur)
				}
			}
		}
	}
	if len(r.samples) == 0 {
		return errors.New("video track has no samples")
	}
	return nil
}

func (r *reader) SelectVideoStream() error {
	r.selected = true
	return nil
}

func (r *reader) SetFormat(format ports.PixelFormat) (uint32, uint32, error) {
	if format != ports.FormatNV12 {
		return 0, 0, errors.Errorf("mp4 reader only delivers %s", ports.FormatNV12)
	}
	decoder, err := r.factory(r.width, r.height)
	if err != nil {
		return 0, 0, errors.Wrap(err, "create sample decoder")
	}
	r.decoder = decoder
	return r.width, r.height, nil
}

// Duration sums the demuxed sample durations. Fragmented files often
// declare no usable movie duration, so the summed value is what the probe
// engine sees.
func (r *reader) Duration() (uint64, bool) {
	var units uint64
	for _, s := range r.samples {
		units += uint64(s.dur)
	}
	if units == 0 {
		return 0, false
	}
	return units * ports.TicksPerSecond / uint64(r.timescale), true
}

// FrameRate derives a rational rate from the sample durations when they
// are constant.
func (r *reader) FrameRate() (uint32, uint32, bool) {
	dur := r.samples[0].dur
	if dur == 0 {
		return 0, 0, false
	}
	for _, s := range r.samples {
		if s.dur != dur {
			return 0, 0, false
		}
	}
	return r.timescale, dur, true
}

func (r *reader) Traits() ports.ReaderTraits {
	return ports.ReaderTraits{Delivery: ports.DeliverCPUBuffer}
}

func (r *reader) ReadSample() (ports.ReadResult, error) {
	if r.decoder == nil {
		return ports.ReadResult{}, errors.New("output format not negotiated")
	}
	if r.cursor >= len(r.samples) {
		return ports.ReadResult{EndOfStream: true, Timestamp: -1}, nil
	}
	s := r.samples[r.cursor]
	r.cursor++

	picture, err := r.decoder.Decode(s.data)
	if err != nil {
		return ports.ReadResult{}, errors.Wrap(err, "decode sample")
	}
	return ports.ReadResult{
		Sample:    &pictureSample{picture: picture},
		Timestamp: int64(s.decodeTime * ports.TicksPerSecond / uint64(r.timescale)),
	}, nil
}

// SetPosition seeks to the last fragment boundary at or before the target
// timestamp.
func (r *reader) SetPosition(ticks int64) error {
	if ticks < 0 {
		return errors.New("negative position")
	}
	targetUnits := uint64(ticks) * uint64(r.timescale) / ports.TicksPerSecond
	landing := 0
	for i, s := range r.samples {
		if !s.fragmentStart {
			continue
		}
		if s.decodeTime > targetUnits {
			break
		}
		landing = i
	}
	r.cursor = landing
	return nil
}

func (r *reader) Close() error {
	if r.decoder != nil {
		return r.decoder.Close()
	}
	return nil
}

// pictureSample wraps a decoded picture as a CPU-mapped sample.
type pictureSample struct {
	picture *nv12.Picture
}

func (s *pictureSample) Surface() (ports.GPUSurface, bool) { return nil, false }

func (s *pictureSample) Buffer() (ports.CPUBuffer, bool) {
	return &pictureBuffer{picture: s.picture}, true
}

func (s *pictureSample) Release() { s.picture = nil }

type pictureBuffer struct {
	picture *nv12.Picture
}

func (b *pictureBuffer) Lock2D() ([]byte, int, error) {
	return b.picture.Data, b.picture.Stride, nil
}

func (b *pictureBuffer) Lock() ([]byte, error) {
	return b.picture.Data, nil
}

func (b *pictureBuffer) Unlock() {}
