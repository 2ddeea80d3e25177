package hwdecode

import (
	"github.com/pkg/errors"

	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// SessionState tracks the pull loop's progress through a decode call.
type SessionState int

const (
	StateIdle SessionState = iota
	StateNegotiated
	StateSeeking
	StateReading
	StateEndOfStream
	StateError
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNegotiated:
		return "negotiated"
	case StateSeeking:
		return "seeking"
	case StateReading:
		return "reading"
	case StateEndOfStream:
		return "end-of-stream"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// pullLoop orchestrates read -> classify -> extract -> callback until
// end-of-stream, a fatal error, or a stop signal from the callback.
type pullLoop struct {
	session   *ReaderSession
	extractor surfaceExtractor
	log       ports.Logger
	state     SessionState
}

func newPullLoop(session *ReaderSession, extractor surfaceExtractor, log ports.Logger) *pullLoop {
	return &pullLoop{
		session:   session,
		extractor: extractor,
		log:       log,
		state:     StateNegotiated,
	}
}

// run drives the loop. Frame indices are a simple incrementing counter
// over delivered frames starting at startIndex; stream ticks do not
// advance it. End-of-stream and a callback stop are both clean exits.
func (l *pullLoop) run(startIndex uint64, callback ports.FrameCallback) error {
	l.state = StateReading
	delivered := 0

	for index := startIndex; ; {
		unit, err := l.session.Reader.ReadSample()
		if err != nil {
			l.state = StateError
			return errors.Wrapf(ErrReadFailed, "read sample: %v", err)
		}
		if unit.EndOfStream {
			l.state = StateEndOfStream
			l.log.Debug("End of stream after %d frames", delivered)
			return nil
		}
		if unit.StreamTick || unit.Sample == nil {
			// Heartbeat with no decodable payload; the visible
			// frame index must not advance.
			if unit.Sample != nil {
				unit.Sample.Release()
			}
			continue
		}

		planes, err := l.extractor.extract(unit.Sample, l.session.Width, l.session.Height)
		if err != nil {
			unit.Sample.Release()
			l.state = StateError
			return err
		}

		frame := ports.Frame{
			Luma:             planes.luma(l.session.Height),
			LumaStride:       planes.stride,
			Chroma:           planes.chroma(l.session.Height),
			ChromaStride:     planes.stride,
			Width:            l.session.Width,
			Height:           l.session.Height,
			TimestampSeconds: TicksToSeconds(unit.Timestamp),
			Index:            index,
		}

		keepRunning := callback(&frame)
		unit.Sample.Release()
		delivered++
		index++

		if !keepRunning {
			l.state = StateEndOfStream
			l.log.Debug("Consumer stopped after %d frames", delivered)
			return nil
		}
	}
}
