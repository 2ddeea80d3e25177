package hwdecode

import (
	"math"

	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// maxTailReads bounds the empirical duration scan so a misbehaving stream
// cannot stall probing indefinitely.
const maxTailReads = 2000

// probeSession estimates duration, frame rate, dimensions, and total frame
// count from a negotiated session.
//
// Absent metadata is a valid outcome: the result simply has HasFrameCount
// false and NaN duration/fps. Only device and session failures reach the
// caller as errors, and those are handled before this function runs.
func probeSession(s *ReaderSession, log ports.Logger) ports.ProbeResult {
	result := ports.ProbeResult{
		DurationSeconds: math.NaN(),
		FPS:             math.NaN(),
	}
	if s.Width > 0 {
		result.Width = s.Width
	}
	if s.Height > 0 {
		result.Height = s.Height
	}

	seconds := math.NaN()
	durationTicks, hasDuration := s.Reader.Duration()
	if hasDuration && durationTicks > 0 {
		seconds = float64(durationTicks) / float64(ports.TicksPerSecond)
		if !isFinitePositive(seconds) {
			seconds = math.NaN()
		}
	}

	fps := math.NaN()
	if num, den, ok := s.Reader.FrameRate(); ok && den != 0 {
		fps = float64(num) / float64(den)
		if !isFinitePositive(fps) {
			fps = math.NaN()
		}
	}

	// Some containers declare an inaccurate duration. When the frame
	// rate is known but the duration is absent or flagged unreliable,
	// measure the tail: seek near the declared end and read forward to
	// the last decodable timestamp.
	if isFinitePositive(fps) && (!isFinitePositive(seconds) || s.Reader.Traits().UnreliableDuration) {
		if measured, ok := measureTail(s, seconds, fps, log); ok {
			seconds = measured
		}
	}

	if isFinitePositive(seconds) {
		result.DurationSeconds = seconds
	}
	if isFinitePositive(fps) {
		result.FPS = fps
	}
	if isFinitePositive(seconds) && isFinitePositive(fps) {
		estimated := uint64(math.Round(seconds * fps))
		if estimated > 0 {
			result.HasFrameCount = true
			result.FrameCount = estimated
		}
	}
	return result
}

// measureTail seeks to one second before the declared end (or the start
// when no duration is declared) and reads forward, bounded to maxTailReads,
// collecting the last observed timestamp before end-of-stream. The
// recovered duration is that timestamp plus one frame interval, anchored
// to an actual decoded sample instead of container metadata.
func measureTail(s *ReaderSession, declaredSeconds, fps float64, log ports.Logger) (float64, bool) {
	var target int64
	if isFinitePositive(declaredSeconds) && declaredSeconds > 1.0 {
		target = int64((declaredSeconds - 1.0) * ports.TicksPerSecond)
	}
	if err := s.Reader.SetPosition(target); err != nil {
		log.Debug("Tail scan seek failed: %v", err)
		return 0, false
	}

	lastTimestamp := int64(-1)
	for reads := 0; reads < maxTailReads; reads++ {
		unit, err := s.Reader.ReadSample()
		if err != nil {
			log.Debug("Tail scan read failed after %d reads: %v", reads, err)
			break
		}
		if unit.EndOfStream {
			break
		}
		if unit.Sample != nil {
			unit.Sample.Release()
		}
		if unit.StreamTick {
			continue
		}
		if unit.Timestamp >= 0 {
			lastTimestamp = unit.Timestamp
		}
	}

	if lastTimestamp < 0 {
		return 0, false
	}
	measured := TicksToSeconds(lastTimestamp) + 1.0/fps
	log.Debug("Measured duration %.3f s from tail scan", measured)
	return measured, true
}
