package hwdecode

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// ComputePosition converts a start frame index into a service-native
// timestamp: seconds = startFrame * fpsDen / fpsNum, rounded to
// 100-nanosecond ticks.
//
// The intermediate arithmetic is exact rational math, so large frame
// indices do not accumulate rounding error before the final tick
// conversion.
func ComputePosition(startFrame uint64, fpsNum, fpsDen uint32) (int64, error) {
	if fpsNum == 0 || fpsDen == 0 {
		return 0, errors.Wrap(ErrMissingFrameRate, "cannot convert frame index to time")
	}

	// ticks = startFrame * fpsDen * TicksPerSecond / fpsNum
	ticks := new(big.Rat).SetFrac(
		new(big.Int).Mul(
			new(big.Int).SetUint64(startFrame),
			big.NewInt(int64(fpsDen)*ports.TicksPerSecond),
		),
		big.NewInt(int64(fpsNum)),
	)

	rounded := roundRat(ticks)
	if rounded.Sign() < 0 || !rounded.IsInt64() {
		return 0, errors.Wrapf(ErrSeekOverflow, "frame %d at %d/%d fps", startFrame, fpsNum, fpsDen)
	}
	return rounded.Int64(), nil
}

// roundRat rounds a non-negative rational to the nearest integer, halves
// away from zero.
func roundRat(r *big.Rat) *big.Int {
	num := new(big.Int).Set(r.Num())
	den := r.Denom()
	num.Mul(num, big.NewInt(2))
	num.Add(num, den)
	num.Div(num, new(big.Int).Mul(den, big.NewInt(2)))
	return num
}

// TicksToSeconds converts a native timestamp to seconds. Negative
// timestamps mean "unknown" and map to -1.
func TicksToSeconds(ticks int64) float64 {
	if ticks < 0 {
		return -1
	}
	return float64(ticks) / float64(ports.TicksPerSecond)
}

// seekSession positions the reader at the requested start frame using the
// stream's frame rate. A rejection by the reader is fatal and not retried.
func seekSession(s *ReaderSession, startFrame uint64, log ports.Logger) error {
	num, den, ok := s.Reader.FrameRate()
	if !ok {
		return errors.Wrap(ErrMissingFrameRate, "stream carries no frame rate")
	}
	position, err := ComputePosition(startFrame, num, den)
	if err != nil {
		return err
	}
	log.Debug("Seeking to frame %d (%.3f s)", startFrame, TicksToSeconds(position))
	if err := s.Reader.SetPosition(position); err != nil {
		return errors.Wrapf(ErrSeekRejected, "set position %d: %v", position, err)
	}
	return nil
}

// isFinitePositive reports whether v is a usable positive metric, keeping
// NaN sentinels out of frame-count math.
func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
