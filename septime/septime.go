// Package septime implements the process-wide clock-skew offset described
// in IEEE 2030.5 §3/§6: a single atomic signed-seconds cell, additively applied
// to wall-clock time on request. Grounded on the original Rust source's
// client/src/time.rs, translated from a SystemTime newtype into ordinary
// time.Time arithmetic, which is the idiomatic Go shape for the same
// operation.
package septime

import (
	"math"
	"sync/atomic"
	"time"
)

var offsetSeconds atomic.Int64

// Now returns the unadjusted system time, exactly as time.Now would.
func Now() time.Time {
	return time.Now()
}

// NowWithOffset returns the system time shifted by the current global
// offset. Addition saturates at the int64 seconds range rather than
// wrapping: a clamped, obviously-wrong timestamp is a safer failure mode
// for a field device than one that silently wraps into the past (IEEE 2030.5
// §9's open question, resolved here).
func NowWithOffset() time.Time {
	off := offsetSeconds.Load()
	return addSaturating(time.Now(), off)
}

func addSaturating(t time.Time, seconds int64) time.Time {
	unix := t.Unix()
	sum := unix + seconds
	// Detect signed overflow without relying on UB-adjacent tricks.
	if seconds > 0 && sum < unix {
		return time.Unix(math.MaxInt64, 0)
	}
	if seconds < 0 && sum > unix {
		return time.Unix(math.MinInt64, 0)
	}
	return time.Unix(sum, 0)
}

// UpdateOffset computes the offset between serverTime and the current
// unadjusted system time, and stores it as the new global offset applied
// by all future calls to NowWithOffset.
func UpdateOffset(serverTime time.Time) {
	offset := serverTime.Unix() - time.Now().Unix()
	offsetSeconds.Store(offset)
}

// Offset returns the currently stored offset, in seconds.
func Offset() int64 {
	return offsetSeconds.Load()
}

// resetForTest clears the global offset; used only by this package's tests
// to keep them independent of run order.
func resetForTest() {
	offsetSeconds.Store(0)
}
