package septime

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUpdateOffset(t *testing.T) {
	resetForTest()
	defer resetForTest()

	future := time.Now().Add(1 * time.Hour)
	UpdateOffset(future)

	got := NowWithOffset()
	require.WithinDuration(t, future, got, 2*time.Second)
}

func TestOffsetZeroByDefault(t *testing.T) {
	resetForTest()
	require.Equal(t, int64(0), Offset())
}

func TestAddSaturatingOverflow(t *testing.T) {
	base := time.Unix(math.MaxInt64-10, 0)
	got := addSaturating(base, 100)
	require.Equal(t, int64(math.MaxInt64), got.Unix())
}

func TestAddSaturatingUnderflow(t *testing.T) {
	base := time.Unix(math.MinInt64+10, 0)
	got := addSaturating(base, -100)
	require.Equal(t, int64(math.MinInt64), got.Unix())
}

func TestAddSaturatingNormal(t *testing.T) {
	base := time.Unix(1000, 0)
	got := addSaturating(base, -50)
	require.Equal(t, int64(950), got.Unix())
}
