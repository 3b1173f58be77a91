package cbmark

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderOfMagnitude(t *testing.T) {
	tests := []struct {
		in, want int64
	}{
		{-5, -1},
		{0, 0},
		{1, 10},
		{7, 10},
		{9, 10},
		{10, 100},
		{11, 100},
		{99, 100},
		{100, 1000},
		{250, 1000},
		{999_999_999, 1_000_000_000},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, OrderOfMagnitude(tc.in), "input %d", tc.in)
	}
}

func TestRunningMeanMatchesPrefixMean(t *testing.T) {
	samples := []float64{3, 17, 0, 42, 5.5, 1e6, 8, 8, 8, -2}

	var m runningMean
	sum := 0.0
	for i, x := range samples {
		m.add(x)
		sum += x
		assert.InDelta(t, sum/float64(i+1), m.value, 1e-9, "prefix length %d", i+1)
	}
	assert.Equal(t, len(samples), m.n)
}

func TestCeilingOfMean(t *testing.T) {
	tests := []struct {
		mean float64
		want int64
	}{
		{4.0, 4},
		{4.2, 5},
		{-4.2, -4},
		{0, 0},
		{0.0001, 1},
	}
	for _, tc := range tests {
		var agg meanAggregator
		agg.means[0] = runningMean{n: 1, value: tc.mean}
		assert.Equal(t, tc.want, agg.result().WallSec, "mean %v", tc.mean)
	}
	assert.Equal(t, 5.0, math.Ceil(4.2))
}

func TestResolutionInvalidIterations(t *testing.T) {
	tm := newTestTimer(t)
	for _, n := range []int{0, -1, -1000} {
		res, err := tm.Resolution(n)
		assert.Nil(t, res, "iterations %d", n)
		assert.True(t, errors.Is(err, ErrInvalidArgument), "iterations %d", n)
	}

	res, err := Resolution(0)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestResolutionUnknownPolicy(t *testing.T) {
	tm := newTestTimer(t, WithPolicy(Policy(9)))
	res, err := tm.Resolution(1)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

// emptyTrialClock yields the given elapsed wall nanoseconds and user
// microseconds, one pair of reads per entry, with everything else at zero.
func emptyTrialClock(wallNs, userUs []int64) *scriptedClock {
	clk := &scriptedClock{}
	for i := range wallNs {
		clk.wall = append(clk.wall, Timespec{Sec: 100}, Timespec{Sec: 100, Nsec: wallNs[i]})
		clk.usage = append(clk.usage,
			Usage{User: Timeval{Sec: 7}},
			Usage{User: Timeval{Sec: 7, Usec: userUs[i]}})
	}
	return clk
}

func TestResolutionMaxPolicy(t *testing.T) {
	clk := emptyTrialClock([]int64{40, 250, 90}, []int64{0, 3, 1})
	tm := newTestTimer(t, WithClock(clk))
	clk.wi, clk.ui = 0, 0

	res, err := tm.Resolution(3)
	require.NoError(t, err)
	assert.Equal(t, Trial{WallNsec: 1000, UserUsec: 10}, *res)
}

func TestResolutionAveragePolicy(t *testing.T) {
	clk := emptyTrialClock([]int64{40, 250, 90}, []int64{0, 3, 1})
	tm := newTestTimer(t, WithClock(clk), WithPolicy(AverageCeiling))
	clk.wi, clk.ui = 0, 0

	res, err := tm.Resolution(3)
	require.NoError(t, err)
	// mean(40, 250, 90) = 126.67, mean(0, 3, 1) = 1.33
	assert.Equal(t, Trial{WallNsec: 127, UserUsec: 2}, *res)
}

func TestResolutionLogsAnomalies(t *testing.T) {
	// Second window runs backwards by 50ns and cannot borrow.
	clk := &scriptedClock{
		wall: []Timespec{
			{Sec: 0, Nsec: 100}, {Sec: 0, Nsec: 130},
			{Sec: 0, Nsec: 200}, {Sec: 0, Nsec: 150},
		},
		usage: []Usage{{}},
	}
	var logs bytes.Buffer
	tm := newTestTimer(t,
		WithClock(clk),
		WithPolicy(AverageCeiling),
		WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))
	clk.wi, clk.ui = 0, 0

	res, err := tm.Resolution(2)
	require.NoError(t, err)
	// mean(30, -50) = -10; negatives are folded in, not clamped.
	assert.Equal(t, int64(-10), res.WallNsec)
	assert.Contains(t, logs.String(), "negative elapsed sample")
	assert.Contains(t, logs.String(), `"anomalies":1`)
	assert.Contains(t, logs.String(), `"policy":"average-ceiling"`)
}

func TestResolutionAbortsOnClockFailure(t *testing.T) {
	clk := emptyTrialClock([]int64{1}, []int64{1})
	tm := newTestTimer(t, WithClock(clk))
	clk.err = errors.New("counter went away")

	res, err := tm.Resolution(10)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrClockUnavailable))
}

// TestResolutionOnHost runs both policies against the real clock.
func TestResolutionOnHost(t *testing.T) {
	for _, p := range []Policy{MaxOrderOfMagnitude, AverageCeiling} {
		res, err := Resolution(1000, WithPolicy(p))
		require.NoError(t, err, p.String())
		t.Logf("%s: %s", p, res)

		for _, v := range res.fields() {
			assert.GreaterOrEqual(t, *v, int64(0), p.String())
		}
		// Back-to-back reads never take a full second.
		assert.Equal(t, int64(0), res.WallSec, p.String())
	}
}

// TestResolutionStableAcrossRuns checks that repeated estimates agree to
// within one order of magnitude. This depends on an idle host.
func TestResolutionStableAcrossRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping environment-dependent stability check in short mode")
	}
	tm := newTestTimer(t, WithPolicy(MaxOrderOfMagnitude))

	first, err := tm.Resolution(10_000)
	require.NoError(t, err)
	second, err := tm.Resolution(10_000)
	require.NoError(t, err)
	t.Logf("first:  %s", first)
	t.Logf("second: %s", second)

	names := []string{"wall s", "wall ns", "user s", "user us", "kernel s", "kernel us"}
	fa, fb := first.fields(), second.fields()
	for i, name := range names {
		a, b := *fa[i], *fb[i]
		// The max policy only ever yields zero or a power of ten.
		assert.True(t, a == 0 || isPowerOfTen(a), "%s: %d", name, a)
		assert.True(t, b == 0 || isPowerOfTen(b), "%s: %d", name, b)

		if a > b {
			a, b = b, a
		}
		if a > 0 && b/a > 10 {
			t.Logf("Warning: %s resolution drifted more than one order of magnitude (%d vs %d)", name, a, b)
		}
	}
}

func isPowerOfTen(v int64) bool {
	if v < 1 {
		return false
	}
	for v%10 == 0 {
		v /= 10
	}
	return v == 1
}
