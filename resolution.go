package cbmark

import (
	"errors"
	"fmt"
	"math"
)

// Resolution estimates the smallest increment each channel can distinguish
// by timing iterations empty Start/End pairs and folding the results with
// the Timer's Policy. Each field of the returned Trial holds a resolution in
// that field's unit.
//
// Iterations whose End reports ErrMeasurementAnomaly are logged as warnings
// and still folded in; they are never clamped. Any other error aborts the
// estimate.
func (tm *Timer) Resolution(iterations int) (*Trial, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be >= 1, got %d", ErrInvalidArgument, iterations)
	}

	agg, err := newAggregator(tm.cfg.policy)
	if err != nil {
		return nil, err
	}

	log := tm.cfg.logger
	anomalies := 0
	var t Trial
	for i := 0; i < iterations; i++ {
		if err := tm.Start(&t); err != nil {
			return nil, err
		}
		if err := tm.End(&t); err != nil {
			if !errors.Is(err, ErrMeasurementAnomaly) {
				return nil, err
			}
			anomalies++
			log.Warn().Err(err).Int("iteration", i).Msg("negative elapsed sample")
		}
		agg.add(&t)
	}

	res := agg.result()
	log.Debug().
		Str("policy", tm.cfg.policy.String()).
		Str("clock", tm.cfg.clock.Name()).
		Int("iterations", iterations).
		Int("anomalies", anomalies).
		Str("resolution", res.String()).
		Msg("resolution estimated")
	return res, nil
}

// Resolution estimates the platform clock's resolution. See Timer.Resolution.
func Resolution(iterations int, opts ...Option) (*Trial, error) {
	tm, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return tm.Resolution(iterations)
}

// OrderOfMagnitude returns the smallest power of ten strictly greater than v:
// 0 maps to 0, 7 to 10, 10 to 100 and 250 to 1000. Negative values have no
// magnitude and map to -1.
func OrderOfMagnitude(v int64) int64 {
	if v < 0 {
		return -1
	}
	if v == 0 {
		return 0
	}
	digits := 0
	for ; v > 0; v /= 10 {
		digits++
	}
	m := int64(1)
	for ; digits > 0; digits-- {
		m *= 10
	}
	return m
}

type aggregator interface {
	add(t *Trial)
	result() *Trial
}

func newAggregator(p Policy) (aggregator, error) {
	switch p {
	case MaxOrderOfMagnitude:
		return &maxAggregator{}, nil
	case AverageCeiling:
		return &meanAggregator{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown policy %d", ErrInvalidArgument, int(p))
	}
}

// maxAggregator tracks per-channel maxima, starting from zero.
type maxAggregator struct {
	max Trial
}

func (a *maxAggregator) add(t *Trial) {
	dst := a.max.fields()
	for i, v := range t.fields() {
		if *v > *dst[i] {
			*dst[i] = *v
		}
	}
}

func (a *maxAggregator) result() *Trial {
	res := a.max
	for _, v := range res.fields() {
		*v = OrderOfMagnitude(*v)
	}
	return &res
}

// meanAggregator tracks per-channel running means.
type meanAggregator struct {
	means [6]runningMean
}

func (a *meanAggregator) add(t *Trial) {
	for i, v := range t.fields() {
		a.means[i].add(float64(*v))
	}
}

func (a *meanAggregator) result() *Trial {
	var res Trial
	for i, v := range res.fields() {
		*v = int64(math.Ceil(a.means[i].value))
	}
	return &res
}

// runningMean is an incremental arithmetic mean:
// mean_n = (mean_{n-1} * n + x) / (n + 1) for the (n+1)th sample.
type runningMean struct {
	n     int
	value float64
}

func (m *runningMean) add(x float64) {
	m.value = (m.value*float64(m.n) + x) / float64(m.n+1)
	m.n++
}
