package indicator

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"
)

// Accumulator consumes one value per step and emits the current window value.
// It only ever sees the current and past inputs.
type Accumulator interface {
	Push(x float64) optional.Option[float64]
	Reset()
}

// window is a fixed-size ring buffer. It also counts how many of the latest
// values equal the last one, so a constant window can be detected.
type window struct {
	values []float64
	next   int
	full   bool
	last   float64
	same   int
}

func newWindow(size int) window {
	return window{values: make([]float64, size), next: 0, full: false, last: 0, same: 0}
}

func (w *window) push(x float64) {
	if w.same > 0 && x == w.last {
		w.same++
	} else {
		w.last = x
		w.same = 1
	}

	w.values[w.next] = x
	w.next = (w.next + 1) % len(w.values)

	if w.next == 0 {
		w.full = true
	}
}

// oldest returns the value pushed len(values) steps ago. Only valid once full.
func (w *window) oldest() float64 {
	return w.values[w.next]
}

// constant reports whether every value in a full window equals the last one.
func (w *window) constant() bool {
	return w.full && w.same >= len(w.values)
}

func (w *window) reset() {
	clear(w.values)
	w.next = 0
	w.full = false
	w.last = 0
	w.same = 0
}

// RollingMean is the arithmetic mean of the last n values, kept as a moving
// sum.
type RollingMean struct {
	buf window
	sum float64
}

func NewRollingMean(n int) (*RollingMean, error) {
	if n <= 0 {
		return nil, fmt.Errorf("window must be a positive integer, got %d", n)
	}

	return &RollingMean{buf: newWindow(n), sum: 0}, nil
}

func (m *RollingMean) Push(x float64) optional.Option[float64] {
	if m.buf.full {
		m.sum -= m.buf.oldest()
	}

	m.sum += x
	m.buf.push(x)

	if !m.buf.full {
		return optional.None[float64]()
	}

	if m.buf.constant() {
		return optional.Some(x)
	}

	return optional.Some(m.sum / float64(len(m.buf.values)))
}

func (m *RollingMean) Reset() {
	m.buf.reset()
	m.sum = 0
}

// RollingStd is the sample standard deviation (n-1 denominator) of the last
// n values. The mean and the sum of squared deviations are updated in place
// as values enter and leave the window.
type RollingStd struct {
	buf   window
	count int
	mean  float64
	m2    float64
}

func NewRollingStd(n int) (*RollingStd, error) {
	if n < 2 {
		return nil, fmt.Errorf("window must be at least 2 for a sample standard deviation, got %d", n)
	}

	return &RollingStd{buf: newWindow(n), count: 0, mean: 0, m2: 0}, nil
}

func (s *RollingStd) Push(x float64) optional.Option[float64] {
	if s.buf.full {
		old := s.buf.oldest()
		mean := s.mean + (x-old)/float64(s.count)
		s.m2 += (x - old) * (x - mean + old - s.mean)
		s.mean = mean
	} else {
		s.count++
		delta := x - s.mean
		s.mean += delta / float64(s.count)
		s.m2 += delta * (x - s.mean)
	}

	s.buf.push(x)

	if !s.buf.full {
		return optional.None[float64]()
	}

	if s.buf.constant() {
		return optional.Some(0.0)
	}

	return optional.Some(math.Sqrt(max(s.m2, 0) / float64(s.count-1)))
}

func (s *RollingStd) Reset() {
	s.buf.reset()
	s.count = 0
	s.mean = 0
	s.m2 = 0
}

// ExponentialMean is the bias-adjusted exponentially weighted mean with
// alpha = 2/(span+1). It is defined from the first value.
type ExponentialMean struct {
	alpha float64
	num   float64
	den   float64
}

func NewExponentialMean(span int) (*ExponentialMean, error) {
	if span <= 0 {
		return nil, fmt.Errorf("span must be a positive integer, got %d", span)
	}

	return &ExponentialMean{alpha: 2.0 / float64(span+1), num: 0, den: 0}, nil
}

func (e *ExponentialMean) Push(x float64) optional.Option[float64] {
	decay := 1 - e.alpha
	e.num = x + decay*e.num
	e.den = 1 + decay*e.den

	return optional.Some(e.num / e.den)
}

func (e *ExponentialMean) Reset() {
	e.num = 0
	e.den = 0
}

// Lag emits the value pushed k steps earlier.
type Lag struct {
	buf window
}

func NewLag(k int) (*Lag, error) {
	if k <= 0 {
		return nil, fmt.Errorf("lag must be a positive integer, got %d", k)
	}

	return &Lag{buf: newWindow(k)}, nil
}

func (l *Lag) Push(x float64) optional.Option[float64] {
	var out optional.Option[float64]
	if l.buf.full {
		out = optional.Some(l.buf.oldest())
	} else {
		out = optional.None[float64]()
	}

	l.buf.push(x)

	return out
}

func (l *Lag) Reset() {
	l.buf.reset()
}
