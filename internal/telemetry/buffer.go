package telemetry

// CappedBuffer is a bounded FIFO of float64 samples.
//
// Appends are O(1) amortized: the buffer grows until it hits cap, then
// trims down to the most recent trim entries in one pass. Trimming less
// often than every append keeps the memory bound without paying a copy
// per sample.
type CappedBuffer struct {
	samples []float64
	cap     int
	trim    int
}

// NewCappedBuffer creates a buffer that holds at most cap samples and
// trims to the most recent trim samples on overflow.
func NewCappedBuffer(capacity, trim int) *CappedBuffer {
	if capacity < 1 {
		capacity = 1
	}
	if trim < 1 || trim > capacity {
		trim = capacity
	}
	return &CappedBuffer{
		samples: make([]float64, 0, capacity),
		cap:     capacity,
		trim:    trim,
	}
}

// Append adds a sample, trimming to the most recent entries when the
// cap is exceeded.
func (b *CappedBuffer) Append(v float64) {
	b.samples = append(b.samples, v)
	if len(b.samples) > b.cap {
		keep := b.samples[len(b.samples)-b.trim:]
		b.samples = append(b.samples[:0], keep...)
	}
}

// Len returns the number of buffered samples.
func (b *CappedBuffer) Len() int {
	return len(b.samples)
}

// Values returns a copy of the buffered samples, oldest first.
func (b *CappedBuffer) Values() []float64 {
	out := make([]float64, len(b.samples))
	copy(out, b.samples)
	return out
}

// Mean returns the arithmetic mean of the samples, or 0 when empty.
func (b *CappedBuffer) Mean() float64 {
	if len(b.samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range b.samples {
		sum += v
	}
	return sum / float64(len(b.samples))
}

// Max returns the largest sample, or 0 when empty.
func (b *CappedBuffer) Max() float64 {
	max := 0.0
	for _, v := range b.samples {
		if v > max {
			max = v
		}
	}
	return max
}
