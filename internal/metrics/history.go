package metrics

// History is a fixed-capacity FIFO of samples in insertion order.
type History struct {
	data  []float64
	head  int
	count int
}

// NewHistory creates an empty series holding at most capacity samples.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{data: make([]float64, capacity)}
}

// Push appends v, evicting the oldest sample when full.
func (h *History) Push(v float64) {
	h.data[h.head] = v
	h.head = (h.head + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// Len returns the number of stored samples.
func (h *History) Len() int { return h.count }

// Cap returns the capacity.
func (h *History) Cap() int { return len(h.data) }

// Latest returns the newest sample.
func (h *History) Latest() (float64, bool) {
	if h.count == 0 {
		return 0, false
	}
	return h.data[(h.head-1+len(h.data))%len(h.data)], true
}

// Values returns a copy of the samples, oldest first.
func (h *History) Values() []float64 {
	out := make([]float64, h.count)
	start := (h.head - h.count + len(h.data)) % len(h.data)
	for i := 0; i < h.count; i++ {
		out[i] = h.data[(start+i)%len(h.data)]
	}
	return out
}

// Reset drops all samples and pushes vals in order.
func (h *History) Reset(vals []float64) {
	h.head, h.count = 0, 0
	for _, v := range vals {
		h.Push(v)
	}
}
