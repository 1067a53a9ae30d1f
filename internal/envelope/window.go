package envelope

// window is a fixed-capacity ring buffer over the most recent samples.
// Appending at capacity overwrites the oldest entry in place; the write
// cursor wraps with index arithmetic, so steady-state appends allocate
// nothing.
type window struct {
	values []float64
	cursor int
	count  int
}

func newWindow(capacity int) *window {
	return &window{values: make([]float64, capacity)}
}

// append stores v, evicting the oldest sample once the buffer is full.
func (w *window) append(v float64) {
	w.values[w.cursor] = v
	w.cursor = (w.cursor + 1) % len(w.values)
	if w.count < len(w.values) {
		w.count++
	}
}

// size reports how many samples are currently held.
func (w *window) size() int {
	return w.count
}

// snapshot copies the live samples into a fresh slice. Order follows
// buffer layout rather than arrival; the quantile estimator sorts its
// own copy anyway.
func (w *window) snapshot() []float64 {
	out := make([]float64, w.count)
	copy(out, w.values[:w.count])
	return out
}
