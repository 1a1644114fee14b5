package logger

// ringBuffer keeps the most recent log lines of a file.
type ringBuffer struct {
	lines     []string
	capacity  int
	head      int // Next write position
	size      int // Lines currently held
	totalSeen int // Lines added since the file was last rewritten
}

// newRingBuffer creates a buffer holding up to capacity lines.
func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{
		lines:    make([]string, capacity),
		capacity: capacity,
	}
}

// add stores line, overwriting the oldest line once the buffer is full.
func (rb *ringBuffer) add(line string) {
	rb.lines[rb.head] = line

	rb.head = (rb.head + 1) % rb.capacity
	if rb.size < rb.capacity {
		rb.size++
	}

	rb.totalSeen++
}

// full reports whether the file holds twice the buffer capacity since it
// was last rewritten.
func (rb *ringBuffer) full() bool {
	return rb.totalSeen >= rb.capacity*2
}

// flushed records that the file now only holds the buffered lines.
func (rb *ringBuffer) flushed() {
	rb.totalSeen = rb.size
}

// getLines returns all lines in chronological order.
func (rb *ringBuffer) getLines() []string {
	if rb.size == 0 {
		return nil
	}

	result := make([]string, rb.size)
	start := (rb.head - rb.size + rb.capacity) % rb.capacity

	// Oldest line first
	for i := range rb.size {
		result[i] = rb.lines[(start+i)%rb.capacity]
	}

	return result
}
