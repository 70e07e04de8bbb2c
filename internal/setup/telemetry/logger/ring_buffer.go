package logger

// RingBuffer keeps the most recent log lines up to a fixed capacity.
type RingBuffer struct {
	lines   []string
	next    int
	count   int
	written int
}

// NewRingBuffer creates a ring buffer. A capacity below one is raised to one.
func NewRingBuffer(capacity int) *RingBuffer {
	capacity = max(capacity, 1)
	return &RingBuffer{lines: make([]string, capacity)}
}

// Cap returns the buffer capacity.
func (rb *RingBuffer) Cap() int {
	return len(rb.lines)
}

// Len returns the number of lines currently held.
func (rb *RingBuffer) Len() int {
	return rb.count
}

// Push appends a line, evicting the oldest when full.
func (rb *RingBuffer) Push(line string) {
	rb.lines[rb.next] = line
	rb.next = (rb.next + 1) % len(rb.lines)
	rb.count = min(rb.count+1, len(rb.lines))
	rb.written++
}

// Lines returns the held lines oldest first.
func (rb *RingBuffer) Lines() []string {
	out := make([]string, 0, rb.count)
	start := (rb.next - rb.count + len(rb.lines)) % len(rb.lines)
	for i := range rb.count {
		out = append(out, rb.lines[(start+i)%len(rb.lines)])
	}
	return out
}

// pushedSinceReset counts lines pushed since the last compaction, starting from
// the lines retained by it.
func (rb *RingBuffer) pushedSinceReset() int {
	return rb.written
}

func (rb *RingBuffer) resetPushed() {
	rb.written = rb.count
}
