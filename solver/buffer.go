package solver

import "sync"

// boundedBuffer is an io.Writer that retains at most limit bytes, either
// the first bytes written or the last. Writes never fail so a chatty
// solver cannot stall on a full pipe.
type boundedBuffer struct {
	mu       sync.Mutex
	limit    int
	keepTail bool
	buf      []byte
	dropped  bool
}

func newHeadBuffer(limit int) *boundedBuffer {
	return &boundedBuffer{limit: limit}
}

func newTailBuffer(limit int) *boundedBuffer {
	return &boundedBuffer{limit: limit, keepTail: true}
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(p)
	if !b.keepTail {
		room := b.limit - len(b.buf)
		if room < len(p) {
			b.dropped = true
			p = p[:max(room, 0)]
		}
		b.buf = append(b.buf, p...)
		return n, nil
	}

	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.dropped = true
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return n, nil
}

// Bytes returns a copy of the retained bytes.
func (b *boundedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf...)
}

// Truncated reports whether any bytes were dropped.
func (b *boundedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
