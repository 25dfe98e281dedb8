// Package exec runs shell commands and caps the output retained from them.
package exec

import "sync"

// OutputMaxBytes is the hard cap on bytes retained from each of stdout and
// stderr. A single runaway command cannot OOM the process.
const OutputMaxBytes = 1024 * 1024 // 1 MiB

// CappedBuffer is an io.Writer that keeps the first max bytes written to it
// and silently discards the rest. Writes never fail, so the child process is
// not killed by a short write.
type CappedBuffer struct {
	mu        sync.Mutex
	buf       []byte
	max       int
	truncated bool
}

// NewCappedBuffer creates a buffer retaining at most max bytes.
func NewCappedBuffer(max int) *CappedBuffer {
	return &CappedBuffer{max: max}
}

// Write implements io.Writer.
func (b *CappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.max - len(b.buf)
	if room <= 0 {
		if len(p) > 0 {
			b.truncated = true
		}
		return len(p), nil
	}
	if len(p) > room {
		b.buf = append(b.buf, p[:room]...)
		b.truncated = true
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the retained bytes.
func (b *CappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

// Truncated reports whether any output was discarded.
func (b *CappedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}
