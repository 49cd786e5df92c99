package mock

import (
	"io"
	"sync"
)

var _ io.ReadCloser = (*Body)(nil)

// Body is a scripted response body. Each Read returns at most one chunk,
// so chunk boundaries land exactly where the test puts them. After the last
// chunk Read returns Err, or io.EOF when Err is nil.
type Body struct {
	Chunks [][]byte
	Err    error

	mu     sync.Mutex
	next   int
	offset int
	closed bool
}

// Read implements io.Reader.
func (b *Body) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, io.ErrClosedPipe
	}
	for b.next < len(b.Chunks) {
		chunk := b.Chunks[b.next][b.offset:]
		if len(chunk) == 0 {
			b.next++
			b.offset = 0
			continue
		}
		n := copy(p, chunk)
		b.offset += n
		if b.offset == len(b.Chunks[b.next]) {
			b.next++
			b.offset = 0
		}
		return n, nil
	}
	if b.Err != nil {
		return 0, b.Err
	}
	return 0, io.EOF
}

// Close implements io.Closer.
func (b *Body) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (b *Body) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
