package sufast

import (
	"bytes"
	"sync"
)

// bufferPool is the one pooled resource the dispatch path allocates per
// request: the scratch buffer used to encode a RequestEnvelope before
// handing it to the bridge. A single sync.Pool of *bytes.Buffer,
// get-then-reset-then-put, covers the one type sufast's hot path actually
// allocates repeatedly.
type bufferPool struct {
	pool *sync.Pool
}

// newBufferPool returns an empty bufferPool.
func newBufferPool() *bufferPool {
	return &bufferPool{
		pool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

// Get returns a zero-length buffer from p.
func (p *bufferPool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

// Put resets buf and returns it to p.
func (p *bufferPool) Put(buf *bytes.Buffer) {
	buf.Reset()
	p.pool.Put(buf)
}
