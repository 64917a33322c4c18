package utils

import "github.com/valyala/bytebufferpool"

// Event encoding borrows buffers from a shared pool; bytebufferpool
// handles size-class management and anti-fragmentation.
var pool bytebufferpool.Pool

// Get retrieves a buffer from the shared pool.
func Get() *bytebufferpool.ByteBuffer {
	return pool.Get()
}

// Put returns a buffer to the shared pool.
func Put(buf *bytebufferpool.ByteBuffer) {
	pool.Put(buf)
}
