// Package bufferpool pools the byte buffers request bodies are encoded into.
package bufferpool

import (
	"bytes"
	"sync"
)

const initialSize = 1024

var pool = sync.Pool{
	New: func() any {
		return &Buffer{Buffer: bytes.NewBuffer(make([]byte, 0, initialSize))}
	},
}

type Buffer struct {
	*bytes.Buffer
}

// Get returns an empty buffer from the pool.
func Get() *Buffer {
	buf := pool.Get().(*Buffer)
	buf.Reset()
	return buf
}

// Release returns the buffer to the pool. Its bytes must not be used afterwards.
func (b *Buffer) Release() {
	pool.Put(b)
}

// TrimNewline drops the trailing "\n" json.Encoder appends.
func (b *Buffer) TrimNewline() {
	if i := b.Len() - 1; i >= 0 && b.Bytes()[i] == '\n' {
		b.Truncate(i)
	}
}
