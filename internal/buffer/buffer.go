package buffer

import "bytes"

// Buffer is an ordered sequence of received, but not yet consumed bytes. It is owned
// by the connection and lent to the request state machine for a single call, so
// nobody except the owner may keep slices returned by Bytes or Peek.
type Buffer struct {
	data []byte
	off  int
	max  int
}

// New returns a buffer with the initial capacity. The max is the upper limit of unread
// bytes the buffer may hold, non-positive values mean no limit
func New(initial, max int) *Buffer {
	return &Buffer{
		data: make([]byte, 0, initial),
		max:  max,
	}
}

// Append copies p after the unread bytes. Returns false and appends nothing if the
// limit would be exceeded
func (b *Buffer) Append(p []byte) bool {
	if b.max > 0 && b.Len()+len(p) > b.max {
		return false
	}

	if b.off > 0 && len(b.data)+len(p) > cap(b.data) {
		// move unread tail to the beginning instead of growing
		n := copy(b.data, b.data[b.off:])
		b.data = b.data[:n]
		b.off = 0
	}

	b.data = append(b.data, p...)

	return true
}

func (b *Buffer) Bytes() []byte {
	return b.data[b.off:]
}

func (b *Buffer) Len() int {
	return len(b.data) - b.off
}

// Index returns the position of delim among unread bytes, or -1 if it isn't there yet
func (b *Buffer) Index(delim []byte) int {
	return bytes.Index(b.data[b.off:], delim)
}

// Peek returns at most n unread bytes without consuming them
func (b *Buffer) Peek(n int) []byte {
	if n > b.Len() {
		n = b.Len()
	}

	return b.data[b.off : b.off+n]
}

// Consume drops the first n unread bytes
func (b *Buffer) Consume(n int) {
	if n > b.Len() {
		panic("BUG: consuming more bytes than buffered")
	}

	b.off += n
	if b.off == len(b.data) {
		b.Reset()
	}
}

func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.off = 0
}
