// Package bitcursor implements a cursor that reads bit fields from a byte buffer.
package bitcursor

import (
	"errors"
	"fmt"
)

// MaxBits is the largest number of bits that can be read with a single request.
const MaxBits = 16

// ErrEndOfInput is returned when a read would go past the end of the buffer.
var ErrEndOfInput = errors.New("end of input")

var errInvalidBitCount = errors.New("invalid bit count")

// Cursor tracks the bit position inside a byte buffer. Bits are read most
// significant bit first within each byte.
type Cursor struct {
	data []byte
	pos  int // bit position
}

// New returns a cursor that starts at the first bit of data.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// PeekBits returns the next n bits without advancing the cursor.
func (c *Cursor) PeekBits(n int) (uint16, error) {
	if n < 1 || n > MaxBits {
		return 0, fmt.Errorf("%w: %d", errInvalidBitCount, n)
	}
	if n > c.Remaining() {
		return 0, fmt.Errorf("%w: reading %d bits at offset %d bit %d", ErrEndOfInput, n, c.Offset(), c.pos%8)
	}

	var value uint16
	pos := c.pos
	for remaining := n; remaining > 0; {
		b := c.data[pos/8]
		bitIndex := pos % 8
		available := 8 - bitIndex
		take := min(available, remaining)

		bits := uint16(b>>(available-take)) & (1<<take - 1)
		value = value<<take | bits

		pos += take
		remaining -= take
	}
	return value, nil
}

// ConsumeBits returns the next n bits and advances the cursor past them.
func (c *Cursor) ConsumeBits(n int) (uint16, error) {
	value, err := c.PeekBits(n)
	if err != nil {
		return 0, err
	}
	c.pos += n
	return value, nil
}

// ConsumeBytes reads n whole bytes as a little endian value, the byte order
// of 8086 displacement and immediate data. The cursor has to be byte aligned.
func (c *Cursor) ConsumeBytes(n int) (uint16, error) {
	if n < 1 || n > 2 {
		return 0, fmt.Errorf("%w: %d bytes", errInvalidBitCount, n)
	}
	if !c.Aligned() {
		return 0, fmt.Errorf("reading bytes at unaligned bit position %d", c.pos)
	}
	if n*8 > c.Remaining() {
		return 0, fmt.Errorf("%w: reading %d bytes at offset %d", ErrEndOfInput, n, c.Offset())
	}

	offset := c.Offset()
	value := uint16(c.data[offset])
	if n == 2 {
		value |= uint16(c.data[offset+1]) << 8
	}
	c.pos += n * 8
	return value, nil
}

// Position returns the current bit position.
func (c *Cursor) Position() int {
	return c.pos
}

// Seek sets the bit position, it is used to roll back a speculative read.
func (c *Cursor) Seek(pos int) {
	c.pos = max(0, min(pos, len(c.data)*8))
}

// Offset returns the index of the byte that contains the current bit.
func (c *Cursor) Offset() int {
	return c.pos / 8
}

// Aligned returns whether the cursor is at the start of a byte.
func (c *Cursor) Aligned() bool {
	return c.pos%8 == 0
}

// Remaining returns the number of unread bits.
func (c *Cursor) Remaining() int {
	return len(c.data)*8 - c.pos
}

// AtEnd returns whether all bits have been read.
func (c *Cursor) AtEnd() bool {
	return c.Remaining() == 0
}

// Bytes returns the bytes between the two byte offsets.
func (c *Cursor) Bytes(from, to int) []byte {
	return c.data[from:to]
}
