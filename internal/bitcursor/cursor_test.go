package bitcursor

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestConsumeBits(t *testing.T) {
	c := New([]byte{0xC6, 0x0F})

	reads := []struct {
		bits     int
		expected uint16
	}{
		{6, 0b110001},
		{1, 1},
		{1, 0},
		{2, 0b00},
		{3, 0b001},
		{3, 0b111},
	}

	for _, r := range reads {
		value, err := c.ConsumeBits(r.bits)
		assert.NoError(t, err)
		assert.Equal(t, r.expected, value)
	}
	assert.True(t, c.AtEnd())
}

func TestConsumeBitsAcrossByteBoundary(t *testing.T) {
	c := New([]byte{0b10110011, 0b01011100})

	value, err := c.ConsumeBits(5)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0b10110), value)

	// 3 remaining bits of the first byte followed by 4 bits of the second
	value, err = c.ConsumeBits(7)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0b0110101), value)

	value, err = c.ConsumeBits(4)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0b1100), value)
}

func TestConsumeBits16(t *testing.T) {
	c := New([]byte{0x12, 0x34})
	value, err := c.ConsumeBits(16)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), value)
}

func TestPeekBitsDoesNotAdvance(t *testing.T) {
	c := New([]byte{0xFF, 0xF0})

	value, err := c.PeekBits(8)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xFF), value)
	assert.Equal(t, 0, c.Position())

	value, err = c.PeekBits(12)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xFFF), value)
	assert.Equal(t, 0, c.Position())
}

func TestEndOfInput(t *testing.T) {
	c := New([]byte{0xAB})

	_, err := c.ConsumeBits(9)
	assert.True(t, errors.Is(err, ErrEndOfInput))
	assert.Equal(t, 0, c.Position())

	_, err = c.ConsumeBits(4)
	assert.NoError(t, err)
	_, err = c.PeekBits(5)
	assert.True(t, errors.Is(err, ErrEndOfInput))

	_, err = New(nil).ConsumeBits(1)
	assert.True(t, errors.Is(err, ErrEndOfInput))
}

func TestInvalidBitCount(t *testing.T) {
	c := New([]byte{0x00, 0x00, 0x00})

	_, err := c.PeekBits(0)
	assert.True(t, errors.Is(err, errInvalidBitCount))
	_, err = c.PeekBits(17)
	assert.True(t, errors.Is(err, errInvalidBitCount))
	_, err = c.ConsumeBytes(3)
	assert.True(t, errors.Is(err, errInvalidBitCount))
}

func TestConsumeBytes(t *testing.T) {
	c := New([]byte{0x34, 0x12, 0xFE})

	value, err := c.ConsumeBytes(2)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), value)

	value, err = c.ConsumeBytes(1)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xFE), value)

	_, err = c.ConsumeBytes(1)
	assert.True(t, errors.Is(err, ErrEndOfInput))
}

func TestConsumeBytesUnaligned(t *testing.T) {
	c := New([]byte{0x34, 0x12})
	_, err := c.ConsumeBits(3)
	assert.NoError(t, err)

	_, err = c.ConsumeBytes(1)
	assert.Error(t, err)
	assert.Equal(t, 3, c.Position())
}

func TestSeek(t *testing.T) {
	c := New([]byte{0x01, 0x02})
	_, err := c.ConsumeBits(11)
	assert.NoError(t, err)
	assert.Equal(t, 1, c.Offset())
	assert.False(t, c.Aligned())
	assert.Equal(t, 5, c.Remaining())

	c.Seek(8)
	assert.True(t, c.Aligned())
	value, err := c.ConsumeBits(8)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x02), value)

	c.Seek(100)
	assert.True(t, c.AtEnd())
	c.Seek(-1)
	assert.Equal(t, 0, c.Position())
}
