package decoder

import (
	"errors"
	"sync"
	"testing"

	"github.com/retroenv/disasm86/internal/bitcursor"
	"github.com/retroenv/disasm86/internal/field"
	"github.com/retroenv/disasm86/internal/instruction"
	"github.com/retroenv/disasm86/internal/isa"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newDecoder(t *testing.T, table string) *Decoder {
	t.Helper()
	reg, err := isa.Table(table)
	assert.NoError(t, err)
	return New(log.NewTestLogger(t), reg)
}

func TestDecodeEmpty(t *testing.T) {
	dec := newDecoder(t, isa.Table8086)

	instructions, err := dec.Decode(nil)
	assert.NoError(t, err)
	assert.NotNil(t, instructions)
	assert.Len(t, instructions, 0)

	instructions, err = dec.Decode([]byte{})
	assert.NoError(t, err)
	assert.Len(t, instructions, 0)
}

func TestDecodeOriginalMov(t *testing.T) {
	dec := newDecoder(t, isa.TableOriginal)

	instructions, err := dec.Decode([]byte{0xC6, 0x00})
	assert.NoError(t, err)
	assert.Len(t, instructions, 1)

	ins := instructions[0]
	assert.Equal(t, isa.Mov, ins.Tag)
	assert.Equal(t, 2, ins.Length)
	assert.Equal(t, 0, ins.Offset)
	assert.Equal(t, 0, ins.DisplacementSize)
	assert.Equal(t, []byte{0xC6, 0x00}, ins.Bytes)

	expected := map[field.Kind]uint16{
		field.Direction:        1,
		field.Width:            0,
		field.AddressingMode:   field.ModeMemory,
		field.Register:         0,
		field.RegisterOrMemory: 0,
	}
	assert.Equal(t, expected, ins.Fields)
}

func TestDecodeOriginalPush(t *testing.T) {
	dec := newDecoder(t, isa.TableOriginal)

	instructions, err := dec.Decode([]byte{0xFF, 0xF0})
	assert.NoError(t, err)
	assert.Len(t, instructions, 1)

	ins := instructions[0]
	assert.Equal(t, isa.Push, ins.Tag)
	assert.Equal(t, 2, ins.Length)

	width, ok := ins.Field(field.Width)
	assert.True(t, ok)
	assert.Equal(t, uint16(1), width)
	direction, ok := ins.Field(field.Direction)
	assert.True(t, ok)
	assert.Equal(t, uint16(1), direction)

	// implied fields are stored under the kind they stand for
	_, ok = ins.Field(field.ImpliedWidth)
	assert.False(t, ok)
	mod, _ := ins.Field(field.AddressingMode)
	assert.Equal(t, uint16(field.ModeRegister), mod)
}

func TestDecodeTruncated(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		data    []byte
		decoded int
		offset  int
	}{
		{"mov missing second byte", isa.TableOriginal, []byte{0xC6}, 0, 0},
		{"push missing second byte after instruction", isa.TableOriginal, []byte{0xFF, 0xF0, 0xFF}, 1, 2},
		{"missing 8 bit displacement", isa.Table8086, []byte{0x88, 0x46}, 0, 0},
		{"missing high byte of direct address", isa.Table8086, []byte{0x8B, 0x1E, 0x34}, 0, 0},
		{"missing high data byte", isa.Table8086, []byte{0x50, 0xC7, 0x06, 0x34, 0x12, 0x01}, 1, 1},
		{"missing data byte", isa.Table8086, []byte{0xB0}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := newDecoder(t, tt.table)

			instructions, err := dec.Decode(tt.data)
			assert.Error(t, err)
			assert.Len(t, instructions, tt.decoded)
			assert.True(t, errors.Is(err, ErrNoMatchingTemplate))
			assert.True(t, errors.Is(err, bitcursor.ErrEndOfInput))

			var noMatch *NoMatchError
			assert.True(t, errors.As(err, &noMatch))
			assert.Equal(t, tt.offset, noMatch.Offset)
			assert.True(t, noMatch.Truncated)
		})
	}
}

func TestDecodeNoMatch(t *testing.T) {
	dec := newDecoder(t, isa.Table8086)

	instructions, err := dec.Decode([]byte{0x50, 0xCC, 0x50})
	assert.Error(t, err)
	assert.Len(t, instructions, 1)
	assert.Equal(t, isa.Push, instructions[0].Tag)

	assert.True(t, errors.Is(err, ErrNoMatchingTemplate))
	assert.False(t, errors.Is(err, bitcursor.ErrEndOfInput))

	var noMatch *NoMatchError
	assert.True(t, errors.As(err, &noMatch))
	assert.Equal(t, 1, noMatch.Offset)
	assert.False(t, noMatch.Truncated)
	assert.Equal(t, "no matching template at offset 0x0001", err.Error())
}

func TestDecodeAtLeavesCursorOnFailure(t *testing.T) {
	dec := newDecoder(t, isa.TableOriginal)
	cur := bitcursor.New([]byte{0xC6})

	_, err := dec.DecodeAt(cur)
	assert.Error(t, err)
	assert.Equal(t, 0, cur.Position())
}

// A template whose literal extends the literal of another template has to be
// registered first, otherwise it is shadowed.
func TestDecodeRegistryOrder(t *testing.T) {
	general, err := isa.NewTemplate(isa.Pop, field.Lit("1111"), field.Z, field.REG)
	assert.NoError(t, err)
	specific, err := isa.NewTemplate(isa.Push, field.Lit("11110"), field.REG)
	assert.NoError(t, err)

	tests := []struct {
		name      string
		templates []*isa.Template
		tag       isa.Tag
	}{
		{"specific first", []*isa.Template{specific, general}, isa.Push},
		{"general first", []*isa.Template{general, specific}, isa.Pop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := isa.NewRegistry(tt.templates...)
			assert.NoError(t, err)
			dec := New(log.NewTestLogger(t), reg)

			instructions, err := dec.Decode([]byte{0xF3})
			assert.NoError(t, err)
			assert.Len(t, instructions, 1)
			assert.Equal(t, tt.tag, instructions[0].Tag)

			value, ok := instructions[0].Field(field.Register)
			assert.True(t, ok)
			assert.Equal(t, uint16(3), value)
		})
	}
}

func TestDecodeSequenceOffsets(t *testing.T) {
	dec := newDecoder(t, isa.Table8086)

	data := []byte{
		0x89, 0xD8, // mov ax, bx
		0xB1, 0x0C, // mov cl, 12
		0x50,                   // push ax
		0xC7, 0x46, 0x02, 0x34, 0x12, // mov word [bp+2], 0x1234
		0xF3, // rep
	}
	instructions, err := dec.Decode(data)
	assert.NoError(t, err)
	assert.Len(t, instructions, 5)

	expected := []struct {
		tag    isa.Tag
		offset int
		length int
	}{
		{isa.Mov, 0, 2},
		{isa.Mov, 2, 2},
		{isa.Push, 4, 1},
		{isa.Mov, 5, 5},
		{isa.Rep, 10, 1},
	}
	for i, e := range expected {
		assert.Equal(t, e.tag, instructions[i].Tag)
		assert.Equal(t, e.offset, instructions[i].Offset)
		assert.Equal(t, e.length, instructions[i].Length)
	}
}

func TestDecodeParallel(t *testing.T) {
	reg, err := isa.Table(isa.Table8086)
	assert.NoError(t, err)

	inputs := [][]byte{
		{0x89, 0xD8, 0x50, 0x5B},
		{0x83, 0xC0, 0xFE, 0xF3, 0x40},
		{0xA1, 0x34, 0x12, 0x8E, 0xD8},
	}
	results := make([][]instruction.Instruction, len(inputs))
	errs := make([]error, len(inputs))

	var wg sync.WaitGroup
	for i, data := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dec := New(log.NewTestLogger(t), reg)
			results[i], errs[i] = dec.Decode(data)
		}()
	}
	wg.Wait()

	for i := range inputs {
		assert.NoError(t, errs[i])
	}
	assert.Len(t, results[0], 3)
	assert.Len(t, results[1], 3)
	assert.Len(t, results[2], 2)
}
