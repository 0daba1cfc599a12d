// Package instruction contains the decoded instruction type produced by the decoder.
package instruction

import (
	"bytes"

	"github.com/retroenv/disasm86/internal/field"
	"github.com/retroenv/disasm86/internal/isa"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Instruction is a decoded instruction. It is created once by the decoder and
// not modified afterwards.
type Instruction struct {
	Tag      isa.Tag
	Template *isa.Template // template that matched

	Offset int    // byte offset of the first instruction byte in the input
	Length int    // number of bytes that the instruction occupies
	Bytes  []byte // raw instruction bytes

	Fields map[field.Kind]uint16 // resolved field values, implied fields included

	Displacement     int16 // sign extended displacement, see DirectAddress for direct addressing
	DisplacementSize int   // number of displacement bytes, 0, 1 or 2
}

// Field returns the resolved value of the field kind and whether it was present.
func (i Instruction) Field(kind field.Kind) (uint16, bool) {
	value, ok := i.Fields[kind]
	return value, ok
}

// Kinds returns the resolved field kinds in ascending order.
func (i Instruction) Kinds() []field.Kind {
	kinds := maps.Keys(i.Fields)
	slices.Sort(kinds)
	return kinds
}

// Wide returns whether the instruction operates on words.
func (i Instruction) Wide() bool {
	return i.Fields[field.Width] == 1
}

// HasDisplacement returns whether displacement bytes followed the MOD REG R/M byte.
func (i Instruction) HasDisplacement() bool {
	return i.DisplacementSize > 0
}

// DirectAddress returns the 16 bit memory address of an instruction that uses
// direct addressing (MOD 00, R/M 110) and whether it uses it.
func (i Instruction) DirectAddress() (uint16, bool) {
	if i.DisplacementSize != 2 ||
		i.Fields[field.AddressingMode] != field.ModeMemory ||
		i.Fields[field.RegisterOrMemory] != field.DirectAddress {
		return 0, false
	}
	return uint16(i.Displacement), true
}

// Immediate returns the immediate data of the instruction and whether it has any.
// An 8 bit immediate with the sign extend bit set on a word operation is sign
// extended to 16 bits.
func (i Instruction) Immediate() (int32, bool) {
	low, ok := i.Fields[field.DataLow]
	if !ok {
		return 0, false
	}

	if high, ok := i.Fields[field.DataHigh]; ok {
		return int32(high<<8 | low), true
	}
	if i.Wide() && i.Fields[field.SignExtend] == 1 {
		return int32(int8(low)), true
	}
	return int32(low), true
}

// Equal returns whether both instructions decoded to the same tag, fields,
// displacement and length.
func (i Instruction) Equal(other Instruction) bool {
	return i.Tag == other.Tag &&
		i.Length == other.Length &&
		i.Displacement == other.Displacement &&
		i.DisplacementSize == other.DisplacementSize &&
		maps.Equal(i.Fields, other.Fields) &&
		bytes.Equal(i.Bytes, other.Bytes)
}
