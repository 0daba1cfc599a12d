// Package field describes the bit level fields that make up an instruction encoding.
package field

import (
	"errors"
	"fmt"
)

// Kind defines the meaning of a field inside an instruction encoding.
type Kind uint8

// field kinds.
const (
	Literal          Kind = iota // fixed opcode bits that anchor a template
	Direction                    // D: 1 = REG is the destination
	SignExtend                   // S: sign extend 8 bit immediate data to 16 bit
	Width                        // W: 0 = byte, 1 = word
	ShiftCount                   // V: 0 = shift by 1, 1 = shift by CL
	Repeat                       // Z: repeat prefix compare flag
	AddressingMode               // MOD
	Register                     // REG
	RegisterOrMemory             // R/M
	SegmentRegister              // SR
	DataLow                      // immediate data, low byte
	DataHigh                     // immediate data, high byte, only present for word data
	ImpliedWidth                 // width fixed by the opcode
	ImpliedDirection             // direction fixed by the opcode
	ImpliedRegister              // register fixed by the opcode, for accumulator forms
	ImpliedAddressingMode
	ImpliedRegisterOrMemory
)

var kindNames = [...]string{
	Literal:                 "LIT",
	Direction:               "D",
	SignExtend:              "S",
	Width:                   "W",
	ShiftCount:              "V",
	Repeat:                  "Z",
	AddressingMode:          "MOD",
	Register:                "REG",
	RegisterOrMemory:        "RM",
	SegmentRegister:         "SR",
	DataLow:                 "DATA-LO",
	DataHigh:                "DATA-HI",
	ImpliedWidth:            "IMP-W",
	ImpliedDirection:        "IMP-D",
	ImpliedRegister:         "IMP-REG",
	ImpliedAddressingMode:   "IMP-MOD",
	ImpliedRegisterOrMemory: "IMP-RM",
}

// String returns the short name of the kind as used in 8086 encoding tables.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsImplied returns whether the kind consumes no bits and carries a constant value.
func (k Kind) IsImplied() bool {
	switch k {
	case ImpliedWidth, ImpliedDirection, ImpliedRegister, ImpliedAddressingMode, ImpliedRegisterOrMemory:
		return true
	default:
		return false
	}
}

// Resolves returns the kind that a field value is stored under after decoding.
// Implied kinds resolve to the kind they stand in for, all others to themselves.
func (k Kind) Resolves() Kind {
	switch k {
	case ImpliedWidth:
		return Width
	case ImpliedDirection:
		return Direction
	case ImpliedRegister:
		return Register
	case ImpliedAddressingMode:
		return AddressingMode
	case ImpliedRegisterOrMemory:
		return RegisterOrMemory
	default:
		return k
	}
}

// fixedWidth returns the bit width that a kind always has, literals excluded.
func (k Kind) fixedWidth() (int, bool) {
	switch k {
	case Direction, SignExtend, Width, ShiftCount, Repeat:
		return 1, true
	case AddressingMode, SegmentRegister:
		return 2, true
	case Register, RegisterOrMemory:
		return 3, true
	case DataLow, DataHigh:
		return 8, true
	case ImpliedWidth, ImpliedDirection, ImpliedRegister, ImpliedAddressingMode, ImpliedRegisterOrMemory:
		return 0, true
	default:
		return 0, false
	}
}

var (
	errInvalidKind    = errors.New("invalid field kind")
	errInvalidWidth   = errors.New("invalid field width")
	errLiteralOverrun = errors.New("literal value does not fit its width")
)

// Descriptor describes one field of an instruction template.
type Descriptor struct {
	Kind  Kind
	Width int    // number of bits the field occupies in its byte
	Shift int    // bit position of the least significant bit of the field inside its byte
	Value uint16 // literal bit pattern or implied constant
}

// Validate checks that the width matches the kind and the value fits into the width.
func (d Descriptor) Validate() error {
	if d.Kind == Literal {
		if d.Width < 1 || d.Width > 8 {
			return fmt.Errorf("%w: literal width %d", errInvalidWidth, d.Width)
		}
		if d.Value>>d.Width != 0 {
			return fmt.Errorf("%w: %b in %d bits", errLiteralOverrun, d.Value, d.Width)
		}
		return nil
	}

	width, ok := d.Kind.fixedWidth()
	if !ok {
		return fmt.Errorf("%w: %d", errInvalidKind, d.Kind)
	}
	if d.Width != width {
		return fmt.Errorf("%w: %s field has %d bits, expected %d", errInvalidWidth, d.Kind, d.Width, width)
	}
	if d.Kind.IsImplied() && d.Value > 0xff {
		return fmt.Errorf("%w: implied value %d", errLiteralOverrun, d.Value)
	}
	return nil
}

// Mask returns the bit mask of the field value.
func (d Descriptor) Mask() uint16 {
	return 1<<d.Width - 1
}

func (d Descriptor) String() string {
	switch {
	case d.Kind == Literal:
		return fmt.Sprintf("%0*b", d.Width, d.Value)
	case d.Kind.IsImplied():
		return fmt.Sprintf("%s(%d)", d.Kind, d.Value)
	default:
		return d.Kind.String()
	}
}
