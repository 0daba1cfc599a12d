// Package isa contains the instruction templates of the 8086 and the registry
// that the decoder searches them in.
package isa

import "fmt"

// Tag is the symbolic identity of an instruction family.
type Tag uint8

// opcode tags.
const (
	Mov Tag = iota + 1
	Push
	Pop
	Add
	Sub
	Cmp
	Inc
	Dec
	Shl
	Shr
	Sar
	Rol
	Ror
	Rep
)

var tagNames = map[Tag]string{
	Mov:  "MOV",
	Push: "PUSH",
	Pop:  "POP",
	Add:  "ADD",
	Sub:  "SUB",
	Cmp:  "CMP",
	Inc:  "INC",
	Dec:  "DEC",
	Shl:  "SHL",
	Shr:  "SHR",
	Sar:  "SAR",
	Rol:  "ROL",
	Ror:  "ROR",
	Rep:  "REP",
}

// String returns the mnemonic of the tag.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", t)
}
