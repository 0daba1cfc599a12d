// Package program represents a decoded 8086 program.
package program

import (
	"hash/crc32"

	"github.com/retroenv/disasm86/internal/instruction"
)

// Failure describes where and why decoding of the program stopped.
type Failure struct {
	Offset int   // byte offset of the first byte that could not be decoded
	Err    error // decoder error
}

// Program defines a decoded program, the instructions that were decoded and the
// remaining bytes if decoding stopped before the end of the input.
type Program struct {
	Source   string // name of the input
	Size     int    // size of the input in bytes
	Checksum uint32 // CRC32 checksum of the input

	Instructions []instruction.Instruction

	Failure   *Failure
	Remaining []byte // undecoded bytes starting at the failure offset
}

// New creates a new program for the given input data.
func New(source string, data []byte) *Program {
	return &Program{
		Source:   source,
		Size:     len(data),
		Checksum: crc32.ChecksumIEEE(data),
	}
}

// SetFailure records the decoding failure and keeps the bytes that were not decoded.
func (p *Program) SetFailure(data []byte, offset int, err error) {
	p.Failure = &Failure{
		Offset: offset,
		Err:    err,
	}
	if offset < len(data) {
		p.Remaining = data[offset:]
	}
}

// Decoded returns the number of bytes that were decoded into instructions.
func (p *Program) Decoded() int {
	var size int
	for _, ins := range p.Instructions {
		size += ins.Length
	}
	return size
}
