// Package options contains the program options.
package options

import (
	"strings"

	"github.com/retroenv/disasm86/internal/isa"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input binary file"`
	Output string `flag:"o" usage:"output .lst file (default: stdout)"`
	Batch  string `flag:"batch" usage:"batch process files matching pattern (e.g. *.bin)"`
}

// Flags contains behavior options.
type Flags struct {
	Table        string `flag:"t" usage:"template table: 8086, original" default:"8086"`
	AssembleTest bool   `flag:"verify" usage:"verify output by re-encoding and comparing to input"`
	Debug        bool   `flag:"debug" usage:"enable debug logging"`
	Quiet        bool   `flag:"q" usage:"quiet mode"`
}

// OutputFlags contains output formatting options.
type OutputFlags struct {
	Dump          bool `flag:"dump" usage:"dump decoded data structures instead of a listing"`
	NoHexComments bool `flag:"nohexcomments" usage:"omit hex instruction bytes in comments"`
	NoOffsets     bool `flag:"nooffsets" usage:"omit file offsets in comments"`
}

// Program options of the disassembler.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// Decoder defines options to control the decoding and listing output.
type Decoder struct {
	Table string // name of the template table to decode with

	Dump           bool
	HexComments    bool
	OffsetComments bool
}

// NewDecoder returns a new options instance with default options.
func NewDecoder(table string) Decoder {
	table = strings.ToLower(table)
	if table == "" {
		table = isa.DefaultTable
	}

	return Decoder{
		Table: table,

		HexComments:    true,
		OffsetComments: true,
	}
}
