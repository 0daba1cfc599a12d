// Package decoder implements the template matching decode engine that turns a
// byte buffer into a sequence of decoded instructions.
package decoder

import (
	"errors"
	"fmt"

	"github.com/retroenv/disasm86/internal/bitcursor"
	"github.com/retroenv/disasm86/internal/instruction"
	"github.com/retroenv/disasm86/internal/isa"
	"github.com/retroenv/retrogolib/log"
)

// ErrNoMatchingTemplate is returned when no registered template matches the
// bytes at a decode position.
var ErrNoMatchingTemplate = errors.New("no matching template")

var errLiteralMismatch = errors.New("literal mismatch")

// NoMatchError reports the byte offset at which decoding stopped.
type NoMatchError struct {
	Offset    int
	Truncated bool // at least one template ran out of input
}

func (e *NoMatchError) Error() string {
	if e.Truncated {
		return fmt.Sprintf("%s at offset 0x%04X: %s", ErrNoMatchingTemplate, e.Offset, bitcursor.ErrEndOfInput)
	}
	return fmt.Sprintf("%s at offset 0x%04X", ErrNoMatchingTemplate, e.Offset)
}

// Unwrap returns ErrNoMatchingTemplate and, for truncated input, ErrEndOfInput.
func (e *NoMatchError) Unwrap() []error {
	if e.Truncated {
		return []error{ErrNoMatchingTemplate, bitcursor.ErrEndOfInput}
	}
	return []error{ErrNoMatchingTemplate}
}

// Decoder decodes byte buffers using the templates of a registry.
// A decoder keeps no state between calls, decoders that share a registry can
// run in parallel.
type Decoder struct {
	logger    *log.Logger
	templates []*isa.Template
}

// New returns a new decoder that tries the templates of the registry in order.
func New(logger *log.Logger, registry *isa.Registry) *Decoder {
	return &Decoder{
		logger:    logger,
		templates: registry.Templates(),
	}
}

// Decode decodes all instructions in data. On failure the instructions that were
// decoded before the failing offset are returned together with a *NoMatchError.
func (d *Decoder) Decode(data []byte) ([]instruction.Instruction, error) {
	cur := bitcursor.New(data)
	instructions := make([]instruction.Instruction, 0, len(data)/2)

	for !cur.AtEnd() {
		ins, err := d.DecodeAt(cur)
		if err != nil {
			d.logger.Debug("Decoding stopped",
				log.Hex("offset", cur.Offset()),
				log.Int("decoded", len(instructions)),
				log.Err(err))
			return instructions, err
		}
		instructions = append(instructions, ins)
	}
	return instructions, nil
}

// DecodeAt decodes the instruction at the current cursor position and advances the
// cursor past it. The cursor is left unchanged if no template matches.
func (d *Decoder) DecodeAt(cur *bitcursor.Cursor) (instruction.Instruction, error) {
	start := cur.Position()
	truncated := false

	for _, tmpl := range d.templates {
		ins, err := match(cur, tmpl)
		if err == nil {
			d.logger.Debug("Decoded instruction",
				log.Hex("offset", ins.Offset),
				log.Stringer("tag", ins.Tag),
				log.Int("length", ins.Length))
			return ins, nil
		}

		cur.Seek(start)
		if errors.Is(err, bitcursor.ErrEndOfInput) {
			truncated = true
		}
	}

	return instruction.Instruction{}, &NoMatchError{
		Offset:    start / 8,
		Truncated: truncated,
	}
}
