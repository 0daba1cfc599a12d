// Package encoder assembles instruction bytes from a template and field values.
// It is the inverse of the decoder and is used to verify decoded output.
package encoder

import (
	"errors"
	"fmt"

	"github.com/retroenv/disasm86/internal/field"
	"github.com/retroenv/disasm86/internal/instruction"
	"github.com/retroenv/disasm86/internal/isa"
)

var (
	errMissingField  = errors.New("missing field value")
	errValueTooLarge = errors.New("field value too large")
	errNoTemplate    = errors.New("instruction has no template")
)

// Encode returns the bytes of the template with the given field values. Displacement
// bytes are emitted after the byte that completes the MOD and R/M fields, using the
// same size rules as the decoder.
func Encode(tmpl *isa.Template, fields map[field.Kind]uint16, displacement int16) ([]byte, error) {
	var (
		buf     []byte
		current uint16
		bits    int
	)
	resolved := make(map[field.Kind]uint16, len(tmpl.Fields))
	displacementWritten := false

	for i, f := range tmpl.Fields {
		switch {
		case f.Kind == field.Literal:
			current |= f.Value << f.Shift
			bits += f.Width

		case f.Kind.IsImplied():
			resolved[f.Kind.Resolves()] = f.Value

		case f.Kind == field.DataHigh && !field.DataHighPresent(resolved[field.Width], resolved[field.SignExtend]):
			// byte data or sign extended word data

		default:
			value, ok := fields[f.Kind]
			if !ok {
				return nil, fmt.Errorf("%w: field %d %s", errMissingField, i, f.Kind)
			}
			if value&^f.Mask() != 0 {
				return nil, fmt.Errorf("%w: field %d %s value %d", errValueTooLarge, i, f.Kind, value)
			}
			current |= value << f.Shift
			bits += f.Width
			resolved[f.Kind] = value
		}

		if bits == 8 {
			buf = append(buf, byte(current))
			current, bits = 0, 0
		}
		if bits != 0 || displacementWritten {
			continue
		}

		mod, modOK := resolved[field.AddressingMode]
		rm, rmOK := resolved[field.RegisterOrMemory]
		if !modOK || !rmOK {
			continue
		}
		displacementWritten = true

		switch field.DisplacementSize(mod, rm) {
		case 1:
			if displacement < -128 || displacement > 127 {
				return nil, fmt.Errorf("%w: 8 bit displacement %d", errValueTooLarge, displacement)
			}
			buf = append(buf, byte(int8(displacement)))
		case 2:
			buf = append(buf, byte(displacement), byte(uint16(displacement)>>8))
		}
	}
	return buf, nil
}

// EncodeInstruction re-encodes a decoded instruction with the template it was decoded from.
func EncodeInstruction(ins instruction.Instruction) ([]byte, error) {
	if ins.Template == nil {
		return nil, errNoTemplate
	}
	return Encode(ins.Template, ins.Fields, ins.Displacement)
}
