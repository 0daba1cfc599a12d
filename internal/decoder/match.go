package decoder

import (
	"fmt"

	"github.com/retroenv/disasm86/internal/bitcursor"
	"github.com/retroenv/disasm86/internal/field"
	"github.com/retroenv/disasm86/internal/instruction"
	"github.com/retroenv/disasm86/internal/isa"
)

// matchState holds the values resolved while matching a single template.
type matchState struct {
	cur    *bitcursor.Cursor
	fields map[field.Kind]uint16

	displacement     int16
	displacementSize int
	displacementRead bool
}

// match tries to decode the template at the cursor position. The caller is
// responsible for restoring the cursor if an error is returned.
func match(cur *bitcursor.Cursor, tmpl *isa.Template) (instruction.Instruction, error) {
	start := cur.Position()
	state := &matchState{
		cur:    cur,
		fields: make(map[field.Kind]uint16, len(tmpl.Fields)),
	}

	for i, f := range tmpl.Fields {
		if err := state.resolveField(f); err != nil {
			return instruction.Instruction{}, fmt.Errorf("field %d %s: %w", i, f, err)
		}
		if err := state.resolveDisplacement(); err != nil {
			return instruction.Instruction{}, fmt.Errorf("displacement: %w", err)
		}
	}

	end := cur.Position()
	offset := start / 8
	length := (end - start + 7) / 8
	raw := make([]byte, length)
	copy(raw, cur.Bytes(offset, offset+length))

	return instruction.Instruction{
		Tag:              tmpl.Tag,
		Template:         tmpl,
		Offset:           offset,
		Length:           length,
		Bytes:            raw,
		Fields:           state.fields,
		Displacement:     state.displacement,
		DisplacementSize: state.displacementSize,
	}, nil
}

// resolveField reads or assigns the value of a single template field.
func (s *matchState) resolveField(f field.Descriptor) error {
	switch {
	case f.Kind == field.Literal:
		value, err := s.cur.ConsumeBits(f.Width)
		if err != nil {
			return err
		}
		if value != f.Value {
			return errLiteralMismatch
		}
		return nil

	case f.Kind.IsImplied():
		s.fields[f.Kind.Resolves()] = f.Value
		return nil

	case f.Kind == field.DataHigh:
		if !field.DataHighPresent(s.fields[field.Width], s.fields[field.SignExtend]) {
			return nil
		}
	}

	value, err := s.cur.ConsumeBits(f.Width)
	if err != nil {
		return err
	}
	s.fields[f.Kind] = value
	return nil
}

// resolveDisplacement reads the displacement bytes that follow the byte containing
// the MOD and R/M fields once both are resolved and the cursor reached the end of
// that byte.
func (s *matchState) resolveDisplacement() error {
	if s.displacementRead || !s.cur.Aligned() {
		return nil
	}
	mod, ok := s.fields[field.AddressingMode]
	if !ok {
		return nil
	}
	rm, ok := s.fields[field.RegisterOrMemory]
	if !ok {
		return nil
	}
	s.displacementRead = true

	size := field.DisplacementSize(mod, rm)
	if size == 0 {
		return nil
	}

	value, err := s.cur.ConsumeBytes(size)
	if err != nil {
		return err
	}
	s.displacementSize = size
	if size == 1 {
		s.displacement = int16(int8(value))
	} else {
		s.displacement = int16(value)
	}
	return nil
}
