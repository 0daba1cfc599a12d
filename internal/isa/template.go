package isa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/disasm86/internal/field"
	"github.com/retroenv/retrogolib/set"
)

// ErrTemplateConfiguration is the base error of all template table errors.
// It signals a programming error in a template table and is never a decode error.
var ErrTemplateConfiguration = errors.New("invalid template configuration")

// ConfigurationError describes why a template was rejected.
type ConfigurationError struct {
	Tag    Tag
	Index  int // index of the offending field, -1 if the template as a whole is invalid
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s template: %s", e.Tag, e.Reason)
	}
	return fmt.Sprintf("%s template field %d: %s", e.Tag, e.Index, e.Reason)
}

// Unwrap returns ErrTemplateConfiguration and the underlying field error, if any.
func (e *ConfigurationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTemplateConfiguration}
	}
	return []error{ErrTemplateConfiguration, e.Err}
}

// Template describes the byte level grammar of one instruction encoding.
// Fields are ordered in decode order, the bits of the first byte first.
type Template struct {
	Tag     Tag
	Fields  []field.Descriptor
	Comment string // encoding variant, for example "immediate to register/memory"
}

// NewTemplate returns a validated template. Field shifts are computed from the
// position of each field inside its byte group.
func NewTemplate(tag Tag, fields ...field.Descriptor) (*Template, error) {
	t := &Template{
		Tag:    tag,
		Fields: make([]field.Descriptor, len(fields)),
	}
	copy(t.Fields, fields)

	if err := t.layout(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustTemplate returns a validated template and panics on a configuration error.
// It is meant for the static template tables.
func MustTemplate(tag Tag, comment string, fields ...field.Descriptor) *Template {
	t, err := NewTemplate(tag, fields...)
	if err != nil {
		panic(err)
	}
	t.Comment = comment
	return t
}

// layout validates the fields and assigns the bit shifts.
func (t *Template) layout() error {
	if len(t.Fields) == 0 || t.Fields[0].Kind != field.Literal {
		return t.configErr(-1, "first field has to be a literal opcode anchor", nil)
	}

	seen := set.New[field.Kind]()
	bitsInGroup := 0
	dataLow, dataHigh := false, false

	for i := range t.Fields {
		f := &t.Fields[i]
		if err := f.Validate(); err != nil {
			return t.configErr(i, err.Error(), err)
		}

		if f.Kind != field.Literal {
			resolved := f.Kind.Resolves()
			if seen.Contains(resolved) {
				return t.configErr(i, fmt.Sprintf("duplicate %s field", resolved), nil)
			}
			seen.Add(resolved)
		}

		switch f.Kind {
		case field.DataLow:
			dataLow = true
		case field.DataHigh:
			if !dataLow {
				return t.configErr(i, "DATA-HI without preceding DATA-LO", nil)
			}
			if !seen.Contains(field.Width) {
				return t.configErr(i, "DATA-HI before the width is resolved", nil)
			}
			dataHigh = true
		case field.SignExtend:
			if dataHigh {
				return t.configErr(i, "S after DATA-HI", nil)
			}
		}

		if f.Width == 0 {
			continue
		}
		if bitsInGroup+f.Width > 8 {
			return t.configErr(i, fmt.Sprintf("%s field crosses byte boundary, byte group has %d bits",
				f, bitsInGroup+f.Width), nil)
		}
		bitsInGroup += f.Width
		f.Shift = 8 - bitsInGroup
		if bitsInGroup == 8 {
			bitsInGroup = 0
		}
	}

	if bitsInGroup != 0 {
		return t.configErr(-1, fmt.Sprintf("last byte group has %d bits instead of 8", bitsInGroup), nil)
	}
	return nil
}

func (t *Template) configErr(index int, reason string, err error) error {
	return &ConfigurationError{
		Tag:    t.Tag,
		Index:  index,
		Reason: reason,
		Err:    err,
	}
}

// LiteralBits returns the number of literal bits, a measure of how specific the template is.
func (t *Template) LiteralBits() int {
	var bits int
	for _, f := range t.Fields {
		if f.Kind == field.Literal {
			bits += f.Width
		}
	}
	return bits
}

// Has returns whether the template contains a field that resolves to the given kind.
func (t *Template) Has(kind field.Kind) bool {
	for _, f := range t.Fields {
		if f.Kind != field.Literal && f.Kind.Resolves() == kind {
			return true
		}
	}
	return false
}

func (t *Template) String() string {
	parts := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%s %s", t.Tag, strings.Join(parts, " "))
}
