package field

// Fields with a fixed layout that are shared by all templates.
var (
	D    = Descriptor{Kind: Direction, Width: 1}
	S    = Descriptor{Kind: SignExtend, Width: 1}
	W    = Descriptor{Kind: Width, Width: 1}
	V    = Descriptor{Kind: ShiftCount, Width: 1}
	Z    = Descriptor{Kind: Repeat, Width: 1}
	MOD  = Descriptor{Kind: AddressingMode, Width: 2}
	REG  = Descriptor{Kind: Register, Width: 3}
	RM   = Descriptor{Kind: RegisterOrMemory, Width: 3}
	SR   = Descriptor{Kind: SegmentRegister, Width: 2}
	Data = Descriptor{Kind: DataLow, Width: 8}
	// DataW is the high data byte that is only present for word sized data.
	DataW = Descriptor{Kind: DataHigh, Width: 8}
)

// Lit returns a literal field for the given bit pattern, for example "110001".
// Leading zeros are significant and count towards the width. A pattern that
// contains characters other than 0 and 1 results in a literal with width 0,
// which fails validation.
func Lit(pattern string) Descriptor {
	d := Descriptor{Kind: Literal}
	for _, c := range pattern {
		switch c {
		case '0':
			d.Value <<= 1
		case '1':
			d.Value = d.Value<<1 | 1
		default:
			return Descriptor{Kind: Literal}
		}
		d.Width++
	}
	return d
}

// ImpW returns an implied width field.
func ImpW(value uint16) Descriptor {
	return Descriptor{Kind: ImpliedWidth, Value: value}
}

// ImpD returns an implied direction field.
func ImpD(value uint16) Descriptor {
	return Descriptor{Kind: ImpliedDirection, Value: value}
}

// ImpREG returns an implied register field.
func ImpREG(value uint16) Descriptor {
	return Descriptor{Kind: ImpliedRegister, Value: value}
}

// ImpMOD returns an implied addressing mode field.
func ImpMOD(value uint16) Descriptor {
	return Descriptor{Kind: ImpliedAddressingMode, Value: value}
}

// ImpRM returns an implied register or memory field.
func ImpRM(value uint16) Descriptor {
	return Descriptor{Kind: ImpliedRegisterOrMemory, Value: value}
}
