package isa

import (
	"fmt"

	. "github.com/retroenv/disasm86/internal/field"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Names of the built-in template tables.
const (
	Table8086     = "8086"
	TableOriginal = "original"
)

// DefaultTable is the table used when none is selected.
const DefaultTable = Table8086

// Original returns the two templates that the decoder was first written for:
// the MOV layout with direction and width bits and the PUSH register/memory encoding.
func Original() []*Template {
	return []*Template{
		MustTemplate(Mov, "register/memory with direction and width",
			Lit("110001"), D, W, MOD, REG, RM),
		MustTemplate(Push, "register/memory",
			Lit("11111111"), MOD, Lit("110"), RM, ImpW(1), ImpD(1)),
	}
}

// Intel8086 returns a subset of the 8086 encoding table, ordered most specific first.
func Intel8086() []*Template {
	return []*Template{
		// segment register push and pop come before the arithmetic group as their
		// first byte shares the high bits with it
		MustTemplate(Push, "segment register", Lit("000"), SR, Lit("110"), ImpW(1)),
		MustTemplate(Pop, "segment register", Lit("000"), SR, Lit("111"), ImpW(1)),

		MustTemplate(Mov, "register/memory to/from register", Lit("100010"), D, W, MOD, REG, RM),
		MustTemplate(Mov, "immediate to register/memory",
			Lit("1100011"), W, MOD, Lit("000"), RM, Data, DataW, ImpD(0)),
		MustTemplate(Mov, "immediate to register", Lit("1011"), W, REG, Data, DataW, ImpD(1)),
		MustTemplate(Mov, "memory to accumulator",
			Lit("1010000"), W, ImpREG(0), ImpMOD(ModeMemory), ImpRM(DirectAddress), ImpD(1)),
		MustTemplate(Mov, "accumulator to memory",
			Lit("1010001"), W, ImpREG(0), ImpMOD(ModeMemory), ImpRM(DirectAddress), ImpD(0)),
		MustTemplate(Mov, "register/memory to/from segment register",
			Lit("100011"), D, Lit("0"), MOD, Lit("0"), SR, RM, ImpW(1)),

		MustTemplate(Push, "register/memory", Lit("11111111"), MOD, Lit("110"), RM, ImpW(1), ImpD(1)),
		MustTemplate(Push, "register", Lit("01010"), REG, ImpW(1)),
		MustTemplate(Pop, "register/memory", Lit("10001111"), MOD, Lit("000"), RM, ImpW(1)),
		MustTemplate(Pop, "register", Lit("01011"), REG, ImpW(1)),

		MustTemplate(Add, "register/memory with register", Lit("000000"), D, W, MOD, REG, RM),
		MustTemplate(Add, "immediate to register/memory",
			Lit("100000"), S, W, MOD, Lit("000"), RM, Data, DataW, ImpD(0)),
		MustTemplate(Add, "immediate to accumulator", Lit("0000010"), W, Data, DataW, ImpREG(0), ImpD(1)),

		MustTemplate(Sub, "register/memory with register", Lit("001010"), D, W, MOD, REG, RM),
		MustTemplate(Sub, "immediate from register/memory",
			Lit("100000"), S, W, MOD, Lit("101"), RM, Data, DataW, ImpD(0)),
		MustTemplate(Sub, "immediate from accumulator", Lit("0010110"), W, Data, DataW, ImpREG(0), ImpD(1)),

		MustTemplate(Cmp, "register/memory with register", Lit("001110"), D, W, MOD, REG, RM),
		MustTemplate(Cmp, "immediate with register/memory",
			Lit("100000"), S, W, MOD, Lit("111"), RM, Data, DataW, ImpD(0)),
		MustTemplate(Cmp, "immediate with accumulator", Lit("0011110"), W, Data, DataW, ImpREG(0), ImpD(1)),

		MustTemplate(Inc, "register/memory", Lit("1111111"), W, MOD, Lit("000"), RM),
		MustTemplate(Inc, "register", Lit("01000"), REG, ImpW(1)),
		MustTemplate(Dec, "register/memory", Lit("1111111"), W, MOD, Lit("001"), RM),
		MustTemplate(Dec, "register", Lit("01001"), REG, ImpW(1)),

		MustTemplate(Rol, "register/memory", Lit("110100"), V, W, MOD, Lit("000"), RM),
		MustTemplate(Ror, "register/memory", Lit("110100"), V, W, MOD, Lit("001"), RM),
		MustTemplate(Shl, "register/memory", Lit("110100"), V, W, MOD, Lit("100"), RM),
		MustTemplate(Shr, "register/memory", Lit("110100"), V, W, MOD, Lit("101"), RM),
		MustTemplate(Sar, "register/memory", Lit("110100"), V, W, MOD, Lit("111"), RM),

		MustTemplate(Rep, "prefix", Lit("1111001"), Z),
	}
}

var tables = map[string]func() []*Template{
	Table8086:     Intel8086,
	TableOriginal: Original,
}

// TableNames returns the names of all built-in tables, sorted.
func TableNames() []string {
	names := maps.Keys(tables)
	slices.Sort(names)
	return names
}

// Table returns a registry for the built-in table of the given name.
func Table(name string) (*Registry, error) {
	templates, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("unsupported template table '%s'", name)
	}
	return NewRegistry(templates()...)
}
