package verification

import (
	"testing"

	"github.com/retroenv/disasm86/internal/decoder"
	"github.com/retroenv/disasm86/internal/field"
	"github.com/retroenv/disasm86/internal/isa"
	"github.com/retroenv/disasm86/internal/program"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var testCode = []byte{
	0x89, 0xD8, // mov ax, bx
	0xC7, 0x46, 0x02, 0x34, 0x12, // mov word [bp+2], 0x1234
	0x83, 0xC0, 0xFE, // add ax, -2
	0xA1, 0x34, 0x12, // mov ax, [0x1234]
	0xCC, 0x90, // not decoded
}

func decodeProgram(t *testing.T, logger *log.Logger, data []byte) *program.Program {
	t.Helper()

	reg, err := isa.Table(isa.Table8086)
	assert.NoError(t, err)
	dec := decoder.New(logger, reg)

	app := program.New("test.bin", data)
	app.Instructions, err = dec.Decode(data)
	if err != nil {
		app.SetFailure(data, app.Decoded(), err)
	}
	return app
}

func TestVerifyOutput(t *testing.T) {
	logger := log.NewTestLogger(t)
	app := decodeProgram(t, logger, testCode)
	assert.Len(t, app.Instructions, 4)
	assert.NotNil(t, app.Failure)

	assert.NoError(t, VerifyOutput(logger, app, testCode))
}

func TestVerifyOutputMismatch(t *testing.T) {
	logger := log.NewTestLogger(t)
	app := decodeProgram(t, logger, testCode)

	fields := map[field.Kind]uint16{}
	for kind, value := range app.Instructions[0].Fields {
		fields[kind] = value
	}
	fields[field.Register] = 1
	app.Instructions[0].Fields = fields

	err := VerifyOutput(logger, app, testCode)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "1 offset mismatches")
}

func TestVerifyOutputLengthMismatch(t *testing.T) {
	logger := log.NewTestLogger(t)
	app := decodeProgram(t, logger, testCode)
	app.Remaining = nil

	err := VerifyOutput(logger, app, testCode)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "mismatched lengths")
}

func TestVerifyOutputMissingTemplate(t *testing.T) {
	logger := log.NewTestLogger(t)
	app := decodeProgram(t, logger, testCode[:2])
	app.Instructions[0].Template = nil

	assert.Error(t, VerifyOutput(logger, app, testCode[:2]))
}
