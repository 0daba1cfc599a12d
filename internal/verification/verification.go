// Package verification verifies that the decoded output recreates the input.
package verification

import (
	"fmt"

	"github.com/retroenv/disasm86/internal/encoder"
	"github.com/retroenv/disasm86/internal/program"
	"github.com/retroenv/retrogolib/log"
)

// VerifyOutput re-encodes all decoded instructions of the program, appends the
// bytes that were not decoded and checks that the result matches the input.
func VerifyOutput(logger *log.Logger, app *program.Program, input []byte) error {
	output, err := assemble(app)
	if err != nil {
		return err
	}

	if err := checkBufferEqual(logger, input, output); err != nil {
		return fmt.Errorf("output mismatch: %w", err)
	}
	return nil
}

func assemble(app *program.Program) ([]byte, error) {
	output := make([]byte, 0, app.Size)

	for _, ins := range app.Instructions {
		if len(output) != ins.Offset {
			return nil, fmt.Errorf("instruction at offset $%04X follows offset $%04X", ins.Offset, len(output))
		}

		data, err := encoder.EncodeInstruction(ins)
		if err != nil {
			return nil, fmt.Errorf("encoding instruction at offset $%04X: %w", ins.Offset, err)
		}
		output = append(output, data...)
	}

	output = append(output, app.Remaining...)
	return output, nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
