// Package writer implements the listing output of decoded programs.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/retroenv/disasm86/internal/instruction"
	"github.com/retroenv/disasm86/internal/program"
)

const dataBytesPerLine = 16

type lineWriterFunc func(line string, byteCount int) error

// Writer writes a decoded program as a listing.
type Writer struct {
	app     *program.Program
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	Dump           bool // dump the decoded data structures instead of a listing
	HexComments    bool
	OffsetComments bool
}

// New creates a new writer.
func New(app *program.Program, writer io.Writer, options Options) *Writer {
	return &Writer{
		app:     app,
		options: options,
		writer:  writer,
	}
}

// Write writes the program to the output.
func (w Writer) Write() error {
	if w.options.Dump {
		return w.writeDump()
	}

	if err := w.WriteCommentHeader(); err != nil {
		return err
	}

	for _, ins := range w.app.Instructions {
		if err := w.writeCodeLine(Code(ins), w.comment(ins.Offset, ins.Bytes)); err != nil {
			return fmt.Errorf("writing code line: %w", err)
		}
	}

	if w.app.Failure != nil {
		return w.writeFailure()
	}
	return nil
}

// WriteCommentHeader writes the source name, size and CRC32 checksum as comments to the output.
func (w Writer) WriteCommentHeader() error {
	if _, err := fmt.Fprintf(w.writer, "; Source: %s\n", w.app.Source); err != nil {
		return fmt.Errorf("writing source name: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Size: %d bytes\n", w.app.Size); err != nil {
		return fmt.Errorf("writing size: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; CRC32 checksum: %08x\n\n", w.app.Checksum); err != nil {
		return fmt.Errorf("writing checksum: %w", err)
	}
	return nil
}

// Code returns the structured representation of an instruction, the tag followed
// by all resolved fields and the displacement or direct address.
func Code(ins instruction.Instruction) string {
	buf := &strings.Builder{}
	buf.WriteString(ins.Tag.String())

	for _, kind := range ins.Kinds() {
		fmt.Fprintf(buf, " %s=%d", kind, ins.Fields[kind])
	}
	if address, ok := ins.DirectAddress(); ok {
		fmt.Fprintf(buf, " ADDR=$%04X", address)
	} else if ins.HasDisplacement() {
		fmt.Fprintf(buf, " DISP=%d", ins.Displacement)
	}
	return buf.String()
}

// BundleDataWrites bundles writes of data bytes to print dataBytesPerLine bytes per line.
func (w Writer) BundleDataWrites(data []byte, lineWriter lineWriterFunc) error {
	remaining := len(data)
	for i := 0; remaining > 0; {
		toWrite := min(remaining, dataBytesPerLine)

		buf := &strings.Builder{}
		buf.WriteString(".byte ")
		for j := range toWrite {
			fmt.Fprintf(buf, "$%02x, ", data[i+j])
		}
		line := strings.TrimRight(buf.String(), ", ")

		if err := lineWriter(line, toWrite); err != nil {
			return fmt.Errorf("writing data line: %w", err)
		}

		i += toWrite
		remaining -= toWrite
	}
	return nil
}

func (w Writer) writeFailure() error {
	failure := w.app.Failure
	if _, err := fmt.Fprintf(w.writer, "\n; decoding stopped at offset $%04X: %s\n", failure.Offset, failure.Err); err != nil {
		return fmt.Errorf("writing failure: %w", err)
	}

	offset := failure.Offset
	lineWriter := func(line string, byteCount int) error {
		var comment string
		if w.options.OffsetComments {
			comment = fmt.Sprintf("$%04X", offset)
		}
		if err := w.writeLine(line, comment); err != nil {
			return err
		}
		offset += byteCount
		return nil
	}

	if err := w.BundleDataWrites(w.app.Remaining, lineWriter); err != nil {
		return fmt.Errorf("writing remaining data: %w", err)
	}
	return nil
}

func (w Writer) writeCodeLine(code, comment string) error {
	return w.writeLine("  "+code, comment)
}

func (w Writer) writeLine(line, comment string) error {
	var err error
	if comment == "" {
		_, err = fmt.Fprintf(w.writer, "%s\n", line)
	} else {
		_, err = fmt.Fprintf(w.writer, "%-48s ; %s\n", line, comment)
	}
	if err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// comment returns the offset and hex byte comment of an instruction.
func (w Writer) comment(offset int, data []byte) string {
	var parts []string
	if w.options.OffsetComments {
		parts = append(parts, fmt.Sprintf("$%04X", offset))
	}
	if w.options.HexComments {
		for _, b := range data {
			parts = append(parts, fmt.Sprintf("%02X", b))
		}
	}
	return strings.Join(parts, " ")
}

func (w Writer) writeDump() error {
	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
		MaxDepth:                4,
	}
	cfg.Fdump(w.writer, w.app)
	return nil
}
